package port

import "context"

// TxManager scopes repository calls into transactions. WithinTx opens
// an outer transaction and carries it on the derived context so that
// participating repositories run inside it. WithinSavepoint runs fn in
// a scope whose failure rolls back only that scope's writes: a
// savepoint when a surrounding transaction is open, otherwise a plain
// transaction of its own. Bulk ingestion relies on the latter — each
// row commits independently, so one bad row never touches its
// siblings and committed rows stay committed.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}
