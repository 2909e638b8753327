package domain

// InvoiceType distinguishes platform-issued invoices from invoices a
// user issues under their own registered business identity.
type InvoiceType string

const (
	InvoiceTypeTopmate InvoiceType = "topmate"
	InvoiceTypeUser    InvoiceType = "user"
)

// Valid reports whether t is a known invoice type.
func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeTopmate || t == InvoiceTypeUser
}

// SequenceType partitions the invoice number counter space. The
// topmate sequence is global; user sequences are keyed per user.
type SequenceType string

const (
	SequenceTypeTopmate SequenceType = "topmate"
	SequenceTypeUser    SequenceType = "user"
)

// SequenceTypeFor returns the counter partition for an invoice type.
func SequenceTypeFor(t InvoiceType) SequenceType {
	if t == InvoiceTypeTopmate {
		return SequenceTypeTopmate
	}
	return SequenceTypeUser
}
