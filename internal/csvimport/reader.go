// Package csvimport parses bulk invoice uploads: a UTF-8 CSV with a
// required header row and ten named columns. Header problems reject
// the whole upload; everything row-level is reported per row so one
// bad row never aborts the batch.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// RequiredColumns is the full required column set. Extra columns are
// ignored; missing ones reject the upload before any row is parsed.
var RequiredColumns = []string{
	"receiver_name",
	"receiver_address",
	"pincode",
	"phone",
	"email",
	"gstin",
	"product_descriptions",
	"hsn_sac_codes",
	"quantities",
	"total_values",
}

// RawRow is one data row keyed by normalized column name. Number is
// 1-based over data rows; the header row is not counted.
type RawRow struct {
	Number int
	Fields map[string]string
}

var bom = []byte{0xEF, 0xBB, 0xBF}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	lead, err := br.Peek(len(bom))
	if err == nil && string(lead) == string(bom) {
		br.Discard(len(bom))
	}
	return br
}

// ReadAll parses the upload, validates the header and returns the
// data rows in input order. Column names are matched case- and
// whitespace-insensitively.
func ReadAll(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty; a header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		columns[i] = normalized
		seen[normalized] = true
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !seen[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing csv columns: %s", strings.Join(missing, ", "))
	}

	var rows []RawRow
	for number := 1; ; number++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", number, err)
		}
		fields := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(record) {
				fields[column] = strings.TrimSpace(record[i])
			} else {
				fields[column] = ""
			}
		}
		rows = append(rows, RawRow{Number: number, Fields: fields})
	}
	return rows, nil
}
