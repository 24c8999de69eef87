package ports

import "context"

// Sheet is the tabular data store holding the job rows.
// Rows come back top-to-bottom, header first; trailing empty cells may be
// omitted so a row can be shorter than the header.
type Sheet interface {
	ReadRows(ctx context.Context) ([][]string, error)

	// WriteCell writes value at a 1-based row and 0-based column.
	WriteCell(ctx context.Context, row, col int, value string) error
}
