package port

import (
	"context"
	"errors"
)

// ErrSheetMissing is returned by store reads and writes against a series that
// was never created.
var ErrSheetMissing = errors.New("series sheet does not exist")

// SeriesStore is the row store one instrument series lives in. Rows are
// ordered slices of cell strings; row 0 is the header. Backends may be an
// embedded database, a server database, or an in-memory table — the
// reconciler does not care.
type SeriesStore interface {
	// Exists reports whether the named sheet has been created.
	Exists(ctx context.Context, sheet string) (bool, error)

	// Create creates the named sheet and writes its header row. Creating an
	// existing sheet overwrites only the header.
	Create(ctx context.Context, sheet string, header []string) error

	// ReadColumn returns column col of every row in index order, header
	// included.
	ReadColumn(ctx context.Context, sheet string, col int) ([]string, error)

	// WriteRow writes the cells of row idx, replacing any existing row there.
	WriteRow(ctx context.Context, sheet string, idx int, cells []string) error

	// RowCount returns the number of rows, header included.
	RowCount(ctx context.Context, sheet string) (int, error)

	// StyleRow applies presentation formatting to row idx. Cosmetic and
	// best-effort: backends without a presentation surface no-op, callers
	// ignore the error.
	StyleRow(ctx context.Context, sheet string, idx int) error

	Close() error
}
