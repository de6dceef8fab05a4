package memory

import (
	"context"

	"cotsync/internal/application/port"
)

// Store keeps series rows in process memory. Used by tests and dry runs.
type Store struct {
	sheets map[string][][]string
	styled map[string][]int // rows StyleRow was called for, per sheet
}

func New() *Store {
	return &Store{
		sheets: make(map[string][][]string),
		styled: make(map[string][]int),
	}
}

func (s *Store) Exists(ctx context.Context, sheet string) (bool, error) {
	_, ok := s.sheets[sheet]
	return ok, nil
}

func (s *Store) Create(ctx context.Context, sheet string, header []string) error {
	if rows, ok := s.sheets[sheet]; ok && len(rows) > 0 {
		rows[0] = append([]string(nil), header...)
		return nil
	}
	s.sheets[sheet] = [][]string{append([]string(nil), header...)}
	return nil
}

func (s *Store) ReadColumn(ctx context.Context, sheet string, col int) ([]string, error) {
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, port.ErrSheetMissing
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			out = append(out, row[col])
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

func (s *Store) WriteRow(ctx context.Context, sheet string, idx int, cells []string) error {
	rows, ok := s.sheets[sheet]
	if !ok {
		return port.ErrSheetMissing
	}
	for len(rows) <= idx {
		rows = append(rows, nil)
	}
	rows[idx] = append([]string(nil), cells...)
	s.sheets[sheet] = rows
	return nil
}

func (s *Store) RowCount(ctx context.Context, sheet string) (int, error) {
	rows, ok := s.sheets[sheet]
	if !ok {
		return 0, port.ErrSheetMissing
	}
	return len(rows), nil
}

func (s *Store) StyleRow(ctx context.Context, sheet string, idx int) error {
	s.styled[sheet] = append(s.styled[sheet], idx)
	return nil
}

// StyledRows returns the rows StyleRow was called for, in call order.
func (s *Store) StyledRows(sheet string) []int {
	return s.styled[sheet]
}

// Rows returns a copy of all rows of a sheet, header first.
func (s *Store) Rows(sheet string) [][]string {
	rows := s.sheets[sheet]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (s *Store) Close() error { return nil }

var _ port.SeriesStore = (*Store)(nil)
