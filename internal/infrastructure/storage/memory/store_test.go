package memory

import (
	"context"
	"errors"
	"testing"

	"cotsync/internal/application/port"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	ok, err := s.Exists(ctx, "GOLD")
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false, nil", ok, err)
	}

	if _, err := s.ReadColumn(ctx, "GOLD", 0); !errors.Is(err, port.ErrSheetMissing) {
		t.Errorf("ReadColumn on missing sheet: err = %v, want ErrSheetMissing", err)
	}
	if err := s.WriteRow(ctx, "GOLD", 1, []string{"x"}); !errors.Is(err, port.ErrSheetMissing) {
		t.Errorf("WriteRow on missing sheet: err = %v, want ErrSheetMissing", err)
	}

	if err := s.Create(ctx, "GOLD", []string{"Date", "Value"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ok, _ = s.Exists(ctx, "GOLD")
	if !ok {
		t.Fatal("sheet missing after Create")
	}

	if err := s.WriteRow(ctx, "GOLD", 1, []string{"2024-01-05", "7"}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}

	n, err := s.RowCount(ctx, "GOLD")
	if err != nil || n != 2 {
		t.Errorf("RowCount = %d, %v; want 2, nil", n, err)
	}

	col, err := s.ReadColumn(ctx, "GOLD", 0)
	if err != nil {
		t.Fatalf("ReadColumn failed: %v", err)
	}
	if len(col) != 2 || col[0] != "Date" || col[1] != "2024-01-05" {
		t.Errorf("column = %v, want [Date 2024-01-05]", col)
	}
}

func TestMemoryStoreOverwriteRow(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Create(ctx, "GOLD", []string{"Date"})
	s.WriteRow(ctx, "GOLD", 1, []string{"old"})
	s.WriteRow(ctx, "GOLD", 1, []string{"new"})

	col, _ := s.ReadColumn(ctx, "GOLD", 0)
	if len(col) != 2 || col[1] != "new" {
		t.Errorf("column = %v, want overwrite in place", col)
	}
}

func TestMemoryStoreShortRowPadsColumn(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Create(ctx, "GOLD", []string{"Date", "Value"})
	s.WriteRow(ctx, "GOLD", 1, []string{"2024-01-05"}) // no second cell

	col, _ := s.ReadColumn(ctx, "GOLD", 1)
	if len(col) != 2 || col[1] != "" {
		t.Errorf("column = %v, want blank cell for short row", col)
	}
}
