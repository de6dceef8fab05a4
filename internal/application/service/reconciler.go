package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"cotsync/internal/application/port"
	"cotsync/internal/domain"
)

// Outcome describes where a report landed in its series.
type Outcome struct {
	Row     int  // row index the report was written to (0 is the header)
	Updated bool // true if an existing row for the same date was overwritten
}

// Reconciler merges canonical reports into per-instrument series, keeping
// each series free of duplicate reporting periods.
type Reconciler struct {
	store port.SeriesStore
}

func NewReconciler(store port.SeriesStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile writes rep into the named sheet. A row whose date column equals
// the report's date key is overwritten in place (last fetch for a period
// wins); otherwise the report is appended after the last row. The sheet and
// its header are created on first use.
//
// Row order reflects arrival order: corrections arriving out of order update
// in place and never reorder existing rows.
func (r *Reconciler) Reconcile(ctx context.Context, sheet string, rep domain.Report) (Outcome, error) {
	exists, err := r.store.Exists(ctx, sheet)
	if err != nil {
		return Outcome{}, fmt.Errorf("check sheet %q: %w", sheet, err)
	}
	if !exists {
		if err := r.store.Create(ctx, sheet, domain.SeriesHeader); err != nil {
			return Outcome{}, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		log.Info().Str("sheet", sheet).Msg("series created")
	}

	dates, err := r.store.ReadColumn(ctx, sheet, 0)
	if err != nil {
		return Outcome{}, fmt.Errorf("read date column of %q: %w", sheet, err)
	}

	out := Outcome{Row: len(dates)} // default: append after last row
	for i, d := range dates {
		if i == 0 {
			continue // header
		}
		if d == rep.DateKey {
			out = Outcome{Row: i, Updated: true}
			break
		}
	}

	if err := r.store.WriteRow(ctx, sheet, out.Row, rep.Fields()); err != nil {
		return Outcome{}, fmt.Errorf("write row %d of %q: %w", out.Row, sheet, err)
	}

	// cosmetic; failures here never fail the reconciliation
	if err := r.store.StyleRow(ctx, sheet, out.Row); err != nil {
		log.Debug().Err(err).Str("sheet", sheet).Int("row", out.Row).Msg("style row failed")
	}

	return out, nil
}
