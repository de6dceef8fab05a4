package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cotsync/internal/application/port"
	"cotsync/internal/domain"
)

// Status classifies the outcome of one instrument in one cycle.
type Status string

const (
	StatusInserted    Status = "inserted"     // new reporting period appended
	StatusUpdated     Status = "updated"      // existing period overwritten
	StatusNoData      Status = "no_data"      // provider has no report for the code
	StatusFetchFailed Status = "fetch_failed" // HTTP/network/decode fault
	StatusStoreFailed Status = "store_failed" // series store fault
)

// InstrumentResult is the per-instrument outcome of a cycle.
type InstrumentResult struct {
	Instrument domain.Instrument
	Status     Status
	Report     *domain.Report // nil unless inserted or updated
	Row        int
	Err        error
}

// CycleResult collects one full pass over the registry.
type CycleResult struct {
	ID      uuid.UUID
	Started time.Time
	Results []InstrumentResult
}

// Synced counts instruments that landed a report this cycle.
func (c CycleResult) Synced() int {
	n := 0
	for _, r := range c.Results {
		if r.Status == StatusInserted || r.Status == StatusUpdated {
			n++
		}
	}
	return n
}

// Failed counts instruments that faulted this cycle.
func (c CycleResult) Failed() int {
	n := 0
	for _, r := range c.Results {
		if r.Status == StatusFetchFailed || r.Status == StatusStoreFailed {
			n++
		}
	}
	return n
}

// SyncerDeps wires a Syncer. Registry, Fetcher and Reconciler are required;
// Publisher and Sink may be nil.
type SyncerDeps struct {
	Registry   *domain.Registry
	Fetcher    port.ReportFetcher
	Reconciler *Reconciler
	Publisher  port.ReportPublisher
	Sink       port.CycleSink

	FetchDelay time.Duration // politeness delay between instruments
	Interval   time.Duration // cycle interval for Run
}

// Syncer drives the fetch → normalize → reconcile pipeline over the
// instrument registry. Strictly sequential: the provider and the store are
// both rate-sensitive, and per-instrument write ordering must hold.
type Syncer struct {
	deps SyncerDeps
	fmt  *Formatter
	now  func() time.Time
}

func NewSyncer(deps SyncerDeps) *Syncer {
	return &Syncer{
		deps: deps,
		fmt:  NewFormatter(),
		now:  time.Now,
	}
}

// Registry returns the instrument registry this syncer iterates.
func (s *Syncer) Registry() *domain.Registry { return s.deps.Registry }

// Run executes a cycle immediately, then on every interval tick until ctx is
// done.
func (s *Syncer) Run(ctx context.Context) error {
	if s.deps.Interval <= 0 {
		return errors.New("syncer interval not set")
	}

	s.RunCycle(ctx)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle runs one pass over the registry. A fault in one instrument never
// aborts the rest; every instrument gets an attempt.
func (s *Syncer) RunCycle(ctx context.Context) CycleResult {
	cycle := CycleResult{ID: uuid.New(), Started: s.now()}
	instruments := s.deps.Registry.Instruments()

	log.Info().
		Stringer("cycle_id", cycle.ID).
		Int("instruments", len(instruments)).
		Msg("sync cycle started")

	for i, inst := range instruments {
		res := s.syncOne(ctx, cycle.ID, inst)
		cycle.Results = append(cycle.Results, res)

		// fixed delay between instruments regardless of outcome
		if i < len(instruments)-1 && s.deps.FetchDelay > 0 {
			select {
			case <-ctx.Done():
				log.Warn().Stringer("cycle_id", cycle.ID).Msg("sync cycle cancelled")
				return cycle
			case <-time.After(s.deps.FetchDelay):
			}
		}
	}

	log.Info().
		Stringer("cycle_id", cycle.ID).
		Int("synced", cycle.Synced()).
		Int("failed", cycle.Failed()).
		Dur("duration", s.now().Sub(cycle.Started)).
		Msg("sync cycle complete")

	if s.deps.Sink != nil {
		_ = s.deps.Sink.WriteSummary(s.now(), s.fmt.RenderCycle(cycle))
	}

	return cycle
}

// syncOne handles a single instrument: fetch, normalize, reconcile, publish.
func (s *Syncer) syncOne(ctx context.Context, cycleID uuid.UUID, inst domain.Instrument) (res InstrumentResult) {
	res = InstrumentResult{Instrument: inst}

	// an unexpected panic fails this instrument only, never the cycle
	defer func() {
		if rec := recover(); rec != nil {
			res.Status = StatusStoreFailed
			res.Err = fmt.Errorf("panic: %v", rec)
			log.Error().
				Stringer("cycle_id", cycleID).
				Str("instrument", inst.Name).
				Interface("panic", rec).
				Msg("instrument sync panicked")
		}
	}()

	raw, err := s.deps.Fetcher.FetchLatest(ctx, inst.Code)
	if err != nil {
		if errors.Is(err, port.ErrNoData) {
			res.Status = StatusNoData
			log.Info().
				Stringer("cycle_id", cycleID).
				Str("instrument", inst.Name).
				Str("code", inst.Code).
				Msg("no report available")
			return res
		}
		res.Status = StatusFetchFailed
		res.Err = err
		log.Warn().
			Stringer("cycle_id", cycleID).
			Str("instrument", inst.Name).
			Str("code", inst.Code).
			Err(err).
			Msg("fetch failed")
		return res
	}

	rep := domain.Normalize(*raw, s.now())
	if rep.DateGuessed {
		// distinct from a normal parse: the record is dated to the run
		// date, which may mis-date it under provider format drift
		log.Warn().
			Stringer("cycle_id", cycleID).
			Str("instrument", inst.Name).
			Str("raw_timestamp", raw.ReportDate).
			Str("assumed_date", rep.DateKey).
			Msg("report timestamp unparseable, dated to run date")
	}

	out, err := s.deps.Reconciler.Reconcile(ctx, inst.Name, rep)
	if err != nil {
		res.Status = StatusStoreFailed
		res.Err = err
		log.Error().
			Stringer("cycle_id", cycleID).
			Str("instrument", inst.Name).
			Err(err).
			Msg("reconcile failed")
		return res
	}

	res.Report = &rep
	res.Row = out.Row
	if out.Updated {
		res.Status = StatusUpdated
	} else {
		res.Status = StatusInserted
	}

	log.Info().
		Stringer("cycle_id", cycleID).
		Str("instrument", inst.Name).
		Str("report_date", rep.DateKey).
		Int("row", out.Row).
		Bool("updated", out.Updated).
		Int64("net_noncomm", rep.NetNonCommercial).
		Float64("net_position_pct", rep.NetPositionPct).
		Msg("report reconciled")

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(ctx, inst.Name, rep, out.Updated); err != nil {
			log.Warn().
				Stringer("cycle_id", cycleID).
				Str("instrument", inst.Name).
				Err(err).
				Msg("publish failed")
		}
	}

	return res
}
