package port

import (
	"context"
	"time"

	"cotsync/internal/domain"
)

// ReportPublisher fans a reconciled report out to downstream consumers.
// Publishing is best-effort: a publish failure never fails the cycle.
type ReportPublisher interface {
	Publish(ctx context.Context, instrument string, rep domain.Report, updated bool) error
}

// CycleSink receives the human-readable summary of a completed sync cycle.
type CycleSink interface {
	WriteSummary(ts time.Time, summary string) error
}
