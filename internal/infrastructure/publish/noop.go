package publish

import (
	"context"

	"cotsync/internal/application/port"
	"cotsync/internal/domain"
)

type noopPublisher struct{}

// NewNoop returns a publisher that discards everything. Used when redis is
// disabled by config.
func NewNoop() port.ReportPublisher { return noopPublisher{} }

func (noopPublisher) Publish(ctx context.Context, instrument string, rep domain.Report, updated bool) error {
	return nil
}
