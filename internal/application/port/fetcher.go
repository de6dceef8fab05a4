package port

import (
	"context"
	"errors"

	"cotsync/internal/domain"
)

// ErrNoData means the provider answered successfully but has no report for
// the requested code. Not a fault — many instruments legitimately lack
// current data.
var ErrNoData = errors.New("no report data available")

// ReportFetcher fetches the most recent positioning report for one provider
// code. Implementations do not retry; the syncer owns continuation policy.
type ReportFetcher interface {
	FetchLatest(ctx context.Context, providerCode string) (*domain.RawReport, error)
}
