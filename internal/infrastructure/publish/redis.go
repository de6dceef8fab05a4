package publish

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cotsync/internal/application/port"
	"cotsync/internal/domain"
)

// RedisPublisher fans reconciled reports out to Redis: a stream entry per
// reconciliation plus a latest-report hash keyed by instrument.
type RedisPublisher struct {
	rdb       *redis.Client
	stream    string
	keyLatest string // prefix + ":latest"
}

// reportEvent is the wire form of a published reconciliation.
type reportEvent struct {
	Instrument       string  `json:"instrument"`
	ReportDate       string  `json:"report_date"`
	NonCommLong      int64   `json:"noncomm_long"`
	NonCommShort     int64   `json:"noncomm_short"`
	CommLong         int64   `json:"comm_long"`
	CommShort        int64   `json:"comm_short"`
	OpenInterest     int64   `json:"open_interest"`
	NetNonCommercial int64   `json:"net_noncomm"`
	NetCommercial    int64   `json:"net_comm"`
	NetPositionPct   float64 `json:"net_position_pct"`
	Updated          bool    `json:"updated"`
	TsMs             int64   `json:"ts_ms"`
}

func NewRedis(rdb *redis.Client, prefix, stream string) *RedisPublisher {
	if strings.TrimSpace(stream) == "" {
		stream = prefix + ":reports"
	}
	return &RedisPublisher{
		rdb:       rdb,
		stream:    stream,
		keyLatest: prefix + ":latest",
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, instrument string, rep domain.Report, updated bool) error {
	ev := reportEvent{
		Instrument:       instrument,
		ReportDate:       rep.DateKey,
		NonCommLong:      rep.NonCommercialLong,
		NonCommShort:     rep.NonCommercialShort,
		CommLong:         rep.CommercialLong,
		CommShort:        rep.CommercialShort,
		OpenInterest:     rep.OpenInterest,
		NetNonCommercial: rep.NetNonCommercial,
		NetCommercial:    rep.NetCommercial,
		NetPositionPct:   rep.NetPositionPct,
		Updated:          updated,
		TsMs:             time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(ev)

	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, p.keyLatest, instrument, string(b))
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"instrument":  instrument,
			"report_date": rep.DateKey,
			"updated":     updated,
			"payload":     string(b),
		},
	})
	_, err := pipe.Exec(ctx)
	return err
}

var _ port.ReportPublisher = (*RedisPublisher)(nil)
