package console

import (
	"fmt"
	"time"

	"cotsync/internal/application/port"
)

type Sink struct{}

func NewSink() port.CycleSink { return &Sink{} }

func (s *Sink) WriteSummary(ts time.Time, summary string) error {
	fmt.Printf("\n%s\n%s\n\n", ts.Format("2006-01-02 15:04:05"), summary)
	return nil
}
