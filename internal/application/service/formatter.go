package service

import (
	"fmt"
	"strings"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

func colorize(s, c string) string { return c + s + ansiReset }

// Formatter renders cycle results for the console sink.
type Formatter struct{}

func NewFormatter() *Formatter { return &Formatter{} }

// RenderCycle renders one line per instrument plus a totals line.
func (f *Formatter) RenderCycle(cycle CycleResult) string {
	var sb strings.Builder

	sb.WriteString(colorize(fmt.Sprintf("[COTSYNC] cycle %s", cycle.ID), ansiDim))
	sb.WriteString("\n")

	for _, res := range cycle.Results {
		sb.WriteString(f.renderResult(res))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("synced %d / %d, failed %d",
		cycle.Synced(), len(cycle.Results), cycle.Failed()))
	return sb.String()
}

func (f *Formatter) renderResult(res InstrumentResult) string {
	name := fmt.Sprintf("%-12s", res.Instrument.DisplayName)

	switch res.Status {
	case StatusInserted, StatusUpdated:
		rep := res.Report
		verb := "new"
		if res.Status == StatusUpdated {
			verb = "upd"
		}
		return fmt.Sprintf("%s %s  OI %s  netNC %s (%s)  %s",
			name,
			rep.DateKey,
			GroupThousands(rep.OpenInterest),
			signedThousands(rep.NetNonCommercial),
			FormatPct(rep.NetPositionPct),
			colorize(verb, ansiGreen),
		)
	case StatusNoData:
		return fmt.Sprintf("%s %s", name, colorize("no data", ansiYellow))
	default:
		return fmt.Sprintf("%s %s: %v", name, colorize(string(res.Status), ansiRed), res.Err)
	}
}

// GroupThousands renders n with comma thousands separators.
func GroupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func signedThousands(n int64) string {
	if n > 0 {
		return "+" + GroupThousands(n)
	}
	return GroupThousands(n)
}

// FormatPct renders a ratio as a percentage with two decimals.
func FormatPct(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
