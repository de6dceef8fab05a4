package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateKeyFormat is the canonical form of a reporting period and the join key
// used when reconciling a report into an instrument's series.
const DateKeyFormat = "2006-01-02"

// RawReport is a single positioning record as returned by the provider API.
// All counts arrive string-encoded.
type RawReport struct {
	Code               string `json:"cot_code"`
	ReportDate         string `json:"report_date"`
	NonCommercialLong  string `json:"noncomm_long"`
	NonCommercialShort string `json:"noncomm_short"`
	CommercialLong     string `json:"comm_long"`
	CommercialShort    string `json:"comm_short"`
	OpenInterest       string `json:"open_interest"`
}

// Report is the canonical positioning record for one instrument and one
// reporting period, with derived net-position metrics filled in.
type Report struct {
	Date    time.Time // reporting period, midnight UTC
	DateKey string    // Date in DateKeyFormat

	// DateGuessed marks records whose provider timestamp did not carry a
	// parseable calendar date. The record is dated to the run date instead
	// of being dropped; callers should log such records distinctly.
	DateGuessed bool

	NonCommercialLong  int64
	NonCommercialShort int64
	CommercialLong     int64
	CommercialShort    int64
	OpenInterest       int64

	NetNonCommercial int64
	NetCommercial    int64
	NetPositionPct   float64 // NetNonCommercial / OpenInterest, 0 when OpenInterest is 0
}

// SeriesHeader is the fixed column layout of an instrument series.
var SeriesHeader = []string{
	"Date",
	"NonComm Long",
	"NonComm Short",
	"Comm Long",
	"Comm Short",
	"Open Interest",
	"Net NonComm",
	"Net Comm",
	"Net Position %",
}

// Normalize converts a raw provider record into a canonical Report.
//
// The reporting period is the leading YYYY-MM-DD of the raw timestamp; any
// time-of-day or zone suffix is ignored. A timestamp without a leading
// calendar date falls back to now's date with DateGuessed set. Count fields
// that are missing or unparseable coerce to 0 rather than failing the record.
func Normalize(raw RawReport, now time.Time) Report {
	r := Report{
		NonCommercialLong:  parseCount(raw.NonCommercialLong),
		NonCommercialShort: parseCount(raw.NonCommercialShort),
		CommercialLong:     parseCount(raw.CommercialLong),
		CommercialShort:    parseCount(raw.CommercialShort),
		OpenInterest:       parseCount(raw.OpenInterest),
	}

	r.Date, r.DateGuessed = extractDate(raw.ReportDate, now)
	r.DateKey = r.Date.Format(DateKeyFormat)

	r.NetNonCommercial = r.NonCommercialLong - r.NonCommercialShort
	r.NetCommercial = r.CommercialLong - r.CommercialShort
	if r.OpenInterest != 0 {
		r.NetPositionPct = float64(r.NetNonCommercial) / float64(r.OpenInterest)
	}

	return r
}

// Fields renders the report as the 9 series columns, in SeriesHeader order.
func (r Report) Fields() []string {
	return []string{
		r.DateKey,
		strconv.FormatInt(r.NonCommercialLong, 10),
		strconv.FormatInt(r.NonCommercialShort, 10),
		strconv.FormatInt(r.CommercialLong, 10),
		strconv.FormatInt(r.CommercialShort, 10),
		strconv.FormatInt(r.OpenInterest, 10),
		strconv.FormatInt(r.NetNonCommercial, 10),
		strconv.FormatInt(r.NetCommercial, 10),
		strconv.FormatFloat(r.NetPositionPct, 'f', -1, 64),
	}
}

// extractDate pulls the calendar date off the front of a provider timestamp
// ("2024-01-05", "2024-01-05T00:00:00Z", "2024-01-05 00:00:00"). The second
// return reports whether the fallback date was used.
func extractDate(ts string, now time.Time) (time.Time, bool) {
	if len(ts) >= len(DateKeyFormat) {
		if d, err := time.ParseInLocation(DateKeyFormat, ts[:len(DateKeyFormat)], time.UTC); err == nil {
			return d, false
		}
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// parseCount coerces a provider count field to int64, defaulting to 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
