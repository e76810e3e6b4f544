package extract

import (
	"strings"
	"time"
)

// dateLayout is the fixed ABR date format, e.g. "05 Jan 2026".
const dateLayout = "02 Jan 2006"

// ParseDate parses an ABR date string. Empty strings, the literal "none" and
// the "(current)" marker, and anything that fails the fixed DD Mon YYYY
// format all parse to nil. Lenient degradation is deliberate: a bad date
// must never abort extraction of the rest of the document.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "(current)":
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// NormalizeHistory converts the raw from/to text of a history line into a
// canonical Period. A row is current iff the to-text is empty, "none" in any
// case, or contains the literal "(current)" marker; otherwise the to-text is
// parsed (nil when unparsable) and the row is closed.
func NormalizeHistory(fromText, toText string) Period {
	to := strings.ToLower(strings.TrimSpace(toText))
	isCurrent := to == "" || to == "none" || strings.Contains(to, "(current)")

	p := Period{
		FromDate:  ParseDate(fromText),
		IsCurrent: isCurrent,
	}
	if !isCurrent {
		p.ToDate = ParseDate(toText)
	}
	return p
}
