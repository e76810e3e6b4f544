package extract

import "strings"

// Section locates the span of text belonging to header: it starts immediately
// after the first occurrence of header and ends at the nearest following
// occurrence of any of the known headers (or end of text). Returns "" when
// the header is absent; callers treat that as "no data", never as an error.
func Section(text, header string, headers []string) string {
	start := strings.Index(text, header)
	if start == -1 {
		return ""
	}

	// A repeated occurrence of the header itself also terminates the span,
	// so the header list is scanned as-is.
	bodyStart := start + len(header)
	end := len(text)
	for _, h := range headers {
		if pos := strings.Index(text[bodyStart:], h); pos != -1 && bodyStart+pos < end {
			end = bodyStart + pos
		}
	}

	return strings.TrimSpace(text[bodyStart:end])
}
