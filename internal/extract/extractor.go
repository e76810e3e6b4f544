package extract

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// RowExtractor turns the text of a classified document into a record bundle.
// The two ABR templates get one implementation each, selected once by the
// classifier; everything downstream is variant-agnostic.
type RowExtractor interface {
	Extract(text string, sourceDocID uuid.UUID) (*RecordBundle, error)
}

// ForType returns the row extractor for a document variant.
func ForType(t DocumentType) RowExtractor {
	if t == DocumentTypeHistorical {
		return &historicalExtractor{}
	}
	return &currentExtractor{}
}

// Parse classifies text and runs the matching extractor in one step.
func Parse(text string, sourceDocID uuid.UUID) (*RecordBundle, error) {
	docType, err := Classify(text)
	if err != nil {
		return nil, err
	}
	return ForType(docType).Extract(text, sourceDocID)
}

// Patterns shared by both variants.
var (
	// ABN digits are grouped 2-3-3-3 with arbitrary internal whitespace.
	abnPattern = regexp.MustCompile(`details for ABN\s*(\d{2}\s*\d{3}\s*\d{3}\s*\d{3})`)

	// A date token in running text: DD Mon YYYY.
	datedNamePattern = regexp.MustCompile(`(.*)\s+(\d{2}\s+[A-Z][a-z]{2}\s+\d{4})`)

	labelPatterns = map[string]*regexp.Regexp{}
)

func init() {
	for _, label := range []string{
		"Record extracted",
		"ABN last updated",
		"Entity name",
		"ABN status",
		"Entity type",
	} {
		labelPatterns[label] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:?\s*(.*)`)
	}
}

// findABN extracts the 11-digit identifier following the document marker,
// internal whitespace stripped.
func findABN(text string) string {
	m := abnPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), "")
}

// labelValue returns the rest of the first line following a known label,
// trimmed. Handles both "Label: Value" and "Label Value".
func labelValue(text, label string) string {
	re, ok := labelPatterns[label]
	if !ok {
		re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:?\s*(.*)`)
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(m[1], "\n", 2)[0])
}
