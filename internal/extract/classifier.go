package extract

import (
	"errors"
	"strings"
)

// ErrUnrecognizedDocument is returned when a text stream carries neither of
// the two known ABR document markers. It is fatal for that document and is
// caught at the ingestion boundary, never inside the engine.
var ErrUnrecognizedDocument = errors.New("unrecognized ABR document type")

const (
	markerCurrent    = "Current details for ABN"
	markerHistorical = "Historical details for ABN"
)

// Classify inspects extracted document text and assigns a document variant.
// Presence of a marker decides, not its position.
func Classify(text string) (DocumentType, error) {
	switch {
	case strings.Contains(text, markerCurrent):
		return DocumentTypeCurrent, nil
	case strings.Contains(text, markerHistorical):
		return DocumentTypeHistorical, nil
	default:
		return "", ErrUnrecognizedDocument
	}
}
