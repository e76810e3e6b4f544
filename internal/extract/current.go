package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// currentHeaders is the ordered set of section headers found in a "Current
// details" document. Section boundaries are the nearest following header.
var currentHeaders = []string{
	"Entity name",
	"ABN status",
	"Entity type",
	"Goods & Services Tax (GST)",
	"Main business location",
	"Business name(s)",
	"Trading name(s)",
	"ASIC registration",
	"Record extracted",
}

var currentLocationPattern = regexp.MustCompile(`([A-Z]{2,3})\s*(\d{4})`)

// currentExtractor handles the present-tense template: every fact it reports
// is the live value, so every history row it emits is open-ended.
type currentExtractor struct{}

func (e *currentExtractor) Extract(text string, sourceDocID uuid.UUID) (*RecordBundle, error) {
	bundle := &RecordBundle{Type: DocumentTypeCurrent}

	abn := findABN(text)

	entityName := labelValue(text, "Entity name")
	entityType := labelValue(text, "Entity type")

	// "ABN status" reads like "Active from 01 Jan 2020"; the trailing date is
	// both the status period start and the entity's first active date.
	statusValue := labelValue(text, "ABN status")
	var activeFrom string
	if idx := strings.Index(statusValue, "Active from"); idx != -1 {
		activeFrom = strings.TrimSpace(statusValue[idx+len("Active from"):])
	}
	activeFromDate := ParseDate(activeFrom)

	bundle.Entity = Entity{
		ABN:                 abn,
		EntityName:          entityName,
		EntityType:          entityType,
		FirstActiveDate:     activeFromDate,
		ABNLastUpdatedDate:  ParseDate(labelValue(text, "ABN last updated")),
		RecordExtractedDate: ParseDate(labelValue(text, "Record extracted")),
		SourceDocumentID:    sourceDocID,
	}

	// Current documents carry no name history; synthesize the single open row
	// for the live name so downstream consumers see a uniform shape.
	bundle.NameHistory = append(bundle.NameHistory, NameRow{
		ABN:              abn,
		EntityName:       entityName,
		Period:           Period{FromDate: activeFromDate, IsCurrent: true},
		SourceDocumentID: sourceDocID,
	})

	status := statusValue
	if strings.Contains(statusValue, "Active") {
		status = "Active"
	}
	bundle.StatusHistory = append(bundle.StatusHistory, StatusRow{
		ABN:              abn,
		Status:           status,
		Period:           Period{FromDate: activeFromDate, IsCurrent: true},
		SourceDocumentID: sourceDocID,
	})

	if loc := currentLocationPattern.FindStringSubmatch(Section(text, "Main business location", currentHeaders)); loc != nil {
		bundle.LocationHistory = append(bundle.LocationHistory, LocationRow{
			ABN:              abn,
			State:            loc[1],
			Postcode:         loc[2],
			Period:           Period{FromDate: activeFromDate, IsCurrent: true},
			SourceDocumentID: sourceDocID,
		})
	}

	bundle.GSTHistory = e.gstRows(text, abn, sourceDocID)

	for _, row := range e.nameRows(Section(text, "Business name(s)", currentHeaders), "No business names") {
		bundle.BusinessNames = append(bundle.BusinessNames, BusinessNameRow{
			ABN:              abn,
			BusinessName:     row.name,
			FromDate:         row.from,
			SourceDocumentID: sourceDocID,
		})
	}

	for _, row := range e.nameRows(Section(text, "Trading name(s)", currentHeaders), "No trading names") {
		bundle.TradingNames = append(bundle.TradingNames, TradingNameRow{
			ABN:              abn,
			TradingName:      row.name,
			FromDate:         row.from,
			SourceDocumentID: sourceDocID,
		})
	}

	return bundle, nil
}

// gstRows parses the GST section: each "Registered from" line becomes one
// open-ended row. "Not registered" (and an absent section) yields none.
func (e *currentExtractor) gstRows(text, abn string, sourceDocID uuid.UUID) []GSTRow {
	section := Section(text, "Goods & Services Tax (GST)", currentHeaders)
	if section == "" || strings.Contains(section, "Not registered") {
		return nil
	}

	var rows []GSTRow
	for _, line := range strings.Split(section, "\n") {
		idx := strings.Index(line, "Registered from")
		if idx == -1 {
			continue
		}
		status := strings.TrimSpace(line[:idx])
		if status == "" {
			status = "Registered"
		}
		registeredFrom := strings.TrimSpace(line[idx+len("Registered from"):])

		rows = append(rows, GSTRow{
			ABN:              abn,
			GSTStatus:        status,
			Period:           Period{FromDate: ParseDate(registeredFrom), IsCurrent: true},
			SourceDocumentID: sourceDocID,
		})
	}
	return rows
}

type presenceRow struct {
	name string
	from *time.Time
}

// nameRows parses a business/trading name section: each line of the form
// "<name> DD Mon YYYY" is a presence record. The emptyMarker text means the
// section is explicitly empty.
func (e *currentExtractor) nameRows(section, emptyMarker string) []presenceRow {
	if section == "" || strings.Contains(section, emptyMarker) {
		return nil
	}

	var rows []presenceRow
	for _, line := range strings.Split(section, "\n") {
		m := datedNamePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, presenceRow{
			name: strings.TrimSpace(m[1]),
			from: ParseDate(m[2]),
		})
	}
	return rows
}
