package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// historicalHeaders includes both GST spellings seen in the wild plus the
// boilerplate sections that terminate the last real section.
var historicalHeaders = []string{
	"Entity name",
	"ABN Status",
	"Entity type",
	"Main business location",
	"Good & Services Tax (GST)",
	"Goods & Services Tax (GST)",
	"Trading name(s)",
	"Business name(s)",
	"ASIC registration",
	"Record extracted",
	"Disclaimer",
	"Warning Statement",
}

var (
	// "<label> DD Mon YYYY [DD Mon YYYY | (current)]"
	historyLinePattern = regexp.MustCompile(`^(.+?)\s+(\d{2}\s+[A-Z][a-z]{2}\s+\d{4})\s*(.*)$`)
	// "STATE POSTCODE DD Mon YYYY [...]"
	locationLinePattern = regexp.MustCompile(`^([A-Z]{2,3})\s+(\d{4})\s+(\d{2}\s+[A-Z][a-z]{2}\s+\d{4})\s*(.*)$`)
	asicPattern         = regexp.MustCompile(`([A-Z]{3})\s+([\d\s]+)`)
)

// historicalExtractor handles the timeline template: each section is a table
// of "From To" rows, and the entity-level facts are derived from the rows.
type historicalExtractor struct{}

func (e *historicalExtractor) Extract(text string, sourceDocID uuid.UUID) (*RecordBundle, error) {
	bundle := &RecordBundle{Type: DocumentTypeHistorical}

	abn := findABN(text)

	var firstEntityName string
	for _, line := range historyLines(Section(text, "Entity name", historicalHeaders)) {
		m := historyLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if firstEntityName == "" {
			firstEntityName = name
		}
		bundle.NameHistory = append(bundle.NameHistory, NameRow{
			ABN:              abn,
			EntityName:       name,
			Period:           NormalizeHistory(m[2], m[3]),
			SourceDocumentID: sourceDocID,
		})
	}

	var earliestActive *time.Time
	for _, line := range historyLines(Section(text, "ABN Status", historicalHeaders)) {
		m := historyLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		status := strings.TrimSpace(m[1])
		period := NormalizeHistory(m[2], m[3])
		bundle.StatusHistory = append(bundle.StatusHistory, StatusRow{
			ABN:              abn,
			Status:           status,
			Period:           period,
			SourceDocumentID: sourceDocID,
		})
		if strings.EqualFold(status, "active") && period.FromDate != nil {
			if earliestActive == nil || period.FromDate.Before(*earliestActive) {
				earliestActive = period.FromDate
			}
		}
	}

	for _, line := range historyLines(Section(text, "Main business location", historicalHeaders)) {
		m := locationLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		bundle.LocationHistory = append(bundle.LocationHistory, LocationRow{
			ABN:              abn,
			State:            m[1],
			Postcode:         m[2],
			Period:           NormalizeHistory(m[3], m[4]),
			SourceDocumentID: sourceDocID,
		})
	}

	bundle.GSTHistory = e.gstRows(text, abn, sourceDocID)
	bundle.TradingNames = e.tradingNameRows(text, abn, sourceDocID)

	if asicSection := Section(text, "ASIC registration", historicalHeaders); asicSection != "" {
		if m := asicPattern.FindStringSubmatch(asicSection); m != nil {
			bundle.ASICRegistrations = append(bundle.ASICRegistrations, ASICRow{
				ABN:              abn,
				ASICNumber:       strings.Join(strings.Fields(m[2]), ""),
				ASICType:         m[1],
				SourceDocumentID: sourceDocID,
			})
		}
	}

	bundle.Entity = Entity{
		ABN:                 abn,
		EntityName:          firstEntityName,
		EntityType:          labelValue(text, "Entity type"),
		FirstActiveDate:     earliestActive,
		ABNLastUpdatedDate:  ParseDate(labelValue(text, "ABN last updated")),
		RecordExtractedDate: ParseDate(labelValue(text, "Record extracted")),
		SourceDocumentID:    sourceDocID,
	}

	return bundle, nil
}

// gstRows tries the misspelled header first because that is what the template
// actually prints; the corrected spelling is a fallback.
func (e *historicalExtractor) gstRows(text, abn string, sourceDocID uuid.UUID) []GSTRow {
	section := Section(text, "Good & Services Tax (GST)", historicalHeaders)
	if section == "" {
		section = Section(text, "Goods & Services Tax (GST)", historicalHeaders)
	}
	if section == "" || strings.Contains(section, "No current or historical GST") {
		return nil
	}

	var rows []GSTRow
	for _, line := range historyLines(section) {
		m := historyLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, GSTRow{
			ABN:              abn,
			GSTStatus:        strings.TrimSpace(m[1]),
			Period:           NormalizeHistory(m[2], m[3]),
			SourceDocumentID: sourceDocID,
		})
	}
	return rows
}

func (e *historicalExtractor) tradingNameRows(text, abn string, sourceDocID uuid.UUID) []TradingNameRow {
	section := Section(text, "Trading name(s)", historicalHeaders)
	if section == "" || strings.Contains(section, "stopped collecting") {
		return nil
	}

	var rows []TradingNameRow
	for _, line := range historyLines(section) {
		if strings.Contains(line, "ABR stopped") || strings.Contains(strings.ToLower(line), "business name") {
			continue
		}
		m := historyLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		period := NormalizeHistory(m[2], m[3])
		isCurrent := period.IsCurrent
		rows = append(rows, TradingNameRow{
			ABN:              abn,
			TradingName:      strings.TrimSpace(m[1]),
			FromDate:         period.FromDate,
			ToDate:           period.ToDate,
			IsCurrent:        &isCurrent,
			SourceDocumentID: sourceDocID,
		})
	}
	return rows
}

// historyLines yields the data lines of a tabular section, dropping blanks and
// the "From To" column-header line.
func historyLines(section string) []string {
	if section == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "From To") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
