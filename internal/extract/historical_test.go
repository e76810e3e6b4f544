package extract

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historicalSample = `Historical details for ABN 53 004 085 616

Entity name From To
OLDCO PTY LTD 14 Feb 2000 30 Jun 2010
NEWCO PTY LTD 01 Jul 2010 (current)

ABN Status From To
Active 14 Feb 2000 30 Jun 2010
Cancelled 30 Jun 2010 01 Jul 2010
Active 01 Jul 2010 (current)

Entity type: Australian Public Company

Main business location From To
NSW 2000 14 Feb 2000 30 Jun 2010
VIC 3000 01 Jul 2010 (current)

Good & Services Tax (GST) From To
Registered 01 Jul 2000 31 Dec 2005
Registered 01 Jul 2010 (current)

Trading name(s) From To
OLDCO TRADING 14 Feb 2000 30 Jun 2010

ASIC registration
ACN 004 085 616

Record extracted 05 Jan 2026
`

func TestHistoricalExtractor_FullDocument(t *testing.T) {
	docID := uuid.New()

	bundle, err := Parse(historicalSample, docID)
	require.NoError(t, err)
	assert.Equal(t, DocumentTypeHistorical, bundle.Type)

	assert.Equal(t, "53004085616", bundle.Entity.ABN)
	// Entity name comes from the first name history row, not a label.
	assert.Equal(t, "OLDCO PTY LTD", bundle.Entity.EntityName)
	assert.Equal(t, "Australian Public Company", bundle.Entity.EntityType)

	// First active date is the earliest From among rows labelled Active.
	require.NotNil(t, bundle.Entity.FirstActiveDate)
	assert.Equal(t, time.Date(2000, time.February, 14, 0, 0, 0, 0, time.UTC), *bundle.Entity.FirstActiveDate)

	require.Len(t, bundle.NameHistory, 2)
	assert.Equal(t, "OLDCO PTY LTD", bundle.NameHistory[0].EntityName)
	assert.False(t, bundle.NameHistory[0].IsCurrent)
	require.NotNil(t, bundle.NameHistory[0].ToDate)
	assert.Equal(t, time.Date(2010, time.June, 30, 0, 0, 0, 0, time.UTC), *bundle.NameHistory[0].ToDate)
	assert.Equal(t, "NEWCO PTY LTD", bundle.NameHistory[1].EntityName)
	assert.True(t, bundle.NameHistory[1].IsCurrent)
	assert.Nil(t, bundle.NameHistory[1].ToDate)

	require.Len(t, bundle.StatusHistory, 3)
	assert.Equal(t, "Active", bundle.StatusHistory[0].Status)
	assert.Equal(t, "Cancelled", bundle.StatusHistory[1].Status)
	assert.True(t, bundle.StatusHistory[2].IsCurrent)

	require.Len(t, bundle.LocationHistory, 2)
	assert.Equal(t, "NSW", bundle.LocationHistory[0].State)
	assert.Equal(t, "2000", bundle.LocationHistory[0].Postcode)
	assert.False(t, bundle.LocationHistory[0].IsCurrent)
	assert.Equal(t, "VIC", bundle.LocationHistory[1].State)
	assert.True(t, bundle.LocationHistory[1].IsCurrent)

	require.Len(t, bundle.GSTHistory, 2)
	assert.Equal(t, "Registered", bundle.GSTHistory[0].GSTStatus)
	assert.False(t, bundle.GSTHistory[0].IsCurrent)
	assert.True(t, bundle.GSTHistory[1].IsCurrent)

	require.Len(t, bundle.TradingNames, 1)
	assert.Equal(t, "OLDCO TRADING", bundle.TradingNames[0].TradingName)
	require.NotNil(t, bundle.TradingNames[0].IsCurrent)
	assert.False(t, *bundle.TradingNames[0].IsCurrent)

	require.Len(t, bundle.ASICRegistrations, 1)
	assert.Equal(t, "ACN", bundle.ASICRegistrations[0].ASICType)
	assert.Equal(t, "004085616", bundle.ASICRegistrations[0].ASICNumber)
}

func TestHistoricalExtractor_CorrectedGSTSpelling(t *testing.T) {
	text := `Historical details for ABN 11 222 333 444

Entity name From To
SOMECO PTY LTD 01 Jan 2015 (current)

ABN Status From To
Active 01 Jan 2015 (current)

Goods & Services Tax (GST) From To
Registered 01 Jan 2015 (current)

Record extracted 01 Jan 2026
`
	bundle, err := Parse(text, uuid.New())
	require.NoError(t, err)

	require.Len(t, bundle.GSTHistory, 1)
	assert.True(t, bundle.GSTHistory[0].IsCurrent)
}

func TestHistoricalExtractor_NoGSTHistory(t *testing.T) {
	text := `Historical details for ABN 11 222 333 444

Entity name From To
SOMECO PTY LTD 01 Jan 2015 (current)

Good & Services Tax (GST) From To
No current or historical GST registration

Record extracted 01 Jan 2026
`
	bundle, err := Parse(text, uuid.New())
	require.NoError(t, err)

	assert.Empty(t, bundle.GSTHistory)
}

func TestHistoricalExtractor_TradingNameNoticeSkipped(t *testing.T) {
	text := `Historical details for ABN 11 222 333 444

Entity name From To
SOMECO PTY LTD 01 Jan 2015 (current)

Trading name(s) From To
ABR stopped updating trading names in 2023
SOMECO SALES 01 Jan 2015 (current)

Record extracted 01 Jan 2026
`
	bundle, err := Parse(text, uuid.New())
	require.NoError(t, err)

	require.Len(t, bundle.TradingNames, 1)
	assert.Equal(t, "SOMECO SALES", bundle.TradingNames[0].TradingName)
}

func TestHistoricalExtractor_UnparsableDateYieldsNilFromDate(t *testing.T) {
	text := `Historical details for ABN 11 222 333 444

Entity name From To
SOMECO PTY LTD 01 Jan 2015 (current)

ABN Status From To
Active 99 Xyz 9999

Record extracted 01 Jan 2026
`
	bundle, err := Parse(text, uuid.New())
	require.NoError(t, err)

	// A garbled date keeps the row but leaves its from date null.
	require.Len(t, bundle.StatusHistory, 1)
	assert.Equal(t, "Active", bundle.StatusHistory[0].Status)
	assert.Nil(t, bundle.StatusHistory[0].FromDate)
	assert.True(t, bundle.StatusHistory[0].IsCurrent)

	// An Active row without a parsed From contributes no first active date.
	assert.Nil(t, bundle.Entity.FirstActiveDate)
}

func TestHistoricalExtractor_NoActiveRowsMeansNoFirstActiveDate(t *testing.T) {
	text := `Historical details for ABN 11 222 333 444

Entity name From To
SOMECO PTY LTD 01 Jan 2015 30 Jun 2020

ABN Status From To
Cancelled 30 Jun 2020 (current)

Record extracted 01 Jan 2026
`
	bundle, err := Parse(text, uuid.New())
	require.NoError(t, err)

	assert.Nil(t, bundle.Entity.FirstActiveDate)
	require.Len(t, bundle.StatusHistory, 1)
}
