package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Valid(t *testing.T) {
	got := ParseDate("05 Mar 2014")

	require.NotNil(t, got)
	assert.Equal(t, time.Date(2014, time.March, 5, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseDate_Sentinels(t *testing.T) {
	for _, s := range []string{"", "   ", "None", "none", "NONE", "(current)", "(Current)"} {
		assert.Nil(t, ParseDate(s), "input %q", s)
	}
}

func TestParseDate_UnparsableReturnsNil(t *testing.T) {
	for _, s := range []string{"2014-03-05", "5 March 2014", "garbage", "32 Jan 2020"} {
		assert.Nil(t, ParseDate(s), "input %q", s)
	}
}

func TestNormalizeHistory_OpenRow(t *testing.T) {
	for _, toText := range []string{"", "None", "none", "(current)", "01 Jan 2020 (current)"} {
		p := NormalizeHistory("14 Feb 2000", toText)

		require.NotNil(t, p.FromDate, "to %q", toText)
		assert.Equal(t, time.Date(2000, time.February, 14, 0, 0, 0, 0, time.UTC), *p.FromDate)
		assert.Nil(t, p.ToDate, "to %q", toText)
		assert.True(t, p.IsCurrent, "to %q", toText)
	}
}

func TestNormalizeHistory_ClosedRow(t *testing.T) {
	p := NormalizeHistory("14 Feb 2000", "30 Jun 2010")

	require.NotNil(t, p.ToDate)
	assert.Equal(t, time.Date(2010, time.June, 30, 0, 0, 0, 0, time.UTC), *p.ToDate)
	assert.False(t, p.IsCurrent)
}

func TestNormalizeHistory_UnparsableDatesDegradeToNil(t *testing.T) {
	p := NormalizeHistory("not a date", "also not a date")

	assert.Nil(t, p.FromDate)
	assert.Nil(t, p.ToDate)
	assert.False(t, p.IsCurrent)
}
