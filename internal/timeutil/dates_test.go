package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	got, err := ParseDate("2026-03-31", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, loc), got)

	_, err = ParseDate("31/03/2026", nil)
	assert.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 02:00 UTC on the 1st is still the last day of the previous month in EST
	got := CalendarDate(time.Date(2026, time.March, 1, 2, 0, 0, 0, time.UTC), est)
	assert.Equal(t, "2026-02-28", FormatDate(got))
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), got)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		CalendarDate(time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC), nil))
}
