// internal/calendar/calendar_test.go
package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInstant_Breakdown(t *testing.T) {
	d := FromInstant(1703011200)

	assert.Equal(t, DateTime{
		Year: 2023, Month: 12, Day: 19, Weekday: 2,
		Hour: 18, Minute: 40, Second: 0,
	}, d)
	assert.Equal(t, Instant(1703011200), d.Instant())
}

func TestFromInstant_Epoch(t *testing.T) {
	d := FromInstant(0)

	assert.Equal(t, 1970, d.Year)
	assert.Equal(t, 1, d.Month)
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, 4, d.Weekday) // Thursday
}

func TestInstant_IgnoresWeekday(t *testing.T) {
	d := DateTime{Year: 2024, Month: 3, Day: 31, Weekday: 5}
	assert.Equal(t, Instant(1711843200), d.Instant())
}

func TestInstant_Add(t *testing.T) {
	assert.Equal(t, Instant(3600), Instant(0).Add(3600))
	assert.Equal(t, Instant(-1), Instant(0).Add(-1))
}

func TestValidate(t *testing.T) {
	require.NoError(t, FromInstant(1703011200).Validate())

	bad := []DateTime{
		{Year: 2024, Month: 0, Day: 1},
		{Year: 2024, Month: 13, Day: 1},
		{Year: 2023, Month: 2, Day: 29},
		{Year: 2024, Month: 1, Day: 1, Weekday: 7},
		{Year: 2024, Month: 1, Day: 1, Hour: 24},
		{Year: 2024, Month: 1, Day: 1, Minute: 60},
		{Year: 2024, Month: 1, Day: 1, Second: 60},
	}
	for _, d := range bad {
		assert.Error(t, d.Validate(), "%+v", d)
	}

	// leap day
	require.NoError(t, DateTime{Year: 2024, Month: 2, Day: 29}.Validate())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Sun", DayName(0))
	assert.Equal(t, "Sat", DayName(6))
	assert.Equal(t, "???", DayName(7))
	assert.Equal(t, "Jan", MonthName(1))
	assert.Equal(t, "Dec", MonthName(12))
	assert.Equal(t, "???", MonthName(0))
}

func TestRows(t *testing.T) {
	d := FromInstant(1703011200)

	assert.Equal(t, "Tue 19 Dec 2023", DateRow(d))
	assert.Equal(t, "18:40:00    GMT", TimeRow(d, "GMT"))
	assert.Equal(t, "Tue Dec 19 18:40:00 2023", d.String())
}
