package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	moment := time.Date(2026, time.March, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-15", DateKey(moment, time.UTC))
	assert.Equal(t, "2026-03-15", DateKey(moment, nil))

	// Midnight crossings depend on the configured location.
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)
	assert.Equal(t, "2026-03-16", DateKey(moment, almaty))
}

func TestMonthPrefix(t *testing.T) {
	moment := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03", MonthPrefix(moment, time.UTC))
	assert.Equal(t, "2026-03", MonthPrefix(moment, nil))
}

func TestIsValidDateKey(t *testing.T) {
	assert.True(t, IsValidDateKey("2026-03-15"))
	assert.False(t, IsValidDateKey("2026-3-15"))
	assert.False(t, IsValidDateKey("15-03-2026"))
	assert.False(t, IsValidDateKey("2026-13-01"))
	assert.False(t, IsValidDateKey(""))
}

func TestParseDateKey(t *testing.T) {
	parsed, err := ParseDateKey("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())

	_, err = ParseDateKey("not-a-date")
	assert.Error(t, err)
}

func TestDaysAgo(t *testing.T) {
	moment := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-01", DaysAgo(moment, 1, time.UTC))
	assert.Equal(t, "2026-02-28", DaysAgo(moment, 2, time.UTC))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 15, 23, 0, 0, 0, time.UTC)
	c := b.Add(2 * time.Hour)

	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(a, c, time.UTC))
}

func TestStartOfDayAndMonth(t *testing.T) {
	moment := time.Date(2026, time.March, 15, 18, 45, 12, 0, time.UTC)

	day := StartOfDay(moment, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), day)

	month := StartOfMonth(moment, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), month)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}
