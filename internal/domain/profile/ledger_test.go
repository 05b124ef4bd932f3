package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLog_Upsert(t *testing.T) {
	var log ActivityLog

	log.Upsert("2026-03-01", 200)
	log.Upsert("2026-03-02", 500)
	log.Upsert("2026-03-01", 300)

	require.Len(t, log, 2)

	entry, ok := log.EntryFor("2026-03-01")
	require.True(t, ok)
	assert.Equal(t, XP(500), entry.XPEarned)

	entry, ok = log.EntryFor("2026-03-02")
	require.True(t, ok)
	assert.Equal(t, XP(500), entry.XPEarned)
}

func TestActivityLog_UpsertIgnoresNonPositive(t *testing.T) {
	var log ActivityLog

	log.Upsert("2026-03-01", 0)
	log.Upsert("2026-03-01", -100)

	assert.Empty(t, log)
}

func TestActivityLog_SumMonth(t *testing.T) {
	log := ActivityLog{
		{Date: "2026-02-28", XPEarned: 100},
		{Date: "2026-03-01", XPEarned: 200},
		{Date: "2026-03-31", XPEarned: 300},
	}

	assert.Equal(t, XP(500), log.SumMonth("2026-03"))
	assert.Equal(t, XP(100), log.SumMonth("2026-02"))
	assert.Equal(t, XP(0), log.SumMonth("2025-12"))
	assert.Equal(t, XP(600), log.Total())
}

func TestActivityLog_LastN(t *testing.T) {
	// Insertion order is not chronological; readers sort.
	log := ActivityLog{
		{Date: "2026-03-05", XPEarned: 300},
		{Date: "2026-03-01", XPEarned: 100},
		{Date: "2026-03-03", XPEarned: 200},
	}

	last2 := log.LastN(2)
	require.Len(t, last2, 2)
	assert.Equal(t, "2026-03-03", last2[0].Date)
	assert.Equal(t, "2026-03-05", last2[1].Date)

	all := log.LastN(10)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-01", all[0].Date)

	// Original insertion order is untouched.
	assert.Equal(t, "2026-03-05", log[0].Date)
}

func TestActivityLog_Validate(t *testing.T) {
	valid := ActivityLog{
		{Date: "2026-03-01", XPEarned: 200},
		{Date: "2026-03-02", XPEarned: 0},
	}
	assert.NoError(t, valid.Validate())

	malformed := ActivityLog{{Date: "03/01/2026", XPEarned: 200}}
	assert.Error(t, malformed.Validate())

	negative := ActivityLog{{Date: "2026-03-01", XPEarned: -1}}
	assert.Error(t, negative.Validate())

	duplicate := ActivityLog{
		{Date: "2026-03-01", XPEarned: 100},
		{Date: "2026-03-01", XPEarned: 200},
	}
	assert.Error(t, duplicate.Validate())
}
