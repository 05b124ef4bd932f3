package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

func testProfile(t *testing.T, id string, xp profile.XP, monthlyXP profile.XP) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(profile.NewProfileParams{ID: id, DisplayName: "Ученик " + id})
	require.NoError(t, err)
	p.XP = xp
	p.Level = profile.LevelOf(xp)
	if monthlyXP > 0 {
		p.ActivityLog.Upsert("2026-03-10", monthlyXP)
	}
	return p
}

func asOf() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func TestBuild_TopFiveOfLargerPopulation(t *testing.T) {
	population := []*profile.Profile{
		testProfile(t, "s1", 700, 0),
		testProfile(t, "s2", 5000, 0),
		testProfile(t, "s3", 2400, 0),
		testProfile(t, "s4", 100, 0),
		testProfile(t, "s5", 3100, 0),
		testProfile(t, "s6", 900, 0),
		testProfile(t, "s7", 1800, 0),
	}

	board := NewAggregator(time.UTC).Build(population, "", asOf())

	require.Len(t, board.AllTime, TopSize)
	assert.Equal(t, "s2", board.AllTime[0].ProfileID)
	assert.Equal(t, "s5", board.AllTime[1].ProfileID)
	assert.Equal(t, "s3", board.AllTime[2].ProfileID)
	assert.Equal(t, "s7", board.AllTime[3].ProfileID)
	assert.Equal(t, "s6", board.AllTime[4].ProfileID)

	for i, e := range board.AllTime {
		assert.Equal(t, Rank(i+1), e.Rank)
	}

	assert.Equal(t, "2026-03", board.Month)
	assert.Nil(t, board.UserAllTime)
	assert.Nil(t, board.UserMonthly)
}

func TestBuild_UserEntryOutsideTop(t *testing.T) {
	population := []*profile.Profile{
		testProfile(t, "s1", 7000, 0),
		testProfile(t, "s2", 6000, 0),
		testProfile(t, "s3", 5000, 0),
		testProfile(t, "s4", 4000, 0),
		testProfile(t, "s5", 3000, 0),
		testProfile(t, "s6", 2000, 0),
		testProfile(t, "s7", 1000, 0),
	}

	board := NewAggregator(time.UTC).Build(population, "s7", asOf())

	// Ranks come from the full population, truncation happens afterwards.
	require.NotNil(t, board.UserAllTime)
	assert.Equal(t, "s7", board.UserAllTime.ProfileID)
	assert.Equal(t, Rank(7), board.UserAllTime.Rank)
	assert.Equal(t, profile.XP(1000), board.UserAllTime.XP)
	require.Len(t, board.AllTime, TopSize)
}

func TestBuild_MonthlyUsesLedger(t *testing.T) {
	// s1 leads all-time but earned nothing this month; s2 is the
	// opposite. The two rankings must diverge.
	population := []*profile.Profile{
		testProfile(t, "s1", 9000, 0),
		testProfile(t, "s2", 500, 500),
	}

	board := NewAggregator(time.UTC).Build(population, "", asOf())

	assert.Equal(t, "s1", board.AllTime[0].ProfileID)
	assert.Equal(t, "s2", board.Monthly[0].ProfileID)
	assert.Equal(t, profile.XP(500), board.Monthly[0].XP)
	assert.Equal(t, profile.XP(0), board.Monthly[1].XP)
}

func TestBuild_StableTies(t *testing.T) {
	population := []*profile.Profile{
		testProfile(t, "s1", 1000, 0),
		testProfile(t, "s2", 1000, 0),
		testProfile(t, "s3", 1000, 0),
	}

	board := NewAggregator(time.UTC).Build(population, "", asOf())

	assert.Equal(t, "s1", board.AllTime[0].ProfileID)
	assert.Equal(t, "s2", board.AllTime[1].ProfileID)
	assert.Equal(t, "s3", board.AllTime[2].ProfileID)
}

func TestBuild_SmallPopulation(t *testing.T) {
	population := []*profile.Profile{
		testProfile(t, "s1", 300, 0),
		nil,
		testProfile(t, "s2", 600, 0),
	}

	board := NewAggregator(time.UTC).Build(population, "", asOf())

	require.Len(t, board.AllTime, 2)
	assert.Equal(t, "s2", board.AllTime[0].ProfileID)
	assert.Equal(t, Rank(1), board.AllTime[0].Rank)
	assert.Equal(t, Rank(2), board.AllTime[1].Rank)
}

func TestMonth_UsesLocation(t *testing.T) {
	moment := time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03", NewAggregator(time.UTC).Month(moment))
	assert.Equal(t, "2026-04", NewAggregator(time.FixedZone("UTC+5", 5*60*60)).Month(moment))
}

func TestBuild_EmptyPopulation(t *testing.T) {
	board := NewAggregator(time.UTC).Build(nil, "s1", asOf())

	assert.Empty(t, board.AllTime)
	assert.Empty(t, board.Monthly)
	assert.Nil(t, board.UserAllTime)
}
