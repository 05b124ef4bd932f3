package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOf(t *testing.T) {
	cases := []struct {
		xp       XP
		expected Level
	}{
		{0, 1},
		{1, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2000, 3},
		{4999, 5},
		{5000, 6},
		{-50, 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, LevelOf(tc.xp), "xp=%d", tc.xp)
	}
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, XP(0), XPForLevel(1))
	assert.Equal(t, XP(1000), XPForLevel(2))
	assert.Equal(t, XP(4000), XPForLevel(5))
	assert.Equal(t, XP(0), XPForLevel(0))
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(NewProfileParams{ID: "student-1", DisplayName: "Аружан"})
	require.NoError(t, err)

	assert.Equal(t, "student-1", p.ID)
	assert.Equal(t, XP(0), p.XP)
	assert.Equal(t, Level(1), p.Level)
	assert.Equal(t, 0, p.CompletedLessons.Size())
	assert.Equal(t, 0, p.Badges.Size())
	assert.Empty(t, p.ActivityLog)
}

func TestNewProfile_Validation(t *testing.T) {
	_, err := NewProfile(NewProfileParams{ID: "", DisplayName: "x"})
	assert.ErrorIs(t, err, ErrInvalidProfileID)

	_, err = NewProfile(NewProfileParams{ID: "a", DisplayName: "   "})
	assert.ErrorIs(t, err, ErrInvalidDisplayName)
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	p, err := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)

	added, err := p.MarkCompleted(UnitLesson, "lesson-1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = p.MarkCompleted(UnitLesson, "lesson-1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, p.CompletedLessons.Size())

	// Lessons and workshops live in separate sets.
	added, err = p.MarkCompleted(UnitWorkshop, "lesson-1")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestMarkCompleted_Validation(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	_, err := p.MarkCompleted(UnitLesson, "  ")
	assert.ErrorIs(t, err, ErrInvalidUnitID)

	_, err = p.MarkCompleted(UnitKind("exam"), "unit-1")
	assert.ErrorIs(t, err, ErrInvalidUnitKind)
}

func TestAwardXP(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	leveledUp, err := p.AwardXP(200, "2026-03-01")
	require.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Equal(t, XP(200), p.XP)
	assert.Equal(t, Level(1), p.Level)

	entry, ok := p.ActivityLog.EntryFor("2026-03-01")
	require.True(t, ok)
	assert.Equal(t, XP(200), entry.XPEarned)
}

func TestAwardXP_LevelUp(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})
	p.XP = 900
	p.Level = LevelOf(p.XP)

	leveledUp, err := p.AwardXP(200, "2026-03-01")
	require.NoError(t, err)
	assert.True(t, leveledUp)
	assert.Equal(t, XP(1100), p.XP)
	assert.Equal(t, Level(2), p.Level)
}

func TestAwardXP_SameDayAccumulates(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	_, err := p.AwardXP(200, "2026-03-01")
	require.NoError(t, err)
	_, err = p.AwardXP(500, "2026-03-01")
	require.NoError(t, err)

	require.Len(t, p.ActivityLog, 1)
	entry, _ := p.ActivityLog.EntryFor("2026-03-01")
	assert.Equal(t, XP(700), entry.XPEarned)
}

func TestAwardXP_NegativeRejected(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	_, err := p.AwardXP(-10, "2026-03-01")
	assert.ErrorIs(t, err, ErrNegativeAward)
	assert.Equal(t, XP(0), p.XP)
	assert.Empty(t, p.ActivityLog)
}

func TestAwardXP_ZeroIsNoOp(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	leveledUp, err := p.AwardXP(0, "2026-03-01")
	require.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Empty(t, p.ActivityLog)
}

func TestHeal(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})
	p.XP = 2500
	p.Level = 1 // corrupted by a bad import

	assert.True(t, p.Heal())
	assert.Equal(t, Level(3), p.Level)

	// Already consistent: nothing to fix.
	assert.False(t, p.Heal())
}

func TestUnlockBadges(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})

	unlocked := p.UnlockBadges([]string{"first_steps", "scholar"})
	assert.Equal(t, []string{"first_steps", "scholar"}, unlocked)

	// Append-only: repeats are skipped, order of new ones preserved.
	unlocked = p.UnlockBadges([]string{"scholar", "certified"})
	assert.Equal(t, []string{"certified"}, unlocked)
	assert.Equal(t, 3, p.Badges.Size())
}

func TestMonthlyXP(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})
	_, _ = p.AwardXP(200, "2026-02-27")
	_, _ = p.AwardXP(500, "2026-03-01")
	_, _ = p.AwardXP(200, "2026-03-15")

	assert.Equal(t, XP(700), p.MonthlyXP("2026-03"))
	assert.Equal(t, XP(200), p.MonthlyXP("2026-02"))
	assert.Equal(t, XP(0), p.MonthlyXP("2026-01"))
}

func TestClone_DeepCopy(t *testing.T) {
	p, _ := NewProfile(NewProfileParams{ID: "s1", DisplayName: "Nur"})
	_, _ = p.MarkCompleted(UnitLesson, "lesson-1")
	_, _ = p.AwardXP(200, "2026-03-01")

	clone := p.Clone()
	_, _ = clone.MarkCompleted(UnitLesson, "lesson-2")
	_, _ = clone.AwardXP(500, "2026-03-02")

	assert.Equal(t, 1, p.CompletedLessons.Size())
	assert.Equal(t, XP(200), p.XP)
	assert.Len(t, p.ActivityLog, 1)

	assert.Equal(t, 2, clone.CompletedLessons.Size())
	assert.Equal(t, XP(700), clone.XP)
}

func TestIDSet(t *testing.T) {
	var s IDSet

	s, added := s.Add("a")
	assert.True(t, added)
	s, added = s.Add("a")
	assert.False(t, added)
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("b"))
	assert.Equal(t, 1, s.Size())
}
