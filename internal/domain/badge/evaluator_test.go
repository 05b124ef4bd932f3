package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

func newProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(profile.NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)
	return p
}

func TestEvaluate_FirstLesson(t *testing.T) {
	p := newProfile(t)
	_, err := p.MarkCompleted(profile.UnitLesson, "lesson-1")
	require.NoError(t, err)

	got := NewEvaluator().Evaluate(p, Context{Action: ActionLessonComplete})
	assert.Equal(t, []ID{BadgeFirstSteps}, got)
}

func TestEvaluate_SkipsOwnedBadges(t *testing.T) {
	p := newProfile(t)
	_, _ = p.MarkCompleted(profile.UnitLesson, "lesson-1")
	p.UnlockBadges([]string{string(BadgeFirstSteps)})

	got := NewEvaluator().Evaluate(p, Context{Action: ActionLessonComplete})
	assert.Empty(t, got)
}

func TestEvaluate_CatalogOrder(t *testing.T) {
	// Profile satisfying several rules at once: badges come back in
	// catalog order, not in the order conditions were met.
	p := newProfile(t)
	_, _ = p.MarkCompleted(profile.UnitLesson, "lesson-1")
	_, _ = p.MarkCompleted(profile.UnitWorkshop, "ws-1")
	p.XP = 4500
	p.Level = profile.LevelOf(p.XP)

	got := NewEvaluator().Evaluate(p, Context{Action: ActionNone})
	assert.Equal(t, []ID{BadgeFirstSteps, BadgeScholar, BadgeCertified}, got)
}

func TestEvaluate_ScholarAtLevelFive(t *testing.T) {
	p := newProfile(t)
	p.XP = 3999
	p.Level = profile.LevelOf(p.XP)

	got := NewEvaluator().Evaluate(p, Context{})
	assert.Empty(t, got)

	p.XP = 4000
	p.Level = profile.LevelOf(p.XP)

	got = NewEvaluator().Evaluate(p, Context{})
	assert.Equal(t, []ID{BadgeScholar}, got)
}

func TestEvaluate_ActionScopedRules(t *testing.T) {
	p := newProfile(t)

	// A lesson completion never triggers community badges.
	got := NewEvaluator().Evaluate(p, Context{Action: ActionLessonComplete})
	assert.Empty(t, got)

	got = NewEvaluator().Evaluate(p, Context{Action: ActionProjectCreated})
	assert.Equal(t, []ID{BadgeBuilder}, got)

	got = NewEvaluator().Evaluate(p, Context{Action: ActionForumPost})
	assert.Equal(t, []ID{BadgeSocial}, got)

	got = NewEvaluator().Evaluate(p, Context{Action: ActionWikiApproved})
	assert.Equal(t, []ID{BadgeContributor}, got)
}

func TestEvaluate_CustomRules(t *testing.T) {
	rules := []Rule{
		{
			ID: ID("night_owl"),
			Predicate: func(p *profile.Profile, _ Context) bool {
				return p.StudyMinutes >= 600
			},
		},
	}
	ev := NewEvaluatorWithRules(rules)

	p := newProfile(t)
	assert.Empty(t, ev.Evaluate(p, Context{}))

	p.AddStudyMinutes(600)
	assert.Equal(t, []ID{ID("night_owl")}, ev.Evaluate(p, Context{}))
}

func TestGetDefinition(t *testing.T) {
	def, ok := GetDefinition(BadgeScholar)
	require.True(t, ok)
	assert.Equal(t, BadgeScholar, def.ID)
	assert.NotEmpty(t, def.Name)

	_, ok = GetDefinition(ID("unknown"))
	assert.False(t, ok)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{"first_steps", "scholar"}, IDs([]ID{BadgeFirstSteps, BadgeScholar}))
	assert.Empty(t, IDs(nil))
}
