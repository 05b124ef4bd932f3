package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/timeutil"
)

func fixedClock() timeutil.Clock {
	return func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
}

func seedProfile(t *testing.T, sessions *fakeSessionStore, id string) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(profile.NewProfileParams{ID: id, DisplayName: "Nur"})
	require.NoError(t, err)
	sessions.Seed(p)
	return p
}

func newCompletionHandler(sessions *fakeSessionStore, repo *fakeRepository, bus *recordingBus, syncer *recordingSyncer) *RecordCompletionHandler {
	return NewRecordCompletionHandler(
		sessions, repo, nil, bus, syncer, DefaultAwardPolicy(), fixedClock(), time.UTC, nil)
}

func TestRecordCompletion_FirstLesson(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	bus := &recordingBus{}
	syncer := &recordingSyncer{}
	seedProfile(t, sessions, "s1")

	h := newCompletionHandler(sessions, repo, bus, syncer)

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-1",
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, profile.XP(200), result.XPAwarded)
	assert.Equal(t, profile.Level(1), result.NewLevel)
	assert.Equal(t, []string{"first_steps"}, result.NewBadges)

	p := result.Profile
	assert.Equal(t, profile.XP(200), p.XP)
	assert.Equal(t, profile.StudyMinutes(30), p.StudyMinutes)

	entry, ok := p.ActivityLog.EntryFor("2026-03-15")
	require.True(t, ok)
	assert.Equal(t, profile.XP(200), entry.XPEarned)

	// Local write is synchronous, remote push only scheduled.
	assert.Equal(t, 1, sessions.writes)
	assert.Equal(t, []string{"s1"}, sessions.Dirty())
	assert.Equal(t, []string{"s1"}, syncer.scheduled)

	assert.Equal(t, []shared.EventType{
		shared.EventLessonCompleted,
		shared.EventXPGained,
		shared.EventBadgeUnlocked,
	}, bus.types())
}

func TestRecordCompletion_RepeatIsIdempotent(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	bus := &recordingBus{}
	syncer := &recordingSyncer{}
	seedProfile(t, sessions, "s1")

	h := newCompletionHandler(sessions, repo, bus, syncer)

	cmd := RecordCompletionCommand{ProfileID: "s1", Kind: profile.UnitLesson, UnitID: "lesson-1"}
	first, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	require.False(t, first.AlreadyCompleted)

	busEvents := len(bus.events)
	second, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, profile.XP(0), second.XPAwarded)
	assert.Empty(t, second.NewBadges)
	assert.Equal(t, profile.XP(200), second.Profile.XP)
	assert.Equal(t, profile.StudyMinutes(30), second.Profile.StudyMinutes)
	require.Len(t, second.Profile.ActivityLog, 1)

	// Nothing changed, so no extra write, schedule or event.
	assert.Equal(t, 1, sessions.writes)
	assert.Len(t, syncer.scheduled, 1)
	assert.Len(t, bus.events, busEvents)
}

func TestRecordCompletion_Workshop(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	bus := &recordingBus{}
	seedProfile(t, sessions, "s1")

	h := newCompletionHandler(sessions, repo, bus, &recordingSyncer{})

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitWorkshop,
		UnitID:    "ws-1",
	})
	require.NoError(t, err)

	assert.Equal(t, profile.XP(500), result.XPAwarded)
	assert.Equal(t, []string{"certified"}, result.NewBadges)
	// Workshops award no study time.
	assert.Equal(t, profile.StudyMinutes(0), result.Profile.StudyMinutes)
	assert.Equal(t, shared.EventWorkshopCompleted, bus.events[0].EventType())
}

func TestRecordCompletion_LevelUp(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	bus := &recordingBus{}

	p, err := profile.NewProfile(profile.NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)
	_, err = p.AwardXP(900, "2026-03-01")
	require.NoError(t, err)
	sessions.Seed(p)

	h := newCompletionHandler(sessions, repo, bus, &recordingSyncer{})

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-5",
	})
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, profile.Level(2), result.NewLevel)
	assert.Contains(t, bus.types(), shared.EventLevelUp)
}

func TestRecordCompletion_SessionMissFallsBackToStore(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()

	p, err := profile.NewProfile(profile.NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))

	h := newCompletionHandler(sessions, repo, &recordingBus{}, &recordingSyncer{})

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-1",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.XP(200), result.Profile.XP)

	// The store copy was seeded into the session, then the mutated
	// profile written on top.
	assert.Equal(t, 1, sessions.seeds)
	got, ok := sessions.Read("s1")
	require.True(t, ok)
	assert.Equal(t, profile.XP(200), got.XP)
}

func TestRecordCompletion_UnknownProfile(t *testing.T) {
	h := newCompletionHandler(newFakeSessionStore(), newFakeRepository(), &recordingBus{}, &recordingSyncer{})

	_, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "ghost",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-1",
	})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestRecordCompletion_HealsCorruptedLevel(t *testing.T) {
	sessions := newFakeSessionStore()

	p, err := profile.NewProfile(profile.NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)
	p.XP = 2500
	p.Level = 1
	sessions.Seed(p)

	h := newCompletionHandler(sessions, newFakeRepository(), &recordingBus{}, &recordingSyncer{})

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-1",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.Level(3), result.NewLevel)
	assert.False(t, result.LeveledUp)
}

func TestRecordCompletion_RepeatPersistsHeal(t *testing.T) {
	sessions := newFakeSessionStore()
	syncer := &recordingSyncer{}

	// Already-completed unit, owned badge, corrupted cached level: the
	// only change this call makes is the repair, and it must stick.
	p, err := profile.NewProfile(profile.NewProfileParams{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)
	_, err = p.MarkCompleted(profile.UnitLesson, "lesson-1")
	require.NoError(t, err)
	p.UnlockBadges([]string{"first_steps"})
	p.XP = 2500
	p.Level = 1
	sessions.Seed(p)

	h := newCompletionHandler(sessions, newFakeRepository(), &recordingBus{}, syncer)

	result, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1",
		Kind:      profile.UnitLesson,
		UnitID:    "lesson-1",
	})
	require.NoError(t, err)

	assert.True(t, result.AlreadyCompleted)
	assert.Empty(t, result.NewBadges)
	assert.Equal(t, profile.Level(3), result.NewLevel)

	stored, ok := sessions.Read("s1")
	require.True(t, ok)
	assert.Equal(t, profile.Level(3), stored.Level)
	assert.Equal(t, []string{"s1"}, sessions.Dirty())
	assert.Equal(t, []string{"s1"}, syncer.scheduled)
}

func TestRecordCompletion_Validation(t *testing.T) {
	h := newCompletionHandler(newFakeSessionStore(), newFakeRepository(), &recordingBus{}, &recordingSyncer{})

	_, err := h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "", Kind: profile.UnitLesson, UnitID: "lesson-1",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidProfileID)

	_, err = h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1", Kind: profile.UnitLesson, UnitID: "  ",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidUnitID)

	_, err = h.Handle(context.Background(), RecordCompletionCommand{
		ProfileID: "s1", Kind: profile.UnitKind("exam"), UnitID: "u1",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidUnitKind)
}

func TestAwardPolicy_AwardFor(t *testing.T) {
	policy := DefaultAwardPolicy()

	xp, minutes := policy.awardFor(profile.UnitLesson)
	assert.Equal(t, profile.XP(200), xp)
	assert.Equal(t, profile.StudyMinutes(30), minutes)

	xp, minutes = policy.awardFor(profile.UnitWorkshop)
	assert.Equal(t, profile.XP(500), xp)
	assert.Equal(t, profile.StudyMinutes(0), minutes)
}
