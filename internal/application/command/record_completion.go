// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"strings"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/badge"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/logger"
	"github.com/orbita-academy/progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD COMPLETION COMMAND
// Точка входа движка прогресса: ученик завершил урок или воркшоп.
// Flow: чтение профиля → идемпотентность → начисление XP и журнал →
// пересчёт уровня → проверка бейджей → локальная запись → фоновая
// отправка в удалённое хранилище → публикация событий.
// ══════════════════════════════════════════════════════════════════════════════

// AwardPolicy contains the XP and study-time awards per completable unit.
// These are configuration constants of the platform, not protocol.
type AwardPolicy struct {
	// LessonXP is awarded once per completed lesson.
	LessonXP profile.XP

	// LessonStudyMinutes is added to study time once per completed lesson.
	LessonStudyMinutes profile.StudyMinutes

	// WorkshopXP is awarded once per completed workshop.
	WorkshopXP profile.XP
}

// DefaultAwardPolicy returns the current platform policy.
func DefaultAwardPolicy() AwardPolicy {
	return AwardPolicy{
		LessonXP:           200,
		LessonStudyMinutes: 30,
		WorkshopXP:         500,
	}
}

// awardFor returns the award amounts for a unit kind.
func (a AwardPolicy) awardFor(kind profile.UnitKind) (profile.XP, profile.StudyMinutes) {
	switch kind {
	case profile.UnitWorkshop:
		return a.WorkshopXP, 0
	default:
		return a.LessonXP, a.LessonStudyMinutes
	}
}

// RecordCompletionCommand contains the data of a completion event.
type RecordCompletionCommand struct {
	// ProfileID is the learner whose unit was completed.
	ProfileID string

	// Kind is the kind of the completed unit (lesson or workshop).
	Kind profile.UnitKind

	// UnitID identifies the completed unit.
	UnitID string
}

// Validate validates the command before any mutation happens.
func (c RecordCompletionCommand) Validate() error {
	if strings.TrimSpace(c.ProfileID) == "" {
		return shared.ErrInvalidProfileID
	}
	if strings.TrimSpace(c.UnitID) == "" {
		return shared.ErrInvalidUnitID
	}
	if !c.Kind.IsValid() {
		return shared.ErrInvalidUnitKind
	}
	return nil
}

// RecordCompletionResult contains the outcome of a completion event.
type RecordCompletionResult struct {
	// Profile is the updated profile snapshot.
	Profile *profile.Profile

	// AlreadyCompleted is true when the unit had been completed before;
	// no progression field changed in that case ("review only").
	AlreadyCompleted bool

	// XPAwarded is the XP granted by this call (0 on repeat completions).
	XPAwarded profile.XP

	// LeveledUp is true when the recomputed level rose.
	LeveledUp bool

	// NewLevel is the level after the call.
	NewLevel profile.Level

	// NewBadges lists badges unlocked by this call, in discovery order.
	NewBadges []string
}

// RemoteSyncer schedules a best-effort push of a profile to the remote
// profile store. Implementations must never block the completion flow.
type RemoteSyncer interface {
	Schedule(profileID string)
}

// RecordCompletionHandler handles completion events.
type RecordCompletionHandler struct {
	sessions  profile.SessionStore
	profiles  profile.Repository
	evaluator *badge.Evaluator
	events    shared.EventPublisher
	syncer    RemoteSyncer
	policy    AwardPolicy
	clock     timeutil.Clock
	loc       *time.Location
	log       *logger.Logger
}

// NewRecordCompletionHandler creates the handler with all dependencies.
// syncer and events may be nil (e.g. in tests); the handler then skips
// remote scheduling or event publication respectively.
func NewRecordCompletionHandler(
	sessions profile.SessionStore,
	profiles profile.Repository,
	evaluator *badge.Evaluator,
	events shared.EventPublisher,
	syncer RemoteSyncer,
	policy AwardPolicy,
	clock timeutil.Clock,
	loc *time.Location,
	log *logger.Logger,
) *RecordCompletionHandler {
	if evaluator == nil {
		evaluator = badge.NewEvaluator()
	}
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Default()
	}

	return &RecordCompletionHandler{
		sessions:  sessions,
		profiles:  profiles,
		evaluator: evaluator,
		events:    events,
		syncer:    syncer,
		policy:    policy,
		clock:     clock,
		loc:       loc,
		log:       log,
	}
}

// Handle records a completion event.
//
// Идемпотентность: повторное завершение той же единицы не меняет XP,
// уровень, журнал активности и время обучения, но проверка бейджей
// выполняется всё равно (защитная переоценка).
func (h *RecordCompletionHandler) Handle(ctx context.Context, cmd RecordCompletionCommand) (*RecordCompletionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := h.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	// Stored level is derived data; never trust it over LevelOf(xp).
	healed := p.Heal()
	if healed {
		h.log.Warn("healed inconsistent level",
			logger.String("profile_id", p.ID),
			logger.Int("level", int(p.Level)),
		)
	}

	now := h.clock()
	today := timeutil.DateKey(now, h.loc)

	result := &RecordCompletionResult{Profile: p}

	added, err := p.MarkCompleted(cmd.Kind, cmd.UnitID)
	if err != nil {
		return nil, shared.WrapError("profile", "RecordCompletion", shared.ErrInvalidInput, "cannot mark unit completed", err)
	}

	var events []shared.Event

	if added {
		xpAward, minutesAward := h.policy.awardFor(cmd.Kind)

		leveledUp, err := p.AwardXP(xpAward, today)
		if err != nil {
			return nil, shared.WrapError("profile", "RecordCompletion", shared.ErrInvalidInput, "cannot award xp", err)
		}
		oldLevel := p.Level
		if leveledUp {
			oldLevel = profile.LevelOf(p.XP - xpAward)
		}
		p.AddStudyMinutes(minutesAward)

		result.XPAwarded = xpAward
		result.LeveledUp = leveledUp

		events = append(events,
			profile.NewUnitCompletedEvent(p, cmd.Kind, cmd.UnitID, xpAward),
			profile.NewXPGainedEvent(p, xpAward, cmd.Kind, cmd.UnitID),
		)
		if leveledUp {
			events = append(events, profile.NewLevelUpEvent(p, oldLevel))
		}
	} else {
		result.AlreadyCompleted = true
	}

	// Badge evaluation runs on every completion, not only on first ones:
	// level-based badges may have become reachable through other paths.
	trigger := badge.Context{Action: badge.ActionLessonComplete}
	if cmd.Kind == profile.UnitWorkshop {
		trigger.Action = badge.ActionWorkshopComplete
	}
	newBadges := p.UnlockBadges(badge.IDs(h.evaluator.Evaluate(p, trigger)))
	result.NewBadges = newBadges
	for _, id := range newBadges {
		events = append(events, profile.NewBadgeUnlockedEvent(p, id))
	}

	result.NewLevel = p.Level

	// Local-first: the session store write is synchronous and authoritative
	// for the running session. The remote push is scheduled best-effort and
	// its failure never rolls back local state. A heal counts as a change:
	// the repaired level must survive the session read-back.
	if added || healed || len(newBadges) > 0 {
		h.sessions.Write(p)
		if h.syncer != nil {
			h.syncer.Schedule(p.ID)
		}
	}

	h.publish(events)

	return result, nil
}

// loadProfile reads the session store, falling back to the remote profile
// store and seeding the session on a miss.
func (h *RecordCompletionHandler) loadProfile(ctx context.Context, id string) (*profile.Profile, error) {
	if p, ok := h.sessions.Read(id); ok {
		return p, nil
	}

	p, err := h.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	h.sessions.Seed(p)
	return p.Clone(), nil
}

// publish sends domain events to the bus. Publication failures are logged,
// never propagated: notifications are fire-and-forget.
func (h *RecordCompletionHandler) publish(events []shared.Event) {
	if h.events == nil {
		return
	}
	for _, e := range events {
		if err := h.events.Publish(e); err != nil {
			h.log.Warn("failed to publish event",
				logger.String("event_type", string(e.EventType())),
				logger.Err(err),
			)
		}
	}
}
