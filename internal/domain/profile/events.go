package profile

import (
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN EVENTS
// События, которые происходят при прогрессе ученика и на которые реагируют
// другие части системы (уведомления, кэш лидерборда, аналитика).
// Все события реализуют shared.Event и публикуются в шину событий.
// ══════════════════════════════════════════════════════════════════════════════

// XPGainedEvent - ученик получил XP.
type XPGainedEvent struct {
	shared.BaseEvent
	Amount   XP
	NewXP    XP
	Reason   string // lesson_completed, workshop_completed
	UnitID   string
	UnitKind UnitKind
}

// Payload реализует shared.Event.
func (e XPGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"amount":    int(e.Amount),
		"new_xp":    int(e.NewXP),
		"reason":    e.Reason,
		"unit_id":   e.UnitID,
		"unit_kind": string(e.UnitKind),
	}
}

// NewXPGainedEvent создаёт событие получения XP.
func NewXPGainedEvent(p *Profile, amount XP, kind UnitKind, unitID string) XPGainedEvent {
	reason := "lesson_completed"
	if kind == UnitWorkshop {
		reason = "workshop_completed"
	}

	return XPGainedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventXPGained, p.ID),
		Amount:    amount,
		NewXP:     p.XP,
		Reason:    reason,
		UnitID:    unitID,
		UnitKind:  kind,
	}
}

// LevelUpEvent - ученик достиг нового уровня.
type LevelUpEvent struct {
	shared.BaseEvent
	OldLevel Level
	NewLevel Level
	XP       XP
}

// Payload реализует shared.Event.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_level": int(e.OldLevel),
		"new_level": int(e.NewLevel),
		"xp":        int(e.XP),
	}
}

// NewLevelUpEvent создаёт событие повышения уровня.
func NewLevelUpEvent(p *Profile, oldLevel Level) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventLevelUp, p.ID),
		OldLevel:  oldLevel,
		NewLevel:  p.Level,
		XP:        p.XP,
	}
}

// UnitCompletedEvent - ученик впервые завершил учебную единицу.
type UnitCompletedEvent struct {
	shared.BaseEvent
	UnitKind  UnitKind
	UnitID    string
	XPAwarded XP
}

// Payload реализует shared.Event.
func (e UnitCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_kind":  string(e.UnitKind),
		"unit_id":    e.UnitID,
		"xp_awarded": int(e.XPAwarded),
	}
}

// NewUnitCompletedEvent создаёт событие завершения учебной единицы.
func NewUnitCompletedEvent(p *Profile, kind UnitKind, unitID string, awarded XP) UnitCompletedEvent {
	eventType := shared.EventLessonCompleted
	if kind == UnitWorkshop {
		eventType = shared.EventWorkshopCompleted
	}

	return UnitCompletedEvent{
		BaseEvent: shared.NewBaseEvent(eventType, p.ID),
		UnitKind:  kind,
		UnitID:    unitID,
		XPAwarded: awarded,
	}
}

// BadgeUnlockedEvent - ученик получил новый бейдж.
type BadgeUnlockedEvent struct {
	shared.BaseEvent
	BadgeID string
}

// Payload реализует shared.Event.
func (e BadgeUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"badge_id": e.BadgeID,
	}
}

// NewBadgeUnlockedEvent создаёт событие получения бейджа.
func NewBadgeUnlockedEvent(p *Profile, badgeID string) BadgeUnlockedEvent {
	return BadgeUnlockedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventBadgeUnlocked, p.ID),
		BadgeID:   badgeID,
	}
}
