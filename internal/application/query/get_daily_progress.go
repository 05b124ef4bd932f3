package query

import (
	"context"
	"errors"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DAILY PROGRESS QUERY
// Возвращает временной ряд дневной активности профиля для визуализации.
// Журнал хранится в порядке вставки - читатель сортирует перед отдачей.
// ══════════════════════════════════════════════════════════════════════════════

// GetDailyProgressQuery содержит параметры запроса дневной активности.
type GetDailyProgressQuery struct {
	// ProfileID - идентификатор профиля.
	ProfileID string

	// Days - сколько последних дней вернуть (по умолчанию 30, максимум 365).
	Days int
}

// Validate проверяет корректность параметров запроса.
func (q *GetDailyProgressQuery) Validate() error {
	if q.ProfileID == "" {
		return errors.New("get_daily_progress: profile_id is required")
	}
	if q.Days < 0 {
		return errors.New("get_daily_progress: days cannot be negative")
	}
	if q.Days == 0 {
		q.Days = 30
	}
	if q.Days > 365 {
		q.Days = 365
	}
	return nil
}

// DailyProgressEntryDTO - одна точка временного ряда.
type DailyProgressEntryDTO struct {
	// Date - календарная дата "2006-01-02".
	Date string `json:"date"`

	// XPEarned - XP, заработанный за этот день.
	XPEarned int `json:"xp_earned"`
}

// GetDailyProgressResult содержит результат запроса.
type GetDailyProgressResult struct {
	// ProfileID - идентификатор профиля.
	ProfileID string `json:"profile_id"`

	// Entries - записи в хронологическом порядке.
	Entries []DailyProgressEntryDTO `json:"entries"`

	// TotalXP - суммарный XP профиля.
	TotalXP int `json:"total_xp"`

	// Level - текущий уровень.
	Level int `json:"level"`

	// StudyMinutes - суммарное время обучения.
	StudyMinutes int `json:"study_minutes"`

	// TodayXP - XP, заработанный сегодня.
	TodayXP int `json:"today_xp"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetDailyProgressHandler handles daily progress queries.
type GetDailyProgressHandler struct {
	sessions profile.SessionStore
	profiles profile.Repository
	clock    timeutil.Clock
	loc      *time.Location
}

// NewGetDailyProgressHandler creates the handler.
func NewGetDailyProgressHandler(
	sessions profile.SessionStore,
	profiles profile.Repository,
	clock timeutil.Clock,
	loc *time.Location,
) *GetDailyProgressHandler {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GetDailyProgressHandler{
		sessions: sessions,
		profiles: profiles,
		clock:    clock,
		loc:      loc,
	}
}

// Handle returns the profile's daily activity time series.
// The session store is preferred: it reflects completions recorded in the
// current session even before the remote push lands.
func (h *GetDailyProgressHandler) Handle(ctx context.Context, q GetDailyProgressQuery) (*GetDailyProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	p, ok := h.sessions.Read(q.ProfileID)
	if !ok {
		var err error
		p, err = h.profiles.GetByID(ctx, q.ProfileID)
		if err != nil {
			return nil, err
		}
	}

	p.Heal()

	now := h.clock()
	today := timeutil.DateKey(now, h.loc)

	entries := p.ActivityLog.LastN(q.Days)
	dtos := make([]DailyProgressEntryDTO, 0, len(entries))
	todayXP := 0
	for _, e := range entries {
		dtos = append(dtos, DailyProgressEntryDTO{
			Date:     e.Date,
			XPEarned: int(e.XPEarned),
		})
		if e.Date == today {
			todayXP = int(e.XPEarned)
		}
	}

	return &GetDailyProgressResult{
		ProfileID:    p.ID,
		Entries:      dtos,
		TotalXP:      int(p.XP),
		Level:        int(p.Level),
		StudyMinutes: int(p.StudyMinutes),
		TodayXP:      todayXP,
		GeneratedAt:  now,
	}, nil
}
