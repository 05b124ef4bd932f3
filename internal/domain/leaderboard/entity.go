// Package leaderboard содержит доменную модель лидерборда Orbita Academy.
// Лидерборд - производная, эфемерная проекция популяции профилей:
// записи никогда не сохраняются и пересчитываются на каждый запрос.
package leaderboard

import (
	"fmt"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию ученика в лидерборде.
// Rank начинается с 1 (первое место).
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// IsTop возвращает true, если ранг входит в топ-n.
func (r Rank) IsTop(n int) bool {
	return r >= 1 && int(r) <= n
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// Measure определяет меру XP, по которой строится рейтинг.
type Measure string

const (
	// MeasureAllTime - рейтинг по суммарному XP за всё время.
	MeasureAllTime Measure = "all_time"
	// MeasureMonthly - рейтинг по XP за текущий календарный месяц.
	MeasureMonthly Measure = "monthly"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD ENTRY & BOARD
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну запись в лидерборде.
type Entry struct {
	// Rank - позиция в рейтинге (1-based).
	Rank Rank

	// ProfileID - идентификатор профиля.
	ProfileID string

	// DisplayName - отображаемое имя.
	DisplayName string

	// AvatarURL - ссылка на аватар.
	AvatarURL string

	// XP - значение меры рейтинга: суммарный XP для all-time,
	// XP за месяц для monthly.
	XP profile.XP

	// Level - текущий уровень ученика.
	Level profile.Level
}

// Board - результат агрегации лидерборда.
type Board struct {
	// AllTime - топ записей по суммарному XP.
	AllTime []Entry `json:"all_time"`

	// Monthly - топ записей по XP за месяц asOf.
	Monthly []Entry `json:"monthly"`

	// UserAllTime - запись запрашивающего ученика в all-time рейтинге,
	// даже если он вне топа. nil, если ученик не запрошен или не найден.
	UserAllTime *Entry `json:"user_all_time,omitempty"`

	// UserMonthly - запись запрашивающего ученика в месячном рейтинге.
	UserMonthly *Entry `json:"user_monthly,omitempty"`

	// Month - месяц месячного рейтинга в формате "2006-01".
	Month string `json:"month"`

	// GeneratedAt - время построения.
	GeneratedAt time.Time `json:"generated_at"`
}
