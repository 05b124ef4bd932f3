package leaderboard

import (
	"sort"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATOR
// Чистая агрегация: строит ранжированные представления из популяции
// профилей. Не выполняет записей, безопасна для конкурентных вызовов.
// ══════════════════════════════════════════════════════════════════════════════

// TopSize - размер публикуемого топа лидерборда.
const TopSize = 5

// Aggregator строит лидерборд из популяции профилей.
type Aggregator struct {
	topSize int
	loc     *time.Location
}

// NewAggregator создаёт агрегатор со стандартным размером топа.
// Локация используется для вычисления месячного префикса из asOf.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{topSize: TopSize, loc: loc}
}

// Build строит лидерборд по всей переданной популяции.
// Ранги вычисляются по полной популяции и только затем усекаются до топа,
// поэтому запись запрашивающего ученика согласована с рейтингом.
// Равные значения меры сохраняют стабильный входной порядок.
func (a *Aggregator) Build(profiles []*profile.Profile, currentUserID string, asOf time.Time) *Board {
	month := timeutil.MonthPrefix(asOf, a.loc)

	allTime := a.rank(profiles, func(p *profile.Profile) profile.XP {
		return p.XP
	})
	monthly := a.rank(profiles, func(p *profile.Profile) profile.XP {
		return p.MonthlyXP(month)
	})

	board := &Board{
		AllTime:     truncate(allTime, a.topSize),
		Monthly:     truncate(monthly, a.topSize),
		Month:       month,
		GeneratedAt: time.Now().UTC(),
	}

	if currentUserID != "" {
		board.UserAllTime = findEntry(allTime, currentUserID)
		board.UserMonthly = findEntry(monthly, currentUserID)
	}

	return board
}

// Month возвращает месячный префикс момента asOf в локации агрегатора.
// Ключ кэша доски обязан совпадать с Board.Month, поэтому оба считаются
// здесь, в одной локации.
func (a *Aggregator) Month(asOf time.Time) string {
	return timeutil.MonthPrefix(asOf, a.loc)
}

// rank сортирует популяцию по мере по убыванию и присваивает 1-based ранги.
func (a *Aggregator) rank(profiles []*profile.Profile, measure func(*profile.Profile) profile.XP) []Entry {
	entries := make([]Entry, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		entries = append(entries, Entry{
			ProfileID:   p.ID,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			XP:          measure(p),
			Level:       p.Level,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].XP > entries[j].XP
	})

	for i := range entries {
		entries[i].Rank = Rank(i + 1)
	}

	return entries
}

// truncate усекает отранжированный список до топа.
func truncate(entries []Entry, n int) []Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// findEntry ищет запись ученика в полном отранжированном списке.
func findEntry(entries []Entry, profileID string) *Entry {
	for i := range entries {
		if entries[i].ProfileID == profileID {
			e := entries[i]
			return &e
		}
	}
	return nil
}
