package profile

import (
	"fmt"
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY LEDGER
// Журнал активности: агрегированный XP по календарным дням.
// Инвариант: не более одной записи на дату. Порядок записей - порядок
// вставки, читатели обязаны сортировать перед отображением временных рядов.
// ══════════════════════════════════════════════════════════════════════════════

// ActivityEntry представляет запись XP за один календарный день.
type ActivityEntry struct {
	// Date - ключ календарного дня в формате "2006-01-02".
	Date string `json:"date"`

	// XPEarned - суммарный XP, заработанный за этот день.
	XPEarned XP `json:"xp_earned"`
}

// ActivityLog - упорядоченная коллекция дневных записей.
type ActivityLog []ActivityEntry

// Upsert добавляет delta к записи за дату date.
// Если запись существует, XP накапливается; иначе создаётся новая запись.
func (l *ActivityLog) Upsert(date string, delta XP) {
	if delta <= 0 {
		return
	}

	for i := range *l {
		if (*l)[i].Date == date {
			(*l)[i].XPEarned += delta
			return
		}
	}

	*l = append(*l, ActivityEntry{Date: date, XPEarned: delta})
}

// EntryFor возвращает запись за дату, если она есть.
func (l ActivityLog) EntryFor(date string) (ActivityEntry, bool) {
	for _, e := range l {
		if e.Date == date {
			return e, true
		}
	}
	return ActivityEntry{}, false
}

// SumMonth возвращает сумму XP за месяц с префиксом "2006-01".
// Используется лидербордом для месячного рейтинга.
func (l ActivityLog) SumMonth(monthPrefix string) XP {
	var total XP
	for _, e := range l {
		if strings.HasPrefix(e.Date, monthPrefix) {
			total += e.XPEarned
		}
	}
	return total
}

// Total возвращает суммарный XP по всем записям журнала.
func (l ActivityLog) Total() XP {
	var total XP
	for _, e := range l {
		total += e.XPEarned
	}
	return total
}

// Sorted возвращает копию журнала, отсортированную по дате по возрастанию.
func (l ActivityLog) Sorted() ActivityLog {
	sorted := l.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// LastN возвращает последние n записей в хронологическом порядке.
func (l ActivityLog) LastN(n int) ActivityLog {
	sorted := l.Sorted()
	if n <= 0 || len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

// Clone создаёт копию журнала.
func (l ActivityLog) Clone() ActivityLog {
	if l == nil {
		return nil
	}
	clone := make(ActivityLog, len(l))
	copy(clone, l)
	return clone
}

// Validate проверяет инварианты журнала: корректные ключи дат,
// неотрицательный XP и отсутствие дубликатов дат.
func (l ActivityLog) Validate() error {
	seen := make(map[string]bool, len(l))
	for _, e := range l {
		if len(e.Date) != 10 || e.Date[4] != '-' || e.Date[7] != '-' {
			return fmt.Errorf("activity log: malformed date key %q", e.Date)
		}
		if e.XPEarned < 0 {
			return fmt.Errorf("activity log: negative xp for %s", e.Date)
		}
		if seen[e.Date] {
			return fmt.Errorf("activity log: duplicate entry for %s", e.Date)
		}
		seen[e.Date] = true
	}
	return nil
}
