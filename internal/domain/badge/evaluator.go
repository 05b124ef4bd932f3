package badge

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATOR
// Чистый движок правил: по снимку профиля и контексту триггера возвращает
// множество новых бейджей. Никаких побочных эффектов.
// ══════════════════════════════════════════════════════════════════════════════

import (
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

// Evaluator проверяет условия разблокировки бейджей.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator создаёт движок со стандартным каталогом правил.
func NewEvaluator() *Evaluator {
	return &Evaluator{rules: Rules()}
}

// NewEvaluatorWithRules создаёт движок с пользовательским набором правил.
func NewEvaluatorWithRules(rules []Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate возвращает идентификаторы новых бейджей в порядке каталога.
// Гарантии:
//   - возвращаются только бейджи, которых ещё нет в profile.Badges;
//   - каждое правило переоценивается при каждом вызове;
//   - правила с привязкой к действию срабатывают только при совпадении
//     действия в контексте.
func (e *Evaluator) Evaluate(p *profile.Profile, ctx Context) []ID {
	if p == nil {
		return nil
	}

	var unlocked []ID
	for _, rule := range e.rules {
		if p.Badges.Contains(string(rule.ID)) {
			continue
		}
		if rule.Action != "" && rule.Action != ActionNone && ctx.Action != rule.Action {
			continue
		}
		if rule.Predicate(p, ctx) {
			unlocked = append(unlocked, rule.ID)
		}
	}

	return unlocked
}

// IDs преобразует список идентификаторов бейджей в строки.
func IDs(ids []ID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
