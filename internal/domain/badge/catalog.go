// Package badge содержит каталог бейджей и движок правил их разблокировки.
// Бейджи монотонны: однажды полученный бейдж никогда не отбирается.
package badge

import (
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRIGGER CONTEXT
// ══════════════════════════════════════════════════════════════════════════════

// ActionType определяет действие, инициировавшее проверку бейджей.
type ActionType string

const (
	// ActionNone - проверка без конкретного действия (defensive re-evaluation).
	ActionNone ActionType = "none"
	// ActionLessonComplete - завершён урок.
	ActionLessonComplete ActionType = "lesson_complete"
	// ActionWorkshopComplete - завершён воркшоп.
	ActionWorkshopComplete ActionType = "workshop_complete"
	// ActionProjectCreated - опубликован проект в сообществе.
	ActionProjectCreated ActionType = "project_created"
	// ActionForumPost - написан пост на форуме.
	ActionForumPost ActionType = "forum_post"
	// ActionWikiApproved - одобрена статья в вики.
	ActionWikiApproved ActionType = "wiki_approved"
)

// IsValid проверяет, что тип действия известен.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionNone, ActionLessonComplete, ActionWorkshopComplete,
		ActionProjectCreated, ActionForumPost, ActionWikiApproved:
		return true
	default:
		return false
	}
}

// Context - контекст триггера для оценки правил.
type Context struct {
	// Action - действие, инициировавшее проверку.
	Action ActionType
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE CATALOG
// Каталог - упорядоченный список правил {id, предикат}. Новые правила
// добавляются в список, точки вызова не меняются.
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет идентификатор бейджа.
type ID string

const (
	// BadgeFirstSteps - завершён первый урок.
	BadgeFirstSteps ID = "first_steps"
	// BadgeScholar - достигнут 5 уровень.
	BadgeScholar ID = "scholar"
	// BadgeCertified - завершён первый воркшоп.
	BadgeCertified ID = "certified"
	// BadgeBuilder - опубликован проект в сообществе.
	BadgeBuilder ID = "builder"
	// BadgeSocial - написан пост на форуме.
	BadgeSocial ID = "social"
	// BadgeContributor - одобрена статья в вики.
	BadgeContributor ID = "contributor"
)

// Predicate - чистая функция-условие разблокировки бейджа.
type Predicate func(p *profile.Profile, ctx Context) bool

// Rule описывает одно правило разблокировки.
type Rule struct {
	// ID - идентификатор бейджа.
	ID ID

	// Action - если не ActionNone, правило срабатывает только при
	// совпадающем действии (защита от разблокировки на чужих триггерах).
	Action ActionType

	// Predicate - условие над состоянием профиля.
	Predicate Predicate
}

// Definition описывает бейдж для отображения.
type Definition struct {
	ID          ID
	Name        string
	Description string
	Emoji       string
}

// Rules возвращает упорядоченный список правил разблокировки.
// Порядок списка определяет порядок обнаружения новых бейджей.
func Rules() []Rule {
	return []Rule{
		{
			ID: BadgeFirstSteps,
			Predicate: func(p *profile.Profile, _ Context) bool {
				return p.CompletedLessons.Size() >= 1
			},
		},
		{
			ID: BadgeScholar,
			Predicate: func(p *profile.Profile, _ Context) bool {
				return p.Level >= 5
			},
		},
		{
			ID: BadgeCertified,
			Predicate: func(p *profile.Profile, _ Context) bool {
				return p.CompletedWorkshops.Size() >= 1
			},
		},
		{
			ID:     BadgeBuilder,
			Action: ActionProjectCreated,
			Predicate: func(_ *profile.Profile, ctx Context) bool {
				return ctx.Action == ActionProjectCreated
			},
		},
		{
			ID:     BadgeSocial,
			Action: ActionForumPost,
			Predicate: func(_ *profile.Profile, ctx Context) bool {
				return ctx.Action == ActionForumPost
			},
		},
		{
			ID:     BadgeContributor,
			Action: ActionWikiApproved,
			Predicate: func(_ *profile.Profile, ctx Context) bool {
				return ctx.Action == ActionWikiApproved
			},
		},
	}
}

// Definitions возвращает отображаемые описания всех бейджей.
func Definitions() []Definition {
	return []Definition{
		{BadgeFirstSteps, "Первые шаги", "Завершён первый урок", "👣"},
		{BadgeScholar, "Учёный", "Достигнут 5 уровень", "📚"},
		{BadgeCertified, "Сертифицирован", "Завершён первый воркшоп", "🛠"},
		{BadgeBuilder, "Строитель", "Опубликован проект в сообществе", "🏗"},
		{BadgeSocial, "Душа компании", "Первый пост на форуме", "💬"},
		{BadgeContributor, "Соавтор", "Одобрена статья в вики", "✍️"},
	}
}

// GetDefinition возвращает описание бейджа по идентификатору.
func GetDefinition(id ID) (Definition, bool) {
	for _, def := range Definitions() {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}
