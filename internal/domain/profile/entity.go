// Package profile содержит доменную модель профиля ученика Orbita Academy.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// XP представляет очки опыта ученика.
// XP монотонно не убывает за всё время жизни профиля.
type XP int

// IsValid проверяет, что XP неотрицательный.
func (x XP) IsValid() bool {
	return x >= 0
}

// Add складывает XP.
func (x XP) Add(delta XP) XP {
	return x + delta
}

// Level представляет уровень ученика, вычисляемый из XP.
type Level int

// IsValid проверяет, что уровень положительный.
func (l Level) IsValid() bool {
	return l >= 1
}

// LevelOf вычисляет уровень на основе XP.
// Формула: floor(xp / 1000) + 1. Уровень 1 - это 0..999 XP,
// уровень 2 - 1000..1999 XP и так далее.
func LevelOf(xp XP) Level {
	if xp < 0 {
		return 1
	}
	return Level(xp/1000) + 1
}

// XPForLevel возвращает минимальный XP для достижения уровня.
func XPForLevel(l Level) XP {
	if l <= 1 {
		return 0
	}
	return XP(l-1) * 1000
}

// StudyMinutes представляет суммарное время обучения в минутах.
// Значение монотонно не убывает.
type StudyMinutes int

// IsValid проверяет, что время неотрицательное.
func (m StudyMinutes) IsValid() bool {
	return m >= 0
}

// UnitKind определяет тип завершаемой учебной единицы.
type UnitKind string

const (
	// UnitLesson - урок (чтение материала).
	UnitLesson UnitKind = "lesson"
	// UnitWorkshop - воркшоп (практическая работа).
	UnitWorkshop UnitKind = "workshop"
)

// IsValid проверяет, что тип единицы известен.
func (k UnitKind) IsValid() bool {
	return k == UnitLesson || k == UnitWorkshop
}

// String возвращает строковое представление типа единицы.
func (k UnitKind) String() string {
	return string(k)
}

// IDSet представляет множество уникальных идентификаторов.
// Порядок не гарантируется, дубликаты невозможны.
// Используется для завершённых уроков, воркшопов и полученных бейджей.
type IDSet []string

// Contains проверяет наличие идентификатора в множестве.
func (s IDSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add добавляет идентификатор. Возвращает новое множество и true,
// если идентификатор действительно был добавлен.
func (s IDSet) Add(id string) (IDSet, bool) {
	if s.Contains(id) {
		return s, false
	}
	return append(s, id), true
}

// Size возвращает размер множества.
func (s IDSet) Size() int {
	return len(s)
}

// Clone создаёт копию множества.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	clone := make(IDSet, len(s))
	copy(clone, s)
	return clone
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// Profile - центральная сущность движка прогресса.
// Поля прогресса (XP, Level, ActivityLog, StudyMinutes, Badges) мутируются
// исключительно через Completion Recorder и RefreshBadges.
type Profile struct {
	// ID - уникальный неизменяемый идентификатор профиля.
	ID string

	// DisplayName - отображаемое имя ученика.
	DisplayName string

	// AvatarURL - ссылка на аватар (для лидерборда).
	AvatarURL string

	// XP - текущее количество очков опыта. Никогда не уменьшается.
	XP XP

	// Level - кэшированный уровень. Всегда равен LevelOf(XP).
	Level Level

	// CompletedLessons - множество завершённых уроков.
	// Членство в множестве - гарантия идемпотентности начисления XP.
	CompletedLessons IDSet

	// CompletedWorkshops - множество завершённых воркшопов.
	CompletedWorkshops IDSet

	// Badges - множество полученных бейджей. Только пополняется.
	Badges IDSet

	// ActivityLog - история XP по дням. Не более одной записи на дату.
	ActivityLog ActivityLog

	// StudyMinutes - суммарное время обучения в минутах.
	StudyMinutes StudyMinutes

	// CreatedAt - время создания профиля.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidProfileID - пустой или некорректный идентификатор профиля.
	ErrInvalidProfileID = errors.New("invalid profile id: must be non-empty")

	// ErrInvalidDisplayName - некорректное отображаемое имя.
	ErrInvalidDisplayName = errors.New("invalid display name: must be 1-100 chars")

	// ErrInvalidXP - невалидное значение XP.
	ErrInvalidXP = errors.New("invalid xp: must be non-negative")

	// ErrNegativeAward - попытка начислить отрицательный XP.
	// Движок никогда не вычитает XP.
	ErrNegativeAward = errors.New("xp award must be non-negative")

	// ErrInvalidUnitID - пустой идентификатор учебной единицы.
	ErrInvalidUnitID = errors.New("invalid unit id: must be non-empty")

	// ErrInvalidUnitKind - неизвестный тип учебной единицы.
	ErrInvalidUnitKind = errors.New("invalid unit kind: must be lesson or workshop")

	// ErrProfileNotFound - профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileAlreadyExists - профиль уже существует.
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewProfileParams содержит параметры для создания нового профиля.
type NewProfileParams struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// NewProfile создаёт новый профиль с валидацией всех полей.
// Профиль создаётся один раз при регистрации: xp=0, level=1, пустые множества.
func NewProfile(params NewProfileParams) (*Profile, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, ErrInvalidProfileID
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	now := time.Now().UTC()

	return &Profile{
		ID:                 params.ID,
		DisplayName:        displayName,
		AvatarURL:          params.AvatarURL,
		XP:                 0,
		Level:              1,
		CompletedLessons:   IDSet{},
		CompletedWorkshops: IDSet{},
		Badges:             IDSet{},
		ActivityLog:        ActivityLog{},
		StudyMinutes:       0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Heal восстанавливает инвариант level == LevelOf(xp).
// Сохранённый уровень - производное значение, а не источник истины:
// при расхождении движок пересчитывает уровень, а не доверяет хранилищу.
// Возвращает true, если уровень был исправлен.
func (p *Profile) Heal() bool {
	expected := LevelOf(p.XP)
	if p.Level == expected {
		return false
	}
	p.Level = expected
	return true
}

// HasCompleted проверяет, завершена ли учебная единица.
func (p *Profile) HasCompleted(kind UnitKind, unitID string) bool {
	switch kind {
	case UnitLesson:
		return p.CompletedLessons.Contains(unitID)
	case UnitWorkshop:
		return p.CompletedWorkshops.Contains(unitID)
	default:
		return false
	}
}

// MarkCompleted добавляет единицу в соответствующее множество завершённых.
// Возвращает false, если единица уже была завершена (идемпотентность).
func (p *Profile) MarkCompleted(kind UnitKind, unitID string) (bool, error) {
	if strings.TrimSpace(unitID) == "" {
		return false, ErrInvalidUnitID
	}

	switch kind {
	case UnitLesson:
		set, added := p.CompletedLessons.Add(unitID)
		p.CompletedLessons = set
		if added {
			p.UpdatedAt = time.Now().UTC()
		}
		return added, nil
	case UnitWorkshop:
		set, added := p.CompletedWorkshops.Add(unitID)
		p.CompletedWorkshops = set
		if added {
			p.UpdatedAt = time.Now().UTC()
		}
		return added, nil
	default:
		return false, ErrInvalidUnitKind
	}
}

// AwardXP начисляет XP, обновляет дневную запись журнала активности и
// пересчитывает уровень. Возвращает true, если уровень вырос.
// Дата today - ключ календарного дня в формате "2006-01-02".
func (p *Profile) AwardXP(delta XP, today string) (leveledUp bool, err error) {
	if delta < 0 {
		return false, ErrNegativeAward
	}
	if delta == 0 {
		return false, nil
	}

	oldLevel := p.Level

	p.XP = p.XP.Add(delta)
	p.ActivityLog.Upsert(today, delta)
	p.Level = LevelOf(p.XP)
	p.UpdatedAt = time.Now().UTC()

	return p.Level > oldLevel, nil
}

// AddStudyMinutes увеличивает суммарное время обучения.
func (p *Profile) AddStudyMinutes(minutes StudyMinutes) {
	if minutes <= 0 {
		return
	}
	p.StudyMinutes += minutes
	p.UpdatedAt = time.Now().UTC()
}

// UnlockBadges добавляет бейджи в множество полученных.
// Множество только пополняется; уже имеющиеся бейджи пропускаются.
// Возвращает фактически добавленные идентификаторы в исходном порядке.
func (p *Profile) UnlockBadges(badgeIDs []string) []string {
	var unlocked []string
	for _, id := range badgeIDs {
		set, added := p.Badges.Add(id)
		p.Badges = set
		if added {
			unlocked = append(unlocked, id)
		}
	}
	if len(unlocked) > 0 {
		p.UpdatedAt = time.Now().UTC()
	}
	return unlocked
}

// MonthlyXP возвращает сумму XP за календарный месяц ("2006-01").
func (p *Profile) MonthlyXP(monthPrefix string) XP {
	return p.ActivityLog.SumMonth(monthPrefix)
}

// String возвращает строковое представление профиля для логирования.
func (p *Profile) String() string {
	return fmt.Sprintf(
		"Profile{ID: %s, XP: %d, Level: %d, Lessons: %d, Workshops: %d, Badges: %d}",
		p.ID, p.XP, p.Level,
		p.CompletedLessons.Size(), p.CompletedWorkshops.Size(), p.Badges.Size(),
	)
}

// Clone создаёт глубокую копию профиля.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	clone := *p
	clone.CompletedLessons = p.CompletedLessons.Clone()
	clone.CompletedWorkshops = p.CompletedWorkshops.Clone()
	clone.Badges = p.Badges.Clone()
	clone.ActivityLog = p.ActivityLog.Clone()
	return &clone
}
