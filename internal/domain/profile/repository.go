package profile

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищами профилей.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции удалённого хранилища профилей (Profile Store).
type Repository interface {
	// Create создаёт новый профиль.
	// Возвращает ErrProfileAlreadyExists, если профиль уже существует.
	Create(ctx context.Context, p *Profile) error

	// GetByID возвращает профиль по идентификатору.
	// Возвращает ErrProfileNotFound, если профиль не найден.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// UpdateProgress записывает только поля прогресса: xp, level,
	// completed_lessons, completed_workshops, badges, activity_log,
	// study_minutes. Остальные поля профиля не трогаются.
	UpdateProgress(ctx context.Context, p *Profile) error

	// ListRanked возвращает профили, отсортированные по XP по убыванию
	// на стороне хранилища. limit <= 0 означает "без ограничения".
	// Сортировка на стороне хранилища гарантирует корректные ранги
	// даже при ограниченной выборке.
	ListRanked(ctx context.Context, limit int) ([]*Profile, error)
}

// SessionStore определяет локальный кэш профилей активной сессии.
// Синхронный и всегда доступный; источник истины для текущей сессии.
// Write помечает профиль "грязным" для последующей отправки в удалённое
// хранилище; Seed записывает без пометки (заполнение кэша из хранилища).
type SessionStore interface {
	// Read возвращает копию профиля из кэша сессии.
	Read(id string) (*Profile, bool)

	// Write сохраняет профиль в кэш и помечает его для синхронизации.
	Write(p *Profile)

	// Seed сохраняет профиль в кэш без пометки о синхронизации.
	Seed(p *Profile)

	// Dirty возвращает идентификаторы профилей, ожидающих отправки
	// в удалённое хранилище.
	Dirty() []string

	// ClearDirty снимает пометку после успешной синхронизации.
	ClearDirty(id string)
}

// Cache определяет операции кэширования профилей (Redis).
// В отличие от SessionStore, кэш может быть недоступен - промахи
// и ошибки кэша не влияют на корректность.
type Cache interface {
	// Get возвращает профиль из кэша или ошибку промаха.
	Get(ctx context.Context, id string) (*Profile, error)

	// Set сохраняет профиль в кэш.
	Set(ctx context.Context, p *Profile) error

	// Delete удаляет профиль из кэша.
	Delete(ctx context.Context, id string) error
}
