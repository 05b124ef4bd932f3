// Package memory implements the in-process session store for profiles.
// The store is the authoritative view of the active session: writes land
// here synchronously, the remote push happens asynchronously from the
// dirty set.
package memory

import (
	"sort"
	"sync"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

// SessionStore хранит профили активной сессии в памяти.
// Все методы безопасны для конкурентного вызова; Read и Write работают
// с глубокими копиями, поэтому вызывающий код не делит состояние с кэшем.
type SessionStore struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
	dirty    map[string]struct{}
}

// NewSessionStore создаёт пустой кэш сессии.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		profiles: make(map[string]*profile.Profile),
		dirty:    make(map[string]struct{}),
	}
}

// Read возвращает глубокую копию профиля из кэша.
func (s *SessionStore) Read(id string) (*profile.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Write сохраняет копию профиля и помечает его для синхронизации.
func (s *SessionStore) Write(p *profile.Profile) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.ID] = p.Clone()
	s.dirty[p.ID] = struct{}{}
}

// Seed сохраняет копию профиля без пометки о синхронизации.
// Существующая пометка не снимается: засев из хранилища не должен
// терять несинхронизированные локальные изменения.
func (s *SessionStore) Seed(p *profile.Profile) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, pending := s.dirty[p.ID]; pending {
		return
	}
	s.profiles[p.ID] = p.Clone()
}

// Dirty возвращает отсортированный список профилей, ожидающих отправки.
func (s *SessionStore) Dirty() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearDirty снимает пометку синхронизации с профиля.
func (s *SessionStore) ClearDirty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirty, id)
}

// Len возвращает число профилей в кэше.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
