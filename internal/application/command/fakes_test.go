package command

import (
	"context"
	"sort"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Тестовые дублёры для command-хендлеров.
// ─────────────────────────────────────────────────────────────────────────────

type fakeSessionStore struct {
	profiles map[string]*profile.Profile
	dirty    map[string]struct{}
	writes   int
	seeds    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		profiles: make(map[string]*profile.Profile),
		dirty:    make(map[string]struct{}),
	}
}

func (s *fakeSessionStore) Read(id string) (*profile.Profile, bool) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *fakeSessionStore) Write(p *profile.Profile) {
	s.profiles[p.ID] = p.Clone()
	s.dirty[p.ID] = struct{}{}
	s.writes++
}

func (s *fakeSessionStore) Seed(p *profile.Profile) {
	s.profiles[p.ID] = p.Clone()
	s.seeds++
}

func (s *fakeSessionStore) Dirty() []string {
	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *fakeSessionStore) ClearDirty(id string) {
	delete(s.dirty, id)
}

type fakeRepository struct {
	profiles  map[string]*profile.Profile
	createErr error
	getErr    error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{profiles: make(map[string]*profile.Profile)}
}

func (r *fakeRepository) Create(_ context.Context, p *profile.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.profiles[p.ID]; ok {
		return profile.ErrProfileAlreadyExists
	}
	r.profiles[p.ID] = p.Clone()
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *fakeRepository) UpdateProgress(_ context.Context, p *profile.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return profile.ErrProfileNotFound
	}
	r.profiles[p.ID] = p.Clone()
	return nil
}

func (r *fakeRepository) ListRanked(_ context.Context, limit int) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingSyncer struct {
	scheduled []string
}

func (s *recordingSyncer) Schedule(profileID string) {
	s.scheduled = append(s.scheduled, profileID)
}

type recordingBus struct {
	events []shared.Event
}

func (b *recordingBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) types() []shared.EventType {
	out := make([]shared.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventType()
	}
	return out
}
