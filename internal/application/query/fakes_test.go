package query

import (
	"context"
	"sort"

	"github.com/orbita-academy/progress-hub/internal/domain/leaderboard"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

type fakeRepository struct {
	profiles    map[string]*profile.Profile
	listCalls   int
	listErr     error
	lastListCap int
}

func newFakeRepository(profiles ...*profile.Profile) *fakeRepository {
	r := &fakeRepository{profiles: make(map[string]*profile.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeRepository) Create(_ context.Context, p *profile.Profile) error {
	r.profiles[p.ID] = p.Clone()
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *fakeRepository) UpdateProgress(_ context.Context, p *profile.Profile) error {
	r.profiles[p.ID] = p.Clone()
	return nil
}

func (r *fakeRepository) ListRanked(_ context.Context, limit int) ([]*profile.Profile, error) {
	r.listCalls++
	r.lastListCap = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
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

type fakeSessionStore struct {
	profiles map[string]*profile.Profile
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{profiles: make(map[string]*profile.Profile)}
}

func (s *fakeSessionStore) Read(id string) (*profile.Profile, bool) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *fakeSessionStore) Write(p *profile.Profile) { s.profiles[p.ID] = p.Clone() }
func (s *fakeSessionStore) Seed(p *profile.Profile)  { s.profiles[p.ID] = p.Clone() }
func (s *fakeSessionStore) Dirty() []string          { return nil }
func (s *fakeSessionStore) ClearDirty(string)        {}

type fakeBoardCache struct {
	board        *leaderboard.Board
	getErr       error
	setErr       error
	getCalls     int
	setCalls     int
	lastGetMonth string
}

func (c *fakeBoardCache) Get(_ context.Context, month string) (*leaderboard.Board, error) {
	c.getCalls++
	c.lastGetMonth = month
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.board != nil && c.board.Month == month {
		return c.board, nil
	}
	return nil, nil
}

func (c *fakeBoardCache) Set(_ context.Context, board *leaderboard.Board) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.board = board
	return nil
}
