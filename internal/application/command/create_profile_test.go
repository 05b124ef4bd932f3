package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
)

func TestCreateProfile(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	h := NewCreateProfileHandler(sessions, repo, nil)

	p, err := h.Handle(context.Background(), CreateProfileCommand{
		ID:          "s1",
		DisplayName: "Аружан",
		AvatarURL:   "https://cdn.orbita.academy/a/s1.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", p.ID)
	assert.Equal(t, profile.XP(0), p.XP)
	assert.Equal(t, profile.Level(1), p.Level)

	// Remote-first: created in the store, then seeded into the session
	// without a dirty mark.
	_, err = repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	_, ok := sessions.Read("s1")
	assert.True(t, ok)
	assert.Empty(t, sessions.Dirty())
}

func TestCreateProfile_GeneratesID(t *testing.T) {
	h := NewCreateProfileHandler(newFakeSessionStore(), newFakeRepository(), nil)

	p, err := h.Handle(context.Background(), CreateProfileCommand{DisplayName: "Nur"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}

func TestCreateProfile_Duplicate(t *testing.T) {
	sessions := newFakeSessionStore()
	repo := newFakeRepository()
	h := NewCreateProfileHandler(sessions, repo, nil)

	_, err := h.Handle(context.Background(), CreateProfileCommand{ID: "s1", DisplayName: "Nur"})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), CreateProfileCommand{ID: "s1", DisplayName: "Nur"})
	assert.ErrorIs(t, err, profile.ErrProfileAlreadyExists)
}

func TestCreateProfile_Validation(t *testing.T) {
	h := NewCreateProfileHandler(newFakeSessionStore(), newFakeRepository(), nil)

	_, err := h.Handle(context.Background(), CreateProfileCommand{DisplayName: "   "})
	assert.Error(t, err)
}
