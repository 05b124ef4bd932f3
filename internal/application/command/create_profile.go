package command

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE PROFILE COMMAND
// Профиль создаётся один раз при регистрации аккаунта: xp=0, level=1,
// пустые множества и журнал. Дальше его мутирует только движок прогресса.
// ══════════════════════════════════════════════════════════════════════════════

// CreateProfileCommand contains the data for a new learner profile.
type CreateProfileCommand struct {
	// ID is the profile identifier. Empty means "generate one".
	ID string

	// DisplayName is the learner's display name.
	DisplayName string

	// AvatarURL is an optional avatar link.
	AvatarURL string
}

// Validate validates the command.
func (c CreateProfileCommand) Validate() error {
	if strings.TrimSpace(c.DisplayName) == "" {
		return shared.NewDomainError("profile", "Create", shared.ErrEmptyValue, "display name is required")
	}
	return nil
}

// CreateProfileHandler handles profile creation.
type CreateProfileHandler struct {
	sessions profile.SessionStore
	profiles profile.Repository
	log      *logger.Logger
}

// NewCreateProfileHandler creates the handler.
func NewCreateProfileHandler(sessions profile.SessionStore, profiles profile.Repository, log *logger.Logger) *CreateProfileHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CreateProfileHandler{sessions: sessions, profiles: profiles, log: log}
}

// Handle creates the profile in the remote store and seeds the session.
// Profile creation is the one write that goes remote-first: a profile that
// exists only locally cannot be ranked or synced later.
func (h *CreateProfileHandler) Handle(ctx context.Context, cmd CreateProfileCommand) (*profile.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := cmd.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	p, err := profile.NewProfile(profile.NewProfileParams{
		ID:          id,
		DisplayName: cmd.DisplayName,
		AvatarURL:   cmd.AvatarURL,
	})
	if err != nil {
		return nil, shared.WrapError("profile", "Create", shared.ErrValidation, "invalid profile params", err)
	}

	if err := h.profiles.Create(ctx, p); err != nil {
		return nil, err
	}

	h.sessions.Seed(p)
	h.log.Info("profile created",
		logger.String("profile_id", p.ID),
		logger.String("display_name", p.DisplayName),
	)

	return p, nil
}
