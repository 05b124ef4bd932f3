package command

import (
	"context"
	"strings"

	"github.com/orbita-academy/progress-hub/internal/domain/badge"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH BADGES COMMAND
// Переоценка бейджей по внешним триггерам: публикация проекта, пост на
// форуме, одобрение вики-статьи. XP не начисляется - меняются только бейджи.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshBadgesCommand asks the engine to re-evaluate badge rules for a
// profile after an action outside the completion flow.
type RefreshBadgesCommand struct {
	// ProfileID is the learner to refresh.
	ProfileID string

	// Action is the triggering action (project_created, forum_post,
	// wiki_approved, or none for a plain defensive re-evaluation).
	Action badge.ActionType
}

// Validate validates the command.
func (c RefreshBadgesCommand) Validate() error {
	if strings.TrimSpace(c.ProfileID) == "" {
		return shared.ErrInvalidProfileID
	}
	if c.Action != "" && !c.Action.IsValid() {
		return shared.NewDomainError("badge", "Refresh", shared.ErrInvalidInput, "unknown action type")
	}
	return nil
}

// RefreshBadgesResult contains the outcome of a badge refresh.
type RefreshBadgesResult struct {
	// Profile is the updated profile snapshot.
	Profile *profile.Profile

	// NewBadges lists badges unlocked by this call, in discovery order.
	NewBadges []string
}

// RefreshBadgesHandler handles badge refresh requests.
type RefreshBadgesHandler struct {
	sessions  profile.SessionStore
	profiles  profile.Repository
	evaluator *badge.Evaluator
	events    shared.EventPublisher
	syncer    RemoteSyncer
	log       *logger.Logger
}

// NewRefreshBadgesHandler creates the handler.
func NewRefreshBadgesHandler(
	sessions profile.SessionStore,
	profiles profile.Repository,
	evaluator *badge.Evaluator,
	events shared.EventPublisher,
	syncer RemoteSyncer,
	log *logger.Logger,
) *RefreshBadgesHandler {
	if evaluator == nil {
		evaluator = badge.NewEvaluator()
	}
	if log == nil {
		log = logger.Default()
	}

	return &RefreshBadgesHandler{
		sessions:  sessions,
		profiles:  profiles,
		evaluator: evaluator,
		events:    events,
		syncer:    syncer,
		log:       log,
	}
}

// Handle re-evaluates the badge catalog and unions newly unlocked badges
// into the profile. Badge ownership is append-only.
func (h *RefreshBadgesHandler) Handle(ctx context.Context, cmd RefreshBadgesCommand) (*RefreshBadgesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := h.loadProfile(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	healed := p.Heal()
	if healed {
		h.log.Warn("healed inconsistent level", logger.String("profile_id", p.ID))
	}

	action := cmd.Action
	if action == "" {
		action = badge.ActionNone
	}

	newBadges := p.UnlockBadges(badge.IDs(h.evaluator.Evaluate(p, badge.Context{Action: action})))

	if len(newBadges) > 0 || healed {
		h.sessions.Write(p)
		if h.syncer != nil {
			h.syncer.Schedule(p.ID)
		}
	}

	if h.events != nil {
		for _, id := range newBadges {
			if err := h.events.Publish(profile.NewBadgeUnlockedEvent(p, id)); err != nil {
				h.log.Warn("failed to publish badge event",
					logger.String("badge_id", id),
					logger.Err(err),
				)
			}
		}
	}

	return &RefreshBadgesResult{Profile: p, NewBadges: newBadges}, nil
}

func (h *RefreshBadgesHandler) loadProfile(ctx context.Context, id string) (*profile.Profile, error) {
	if p, ok := h.sessions.Read(id); ok {
		return p, nil
	}

	p, err := h.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	h.sessions.Seed(p)
	return p.Clone(), nil
}
