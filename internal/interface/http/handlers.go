package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/orbita-academy/progress-hub/internal/application/command"
	"github.com/orbita-academy/progress-hub/internal/application/query"
	"github.com/orbita-academy/progress-hub/internal/domain/badge"
	"github.com/orbita-academy/progress-hub/internal/domain/profile"
	"github.com/orbita-academy/progress-hub/internal/domain/shared"
	"github.com/orbita-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROOT & HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "orbita-progress-hub",
		"version": "v1",
		"status":  "running",
	})
}

// handleHealth handles GET /health and GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createProfileRequest struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type profileResponse struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	XP           int      `json:"xp"`
	Level        int      `json:"level"`
	Lessons      int      `json:"completed_lessons"`
	Workshops    int      `json:"completed_workshops"`
	Badges       []string `json:"badges"`
	StudyMinutes int      `json:"study_minutes"`
}

func toProfileResponse(p *profile.Profile) profileResponse {
	badges := []string(p.Badges)
	if badges == nil {
		badges = []string{}
	}
	return profileResponse{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		AvatarURL:    p.AvatarURL,
		XP:           int(p.XP),
		Level:        int(p.Level),
		Lessons:      p.CompletedLessons.Size(),
		Workshops:    p.CompletedWorkshops.Size(),
		Badges:       badges,
		StudyMinutes: int(p.StudyMinutes),
	}
}

// handleCreateProfile handles POST /api/v1/profiles
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateProfileHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Profile handler not configured")
		return
	}

	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	p, err := s.deps.CreateProfileHandler.Handle(r.Context(), command.CreateProfileCommand{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, profile.ErrProfileAlreadyExists) {
			writeJSONError(w, http.StatusConflict, "already_exists", "Profile already exists")
			return
		}
		s.writeCommandError(w, err, "failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(p))
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordCompletionRequest struct {
	ProfileID string `json:"profile_id"`
	Kind      string `json:"kind"`
	UnitID    string `json:"unit_id"`
}

type recordCompletionResponse struct {
	Profile          profileResponse `json:"profile"`
	AlreadyCompleted bool            `json:"already_completed"`
	XPAwarded        int             `json:"xp_awarded"`
	LeveledUp        bool            `json:"leveled_up"`
	NewLevel         int             `json:"new_level"`
	NewBadges        []string        `json:"new_badges"`
}

// handleRecordCompletion handles POST /api/v1/completions
func (s *Server) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	if s.deps.RecordCompletionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Completion handler not configured")
		return
	}

	var req recordCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.RecordCompletionHandler.Handle(r.Context(), command.RecordCompletionCommand{
		ProfileID: req.ProfileID,
		Kind:      profile.UnitKind(req.Kind),
		UnitID:    req.UnitID,
	})
	if err != nil {
		s.writeCommandError(w, err, "failed to record completion")
		return
	}

	newBadges := result.NewBadges
	if newBadges == nil {
		newBadges = []string{}
	}

	writeJSON(w, http.StatusOK, recordCompletionResponse{
		Profile:          toProfileResponse(result.Profile),
		AlreadyCompleted: result.AlreadyCompleted,
		XPAwarded:        int(result.XPAwarded),
		LeveledUp:        result.LeveledUp,
		NewLevel:         int(result.NewLevel),
		NewBadges:        newBadges,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type refreshBadgesRequest struct {
	ProfileID string `json:"profile_id"`
	Action    string `json:"action,omitempty"`
}

type refreshBadgesResponse struct {
	Profile   profileResponse `json:"profile"`
	NewBadges []string        `json:"new_badges"`
}

// handleRefreshBadges handles POST /api/v1/badges/refresh
func (s *Server) handleRefreshBadges(w http.ResponseWriter, r *http.Request) {
	if s.deps.RefreshBadgesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Badge handler not configured")
		return
	}

	var req refreshBadgesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.RefreshBadgesHandler.Handle(r.Context(), command.RefreshBadgesCommand{
		ProfileID: req.ProfileID,
		Action:    badge.ActionType(req.Action),
	})
	if err != nil {
		s.writeCommandError(w, err, "failed to refresh badges")
		return
	}

	newBadges := result.NewBadges
	if newBadges == nil {
		newBadges = []string{}
	}

	writeJSON(w, http.StatusOK, refreshBadgesResponse{
		Profile:   toProfileResponse(result.Profile),
		NewBadges: newBadges,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLeaderboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard handler not configured")
		return
	}

	q := query.GetLeaderboardQuery{
		ProfileID: r.URL.Query().Get("profile_id"),
		SkipCache: getQueryParamBool(r, "fresh"),
	}

	board, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to get leaderboard", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDailyProgress handles GET /api/v1/profiles/{id}/daily
func (s *Server) handleGetDailyProgress(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDailyProgressHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Daily progress handler not configured")
		return
	}

	q := query.GetDailyProgressQuery{
		ProfileID: r.PathValue("id"),
		Days:      getQueryParamInt(r, "days", 30),
	}

	result, err := s.deps.GetDailyProgressHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeCommandError(w, err, "failed to get daily progress")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeCommandError maps application errors onto HTTP statuses.
func (s *Server) writeCommandError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound) || shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case isValidationError(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		s.logger.Error(logMsg, logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}

func isValidationError(err error) bool {
	return shared.IsValidation(err) ||
		errors.Is(err, profile.ErrInvalidUnitKind) ||
		errors.Is(err, profile.ErrInvalidUnitID) ||
		errors.Is(err, profile.ErrNegativeAward) ||
		// The daily progress query validates with plain prefixed errors.
		strings.HasPrefix(err.Error(), "get_daily_progress:")
}
