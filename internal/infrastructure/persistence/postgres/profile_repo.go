// Package postgres implements the PostgreSQL persistence layer for the
// Orbita Progress Hub.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/profile"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const profileColumns = `
	id, display_name, avatar_url, xp, level,
	completed_lessons, completed_workshops, badges,
	activity_log, study_minutes, created_at, updated_at
`

// ProfileRepository implements profile.Repository for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Create creates a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (
			id, display_name, avatar_url, xp, level,
			completed_lessons, completed_workshops, badges,
			activity_log, study_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	logJSON, err := json.Marshal(p.ActivityLog)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		p.ID,
		p.DisplayName,
		p.AvatarURL,
		int(p.XP),
		int(p.Level),
		[]string(p.CompletedLessons),
		[]string(p.CompletedWorkshops),
		[]string(p.Badges),
		logJSON,
		int(p.StudyMinutes),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return profile.ErrProfileAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID returns a profile by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanProfile(row)
}

// UpdateProgress writes only the progression fields of a profile.
// Identity fields (display_name, avatar_url, created_at) stay untouched,
// so a concurrent profile edit is never clobbered by a progress sync.
func (r *ProfileRepository) UpdateProgress(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles SET
			xp = $1,
			level = $2,
			completed_lessons = $3,
			completed_workshops = $4,
			badges = $5,
			activity_log = $6,
			study_minutes = $7,
			updated_at = $8
		WHERE id = $9
	`

	logJSON, err := json.Marshal(p.ActivityLog)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query,
		int(p.XP),
		int(p.Level),
		[]string(p.CompletedLessons),
		[]string(p.CompletedWorkshops),
		[]string(p.Badges),
		logJSON,
		int(p.StudyMinutes),
		time.Now().UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}

	return nil
}

// ListRanked returns profiles ordered by XP descending on the store side.
// limit <= 0 returns the full population. Ordering before the limit keeps
// top ranks correct even when the fetch is capped.
func (r *ProfileRepository) ListRanked(ctx context.Context, limit int) ([]*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY xp DESC, id ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *ProfileRepository) scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p         profile.Profile
		xp        int
		level     int
		lessons   []string
		workshops []string
		badges    []string
		logJSON   []byte
		studyMin  int
	)

	err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.AvatarURL,
		&xp,
		&level,
		&lessons,
		&workshops,
		&badges,
		&logJSON,
		&studyMin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.XP = profile.XP(xp)
	p.Level = profile.Level(level)
	p.CompletedLessons = profile.IDSet(lessons)
	p.CompletedWorkshops = profile.IDSet(workshops)
	p.Badges = profile.IDSet(badges)
	p.StudyMinutes = profile.StudyMinutes(studyMin)

	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &p.ActivityLog); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity log: %w", err)
		}
	}

	return &p, nil
}
