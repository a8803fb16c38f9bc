// Package postgres implements the PostgreSQL persistence layer for the
// FinEdu backend.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVATAR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AvatarRepository implements avatar.Repository for PostgreSQL.
// The whole avatar snapshot is written on every update; the engine owns all
// state transitions, the repository never computes anything.
type AvatarRepository struct {
	conn *Connection
}

// NewAvatarRepository creates a new AvatarRepository.
func NewAvatarRepository(conn *Connection) *AvatarRepository {
	return &AvatarRepository{conn: conn}
}

const avatarColumns = `id, user_id, xp, health, streak, max_streak,
	   total_lessons_completed, total_tasks_completed, total_games_played,
	   achievements, inventory, last_activity_date, created_at, updated_at`

// Create creates a new avatar.
func (r *AvatarRepository) Create(ctx context.Context, a *avatar.Avatar) error {
	query := `
		INSERT INTO avatars (
			id, user_id, xp, health, streak, max_streak,
			total_lessons_completed, total_tasks_completed, total_games_played,
			achievements, inventory, last_activity_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	achievementsJSON, inventoryJSON, err := marshalAvatarCollections(a)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		a.ID,
		a.UserID,
		int(a.XP),
		int(a.Health),
		a.Streak,
		a.MaxStreak,
		a.TotalLessonsCompleted,
		a.TotalTasksCompleted,
		a.TotalGamesPlayed,
		achievementsJSON,
		inventoryJSON,
		nullableTime(a.LastActivityDate),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return avatar.ErrAvatarAlreadyExists
		}
		return fmt.Errorf("failed to create avatar: %w", err)
	}

	return nil
}

// GetByUserID returns the avatar of a user.
func (r *AvatarRepository) GetByUserID(ctx context.Context, userID string) (*avatar.Avatar, error) {
	query := `
		SELECT ` + avatarColumns + `
		FROM avatars
		WHERE user_id = $1
	`

	row := r.conn.QueryRow(ctx, query, userID)
	return scanAvatar(row)
}

// Update saves the avatar snapshot after the engine has applied events.
func (r *AvatarRepository) Update(ctx context.Context, a *avatar.Avatar) error {
	query := `
		UPDATE avatars SET
			xp = $1,
			health = $2,
			streak = $3,
			max_streak = $4,
			total_lessons_completed = $5,
			total_tasks_completed = $6,
			total_games_played = $7,
			achievements = $8,
			inventory = $9,
			last_activity_date = $10,
			updated_at = $11
		WHERE user_id = $12
	`

	achievementsJSON, inventoryJSON, err := marshalAvatarCollections(a)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		int(a.XP),
		int(a.Health),
		a.Streak,
		a.MaxStreak,
		a.TotalLessonsCompleted,
		a.TotalTasksCompleted,
		a.TotalGamesPlayed,
		achievementsJSON,
		inventoryJSON,
		nullableTime(a.LastActivityDate),
		time.Now().UTC(),
		a.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	if result.RowsAffected() == 0 {
		return avatar.ErrAvatarNotFound
	}

	return nil
}

// GetTop returns avatars with the highest XP, for the leaderboard fallback.
func (r *AvatarRepository) GetTop(ctx context.Context, limit int) ([]*avatar.Avatar, error) {
	query := `
		SELECT ` + avatarColumns + `
		FROM avatars
		ORDER BY xp DESC, created_at ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top avatars: %w", err)
	}
	defer rows.Close()

	var avatars []*avatar.Avatar
	for rows.Next() {
		a, err := scanAvatar(rows)
		if err != nil {
			return nil, err
		}
		avatars = append(avatars, a)
	}

	return avatars, rows.Err()
}

// Count returns the total number of avatars.
func (r *AvatarRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM avatars").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count avatars: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanAvatar(row pgx.Row) (*avatar.Avatar, error) {
	var a avatar.Avatar
	var xp, health int
	var achievementsJSON, inventoryJSON []byte
	var lastActivity *time.Time

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&xp,
		&health,
		&a.Streak,
		&a.MaxStreak,
		&a.TotalLessonsCompleted,
		&a.TotalTasksCompleted,
		&a.TotalGamesPlayed,
		&achievementsJSON,
		&inventoryJSON,
		&lastActivity,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, avatar.ErrAvatarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan avatar: %w", err)
	}

	a.XP = avatar.XP(xp)
	a.Health = avatar.Health(health)
	if lastActivity != nil {
		a.LastActivityDate = lastActivity.UTC()
	}

	if err := json.Unmarshal(achievementsJSON, &a.Achievements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal(inventoryJSON, &a.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}

	return &a, nil
}

func marshalAvatarCollections(a *avatar.Avatar) ([]byte, []byte, error) {
	achievements := a.Achievements
	if achievements == nil {
		achievements = []avatar.AchievementType{}
	}
	inventory := a.Inventory
	if inventory == nil {
		inventory = []avatar.InventoryItem{}
	}

	achievementsJSON, err := json.Marshal(achievements)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal achievements: %w", err)
	}
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal inventory: %w", err)
	}

	return achievementsJSON, inventoryJSON, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
