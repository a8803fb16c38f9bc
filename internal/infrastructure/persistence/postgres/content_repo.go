// Package postgres implements the PostgreSQL persistence layer for the
// FinEdu backend.
package postgres

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/content"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LessonRepository implements content.LessonRepository for PostgreSQL.
type LessonRepository struct {
	conn *Connection
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(conn *Connection) *LessonRepository {
	return &LessonRepository{conn: conn}
}

// GetByID returns a lesson by ID.
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*content.Lesson, error) {
	query := `
		SELECT id, title, category, xp_reward, sort_order, created_at
		FROM lessons
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return scanLesson(row)
}

// List returns the lesson catalog in display order.
func (r *LessonRepository) List(ctx context.Context) ([]*content.Lesson, error) {
	query := `
		SELECT id, title, category, xp_reward, sort_order, created_at
		FROM lessons
		ORDER BY sort_order ASC, id ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*content.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}

	return lessons, rows.Err()
}

// Upsert creates or updates a catalog lesson.
func (r *LessonRepository) Upsert(ctx context.Context, l *content.Lesson) error {
	query := `
		INSERT INTO lessons (id, title, category, xp_reward, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			xp_reward = EXCLUDED.xp_reward,
			sort_order = EXCLUDED.sort_order
	`

	_, err := r.conn.Exec(ctx, query,
		l.ID,
		l.Title,
		string(l.Category),
		l.XPReward,
		l.SortOrder,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson: %w", err)
	}

	return nil
}

func scanLesson(row pgx.Row) (*content.Lesson, error) {
	var l content.Lesson
	var category string

	err := row.Scan(&l.ID, &l.Title, &category, &l.XPReward, &l.SortOrder, &l.CreatedAt)

	if IsNoRows(err) {
		return nil, shared.ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lesson: %w", err)
	}

	l.Category = content.Category(category)
	return &l, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GAME REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GameRepository implements content.GameRepository for PostgreSQL.
type GameRepository struct {
	conn *Connection
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(conn *Connection) *GameRepository {
	return &GameRepository{conn: conn}
}

// GetByID returns a game by ID.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*content.Game, error) {
	query := `
		SELECT id, title, xp_reward, created_at
		FROM games
		WHERE id = $1
	`

	var g content.Game
	err := r.conn.QueryRow(ctx, query, id).Scan(&g.ID, &g.Title, &g.XPReward, &g.CreatedAt)

	if IsNoRows(err) {
		return nil, shared.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	return &g, nil
}

// List returns the game catalog.
func (r *GameRepository) List(ctx context.Context) ([]*content.Game, error) {
	query := `
		SELECT id, title, xp_reward, created_at
		FROM games
		ORDER BY id ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*content.Game
	for rows.Next() {
		var g content.Game
		if err := rows.Scan(&g.ID, &g.Title, &g.XPReward, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &g)
	}

	return games, rows.Err()
}

// Upsert creates or updates a catalog game.
func (r *GameRepository) Upsert(ctx context.Context, g *content.Game) error {
	query := `
		INSERT INTO games (id, title, xp_reward, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			xp_reward = EXCLUDED.xp_reward
	`

	_, err := r.conn.Exec(ctx, query, g.ID, g.Title, g.XPReward, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}
