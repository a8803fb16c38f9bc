package query

import (
	"context"

	"github.com/finedu-app/finedu-backend/internal/domain/content"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT CATALOG QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// LessonView is the API view of a catalog lesson.
type LessonView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	XPReward int    `json:"xpReward"`
}

// GameView is the API view of a catalog game.
type GameView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	XPReward int    `json:"xpReward"`
}

// ListContentHandler lists the lesson and game catalogs.
type ListContentHandler struct {
	lessons content.LessonRepository
	games   content.GameRepository
}

// NewListContentHandler creates a new ListContentHandler.
func NewListContentHandler(lessons content.LessonRepository, games content.GameRepository) *ListContentHandler {
	return &ListContentHandler{lessons: lessons, games: games}
}

// Lessons returns the lesson catalog.
func (h *ListContentHandler) Lessons(ctx context.Context) ([]LessonView, error) {
	items, err := h.lessons.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]LessonView, 0, len(items))
	for _, l := range items {
		views = append(views, LessonView{
			ID:       l.ID,
			Title:    l.Title,
			Category: string(l.Category),
			XPReward: l.XPReward,
		})
	}
	return views, nil
}

// Games returns the game catalog.
func (h *ListContentHandler) Games(ctx context.Context) ([]GameView, error) {
	items, err := h.games.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]GameView, 0, len(items))
	for _, g := range items {
		views = append(views, GameView{
			ID:       g.ID,
			Title:    g.Title,
			XPReward: g.XPReward,
		})
	}
	return views, nil
}
