package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/finedu-app/finedu-backend/config"
	"github.com/finedu-app/finedu-backend/internal/application/command"
	"github.com/finedu-app/finedu-backend/internal/application/query"
	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// requireAuth resolves the bearer token into a user ID and stores it in
// the request context. Requests without a valid session get 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
			return
		}

		userID, err := s.deps.Sessions.Resolve(r.Context(), token)
		if err != nil {
			if shared.IsUnauthorized(err) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Session expired or invalid")
				return
			}
			s.logger.Error("session resolve failed", logger.Err(err))
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve session")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError translates domain errors into HTTP status codes.
// Unknown errors become an opaque 500 so internals never leak to clients.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapDomainError(err)

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, status, code, "An unexpected error occurred")
		return
	}

	writeJSONError(w, status, code, err.Error())
}

// mapDomainError picks the status code and error code for a domain error.
func mapDomainError(err error) (int, string) {
	switch {
	case shared.IsNotFound(err) || errors.Is(err, avatar.ErrAvatarNotFound):
		return http.StatusNotFound, "not_found"
	case shared.IsAlreadyExists(err) || errors.Is(err, avatar.ErrAvatarAlreadyExists):
		return http.StatusConflict, "already_exists"
	case shared.IsUnauthorized(err):
		return http.StatusUnauthorized, "unauthorized"
	case shared.IsForbidden(err):
		return http.StatusForbidden, "forbidden"
	case shared.IsValidation(err),
		errors.Is(err, avatar.ErrInvalidItem),
		errors.Is(err, avatar.ErrInvalidQuantity),
		errors.Is(err, avatar.ErrEmptyXPSource),
		errors.Is(err, avatar.ErrUnknownAchievement):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, shared.ErrLeaderboardUnavailable):
		return http.StatusServiceUnavailable, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// featureEnabled checks a feature flag for the given user.
// A nil flag registry means everything is enabled.
func (s *Server) featureEnabled(name, userID string) bool {
	if s.deps.Features == nil {
		return true
	}
	return s.deps.Features.IsEnabled(name, &config.FeatureContext{UserID: userID})
}

// decodeJSON reads the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type healthCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string                 `json:"status"`
	Uptime string                 `json:"uptime"`
	Checks map[string]healthCheck `json:"checks"`
}

// handleHealth reports overall service health including backing stores.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]healthCheck{}
	healthy := true

	probe := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = healthCheck{Status: "down", Error: err.Error()}
			healthy = false
			return
		}
		checks[name] = healthCheck{Status: "up"}
	}

	probe("database", s.deps.Database)
	probe("cache", s.deps.Cache)

	status := http.StatusOK
	body := healthResponse{Status: "healthy", Uptime: s.Uptime().String(), Checks: checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		body.Status = "degraded"
	}

	writeJSON(w, status, body)
}

// handleReady reports readiness (database reachable).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Database is not reachable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive is the liveness probe. The process answering is enough.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleRoot describes the service.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Route not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"service": "finedu-backend",
		"version": "v1",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// handleRegister creates a user with a fresh avatar and opens a session.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterUserHandler.Handle(r.Context(), command.RegisterUserCommand{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin authenticates and applies the daily login progression.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.LoginUserHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.deps.Metrics.ObserveNotifications(result.Notifications)
	writeJSON(w, http.StatusOK, result)
}

// handleLogout revokes the caller's session token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
		return
	}

	if err := s.deps.LogoutUserHandler.Handle(r.Context(), token); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AVATAR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAvatar returns the avatar stats with the leaderboard rank.
func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.GetAvatarStatsHandler.Handle(r.Context(), getUserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleGetAchievements returns the achievement catalog with unlock flags.
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	views, err := s.deps.GetAchievementsHandler.Handle(r.Context(), getUserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// handleUsePotion consumes a health potion from the inventory.
func (s *Server) handleUsePotion(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.UseHealthPotionHandler.Handle(r.Context(), getUserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.deps.Metrics.ObserveNotifications(result.Notifications)
	writeJSON(w, http.StatusOK, result)
}

type grantItemRequest struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// handleGrantItem adds items to the avatar's inventory.
func (s *Server) handleGrantItem(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(config.FeatureInventoryShop, getUserID(r.Context())) {
		writeJSONError(w, http.StatusForbidden, "feature_disabled", "Inventory shop is not available")
		return
	}

	var req grantItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stats, err := s.deps.GrantItemHandler.Handle(r.Context(), command.GrantItemCommand{
		UserID:   getUserID(r.Context()),
		Item:     req.Item,
		Quantity: req.Quantity,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleResetAvatar wipes the avatar back to its initial state.
func (s *Server) handleResetAvatar(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(config.FeatureAvatarReset, getUserID(r.Context())) {
		writeJSONError(w, http.StatusForbidden, "feature_disabled", "Avatar reset is not available")
		return
	}

	stats, err := s.deps.ResetAvatarHandler.Handle(r.Context(), getUserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ══════════════════════════════════════════════════════════════════════════════
// TASK HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListTasks returns a page of the caller's tasks.
// Query params: completed (true/false), page, pageSize.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := query.GetUserTasksQuery{
		UserID: getUserID(r.Context()),
		Pagination: shared.Pagination{
			Page:     getQueryParamInt(r, "page", 1),
			PageSize: getQueryParamInt(r, "pageSize", 20),
		},
	}

	switch getQueryParam(r, "completed", "") {
	case "true":
		completed := true
		q.Completed = &completed
	case "false":
		completed := false
		q.Completed = &completed
	}

	page, err := s.deps.GetUserTasksHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, page.Tasks, &ResponseMeta{
		TotalCount: page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		HasMore:    page.Page*page.PageSize < page.Total,
	})
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	XPReward    int    `json:"xpReward"`

	// DueDate accepts "YYYY-MM-DD" or RFC 3339; empty means no due date.
	DueDate string `json:"dueDate"`
}

// parseDueDate resolves the optional dueDate field of a task request.
func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if due, err := timeutil.ParseDate(value); err == nil {
		return due, nil
	}
	return time.Parse(time.RFC3339, value)
}

// handleCreateTask creates a task for the caller.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "dueDate must be YYYY-MM-DD or RFC 3339")
		return
	}

	t, err := s.deps.CreateTaskHandler.Handle(r.Context(), command.CreateTaskCommand{
		UserID:      getUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		XPReward:    req.XPReward,
		DueDate:     due,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// handleUpdateTask updates a task owned by the caller.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "dueDate must be YYYY-MM-DD or RFC 3339")
		return
	}

	t, err := s.deps.UpdateTaskHandler.Handle(r.Context(), command.UpdateTaskCommand{
		UserID:      getUserID(r.Context()),
		TaskID:      r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     due,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTask deletes a task owned by the caller.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteTaskHandler.Handle(r.Context(), command.DeleteTaskCommand{
		UserID: getUserID(r.Context()),
		TaskID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// handleCompleteTask toggles completion and applies progression effects.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CompleteTaskHandler.Handle(r.Context(), command.CompleteTaskCommand{
		UserID: getUserID(r.Context()),
		TaskID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if result.Completed {
		s.deps.Metrics.ObserveCompletion("task")
	}
	s.deps.Metrics.ObserveNotifications(result.Notifications)

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListLessons returns the lesson catalog.
func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.deps.ListContentHandler.Lessons(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lessons)
}

// handleListGames returns the game catalog.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.deps.ListContentHandler.Games(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, games)
}

type completeContentRequest struct {
	Score int `json:"score"`
}

// handleCompleteLesson applies a lesson completion to the avatar.
func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	var req completeContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.CompleteLessonHandler.Handle(r.Context(), command.CompleteLessonCommand{
		UserID:   getUserID(r.Context()),
		LessonID: r.PathValue("id"),
		Score:    req.Score,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.deps.Metrics.ObserveCompletion("lesson")
	s.deps.Metrics.ObserveNotifications(result.Notifications)

	writeJSON(w, http.StatusOK, result)
}

// handleCompleteGame applies a game completion to the avatar.
func (s *Server) handleCompleteGame(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(config.FeatureContentGames, getUserID(r.Context())) {
		writeJSONError(w, http.StatusForbidden, "feature_disabled", "Games are not available")
		return
	}

	var req completeContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.CompleteGameHandler.Handle(r.Context(), command.CompleteGameCommand{
		UserID: getUserID(r.Context()),
		GameID: r.PathValue("id"),
		Score:  req.Score,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.deps.Metrics.ObserveCompletion("game")
	s.deps.Metrics.ObserveNotifications(result.Notifications)

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard returns the top users by XP.
// Query param: limit (default 10, max 100).
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !s.featureEnabled(config.FeatureLeaderboardPublic, "") {
		writeJSONError(w, http.StatusForbidden, "feature_disabled", "Leaderboard is not available")
		return
	}

	limit := getQueryParamInt(r, "limit", 0)

	entries, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
