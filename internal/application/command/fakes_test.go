package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/content"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"
	"github.com/finedu-app/finedu-backend/internal/domain/user"
)

// In-memory fakes shared by command handler tests.

type fakeAvatarRepo struct {
	mu      sync.Mutex
	byUser  map[string]*avatar.Avatar
	failOps map[string]error
}

func newFakeAvatarRepo() *fakeAvatarRepo {
	return &fakeAvatarRepo{byUser: map[string]*avatar.Avatar{}, failOps: map[string]error{}}
}

func (r *fakeAvatarRepo) Create(_ context.Context, a *avatar.Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["Create"]; err != nil {
		return err
	}
	if _, ok := r.byUser[a.UserID]; ok {
		return avatar.ErrAvatarAlreadyExists
	}
	r.byUser[a.UserID] = a.Clone()
	return nil
}

func (r *fakeAvatarRepo) GetByUserID(_ context.Context, userID string) (*avatar.Avatar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byUser[userID]
	if !ok {
		return nil, avatar.ErrAvatarNotFound
	}
	return a.Clone(), nil
}

func (r *fakeAvatarRepo) Update(_ context.Context, a *avatar.Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["Update"]; err != nil {
		return err
	}
	if _, ok := r.byUser[a.UserID]; !ok {
		return avatar.ErrAvatarNotFound
	}
	r.byUser[a.UserID] = a.Clone()
	return nil
}

func (r *fakeAvatarRepo) GetTop(_ context.Context, limit int) ([]*avatar.Avatar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*avatar.Avatar, 0, len(r.byUser))
	for _, a := range r.byUser {
		all = append(all, a.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].XP > all[j].XP })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeAvatarRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser), nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]avatar.XP
	fail   bool
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: map[string]avatar.XP{}}
}

func (l *fakeLeaderboard) SetScore(_ context.Context, userID string, xp avatar.XP) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return errors.New("leaderboard unavailable")
	}
	l.scores[userID] = xp
	return nil
}

func (l *fakeLeaderboard) Top(_ context.Context, n int) ([]avatar.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, errors.New("leaderboard unavailable")
	}
	entries := make([]avatar.LeaderboardEntry, 0, len(l.scores))
	for id, xp := range l.scores {
		entries = append(entries, avatar.LeaderboardEntry{UserID: id, XP: xp})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].XP > entries[j].XP })
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *fakeLeaderboard) Rank(_ context.Context, userID string) (int, error) {
	entries, err := l.Top(context.Background(), len(l.scores))
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, nil
}

func (l *fakeLeaderboard) Remove(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.scores, userID)
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*task.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*task.Task{}}
}

func cloneTask(t *task.Task) *task.Task {
	c := *t
	return &c
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID string, f task.Filter, p shared.Pagination) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*task.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTaskRepo) CountByUser(ctx context.Context, userID string, f task.Filter) (int, error) {
	items, err := r.ListByUser(ctx, userID, f, shared.DefaultPagination())
	return len(items), err
}

func (r *fakeTaskRepo) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return shared.ErrTaskNotFound
	}
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*user.User{}, byEmail: map[string]*user.User{}}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email.String()]; ok {
		return shared.ErrEmailTaken
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email.String()] = r.byID[u.ID]
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email.String()] = r.byID[u.ID]
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}}
}

func (s *fakeSessionStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return nil
}

func (s *fakeSessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return "", shared.ErrSessionExpired
	}
	return userID, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// fakeHasher "hashes" by prefixing; good enough for handler tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct {
	mu sync.Mutex
	n  int
}

func (t *fakeTokens) Generate() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return fmt.Sprintf("token-%d", t.n), nil
}

type fakeLessonRepo struct {
	lessons map[string]*content.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: map[string]*content.Lesson{}}
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id string) (*content.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, shared.ErrLessonNotFound
	}
	return l, nil
}

func (r *fakeLessonRepo) List(_ context.Context) ([]*content.Lesson, error) {
	out := make([]*content.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLessonRepo) Upsert(_ context.Context, l *content.Lesson) error {
	r.lessons[l.ID] = l
	return nil
}

type fakeGameRepo struct {
	games map[string]*content.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[string]*content.Game{}}
}

func (r *fakeGameRepo) GetByID(_ context.Context, id string) (*content.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, shared.ErrGameNotFound
	}
	return g, nil
}

func (r *fakeGameRepo) List(_ context.Context) ([]*content.Game, error) {
	out := make([]*content.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGameRepo) Upsert(_ context.Context, g *content.Game) error {
	r.games[g.ID] = g
	return nil
}
