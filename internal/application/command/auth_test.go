package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

func newRegisterHandler(users *fakeUserRepo, avatars *fakeAvatarRepo, sessions *fakeSessionStore) *RegisterUserHandler {
	return NewRegisterUserHandler(users, avatars, sessions, fakeHasher{}, &fakeTokens{}, time.Hour, testLogger())
}

func TestRegisterUser_CreatesAccountAndAvatar(t *testing.T) {
	users := newFakeUserRepo()
	avatars := newFakeAvatarRepo()
	sessions := newFakeSessionStore()
	h := newRegisterHandler(users, avatars, sessions)

	res, err := h.Handle(context.Background(), RegisterUserCommand{
		Email:       "Alice@Example.COM",
		Password:    "correct-horse",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", res.Email, "email is normalized to lower case")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, 1, res.Avatar.Level)
	assert.Equal(t, 100, res.Avatar.Health)

	// The avatar is created together with the account.
	_, err = avatars.GetByUserID(context.Background(), res.UserID)
	require.NoError(t, err)

	// The token is valid immediately.
	userID, err := sessions.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, userID)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	h := newRegisterHandler(newFakeUserRepo(), newFakeAvatarRepo(), newFakeSessionStore())
	cmd := RegisterUserCommand{Email: "a@b.co", Password: "long-enough", DisplayName: "A"}

	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestRegisterUser_Validation(t *testing.T) {
	h := newRegisterHandler(newFakeUserRepo(), newFakeAvatarRepo(), newFakeSessionStore())

	_, err := h.Handle(context.Background(), RegisterUserCommand{Email: "bad", Password: "long-enough", DisplayName: "A"})
	assert.ErrorIs(t, err, shared.ErrInvalidEmail)

	_, err = h.Handle(context.Background(), RegisterUserCommand{Email: "a@b.co", Password: "short", DisplayName: "A"})
	assert.ErrorIs(t, err, shared.ErrWeakPassword)

	_, err = h.Handle(context.Background(), RegisterUserCommand{Email: "a@b.co", Password: "long-enough", DisplayName: ""})
	assert.Error(t, err)
}

func TestLoginUser_IssuesTokenAndRecordsDailyLogin(t *testing.T) {
	users := newFakeUserRepo()
	avatars := newFakeAvatarRepo()
	sessions := newFakeSessionStore()
	reg := newRegisterHandler(users, avatars, sessions)

	regRes, err := reg.Handle(context.Background(), RegisterUserCommand{
		Email: "a@b.co", Password: "long-enough", DisplayName: "A",
	})
	require.NoError(t, err)

	// Simulate yesterday's activity so the login counts as a new day.
	av, err := avatars.GetByUserID(context.Background(), regRes.UserID)
	require.NoError(t, err)
	av.LastActivityDate = av.LastActivityDate.AddDate(0, 0, -1)
	require.NoError(t, avatars.Update(context.Background(), av))

	login := NewLoginUserHandler(users, avatars, sessions, newFakeLeaderboard(), fakeHasher{}, &fakeTokens{}, time.Hour, testLogger())

	res, err := login.Handle(context.Background(), LoginUserCommand{Email: "a@b.co", Password: "long-enough"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.Notifications, "first login of the day yields notifications")
	assert.GreaterOrEqual(t, res.Avatar.XP, 1, "daily login XP granted")
	assert.Equal(t, 1, res.Avatar.Streak)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	avatars := newFakeAvatarRepo()
	sessions := newFakeSessionStore()
	reg := newRegisterHandler(users, avatars, sessions)

	_, err := reg.Handle(context.Background(), RegisterUserCommand{
		Email: "a@b.co", Password: "long-enough", DisplayName: "A",
	})
	require.NoError(t, err)

	login := NewLoginUserHandler(users, avatars, sessions, newFakeLeaderboard(), fakeHasher{}, &fakeTokens{}, time.Hour, testLogger())

	_, err = login.Handle(context.Background(), LoginUserCommand{Email: "a@b.co", Password: "wrong-password"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUser_UnknownEmailHidesExistence(t *testing.T) {
	login := NewLoginUserHandler(newFakeUserRepo(), newFakeAvatarRepo(), newFakeSessionStore(), newFakeLeaderboard(), fakeHasher{}, &fakeTokens{}, time.Hour, testLogger())

	_, err := login.Handle(context.Background(), LoginUserCommand{Email: "ghost@b.co", Password: "whatever-long"})

	assert.ErrorIs(t, err, shared.ErrInvalidCredentials, "unknown email is indistinguishable from a wrong password")
}

func TestLogout_RevokesToken(t *testing.T) {
	sessions := newFakeSessionStore()
	require.NoError(t, sessions.Save(context.Background(), "tok", "user-1", time.Hour))

	h := NewLogoutUserHandler(sessions)
	require.NoError(t, h.Handle(context.Background(), "tok"))

	_, err := sessions.Resolve(context.Background(), "tok")
	assert.ErrorIs(t, err, shared.ErrSessionExpired)
}
