package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthurnavah/account-api/internal/model"
	"github.com/arthurnavah/account-api/shared/auth"
)

// fakeUserRepo is an in-memory stand-in for the Mongo repository. It mirrors
// the store's semantics: unique emails surface as duplicate key errors, and
// redeeming a reset token is a single conditional update.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}

	user.ID = bson.NewObjectID()
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) GetUserByEmailAndAnswer(_ context.Context, email, answer string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email && u.SecurityAnswer == answer {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) RedeemResetToken(_ context.Context, token, passwordHash string, now time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ResetToken == nil || u.ResetTokenExpiresAt == nil {
			continue
		}
		if *u.ResetToken != token || !u.ResetTokenExpiresAt.After(now) {
			continue
		}

		u.PasswordHash = passwordHash
		u.ResetToken = nil
		u.ResetTokenExpiresAt = nil
		copied := *u
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

// TestAccountLifecycle walks the whole flow: register, login, request a
// password reset, redeem the token, and log in with the new password.
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	hasher := testHasher()
	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTIssuer, cfg.JWTIssuer)

	repo := newFakeUserRepo()
	mail := &mockMailSender{}

	authUC := NewAuthUsecase(repo, hasher, jwtAuth, cfg)
	resetUC := NewPasswordResetUsecase(repo, hasher, mail, cfg)

	// Register.
	user, err := authUC.Register(ctx, RegisterParams{
		FirstName:      "A",
		LastName:       "B",
		Email:          "a@x.com",
		Password:       "p1",
		Phone:          "1",
		Role:           "user",
		SecurityAnswer: "blue",
	})
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())

	// A second registration with the same email conflicts.
	_, err = authUC.Register(ctx, RegisterParams{
		FirstName:      "C",
		LastName:       "D",
		Email:          "a@x.com",
		Password:       "p9",
		Phone:          "2",
		Role:           "user",
		SecurityAnswer: "red",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// Login with the original password.
	token, loggedIn, err := authUC.Login(ctx, LoginParams{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", loggedIn.Email)
	assert.NotEmpty(t, token)

	_, _, err = authUC.Login(ctx, LoginParams{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Request a reset and pull the minted token off the stored record.
	require.NoError(t, resetUC.RequestPasswordReset(ctx, "a@x.com", "blue"))

	stored, err := repo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiresAt)
	resetToken := *stored.ResetToken

	// Redeem it.
	require.NoError(t, resetUC.ResetPassword(ctx, resetToken, "p2"))

	// The token is single use.
	err = resetUC.ResetPassword(ctx, resetToken, "p3")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// The reset state is cleared.
	stored, err = repo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExpiresAt)

	// The old password no longer works; the new one does.
	_, _, err = authUC.Login(ctx, LoginParams{Email: "a@x.com", Password: "p1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authUC.Login(ctx, LoginParams{Email: "a@x.com", Password: "p2"})
	assert.NoError(t, err)
}

func TestResetToken_ExpiredIsUnredeemable(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.ResetTokenTTL = -time.Minute // mint an already expired token

	hasher := testHasher()
	repo := newFakeUserRepo()
	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTIssuer, cfg.JWTIssuer)

	authUC := NewAuthUsecase(repo, hasher, jwtAuth, cfg)
	resetUC := NewPasswordResetUsecase(repo, hasher, &mockMailSender{}, cfg)

	user, err := authUC.Register(ctx, RegisterParams{
		FirstName:      "A",
		LastName:       "B",
		Email:          "a@x.com",
		Password:       "p1",
		Phone:          "1",
		Role:           "user",
		SecurityAnswer: "blue",
	})
	require.NoError(t, err)

	require.NoError(t, resetUC.RequestPasswordReset(ctx, "a@x.com", "blue"))

	stored, err := repo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)

	err = resetUC.ResetPassword(ctx, *stored.ResetToken, "p2")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
