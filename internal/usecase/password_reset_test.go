package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthurnavah/account-api/internal/model"
)

// mockMailSender records sent mails and can be told to fail.
type mockMailSender struct {
	sentTo      []string
	sentSubject string
	sentBody    string
	failWith    error
}

func (m *mockMailSender) SendHTML(to []string, subject, htmlBody string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sentTo = to
	m.sentSubject = subject
	m.sentBody = htmlBody
	return nil
}

func TestRequestPasswordReset(t *testing.T) {
	cfg := testConfig()
	existing := &model.User{
		ID:             bson.NewObjectID(),
		Email:          "a@x.com",
		SecurityAnswer: "blue",
	}

	var persistedToken string
	var persistedExpiry time.Time
	repo := &mockUserRepository{
		getUserByEmailAndAnswerFn: func(_ context.Context, email, answer string) (*model.User, error) {
			if email != existing.Email || answer != existing.SecurityAnswer {
				return nil, mongo.ErrNoDocuments
			}
			return existing, nil
		},
		setResetTokenFn: func(_ context.Context, id, token string, expiresAt time.Time) (*model.User, error) {
			assert.Equal(t, existing.ID.Hex(), id)
			persistedToken = token
			persistedExpiry = expiresAt
			return existing, nil
		},
	}
	mail := &mockMailSender{}

	u := NewPasswordResetUsecase(repo, testHasher(), mail, cfg)

	err := u.RequestPasswordReset(context.Background(), "a@x.com", "blue")
	require.NoError(t, err)

	// 32 random bytes, hex encoded.
	assert.Len(t, persistedToken, 64)
	assert.WithinDuration(t, time.Now().Add(cfg.ResetTokenTTL), persistedExpiry, time.Minute)

	assert.Equal(t, []string{"a@x.com"}, mail.sentTo)
	assert.Equal(t, "Password Reset Request", mail.sentSubject)
	assert.Contains(t, mail.sentBody, cfg.AppPasswordResetURL+"/"+persistedToken)
}

func TestRequestPasswordReset_WrongAnswer(t *testing.T) {
	repo := &mockUserRepository{
		getUserByEmailAndAnswerFn: func(_ context.Context, _, _ string) (*model.User, error) {
			return nil, mongo.ErrNoDocuments
		},
	}

	u := NewPasswordResetUsecase(repo, testHasher(), &mockMailSender{}, testConfig())

	err := u.RequestPasswordReset(context.Background(), "a@x.com", "green")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestPasswordReset_MailFailureKeepsToken(t *testing.T) {
	existing := &model.User{ID: bson.NewObjectID(), Email: "a@x.com", SecurityAnswer: "blue"}

	tokenPersisted := false
	repo := &mockUserRepository{
		getUserByEmailAndAnswerFn: func(_ context.Context, _, _ string) (*model.User, error) {
			return existing, nil
		},
		setResetTokenFn: func(_ context.Context, _, _ string, _ time.Time) (*model.User, error) {
			tokenPersisted = true
			return existing, nil
		},
	}
	mail := &mockMailSender{failWith: errors.New("smtp: connection refused")}

	u := NewPasswordResetUsecase(repo, testHasher(), mail, testConfig())

	err := u.RequestPasswordReset(context.Background(), "a@x.com", "blue")
	assert.ErrorIs(t, err, ErrMailSendFailed)

	// The token was already persisted and is not rolled back.
	assert.True(t, tokenPersisted)
}

func TestResetPassword(t *testing.T) {
	hasher := testHasher()
	existing := &model.User{ID: bson.NewObjectID(), Email: "a@x.com"}

	var redeemedToken, newHash string
	repo := &mockUserRepository{
		redeemResetTokenFn: func(_ context.Context, token, passwordHash string, _ time.Time) (*model.User, error) {
			redeemedToken = token
			newHash = passwordHash
			return existing, nil
		},
	}

	u := NewPasswordResetUsecase(repo, hasher, &mockMailSender{}, testConfig())

	err := u.ResetPassword(context.Background(), "some-token", "p2")
	require.NoError(t, err)

	assert.Equal(t, "some-token", redeemedToken)
	assert.NotEqual(t, "p2", newHash)
	ok, err := hasher.Verify("p2", newHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetPassword_InvalidOrExpiredToken(t *testing.T) {
	repo := &mockUserRepository{
		redeemResetTokenFn: func(_ context.Context, _, _ string, _ time.Time) (*model.User, error) {
			return nil, mongo.ErrNoDocuments
		},
	}

	u := NewPasswordResetUsecase(repo, testHasher(), &mockMailSender{}, testConfig())

	err := u.ResetPassword(context.Background(), "unknown-token", "p2")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestGenerateResetToken_Entropy(t *testing.T) {
	first, err := generateResetToken()
	require.NoError(t, err)
	second, err := generateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
	assert.Equal(t, strings.ToLower(first), first)
}
