package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthurnavah/account-api/internal/config"
	"github.com/arthurnavah/account-api/internal/repository"
	"github.com/arthurnavah/account-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset mints a reset token for the user matching email
	// and security answer, persists it, and mails the reset link.
	RequestPasswordReset(ctx context.Context, email, answer string) error

	// ResetPassword redeems a reset token and replaces the user's password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// MailSender delivers the reset link to the user's address. It is satisfied
// by *mailer.Mailer.
type MailSender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token")
	ErrMailSendFailed        = errors.New("failed to send password reset email")
)

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	hasher   *security.Hasher
	mailer   MailSender
	cfg      *config.Config
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	hasher *security.Hasher,
	mailer MailSender,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email, answer string) error {
	user, err := u.userRepo.GetUserByEmailAndAnswer(ctx, email, answer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.cfg.ResetTokenTTL)
	if _, err := u.userRepo.SetResetToken(ctx, user.ID.Hex(), token, expiresAt); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/%s", u.cfg.AppPasswordResetURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, resetLink, resetLink, u.cfg.ResetTokenTTL)

	if err := u.mailer.SendHTML([]string{user.Email}, "Password Reset Request", htmlBody); err != nil {
		// The token is already persisted and stays valid; the caller is
		// still told the operation failed.
		return fmt.Errorf("%w: %w", ErrMailSendFailed, err)
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	// Token lookup, expiry check, password replacement, and token clearing
	// happen in one conditional update at the repository.
	if _, err := u.userRepo.RedeemResetToken(ctx, token, passwordHash, time.Now()); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Unknown and expired tokens are indistinguishable to the caller.
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}

// generateResetToken returns a cryptographically random opaque token.
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
