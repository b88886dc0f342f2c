package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthurnavah/account-api/internal/config"
	"github.com/arthurnavah/account-api/internal/model"
	"github.com/arthurnavah/account-api/internal/repository"
	"github.com/arthurnavah/account-api/shared/auth"
	"github.com/arthurnavah/account-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Login(ctx context.Context, params LoginParams) (string, *model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Phone          string
	Role           string
	SecurityAnswer string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type authUsecase struct {
	userRepo repository.UserRepository
	hasher   *security.Hasher
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	hasher *security.Hasher,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	passwordHash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Email:          params.Email,
		Phone:          params.Phone,
		Role:           params.Role,
		SecurityAnswer: params.SecurityAnswer,
		PasswordHash:   passwordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, *model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// An unknown email and a wrong password are indistinguishable
			// to the caller.
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if ok, err := u.hasher.Verify(params.Password, user.PasswordHash); err != nil {
		return "", nil, err
	} else if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := u.jwtAuth.GenerateSessionToken(
		user.ID.Hex(),
		user.Email,
		user.Role,
		u.cfg.JWTSecret,
		u.cfg.SessionTokenTTL,
	)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (u *authUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}
