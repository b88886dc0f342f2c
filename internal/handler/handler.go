package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	localeen "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"

	"github.com/arthurnavah/account-api/internal/config"
	"github.com/arthurnavah/account-api/internal/payload"
	"github.com/arthurnavah/account-api/internal/usecase"
	"github.com/arthurnavah/account-api/shared/auth"
)

// Handler wires the HTTP endpoints of the account API.
type Handler struct {
	logger               *zerolog.Logger
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	jwtAuth              auth.JWTAuthenticator
	cfg                  *config.Config
	validate             *validator.Validate
	trans                ut.Translator
}

// NewHandler constructs a Handler instance.
func NewHandler(
	logger *zerolog.Logger,
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
) *Handler {
	enLocale := localeen.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validator translations")
	}

	return &Handler{
		logger:               logger,
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		jwtAuth:              jwtAuth,
		cfg:                  cfg,
		validate:             validate,
		trans:                trans,
	}
}

// Routes builds the router with all account endpoints mounted under /users.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.withRequestID)
	r.Use(h.withLogging)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password/{token}", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSignIn)
			r.Get("/me", h.me)
		})
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) respondMessage(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, payload.MessageResponse{Message: message})
}

// validationMessage joins the translated messages of every failed field, so
// the caller sees all problems at once.
func (h *Handler) validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, fieldErr.Translate(h.trans))
	}

	return strings.Join(messages, ", ")
}
