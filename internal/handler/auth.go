package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/arthurnavah/account-api/internal/model"
	"github.com/arthurnavah/account-api/internal/payload"
	"github.com/arthurnavah/account-api/internal/usecase"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var req payload.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, h.validationMessage(err))
		return
	}

	user, err := h.authUsecase.Register(ctx, usecase.RegisterParams{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Role:           req.Role,
		SecurityAnswer: req.SecurityAnswer,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			h.respondMessage(w, http.StatusConflict, "email already exists")
			return
		}

		logger.Error().Err(err).Msg("failed to register user")
		h.respondMessage(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var req payload.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, h.validationMessage(err))
		return
	}

	token, user, err := h.authUsecase.Login(ctx, usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.respondMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		logger.Error().Err(err).Msg("failed to log in user")
		h.respondMessage(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondJSON(w, http.StatusOK, payload.LoginResponse{
		Message: "login successful",
		Token:   token,
		User: payload.LoginUser{
			ID:    user.ID.Hex(),
			Name:  user.FirstName,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var req payload.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, h.validationMessage(err))
		return
	}

	err := h.passwordResetUsecase.RequestPasswordReset(ctx, req.Email, req.SecurityAnswer)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			h.respondMessage(w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrMailSendFailed):
			logger.Error().Err(err).Msg("failed to send password reset email")
			h.respondMessage(w, http.StatusInternalServerError,
				"reset token generated but email sending failed, please contact support")
		default:
			logger.Error().Err(err).Msg("failed to request password reset")
			h.respondMessage(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	// The token never goes to the log.
	logger.Info().Msg("password reset email sent")

	h.respondMessage(w, http.StatusOK, "reset link sent to your email")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	token := chi.URLParam(r, "token")

	var req payload.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondMessage(w, http.StatusBadRequest, h.validationMessage(err))
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(ctx, token, req.Password); err != nil {
		if errors.Is(err, usecase.ErrInvalidOrExpiredToken) {
			h.respondMessage(w, http.StatusBadRequest, "invalid or expired token")
			return
		}

		logger.Error().Err(err).Msg("failed to reset password")
		h.respondMessage(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondMessage(w, http.StatusOK, "password reset successful")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	claims, ok := sessionFromContext(ctx)
	if !ok {
		h.respondMessage(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	user, err := h.authUsecase.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			h.respondMessage(w, http.StatusNotFound, "user not found")
			return
		}

		logger.Error().Err(err).Msg("failed to get user")
		h.respondMessage(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *model.User) payload.UserResponse {
	return payload.UserResponse{
		ID:        user.ID.Hex(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
	}
}
