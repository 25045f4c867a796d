// Package auth содержит HTTP обработчики подсистемы идентификации.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notedeck/internal/auth/domain/entities"
	"notedeck/internal/auth/domain/services"
	"notedeck/internal/auth/ports/api"
	"notedeck/internal/server/dto"
	"notedeck/internal/server/http/middleware"
	"notedeck/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister = "auth handler: register"
	LogHandlerLogin    = "auth handler: login"
	LogHandlerRefresh  = "auth handler: refresh" // #nosec G101 - not a credential
	LogHandlerLogout   = "auth handler: logout"
	LogHandlerVerify   = "auth handler: verify"

	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidCredentials   = "invalid credentials"
	ErrorFailedToServeRequest = "failed to serve request"

	detailTokenValid = "Token valid"
	detailLoggedOut  = "Logged out"
)

// Handler содержит HTTP обработчики аутентификации.
type Handler struct {
	authUseCase api.AuthUseCase
}

// NewHandler создает новый экземпляр обработчика аутентификации.
func NewHandler(authUseCase api.AuthUseCase) *Handler {
	return &Handler{
		authUseCase: authUseCase,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	user, err := h.authUseCase.Register(requestCtx, req.Email, req.Username, req.Password, req.Name)
	if err != nil {
		if field, message, ok := registrationFieldError(err); ok {
			log.Debug(requestCtx, "registration rejected", zap.String("field", field))
			return fmt.Errorf("registering user: %w", ctx.Status(http.StatusBadRequest).JSON(dto.FieldErrorsResponse{
				Errors: map[string]string{field: message},
			}))
		}
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return fmt.Errorf("registering user: %w", ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: ErrorFailedToServeRequest,
		}))
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Login обрабатывает запрос на вход пользователя. Любая причина отказа
// дает один и тот же ответ 401.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	// Отсутствующий идентификатор не является отдельной ошибкой: он уходит
	// в сценарий как неразрешимый и дает тот же отказ 401.
	if req.Password == "" {
		return fmt.Errorf("validating request: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "password is required",
		}))
	}

	user, tokenPair, err := h.authUseCase.Login(requestCtx, req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fmt.Errorf("logging in: %w", ctx.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: ErrorInvalidCredentials,
			}))
		}
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return fmt.Errorf("logging in: %w", ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: ErrorFailedToServeRequest,
		}))
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.LoginResponse{
		Access:  tokenPair.AccessToken,
		Refresh: tokenPair.RefreshToken,
		Success: true,
		User: dto.UserPayload{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Refresh обрабатывает запрос на обновление access токена.
func (h *Handler) Refresh(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefresh)

	var req dto.RefreshRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	if req.Refresh == "" {
		return fmt.Errorf("validating request: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "refresh token is required",
		}))
	}

	accessToken, _, err := h.authUseCase.Refresh(requestCtx, req.Refresh)
	if err != nil {
		if isTokenRejection(err) {
			log.Debug(requestCtx, "refresh token rejected", zap.Error(err))
			return fmt.Errorf("refreshing token: %w", ctx.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: ErrorInvalidToken(err),
			}))
		}
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return fmt.Errorf("refreshing token: %w", ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: ErrorFailedToServeRequest,
		}))
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.RefreshResponse{
		Access: accessToken,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Logout обрабатывает запрос на выход. Отзыв токена выполняется по
// возможности, и ответ всегда успешен.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	var req dto.LogoutRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, "logout with malformed body ignored", zap.Error(err))
	}

	if err := h.authUseCase.Logout(requestCtx, req.Refresh); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.DetailResponse{
		Detail: detailLoggedOut,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Verify подтверждает действительность access токена вызывающего.
// Сам токен уже проверен промежуточным ПО аутентификации.
func (h *Handler) Verify(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerVerify)

	identity, ok := middleware.Identity(ctx)
	if !ok {
		return fmt.Errorf("getting identity: %w", ctx.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "unauthorized",
		}))
	}

	user, err := h.authUseCase.GetProfile(requestCtx, identity.ID)
	if err != nil {
		log.Debug(requestCtx, "token subject no longer exists", zap.Error(err))
		return fmt.Errorf("getting profile: %w", ctx.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "unauthorized",
		}))
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.VerifyResponse{
		Detail: detailTokenValid,
		User: dto.UserPayload{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// registrationFieldError отображает ошибку регистрации на поле формы.
func registrationFieldError(err error) (string, string, bool) {
	switch {
	case errors.Is(err, entities.ErrInvalidEmail):
		return "email", "invalid email format", true
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return "email", "user with this email already exists", true
	case errors.Is(err, entities.ErrEmptyUsername):
		return "username", "username is required", true
	case errors.Is(err, services.ErrUsernameAlreadyExists):
		return "username", "user with this username already exists", true
	case errors.Is(err, entities.ErrPasswordTooShort):
		return "password", "password must be at least 8 characters", true
	case errors.Is(err, entities.ErrPasswordTooWeak):
		return "password", "password must contain letters and digits", true
	}
	return "", "", false
}

// isTokenRejection различает отказ по токену и внутренний сбой.
func isTokenRejection(err error) bool {
	return errors.Is(err, services.ErrInvalidToken) ||
		errors.Is(err, services.ErrExpiredToken) ||
		errors.Is(err, services.ErrRevokedToken)
}

// ErrorInvalidToken возвращает сообщение отказа по refresh токену.
func ErrorInvalidToken(err error) string {
	switch {
	case errors.Is(err, services.ErrExpiredToken):
		return "token expired"
	case errors.Is(err, services.ErrRevokedToken):
		return "token revoked"
	default:
		return "invalid token"
	}
}
