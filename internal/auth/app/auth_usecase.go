// Package app реализует сценарии использования подсистемы идентификации.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"notedeck/internal/auth/domain/entities"
	"notedeck/internal/auth/domain/services"
	"notedeck/internal/auth/ports/api"
	"notedeck/internal/auth/ports/repositories"
	svc "notedeck/internal/auth/ports/services"
	"notedeck/pkg/logger"
)

const (
	methodRegister = "Register"
	methodLogin    = "Login"
	methodRefresh  = "Refresh"
	methodLogout   = "Logout"
	methodVerify   = "Verify"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgEmptyUsername       = "empty username provided"
	msgInvalidPassword     = "invalid password"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginUnresolved     = "login attempt with unresolved identifier"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingToken     = "refreshing access token"
	msgRevokedTokenAttempt = "attempt to use revoked token"
	msgTokenRefreshed      = "access token refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgLogoutBadToken      = "logout with invalid refresh token ignored"
	msgUserLoggedOut       = "user logged out successfully"

	msgErrHashPassword        = "failed to hash password"
	msgErrCreateUser          = "failed to create user"
	msgErrFindingUser         = "error finding user"
	msgErrVerifyingPassword   = "error verifying password"
	msgErrGenerateTokens      = "failed to generate tokens"
	msgErrCheckingRevocation  = "failed to check revocation list"
	msgErrRevokingToken       = "failed to revoke refresh token"
	msgErrGenerateAccessToken = "failed to generate access token"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingUsername = "validating username"
	errCtxValidatingPassword = "validating password"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxVerifyingPassword  = "verifying password"
	errCtxGeneratingTokens   = "generating tokens"
	errCtxParsingToken       = "parsing refresh token"
	errCtxCheckingRevocation = "checking revocation list"
	errCtxTokenRevoked       = "token revoked"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingToken     = "verifying access token"
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	revocations repositories.RevocationList
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	revocations repositories.RevocationList,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		revocations: revocations,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Register создает нового пользователя с предоставленными учетными данными.
// Профиль создается хранилищем в той же транзакции, что и пользователь;
// уникальность email и username обеспечивается там же.
func (a *AuthUseCaseImpl) Register(ctx context.Context, email, username, password, displayName string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if username == "" {
		log.Debug(ctx, msgEmptyUsername)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if err := validatePassword(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	newUser := &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
	}

	createdUser, err := a.userRepo.Create(ctx, newUser, displayName)
	if err != nil {
		log.Debug(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))
	return createdUser, nil
}

// Login аутентифицирует пользователя по email или username и паролю.
// Все причины отказа неразличимы для вызывающей стороны: и неизвестный
// идентификатор, и неверный пароль дают одну и ту же ошибку.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, username, password string) (*entities.User, *services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.resolveIdentifier(ctx, email, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginUnresolved)
			return nil, nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err), zap.String("userID", user.ID))
		return nil, nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return user, tokenPair, nil
}

// resolveIdentifier отображает пару (email, username) на одну учетную запись.
// Если указан только email, найденный по нему username становится каноническим
// идентификатором. Пустая пара всегда дает ErrUserNotFound.
func (a *AuthUseCaseImpl) resolveIdentifier(ctx context.Context, email, username string) (*entities.User, error) {
	if email != "" && username == "" {
		return a.userRepo.FindByEmail(ctx, email)
	}
	if username != "" {
		return a.userRepo.FindByUsername(ctx, username)
	}
	return nil, entities.ErrUserNotFound
}

// Refresh выпускает новый access токен по действующему refresh токену.
func (a *AuthUseCaseImpl) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefresh))
	log.Debug(ctx, msgRefreshingToken)

	claims, err := a.tokenSvc.ParseRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxParsingToken, err)
	}

	log = log.With(zap.String("userID", claims.UserID))

	revoked, err := a.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		log.Error(ctx, msgErrCheckingRevocation, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxCheckingRevocation, err)
	}
	if revoked {
		log.Debug(ctx, msgRevokedTokenAttempt)
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxTokenRevoked, services.ErrRevokedToken)
	}

	user, err := a.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		log.Debug(ctx, msgErrFindingUser, zap.Error(err))
		if errors.Is(err, entities.ErrUserNotFound) {
			return "", time.Time{}, fmt.Errorf("%s: %w", errCtxFindingUser, services.ErrInvalidToken)
		}
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	accessToken, expiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxGeneratingTokens, services.ErrTokenGenerationFailed)
	}

	log.Info(ctx, msgTokenRefreshed)
	return accessToken, expiresAt, nil
}

// Logout отзывает refresh токен. Отзыв выполняется по возможности:
// некорректный, чужой или уже истекший токен молча игнорируется,
// и операция всегда завершается успехом для вызывающей стороны.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	claims, err := a.tokenSvc.ParseRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgLogoutBadToken, zap.Error(err))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if err := a.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err), zap.String("userID", claims.UserID))
		return nil
	}

	log.Info(ctx, msgUserLoggedOut, zap.String("userID", claims.UserID))
	return nil
}

// Verify проверяет access токен и возвращает личность вызывающего.
func (a *AuthUseCaseImpl) Verify(ctx context.Context, accessToken string) (*entities.Identity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerify))

	claims, err := a.tokenSvc.ParseAccessToken(ctx, accessToken)
	if err != nil {
		log.Debug(ctx, "access token rejected", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, err)
	}

	return &entities.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
	}, nil
}

// GetProfile возвращает учетную запись по ID пользователя.
func (a *AuthUseCaseImpl) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "GetProfile"), zap.String("userID", userID))

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Debug(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	return user, nil
}

// Вспомогательная функция для генерации пары токенов.
func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", services.ErrTokenGenerationFailed)
	}

	refreshToken, _, err := a.tokenSvc.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", services.ErrTokenGenerationFailed)
	}

	return &services.TokenPair{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpires,
	}, nil
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" {
		return entities.ErrInvalidEmail
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}

	return nil
}

// Валидация пароля.
func validatePassword(password string) error {
	if len(password) < 8 {
		return entities.ErrPasswordTooShort
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`\d`).MatchString(password)

	if !hasLetter || !hasDigit {
		return entities.ErrPasswordTooWeak
	}

	return nil
}
