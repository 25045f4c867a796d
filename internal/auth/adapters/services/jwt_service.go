// Package services содержит реализации сервисов аутентификации.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notedeck/internal/auth/domain/services"
	svc "notedeck/internal/auth/ports/services"
	"notedeck/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateAccessToken  = "GenerateAccessToken"
	methodGenerateRefreshToken = "GenerateRefreshToken"
	methodParseAccessToken     = "ParseAccessToken"
	methodParseRefreshToken    = "ParseRefreshToken"

	msgGeneratingAccessToken  = "generating access token"
	msgGeneratingRefreshToken = "generating refresh token"
	msgTokenGenerated         = "token generated successfully"
	msgTokenExpired           = "token has expired"
	msgInvalidToken           = "invalid token format"

	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken       = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// accessClaims используется для адаптации между доменной моделью и библиотекой JWT.
type accessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// refreshClaims - полезная нагрузка refresh токена; jti попадает в список отзыва.
type refreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService.
type ServiceJWT struct {
	config services.JWTConfig
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration) svc.TokenService {
	return &ServiceJWT{
		config: services.JWTConfig{
			SecretKey:       []byte(secretKey),
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
		},
	}
}

// GenerateAccessToken генерирует короткоживущий access токен.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingAccessToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := accessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// GenerateRefreshToken генерирует долгоживущий refresh токен с уникальным jti.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, userID string) (string, *services.RefreshClaims, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateRefreshToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingRefreshToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", nil, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.RefreshTokenTTL)
	tokenID := uuid.New().String()

	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, &services.RefreshClaims{
		UserID:    userID,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseAccessToken проверяет access токен и возвращает его полезную нагрузку.
func (s *ServiceJWT) ParseAccessToken(ctx context.Context, tokenString string) (*services.AccessClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodParseAccessToken))

	var claims accessClaims
	if err := s.parse(ctx, tokenString, &claims); err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		log.Debug(ctx, "user_id claim is empty")
		return nil, fmt.Errorf("%s: %w: empty user_id", errCtxParsingToken, services.ErrInvalidToken)
	}

	return &services.AccessClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IssuedAt:  numericDateTime(claims.IssuedAt),
		ExpiresAt: numericDateTime(claims.ExpiresAt),
	}, nil
}

// ParseRefreshToken проверяет refresh токен и возвращает его полезную нагрузку.
func (s *ServiceJWT) ParseRefreshToken(ctx context.Context, tokenString string) (*services.RefreshClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodParseRefreshToken))

	var claims refreshClaims
	if err := s.parse(ctx, tokenString, &claims); err != nil {
		return nil, err
	}

	if claims.UserID == "" || claims.ID == "" {
		log.Debug(ctx, "required claims are empty")
		return nil, fmt.Errorf("%s: %w: empty user_id or jti", errCtxParsingToken, services.ErrInvalidToken)
	}

	return &services.RefreshClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		IssuedAt:  numericDateTime(claims.IssuedAt),
		ExpiresAt: numericDateTime(claims.ExpiresAt),
	}, nil
}

func (s *ServiceJWT) parse(ctx context.Context, tokenString string, claims jwt.Claims) error {
	log := logger.Log(ctx)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.config.SecretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return fmt.Errorf("%s: %w", errCtxParsingToken, services.ErrExpiredToken)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidToken, err)
	}

	if !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return fmt.Errorf("%s: %w", errCtxParsingToken, services.ErrInvalidToken)
	}

	return nil
}

func numericDateTime(date *jwt.NumericDate) time.Time {
	if date == nil {
		return time.Time{}
	}
	return date.Time
}
