// Package services определяет интерфейсы сервисов подсистемы идентификации.
package services

import (
	"context"
	"time"

	"notedeck/internal/auth/domain/services"
)

// TokenService определяет интерфейс для выпуска и проверки токенов.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, userID string) (string, *services.RefreshClaims, error)
	ParseAccessToken(ctx context.Context, token string) (*services.AccessClaims, error)
	ParseRefreshToken(ctx context.Context, token string) (*services.RefreshClaims, error)
}
