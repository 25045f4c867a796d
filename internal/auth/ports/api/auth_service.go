// Package api определяет интерфейсы сценариев использования подсистемы идентификации.
package api

import (
	"context"
	"time"

	"notedeck/internal/auth/domain/entities"
	"notedeck/internal/auth/domain/services"
)

// AuthUseCase определяет сценарии аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, email, username, password, displayName string) (*entities.User, error)
	Login(ctx context.Context, email, username, password string) (*entities.User, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
	Logout(ctx context.Context, refreshToken string) error
	Verify(ctx context.Context, accessToken string) (*entities.Identity, error)
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
}
