// Package redis содержит реализацию списка отзыва refresh токенов на Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notedeck/internal/auth/ports/repositories"
	"notedeck/pkg/db/redis"
	"notedeck/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodRevoke    = "Revoke"
	LogMethodIsRevoked = "IsRevoked"

	ErrorFailedToRevoke = "failed to store revoked token id"
	ErrorFailedToCheck  = "failed to check revocation list"
)

const revokedKeyPrefix = "revoked:"

// RevocationList реализует интерфейс repositories.RevocationList поверх Redis.
// Ключ живет ровно до естественного истечения токена, после чего запись
// больше не нужна и Redis удаляет ее сам.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList создает новый список отзыва.
func NewRevocationList(client *redis.Client) repositories.RevocationList {
	return &RevocationList{client: client}
}

// Revoke помещает идентификатор токена в список отзыва. Идемпотентна.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRevoke), zap.String("tokenID", tokenID))

	if ttl <= 0 {
		// Токен уже истек; отзывать нечего.
		return nil
	}

	if err := l.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl); err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	return nil
}

// IsRevoked проверяет наличие идентификатора токена в списке отзыва.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodIsRevoked), zap.String("tokenID", tokenID))

	revoked, err := l.client.Exists(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		log.Error(ctx, ErrorFailedToCheck, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}

	return revoked, nil
}
