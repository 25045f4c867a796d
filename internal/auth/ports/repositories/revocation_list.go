package repositories

import (
	"context"
	"time"
)

// RevocationList определяет интерфейс списка отозванных refresh токенов.
// Список хранит только идентификаторы токенов (jti); записи живут не дольше
// естественного срока действия токена.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
