// Package repositories определяет интерфейсы хранилищ подсистемы идентификации.
package repositories

import (
	"context"

	"notedeck/internal/auth/domain/entities"
)

// UserRepository определяет интерфейс хранилища учетных записей.
// Уникальность email и username (без учета регистра) обеспечивается
// хранилищем атомарно при создании.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User, profileName string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}
