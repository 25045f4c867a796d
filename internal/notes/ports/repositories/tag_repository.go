package repositories

import (
	"context"

	"notedeck/internal/notes/domain/entities"
)

// TagRepository определяет интерфейс для работы с хранилищем меток.
type TagRepository interface {
	Create(ctx context.Context, tag *entities.Tag) (*entities.Tag, error)
	GetByID(ctx context.Context, tagID string) (*entities.Tag, error)
	List(ctx context.Context, nameQuery string) ([]*entities.Tag, error)
	Update(ctx context.Context, tag *entities.Tag) (*entities.Tag, error)
	Delete(ctx context.Context, tagID string) error
}
