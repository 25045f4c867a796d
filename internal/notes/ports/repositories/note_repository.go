// Package repositories определяет интерфейсы хранилищ домена заметок.
package repositories

import (
	"context"

	"notedeck/internal/notes/domain/entities"
)

// NoteFilter описывает предикаты и срез выборки заметок.
// TagName и OwnerID комбинируются по AND как с обычным списком,
// так и с любой поисковой стратегией.
type NoteFilter struct {
	TagName  string
	OwnerID  string
	Ordering string
	Limit    int
	Offset   int
}

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// При обновлении replaceTags=false оставляет набор меток нетронутым.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note, tagIDs []string) (*entities.Note, error)
	GetByID(ctx context.Context, noteID string) (*entities.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]*entities.Note, int, error)
	Update(ctx context.Context, note *entities.Note, tagIDs []string, replaceTags bool) (*entities.Note, error)
	Delete(ctx context.Context, noteID string) error
}

// SearchStrategy определяет способ отбора и упорядочивания заметок по
// текстовому запросу. Стратегия выбирается при старте сервиса, а не
// вызывающей стороной.
type SearchStrategy interface {
	Name() string
	Search(ctx context.Context, query string, filter NoteFilter) ([]*entities.Note, int, error)
}
