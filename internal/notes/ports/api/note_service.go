// Package api определяет интерфейсы сценариев использования домена заметок.
package api

import (
	"context"

	"notedeck/internal/notes/domain/entities"
)

// NoteQuery описывает параметры выборки заметок.
// Непустой Search переключает выборку на поисковую стратегию;
// TagName и OwnerID сужают результат в любом случае.
type NoteQuery struct {
	Search   string
	TagName  string
	OwnerID  string
	Ordering string
	Page     int
	PageSize int
}

// NotePage содержит страницу заметок и общее число совпадений.
type NotePage struct {
	Notes      []*entities.Note
	TotalCount int
	Page       int
	PageSize   int
}

// NotePatch описывает частичное обновление заметки. Нулевые указатели
// означают "оставить как есть"; TagIDs применяется только при TagsProvided.
type NotePatch struct {
	Title        *string
	Content      *string
	TagIDs       []string
	TagsProvided bool
}

// NoteUseCase определяет сценарии работы с заметками.
type NoteUseCase interface {
	Create(ctx context.Context, actorID, title, content string, tagIDs []string) (*entities.Note, error)
	Get(ctx context.Context, noteID string) (*entities.Note, error)
	List(ctx context.Context, query NoteQuery) (*NotePage, error)
	Update(ctx context.Context, actorID, noteID string, patch NotePatch) (*entities.Note, error)
	Delete(ctx context.Context, actorID, noteID string) error
}

// TagPatch описывает частичное обновление метки.
type TagPatch struct {
	Name  *string
	Color *string
}

// TagUseCase определяет сценарии работы с метками.
type TagUseCase interface {
	Create(ctx context.Context, name, color string) (*entities.Tag, error)
	Get(ctx context.Context, tagID string) (*entities.Tag, error)
	List(ctx context.Context, nameQuery string) ([]*entities.Tag, error)
	Update(ctx context.Context, tagID string, patch TagPatch) (*entities.Tag, error)
	Delete(ctx context.Context, tagID string) error
}
