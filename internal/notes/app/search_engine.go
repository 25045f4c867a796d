package app

import (
	"context"

	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/repositories"
	"notedeck/pkg/logger"
)

// SearchEngine выполняет поиск основной стратегией и при ее сбое
// прозрачно повторяет запрос резервной. Сбой основной стратегии не
// виден вызывающей стороне и отражается только в логах.
type SearchEngine struct {
	primary  repositories.SearchStrategy
	fallback repositories.SearchStrategy
}

// NewSearchEngine создает поисковый движок. Резервная стратегия может
// совпадать с основной, тогда повторного запроса при сбое не будет.
func NewSearchEngine(primary, fallback repositories.SearchStrategy) *SearchEngine {
	return &SearchEngine{primary: primary, fallback: fallback}
}

// Primary возвращает имя основной стратегии.
func (e *SearchEngine) Primary() string { return e.primary.Name() }

// Search выполняет текстовый поиск заметок.
func (e *SearchEngine) Search(ctx context.Context, query string, filter repositories.NoteFilter) ([]*entities.Note, int, error) {
	notes, total, err := e.primary.Search(ctx, query, filter)
	if err == nil {
		return notes, total, nil
	}

	if e.fallback == nil || e.fallback.Name() == e.primary.Name() {
		return nil, 0, err
	}

	logger.Log(ctx).Warn(ctx, "primary search strategy failed, retrying with fallback",
		zap.String("primary", e.primary.Name()),
		zap.String("fallback", e.fallback.Name()),
		zap.Error(err))

	return e.fallback.Search(ctx, query, filter)
}
