package noteusecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notedeck/internal/notes/app"
	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/domain/services"
	"notedeck/internal/notes/ports/api"
	"notedeck/internal/notes/ports/repositories"
)

var errStrategyFailed = errors.New("tsquery syntax error")

func TestSearchUsesPrimaryStrategy(t *testing.T) {
	ctx := testContext(t)

	notes := []*entities.Note{{ID: "note-1", Title: "Title"}}
	filter := repositories.NoteFilter{Limit: services.DefaultPageSize}

	primary := &mockSearchStrategy{name: "fulltext"}
	fallback := &mockSearchStrategy{name: "substring"}
	primary.On("Search", mock.Anything, "query", filter).Return(notes, 1, nil).Once()

	engine := app.NewSearchEngine(primary, fallback)
	got, total, err := engine.Search(ctx, "query", filter)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, notes, got)
	primary.AssertExpectations(t)
	fallback.AssertNotCalled(t, "Search")
}

func TestSearchFallsBackOnPrimaryError(t *testing.T) {
	ctx := testContext(t)

	notes := []*entities.Note{{ID: "note-1", Title: "Title"}}
	filter := repositories.NoteFilter{Limit: services.DefaultPageSize}

	primary := &mockSearchStrategy{name: "fulltext"}
	fallback := &mockSearchStrategy{name: "substring"}
	primary.On("Search", mock.Anything, "query", filter).Return(nil, 0, errStrategyFailed).Once()
	fallback.On("Search", mock.Anything, "query", filter).Return(notes, 1, nil).Once()

	engine := app.NewSearchEngine(primary, fallback)
	got, total, err := engine.Search(ctx, "query", filter)

	// Сбой основной стратегии не виден вызывающей стороне.
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, notes, got)
	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestSearchDoesNotRetrySameStrategy(t *testing.T) {
	ctx := testContext(t)

	filter := repositories.NoteFilter{Limit: services.DefaultPageSize}

	only := &mockSearchStrategy{name: "substring"}
	only.On("Search", mock.Anything, "query", filter).Return(nil, 0, errStrategyFailed).Once()

	engine := app.NewSearchEngine(only, only)
	_, _, err := engine.Search(ctx, "query", filter)

	assert.ErrorIs(t, err, errStrategyFailed)
	only.AssertExpectations(t)
}

func TestListWithQueryGoesThroughSearch(t *testing.T) {
	ctx := testContext(t)

	notes := []*entities.Note{{ID: "note-1", Title: "Title"}}

	noteRepo := new(mockNoteRepository)
	primary := &mockSearchStrategy{name: "fulltext"}
	fallback := &mockSearchStrategy{name: "substring"}
	primary.On("Search", mock.Anything, "query", repositories.NoteFilter{
		TagName: "work",
		Limit:   services.DefaultPageSize,
	}).Return(notes, 1, nil).Once()

	useCase := app.NewNoteUseCase(noteRepo, app.NewSearchEngine(primary, fallback))
	page, err := useCase.List(ctx, api.NoteQuery{Search: "query", TagName: "work"})

	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	primary.AssertExpectations(t)
	noteRepo.AssertNotCalled(t, "List")
}
