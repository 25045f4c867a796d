// Package app реализует сценарии использования домена заметок.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/domain/services"
	"notedeck/internal/notes/ports/api"
	"notedeck/internal/notes/ports/repositories"
	"notedeck/pkg/logger"
)

const (
	methodCreateNote = "CreateNote"
	methodGetNote    = "GetNote"
	methodListNotes  = "ListNotes"
	methodUpdateNote = "UpdateNote"
	methodDeleteNote = "DeleteNote"

	msgCreatingNote     = "creating note"
	msgNoteCreated      = "note created"
	msgListingNotes     = "listing notes"
	msgSearchingNotes   = "searching notes"
	msgUpdatingNote     = "updating note"
	msgNoteUpdated      = "note updated"
	msgDeletingNote     = "deleting note"
	msgNoteDeleted      = "note deleted"
	msgWriteByNonOwner  = "write attempt by non-owner"
	msgDeleteByNonOwner = "delete attempt by non-owner"

	errCtxValidatingTitle = "validating title"
	errCtxCreatingNote    = "creating note"
	errCtxGettingNote     = "getting note"
	errCtxListingNotes    = "listing notes"
	errCtxSearchingNotes  = "searching notes"
	errCtxUpdatingNote    = "updating note"
	errCtxDeletingNote    = "deleting note"
	errCtxAccessDenied    = "access denied"
)

// NoteUseCaseImpl реализует интерфейс NoteUseCase.
type NoteUseCaseImpl struct {
	noteRepo repositories.NoteRepository
	search   *SearchEngine
}

// NewNoteUseCase создает новый сервис заметок.
func NewNoteUseCase(noteRepo repositories.NoteRepository, search *SearchEngine) api.NoteUseCase {
	return &NoteUseCaseImpl{
		noteRepo: noteRepo,
		search:   search,
	}
}

// Create создает заметку от имени actorID.
func (n *NoteUseCaseImpl) Create(ctx context.Context, actorID, title, content string, tagIDs []string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote), zap.String("userID", actorID))
	log.Debug(ctx, msgCreatingNote)

	if title == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTitle, entities.ErrEmptyTitle)
	}

	note := entities.NewNote(actorID, title, content)
	created, err := n.noteRepo.Create(ctx, note, tagIDs)
	if err != nil {
		log.Debug(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", created.ID))
	return created, nil
}

// Get возвращает заметку по ID. Чтение открыто любому аутентифицированному
// пользователю, поэтому владелец здесь не проверяется.
func (n *NoteUseCaseImpl) Get(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetNote))

	note, err := n.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		log.Debug(ctx, "failed to get note", zap.Error(err), zap.String("noteID", noteID))
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	return note, nil
}

// List возвращает страницу заметок. Непустой Search переключает выборку
// на поисковый движок; фильтры по владельцу и метке действуют в обоих
// режимах. Явный порядок сортировки учитывается только без поиска.
func (n *NoteUseCaseImpl) List(ctx context.Context, query api.NoteQuery) (*api.NotePage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListNotes))

	page, pageSize := services.NormalizePage(query.Page, query.PageSize)
	filter := repositories.NoteFilter{
		TagName:  query.TagName,
		OwnerID:  query.OwnerID,
		Ordering: query.Ordering,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	var (
		notes []*entities.Note
		total int
		err   error
	)

	if query.Search != "" {
		log.Debug(ctx, msgSearchingNotes, zap.String("query", query.Search))
		notes, total, err = n.search.Search(ctx, query.Search, filter)
		if err != nil {
			log.Error(ctx, "search failed", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxSearchingNotes, err)
		}
	} else {
		log.Debug(ctx, msgListingNotes, zap.Int("page", page), zap.Int("pageSize", pageSize))
		notes, total, err = n.noteRepo.List(ctx, filter)
		if err != nil {
			log.Error(ctx, "failed to list notes", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
		}
	}

	return &api.NotePage{
		Notes:      notes,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Update применяет частичное обновление заметки. Изменять заметку может
// только владелец; чужая заметка дает ErrForbidden, а не ErrNoteNotFound,
// чтобы не маскировать существование заметки от читателя.
func (n *NoteUseCaseImpl) Update(ctx context.Context, actorID, noteID string, patch api.NotePatch) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateNote), zap.String("noteID", noteID))
	log.Debug(ctx, msgUpdatingNote)

	existing, err := n.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		log.Debug(ctx, "failed to get note for update", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	if !services.CanModify(actorID, existing.UserID) {
		log.Debug(ctx, msgWriteByNonOwner, zap.String("userID", actorID))
		return nil, fmt.Errorf("%s: %w", errCtxAccessDenied, services.ErrForbidden)
	}

	if patch.Title != nil {
		existing.Title = *patch.Title
	}
	if patch.Content != nil {
		existing.Content = *patch.Content
	}
	if existing.Title == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTitle, entities.ErrEmptyTitle)
	}

	updated, err := n.noteRepo.Update(ctx, existing, patch.TagIDs, patch.TagsProvided)
	if err != nil {
		log.Debug(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Info(ctx, msgNoteUpdated, zap.String("userID", actorID))
	return updated, nil
}

// Delete удаляет заметку. Удалять заметку может только владелец.
func (n *NoteUseCaseImpl) Delete(ctx context.Context, actorID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteNote), zap.String("noteID", noteID))
	log.Debug(ctx, msgDeletingNote)

	existing, err := n.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		log.Debug(ctx, "failed to get note for deletion", zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	if !services.CanModify(actorID, existing.UserID) {
		log.Debug(ctx, msgDeleteByNonOwner, zap.String("userID", actorID))
		return fmt.Errorf("%s: %w", errCtxAccessDenied, services.ErrForbidden)
	}

	if err := n.noteRepo.Delete(ctx, noteID); err != nil {
		log.Debug(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Info(ctx, msgNoteDeleted, zap.String("userID", actorID))
	return nil
}
