package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/repositories"
	"notedeck/pkg/logger"
)

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку и привязывает к ней метки в одной транзакции.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note, tagIDs []string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var created entities.Note
	err = tx.QueryRow(ctx,
		`INSERT INTO notes (user_id, title, content)
         VALUES ($1, $2, $3)
         RETURNING id, user_id, title, content, created_at, updated_at`,
		note.UserID, note.Title, note.Content,
	).Scan(&created.ID, &created.UserID, &created.Title, &created.Content, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	if err := setNoteTags(ctx, tx, created.ID, tagIDs); err != nil {
		log.Debug(ctx, "failed to associate tags", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing note creation", zap.Error(err))
		return nil, fmt.Errorf("error committing note creation: %w", err)
	}

	if err := hydrateNotes(ctx, r.pool, []*entities.Note{&created}); err != nil {
		return nil, err
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return &created, nil
}

// GetByID получает заметку по ID вместе с ее метками.
func (r *NoteRepository) GetByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", noteID))

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes n WHERE n.id = $1`,
		noteID,
	).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	if err := hydrateNotes(ctx, r.pool, []*entities.Note{&note}); err != nil {
		return nil, err
	}

	return &note, nil
}

// List получает список заметок по фильтру с пагинацией.
// Порядок по умолчанию - по убыванию времени обновления.
func (r *NoteRepository) List(ctx context.Context, filter repositories.NoteFilter) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes", zap.Int("limit", filter.Limit), zap.Int("offset", filter.Offset))

	builder := &condBuilder{}
	applyFilter(builder, filter)
	where := builder.whereClause()

	var totalCount int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes n`+where,
		builder.args...,
	).Scan(&totalCount)
	if err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	limitPh := builder.add(filter.Limit)
	offsetPh := builder.add(filter.Offset)

	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes n`+where+
			` ORDER BY `+orderingClause(filter.Ordering)+
			` LIMIT `+limitPh+` OFFSET `+offsetPh,
		builder.args...,
	)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	notes, err := scanNotes(rows)
	if err != nil {
		log.Error(ctx, "failed to scan notes", zap.Error(err))
		return nil, 0, err
	}

	if err := hydrateNotes(ctx, r.pool, notes); err != nil {
		log.Error(ctx, "failed to hydrate notes", zap.Error(err))
		return nil, 0, err
	}

	return notes, totalCount, nil
}

// Update обновляет заголовок и содержимое заметки; при replaceTags=true
// полностью заменяет набор меток, иначе оставляет его нетронутым.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note, tagIDs []string, replaceTags bool) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var updated entities.Note
	err = tx.QueryRow(ctx,
		`UPDATE notes
         SET title = $2, content = $3, updated_at = NOW()
         WHERE id = $1
         RETURNING id, user_id, title, content, created_at, updated_at`,
		note.ID, note.Title, note.Content,
	).Scan(&updated.ID, &updated.UserID, &updated.Title, &updated.Content, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found for update")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	if replaceTags {
		if _, err := tx.Exec(ctx, `DELETE FROM note_tags WHERE note_id = $1`, updated.ID); err != nil {
			log.Error(ctx, "failed to clear note tags", zap.Error(err))
			return nil, fmt.Errorf("failed to clear note tags: %w", err)
		}
		if err := setNoteTags(ctx, tx, updated.ID, tagIDs); err != nil {
			log.Debug(ctx, "failed to associate tags", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing note update", zap.Error(err))
		return nil, fmt.Errorf("error committing note update: %w", err)
	}

	if err := hydrateNotes(ctx, r.pool, []*entities.Note{&updated}); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found for deletion")
		return entities.ErrNoteNotFound
	}

	return nil
}

// setNoteTags привязывает метки к заметке. Ссылка на несуществующую метку
// транслируется в ErrTagNotFound.
func setNoteTags(ctx context.Context, tx pgx.Tx, noteID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			noteID, tagID,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
				return entities.ErrTagNotFound
			}
			return fmt.Errorf("failed to associate tag: %w", err)
		}
	}
	return nil
}
