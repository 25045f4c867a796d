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

// TagRepository реализует интерфейс repositories.TagRepository.
type TagRepository struct {
	pool PgxPoolInterface
}

// NewTagRepository создает новый репозиторий меток.
func NewTagRepository(pool PgxPoolInterface) repositories.TagRepository {
	return &TagRepository{pool: pool}
}

const tagColumns = "id, name, color, created_at"

// Create сохраняет новую метку. Имя уникально без учета регистра.
func (r *TagRepository) Create(ctx context.Context, tag *entities.Tag) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Create"))
	log.Debug(ctx, "creating tag", zap.String("name", tag.Name))

	var created entities.Tag
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tags (name, color) VALUES ($1, $2) RETURNING `+tagColumns,
		tag.Name, tag.Color,
	).Scan(&created.ID, &created.Name, &created.Color, &created.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "duplicate tag name", zap.String("name", tag.Name))
			return nil, entities.ErrTagAlreadyExists
		}
		log.Error(ctx, "failed to create tag", zap.Error(err))
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return &created, nil
}

// GetByID получает метку по ID.
func (r *TagRepository) GetByID(ctx context.Context, tagID string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.GetByID"))

	var tag entities.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = $1`,
		tagID,
	).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "tag not found", zap.String("tagID", tagID))
			return nil, entities.ErrTagNotFound
		}
		log.Error(ctx, "failed to get tag", zap.Error(err))
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &tag, nil
}

// List возвращает метки, упорядоченные по имени, при необходимости
// отфильтрованные по подстроке имени.
func (r *TagRepository) List(ctx context.Context, nameQuery string) ([]*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.List"))

	query := `SELECT ` + tagColumns + ` FROM tags`
	args := make([]interface{}, 0, 1)
	if nameQuery != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameQuery)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*entities.Tag, 0)
	for rows.Next() {
		var tag entities.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			log.Error(ctx, "failed to scan tag", zap.Error(err))
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating tags", zap.Error(err))
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// Update обновляет имя и цвет метки.
func (r *TagRepository) Update(ctx context.Context, tag *entities.Tag) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Update"))

	var updated entities.Tag
	err := r.pool.QueryRow(ctx,
		`UPDATE tags SET name = $2, color = $3 WHERE id = $1 RETURNING `+tagColumns,
		tag.ID, tag.Name, tag.Color,
	).Scan(&updated.ID, &updated.Name, &updated.Color, &updated.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "tag not found for update", zap.String("tagID", tag.ID))
			return nil, entities.ErrTagNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "duplicate tag name", zap.String("name", tag.Name))
			return nil, entities.ErrTagAlreadyExists
		}
		log.Error(ctx, "failed to update tag", zap.Error(err))
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return &updated, nil
}

// Delete удаляет метку; связи с заметками удаляются каскадно.
func (r *TagRepository) Delete(ctx context.Context, tagID string) error {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, tagID)
	if err != nil {
		log.Error(ctx, "failed to delete tag", zap.Error(err))
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "tag not found for deletion")
		return entities.ErrTagNotFound
	}

	return nil
}
