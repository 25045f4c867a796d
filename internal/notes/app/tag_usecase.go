package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/api"
	"notedeck/internal/notes/ports/repositories"
	"notedeck/pkg/logger"
)

const (
	methodCreateTag = "CreateTag"
	methodGetTag    = "GetTag"
	methodListTags  = "ListTags"
	methodUpdateTag = "UpdateTag"
	methodDeleteTag = "DeleteTag"

	errCtxValidatingTag = "validating tag"
	errCtxCreatingTag   = "creating tag"
	errCtxGettingTag    = "getting tag"
	errCtxListingTags   = "listing tags"
	errCtxUpdatingTag   = "updating tag"
	errCtxDeletingTag   = "deleting tag"
)

// TagUseCaseImpl реализует интерфейс TagUseCase.
type TagUseCaseImpl struct {
	tagRepo repositories.TagRepository
}

// NewTagUseCase создает новый сервис меток.
func NewTagUseCase(tagRepo repositories.TagRepository) api.TagUseCase {
	return &TagUseCaseImpl{tagRepo: tagRepo}
}

// Create создает метку. Пустой цвет заменяется цветом по умолчанию.
func (t *TagUseCaseImpl) Create(ctx context.Context, name, color string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateTag), zap.String("name", name))
	log.Debug(ctx, "creating tag")

	if name == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTag, entities.ErrEmptyTagName)
	}
	if color == "" {
		color = entities.DefaultTagColor
	}
	if err := entities.ValidateTagColor(color); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTag, err)
	}

	created, err := t.tagRepo.Create(ctx, &entities.Tag{Name: name, Color: color})
	if err != nil {
		log.Debug(ctx, "failed to create tag", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingTag, err)
	}

	log.Info(ctx, "tag created", zap.String("tagID", created.ID))
	return created, nil
}

// Get возвращает метку по ID.
func (t *TagUseCaseImpl) Get(ctx context.Context, tagID string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetTag))

	tag, err := t.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		log.Debug(ctx, "failed to get tag", zap.Error(err), zap.String("tagID", tagID))
		return nil, fmt.Errorf("%s: %w", errCtxGettingTag, err)
	}

	return tag, nil
}

// List возвращает метки, при необходимости отфильтрованные по подстроке имени.
func (t *TagUseCaseImpl) List(ctx context.Context, nameQuery string) ([]*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListTags))

	tags, err := t.tagRepo.List(ctx, nameQuery)
	if err != nil {
		log.Error(ctx, "failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingTags, err)
	}

	return tags, nil
}

// Update применяет частичное обновление метки.
func (t *TagUseCaseImpl) Update(ctx context.Context, tagID string, patch api.TagPatch) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateTag), zap.String("tagID", tagID))
	log.Debug(ctx, "updating tag")

	existing, err := t.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		log.Debug(ctx, "failed to get tag for update", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingTag, err)
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Color != nil {
		existing.Color = *patch.Color
	}
	if existing.Name == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTag, entities.ErrEmptyTagName)
	}
	if err := entities.ValidateTagColor(existing.Color); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTag, err)
	}

	updated, err := t.tagRepo.Update(ctx, existing)
	if err != nil {
		log.Debug(ctx, "failed to update tag", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingTag, err)
	}

	log.Info(ctx, "tag updated")
	return updated, nil
}

// Delete удаляет метку. Связи с заметками снимаются каскадно в хранилище.
func (t *TagUseCaseImpl) Delete(ctx context.Context, tagID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteTag), zap.String("tagID", tagID))
	log.Debug(ctx, "deleting tag")

	if err := t.tagRepo.Delete(ctx, tagID); err != nil {
		log.Debug(ctx, "failed to delete tag", zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingTag, err)
	}

	log.Info(ctx, "tag deleted")
	return nil
}
