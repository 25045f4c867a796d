// Package tags содержит HTTP обработчики меток.
package tags

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/api"
	"notedeck/internal/server/dto"
	"notedeck/internal/server/http/middleware"
	"notedeck/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerListTags  = "tags handler: list"
	LogHandlerCreateTag = "tags handler: create"
	LogHandlerGetTag    = "tags handler: get"
	LogHandlerUpdateTag = "tags handler: update"
	LogHandlerDeleteTag = "tags handler: delete"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorTagNotFound          = "tag not found"
)

// Handler содержит HTTP обработчики меток.
type Handler struct {
	tagUseCase api.TagUseCase
}

// NewHandler создает новый экземпляр обработчика меток.
func NewHandler(tagUseCase api.TagUseCase) *Handler {
	return &Handler{
		tagUseCase: tagUseCase,
	}
}

// List обрабатывает запрос списка меток.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListTags)

	tags, err := h.tagUseCase.List(requestCtx, ctx.Query("search"))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return fmt.Errorf("listing tags: %w", ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: ErrorFailedToServeRequest,
		}))
	}

	response := dto.ListTagsResponse{Tags: make([]dto.TagResponse, 0, len(tags))}
	for _, tag := range tags {
		response.Tags = append(response.Tags, toTagResponse(tag))
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Create обрабатывает создание метки.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateTag)

	var req dto.CreateTagRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	tag, err := h.tagUseCase.Create(requestCtx, req.Name, req.Color)
	if err != nil {
		return h.mapTagError(ctx, "creating tag", err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(toTagResponse(tag)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Get обрабатывает запрос одной метки.
func (h *Handler) Get(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetTag)

	tag, err := h.tagUseCase.Get(requestCtx, ctx.Params("id"))
	if err != nil {
		return h.mapTagError(ctx, "getting tag", err)
	}

	if err := ctx.Status(http.StatusOK).JSON(toTagResponse(tag)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Update обрабатывает частичное обновление метки.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateTag)

	var req dto.UpdateTagRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	tag, err := h.tagUseCase.Update(requestCtx, ctx.Params("id"), api.TagPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return h.mapTagError(ctx, "updating tag", err)
	}

	if err := ctx.Status(http.StatusOK).JSON(toTagResponse(tag)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Delete обрабатывает удаление метки.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteTag)

	if err := h.tagUseCase.Delete(requestCtx, ctx.Params("id")); err != nil {
		return h.mapTagError(ctx, "deleting tag", err)
	}

	if err := ctx.SendStatus(http.StatusNoContent); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// mapTagError отображает доменную ошибку на HTTP ответ.
func (h *Handler) mapTagError(ctx fiber.Ctx, op string, err error) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	switch {
	case errors.Is(err, entities.ErrTagNotFound):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusNotFound).JSON(dto.ErrorResponse{
			Error: ErrorTagNotFound,
		}))
	case errors.Is(err, entities.ErrTagAlreadyExists):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "tag with this name already exists",
		}))
	case errors.Is(err, entities.ErrEmptyTagName):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "name is required",
		}))
	case errors.Is(err, entities.ErrInvalidTagColor):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "color must be a hex triplet like #3B82F6",
		}))
	}

	log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
	return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: ErrorFailedToServeRequest,
	}))
}

func toTagResponse(tag *entities.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
	}
}
