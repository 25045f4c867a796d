// Package notes содержит HTTP обработчики домена заметок.
package notes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/domain/services"
	"notedeck/internal/notes/ports/api"
	"notedeck/internal/server/dto"
	"notedeck/internal/server/http/middleware"
	"notedeck/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerListNotes  = "notes handler: list"
	LogHandlerCreateNote = "notes handler: create"
	LogHandlerGetNote    = "notes handler: get"
	LogHandlerUpdateNote = "notes handler: update"
	LogHandlerDeleteNote = "notes handler: delete"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorNoteNotFound         = "note not found"
	ErrorForbidden            = "you do not have permission to perform this action"

	ownerSelf = "me"
)

// Handler содержит HTTP обработчики заметок.
type Handler struct {
	noteUseCase api.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(noteUseCase api.NoteUseCase) *Handler {
	return &Handler{
		noteUseCase: noteUseCase,
	}
}

// List обрабатывает запрос списка заметок с фильтрами, поиском и пагинацией.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListNotes)

	query := api.NoteQuery{
		Search:   ctx.Query("q"),
		TagName:  ctx.Query("tags__name"),
		Ordering: ctx.Query("ordering"),
		Page:     queryInt(ctx, "page"),
		PageSize: queryInt(ctx, "page_size"),
	}

	if owner := ctx.Query("owner"); owner != "" {
		if owner == ownerSelf {
			if identity, ok := middleware.Identity(ctx); ok {
				query.OwnerID = identity.ID
			}
		} else {
			query.OwnerID = owner
		}
	}

	page, err := h.noteUseCase.List(requestCtx, query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return fmt.Errorf("listing notes: %w", ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: ErrorFailedToServeRequest,
		}))
	}

	response := dto.ListNotesResponse{
		Notes:      make([]dto.NoteResponse, 0, len(page.Notes)),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
	for _, note := range page.Notes {
		response.Notes = append(response.Notes, toNoteResponse(note))
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Create обрабатывает запрос на создание заметки.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateNote)

	identity, ok := middleware.Identity(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	var req dto.CreateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	note, err := h.noteUseCase.Create(requestCtx, identity.ID, req.Title, req.Content, req.TagIDs)
	if err != nil {
		return h.mapNoteError(ctx, "creating note", err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(toNoteResponse(note)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Get обрабатывает запрос одной заметки. Чтение открыто любому
// аутентифицированному пользователю.
func (h *Handler) Get(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetNote)

	note, err := h.noteUseCase.Get(requestCtx, ctx.Params("id"))
	if err != nil {
		return h.mapNoteError(ctx, "getting note", err)
	}

	if err := ctx.Status(http.StatusOK).JSON(toNoteResponse(note)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Update обрабатывает частичное обновление заметки. Отсутствующее поле
// остается нетронутым; отсутствующий tag_ids сохраняет набор меток.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateNote)

	identity, ok := middleware.Identity(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: ErrorInvalidRequest,
		}))
	}

	patch := api.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	}
	if req.TagIDs != nil {
		patch.TagIDs = *req.TagIDs
		patch.TagsProvided = true
	}

	note, err := h.noteUseCase.Update(requestCtx, identity.ID, ctx.Params("id"), patch)
	if err != nil {
		return h.mapNoteError(ctx, "updating note", err)
	}

	if err := ctx.Status(http.StatusOK).JSON(toNoteResponse(note)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Delete обрабатывает удаление заметки.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteNote)

	identity, ok := middleware.Identity(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	if err := h.noteUseCase.Delete(requestCtx, identity.ID, ctx.Params("id")); err != nil {
		return h.mapNoteError(ctx, "deleting note", err)
	}

	if err := ctx.SendStatus(http.StatusNoContent); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// mapNoteError отображает доменную ошибку на HTTP ответ.
func (h *Handler) mapNoteError(ctx fiber.Ctx, op string, err error) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	switch {
	case errors.Is(err, entities.ErrNoteNotFound):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusNotFound).JSON(dto.ErrorResponse{
			Error: ErrorNoteNotFound,
		}))
	case errors.Is(err, services.ErrForbidden):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusForbidden).JSON(dto.ErrorResponse{
			Error: ErrorForbidden,
		}))
	case errors.Is(err, entities.ErrEmptyTitle):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "title is required",
		}))
	case errors.Is(err, entities.ErrTagNotFound):
		return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "referenced tag does not exist",
		}))
	}

	log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
	return fmt.Errorf("%s: %w", op, ctx.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: ErrorFailedToServeRequest,
	}))
}

func unauthorized(ctx fiber.Ctx) error {
	return fmt.Errorf("getting identity: %w", ctx.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: "unauthorized",
	}))
}

// queryInt читает целочисленный параметр запроса; мусор дает ноль,
// который затем приводится к значению по умолчанию.
func queryInt(ctx fiber.Ctx, key string) int {
	value, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return value
}

func toNoteResponse(note *entities.Note) dto.NoteResponse {
	tags := make([]dto.TagResponse, 0, len(note.Tags))
	for _, tag := range note.Tags {
		tags = append(tags, dto.TagResponse{
			ID:        tag.ID,
			Name:      tag.Name,
			Color:     tag.Color,
			CreatedAt: tag.CreatedAt,
		})
	}

	return dto.NoteResponse{
		ID:     note.ID,
		UserID: note.UserID,
		User: dto.UserPayload{
			ID:       note.Owner.ID,
			Email:    note.Owner.Email,
			Username: note.Owner.Username,
		},
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
