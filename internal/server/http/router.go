// Package http содержит компоненты HTTP сервера.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	authapi "notedeck/internal/auth/ports/api"
	notesapi "notedeck/internal/notes/ports/api"
	"notedeck/internal/server/http/auth"
	"notedeck/internal/server/http/middleware"
	"notedeck/internal/server/http/notes"
	"notedeck/internal/server/http/tags"
)

// ErrorHandler обрабатывает ошибки, возвращенные из обработчиков.
// Обработчики записывают ответ до возврата ошибки, поэтому такой ответ
// сохраняется как есть; ошибки самого fiber отдаются с их кодом.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}
	return nil
}

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(
	app *fiber.App,
	authUseCase authapi.AuthUseCase,
	noteUseCase notesapi.NoteUseCase,
	tagUseCase notesapi.TagUseCase,
) {
	authHandler := auth.NewHandler(authUseCase)
	notesHandler := notes.NewHandler(noteUseCase)
	tagsHandler := tags.NewHandler(tagUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	requireAuth := middleware.NewAuthMiddleware(authUseCase)

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные, кроме verify и logout).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Get("/verify", authHandler.Verify, requireAuth)
	authRoutes.Post("/logout", authHandler.Logout, requireAuth)

	// Заметки (защищенные).
	noteRoutes := apiV1.Group("/notes")
	noteRoutes.Use(requireAuth)
	noteRoutes.Get("/", notesHandler.List)
	noteRoutes.Post("/", notesHandler.Create)
	noteRoutes.Get("/:id", notesHandler.Get)
	noteRoutes.Put("/:id", notesHandler.Update)
	noteRoutes.Patch("/:id", notesHandler.Update)
	noteRoutes.Delete("/:id", notesHandler.Delete)

	// Метки (защищенные).
	tagRoutes := apiV1.Group("/tags")
	tagRoutes.Use(requireAuth)
	tagRoutes.Get("/", tagsHandler.List)
	tagRoutes.Post("/", tagsHandler.Create)
	tagRoutes.Get("/:id", tagsHandler.Get)
	tagRoutes.Put("/:id", tagsHandler.Update)
	tagRoutes.Patch("/:id", tagsHandler.Update)
	tagRoutes.Delete("/:id", tagsHandler.Delete)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
