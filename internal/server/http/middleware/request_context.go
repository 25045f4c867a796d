// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"notedeck/internal/auth/domain/entities"
	"notedeck/pkg/logger"
)

// Ключи значений запроса в fiber.Ctx.
const (
	localsRequestContext = "requestContext"
	localsIdentity       = "identity"

	headerRequestID = "X-Request-ID"
)

// NewRequestIDMiddleware снабжает каждый запрос идентификатором: берет его
// из входящего заголовка или генерирует новый, кладет в контекст запроса
// и возвращает клиенту в заголовке ответа.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(headerRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		requestCtx := logger.NewRequestIDContext(ctx.Context(), requestID)
		ctx.Locals(localsRequestContext, requestCtx)
		ctx.Set(headerRequestID, requestID)

		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса, обогащенный идентификатором
// запроса и, после аутентификации, личностью вызывающего.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(localsRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}

// Identity возвращает личность аутентифицированного вызывающего,
// установленную промежуточным ПО аутентификации.
func Identity(ctx fiber.Ctx) (*entities.Identity, bool) {
	identity, ok := ctx.Locals(localsIdentity).(*entities.Identity)
	return identity, ok
}
