package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notedeck/internal/auth/ports/api"
	"notedeck/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired token"

	bearerPrefix = "Bearer "
)

// NewAuthMiddleware создает промежуточное ПО проверки access токена.
// Личность вызывающего кладется в контекст запроса для обработчиков.
func NewAuthMiddleware(authUseCase api.AuthUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return fmt.Errorf("%s: %w", ErrorNoAuthHeader,
				ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": ErrorNoAuthHeader,
				}))
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return fmt.Errorf("%s: %w", ErrorInvalidTokenFormat,
				ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": ErrorInvalidTokenFormat,
				}))
		}

		identity, err := authUseCase.Verify(requestCtx, strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return fmt.Errorf("%s: %w", ErrorInvalidToken,
				ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": ErrorInvalidToken,
				}))
		}

		ctx.Locals(localsIdentity, identity)

		return ctx.Next()
	}
}
