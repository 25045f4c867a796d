package authusecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notedeck/internal/auth/app"
	"notedeck/internal/auth/domain/services"
)

var errRedisDown = errors.New("redis connection refused")

func TestLogout(t *testing.T) {
	ctx := testContext(t)

	refreshToken := "refresh-token"
	claims := &services.RefreshClaims{
		UserID:    "user-1",
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	tests := []struct {
		name       string
		setupMocks func(revocations *mockRevocationList, tokenSvc *mockTokenService)
	}{
		{
			name: "успешный отзыв токена",
			setupMocks: func(revocations *mockRevocationList, tokenSvc *mockTokenService) {
				tokenSvc.On("ParseRefreshToken", mock.Anything, refreshToken).Return(claims, nil).Once()
				revocations.On("Revoke", mock.Anything, "jti-1", mock.MatchedBy(func(ttl time.Duration) bool {
					return ttl > 23*time.Hour && ttl <= 24*time.Hour
				})).Return(nil).Once()
			},
		},
		{
			name: "некорректный токен игнорируется",
			setupMocks: func(_ *mockRevocationList, tokenSvc *mockTokenService) {
				tokenSvc.On("ParseRefreshToken", mock.Anything, refreshToken).
					Return(nil, services.ErrInvalidToken).Once()
			},
		},
		{
			name: "сбой списка отзыва не виден вызывающему",
			setupMocks: func(revocations *mockRevocationList, tokenSvc *mockTokenService) {
				tokenSvc.On("ParseRefreshToken", mock.Anything, refreshToken).Return(claims, nil).Once()
				revocations.On("Revoke", mock.Anything, "jti-1", mock.Anything).Return(errRedisDown).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mockUserRepository)
			revocations := new(mockRevocationList)
			passwordSvc := new(mockPasswordService)
			tokenSvc := new(mockTokenService)
			tt.setupMocks(revocations, tokenSvc)

			useCase := app.NewAuthUseCase(userRepo, revocations, passwordSvc, tokenSvc)

			// Выход всегда успешен для вызывающей стороны.
			require.NoError(t, useCase.Logout(ctx, refreshToken))

			revocations.AssertExpectations(t)
			tokenSvc.AssertExpectations(t)
		})
	}
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := testContext(t)

	claims := &services.RefreshClaims{
		UserID:    "user-1",
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	userRepo := new(mockUserRepository)
	revocations := new(mockRevocationList)
	passwordSvc := new(mockPasswordService)
	tokenSvc := new(mockTokenService)

	tokenSvc.On("ParseRefreshToken", mock.Anything, "refresh-token").Return(claims, nil).Twice()
	revocations.On("Revoke", mock.Anything, "jti-1", mock.Anything).Return(nil).Twice()

	useCase := app.NewAuthUseCase(userRepo, revocations, passwordSvc, tokenSvc)

	require.NoError(t, useCase.Logout(ctx, "refresh-token"))
	require.NoError(t, useCase.Logout(ctx, "refresh-token"))

	revocations.AssertExpectations(t)
}
