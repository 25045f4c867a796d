// Package services определяет доменные типы и ошибки подсистемы идентификации.
package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrUsernameAlreadyExists = errors.New("user with this username already exists")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// TokenPair представляет пару токенов аутентификации.
type TokenPair struct {
	UserID       string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
