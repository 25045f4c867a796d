// Package entities определяет сущности домена идентификации.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one digit")
	ErrUserNotFound     = errors.New("user not found")
)

// User представляет основную сущность домена пользователя.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile представляет профиль пользователя (один-к-одному с User).
// Создается вместе с пользователем в одной транзакции; имя по умолчанию
// равно имени пользователя.
type Profile struct {
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity представляет аутентифицированную личность запроса.
type Identity struct {
	ID       string
	Username string
}
