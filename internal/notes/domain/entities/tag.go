package entities

import (
	"errors"
	"regexp"
	"time"
)

// DefaultTagColor - цвет метки по умолчанию (hex триплет).
const DefaultTagColor = "#3B82F6"

// Ошибки домена меток.
var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag with this name already exists")
	ErrEmptyTagName     = errors.New("tag name cannot be empty")
	ErrInvalidTagColor  = errors.New("tag color must be a hex triplet like #3B82F6")
)

var tagColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Tag представляет метку заметки. Пространство имен меток общее для всех
// пользователей.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateTagColor проверяет формат цвета метки.
func ValidateTagColor(color string) error {
	if !tagColorRegex.MatchString(color) {
		return ErrInvalidTagColor
	}
	return nil
}
