// Package entities определяет сущности домена заметок.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrEmptyTitle   = errors.New("note title cannot be empty")
)

// NoteOwner - краткая учетная запись владельца, отдаваемая вместе с заметкой.
type NoteOwner struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Note представляет собой заметку пользователя.
// Владелец назначается при создании и не меняется.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Owner     NoteOwner `json:"owner"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает новую заметку с указанным владельцем, заголовком и содержимым.
func NewNote(userID, title, content string) *Note {
	now := time.Now()
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
