package dto

import "time"

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	TagIDs  []string `json:"tag_ids"`
}

// UpdateNoteRequest содержит данные частичного обновления заметки.
// Нулевые указатели означают "оставить как есть"; различие между
// отсутствующим tag_ids и пустым списком значимо.
type UpdateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	TagIDs  *[]string `json:"tag_ids"`
}

// NoteResponse содержит представление заметки с ее метками и кратким
// представлением владельца.
type NoteResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	User      UserPayload   `json:"user"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Tags      []TagResponse `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ListNotesResponse содержит страницу заметок.
type ListNotesResponse struct {
	Notes      []NoteResponse `json:"notes"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}
