package dto

import "time"

// CreateTagRequest содержит данные для создания метки.
// Пустой цвет заменяется цветом по умолчанию.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// UpdateTagRequest содержит данные частичного обновления метки.
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// TagResponse содержит представление метки.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ListTagsResponse содержит список меток.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags"`
}
