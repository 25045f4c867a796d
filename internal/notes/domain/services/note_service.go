// Package services содержит доменные ошибки и политики домена заметок.
package services

import "errors"

// Ошибки доменных сервисов заметок.
var (
	ErrForbidden = errors.New("operation permitted only for the owner")
)

// Пределы пагинации списков заметок.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CanModify разрешает изменение заметки только ее владельцу.
// Чтение доступно любому аутентифицированному пользователю и
// политикой не ограничивается.
func CanModify(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}

// NormalizePage приводит номер страницы и ее размер к допустимым значениям.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
