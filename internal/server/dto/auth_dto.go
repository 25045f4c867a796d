// Package dto содержит объекты передачи данных HTTP интерфейса.
package dto

// RegisterRequest содержит данные для регистрации пользователя.
// Name опционально; пустое имя заменяется username.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

// RegisterResponse содержит публичные поля созданной учетной записи.
type RegisterResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginRequest содержит данные для входа. Достаточно одного из
// идентификаторов: email или username.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// UserPayload содержит публичное представление пользователя.
type UserPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse содержит пару токенов и данные вошедшего пользователя.
type LoginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	Success bool        `json:"success"`
	User    UserPayload `json:"user"`
}

// RefreshRequest содержит refresh токен для обновления access токена.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse содержит новый access токен.
type RefreshResponse struct {
	Access string `json:"access"`
}

// LogoutRequest содержит refresh токен для отзыва.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// DetailResponse содержит человекочитаемый итог операции.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// VerifyResponse содержит итог проверки access токена.
type VerifyResponse struct {
	Detail string      `json:"detail"`
	User   UserPayload `json:"user"`
}

// ErrorResponse содержит одну ошибку запроса.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorsResponse содержит ошибки валидации, привязанные к полям.
type FieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}
