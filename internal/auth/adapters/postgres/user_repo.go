// Package postgres содержит реализации хранилищ подсистемы идентификации.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notedeck/internal/auth/domain/entities"
	domainsvc "notedeck/internal/auth/domain/services"
	"notedeck/internal/auth/ports/repositories"
	"notedeck/pkg/logger"
)

// Код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolationCode = "23505"

// PgxPoolInterface абстрагирует пул соединений для тестирования.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "id, email, username, password_hash, created_at, updated_at"

// Create создает пользователя и его профиль в одной транзакции.
// Уникальность email и username обеспечивает база (citext + unique index);
// нарушение транслируется в ошибку, привязанную к конкретному полю.
func (r *UserRepository) Create(ctx context.Context, user *entities.User, profileName string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO users (email, username, password_hash)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	var createdUser entities.User
	err = tx.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
	).Scan(
		&createdUser.ID,
		&createdUser.Email,
		&createdUser.Username,
		&createdUser.PasswordHash,
		&createdUser.CreatedAt,
		&createdUser.UpdatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			log.Debug(ctx, "duplicate identifier on user creation", zap.Error(mapped))
			return nil, mapped
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if profileName == "" {
		profileName = createdUser.Username
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, name) VALUES ($1, $2)`,
		createdUser.ID, profileName,
	)
	if err != nil {
		log.Error(ctx, "error creating profile", zap.Error(err))
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing user creation", zap.Error(err))
		return nil, fmt.Errorf("error committing user creation: %w", err)
	}

	return &createdUser, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "FindByID", `WHERE id = $1`, id)
}

// FindByEmail находит пользователя по email (без учета регистра).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "FindByEmail", `WHERE email = $1`, email)
}

// FindByUsername находит пользователя по имени (без учета регистра).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "FindByUsername", `WHERE username = $1`, username)
}

func (r *UserRepository) findOne(ctx context.Context, method, where string, arg string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))

	query := "SELECT " + userColumns + " FROM users " + where

	var user entities.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found")
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user", zap.Error(err))
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	return &user, nil
}

// mapUniqueViolation переводит нарушение уникальности в доменную ошибку,
// привязанную к полю. Возвращает nil для прочих ошибок.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domainsvc.ErrEmailAlreadyExists
	case strings.Contains(pgErr.ConstraintName, "username"):
		return domainsvc.ErrUsernameAlreadyExists
	default:
		return nil
	}
}
