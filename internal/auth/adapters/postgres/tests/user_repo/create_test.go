package userrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedeck/internal/auth/adapters/postgres"
	"notedeck/internal/auth/domain/entities"
	domain "notedeck/internal/auth/domain/services"
	"notedeck/pkg/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func userRows(user *entities.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "created_at", "updated_at"}).
		AddRow(user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)

	input := &entities.User{
		Email:        "new@example.com",
		Username:     "newuser",
		PasswordHash: "hashed-password",
	}

	created := &entities.User{
		ID:           "generated-uuid",
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	t.Run("пользователь и профиль создаются в одной транзакции", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnRows(userRows(created))
		mock.ExpectExec("INSERT INTO profiles .+").
			WithArgs(created.ID, "New User").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := postgres.NewUserRepository(mock)
		user, err := repo.Create(ctx, input, "New User")

		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, created.Email, user.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("пустое имя профиля заменяется username", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnRows(userRows(created))
		mock.ExpectExec("INSERT INTO profiles .+").
			WithArgs(created.ID, created.Username).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := postgres.NewUserRepository(mock)
		_, err = repo.Create(ctx, input, "")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("дубликат email дает ошибку поля email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)
		user, err := repo.Create(ctx, input, "")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("дубликат username дает ошибку поля username", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)
		user, err := repo.Create(ctx, input, "")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("общая ошибка базы данных", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnError(errors.New("database connection error"))
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)
		user, err := repo.Create(ctx, input, "")

		assert.Nil(t, user)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error creating user")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
