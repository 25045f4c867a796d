package tagrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedeck/internal/notes/adapters/postgres"
	"notedeck/internal/notes/domain/entities"
	"notedeck/pkg/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func tagRows(tags ...*entities.Tag) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "color", "created_at"})
	for _, tag := range tags {
		rows.AddRow(tag.ID, tag.Name, tag.Color, tag.CreatedAt)
	}
	return rows
}

func TestTagRepository_Create(t *testing.T) {
	ctx := testContext(t)

	input := &entities.Tag{Name: "work", Color: entities.DefaultTagColor}
	created := &entities.Tag{
		ID: "tag-1", Name: "work", Color: entities.DefaultTagColor,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("успешное создание", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO tags .+").
			WithArgs(input.Name, input.Color).
			WillReturnRows(tagRows(created))

		repo := postgres.NewTagRepository(mock)
		tag, err := repo.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, created.ID, tag.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("дубликат имени без учета регистра", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO tags .+").
			WithArgs(input.Name, input.Color).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_name_key"})

		repo := postgres.NewTagRepository(mock)
		tag, err := repo.Create(ctx, input)

		assert.Nil(t, tag)
		assert.ErrorIs(t, err, entities.ErrTagAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_List(t *testing.T) {
	ctx := testContext(t)

	stored := []*entities.Tag{
		{ID: "tag-1", Name: "personal", Color: entities.DefaultTagColor, CreatedAt: time.Now().UTC()},
		{ID: "tag-2", Name: "work", Color: "#FF0000", CreatedAt: time.Now().UTC()},
	}

	t.Run("без фильтра", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .+ FROM tags ORDER BY name").
			WillReturnRows(tagRows(stored...))

		repo := postgres.NewTagRepository(mock)
		tags, err := repo.List(ctx, "")

		require.NoError(t, err)
		assert.Len(t, tags, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("фильтр по подстроке имени", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .+ FROM tags WHERE name ILIKE .+ ORDER BY name").
			WithArgs("wo").
			WillReturnRows(tagRows(stored[1]))

		repo := postgres.NewTagRepository(mock)
		tags, err := repo.List(ctx, "wo")

		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "work", tags[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_Update(t *testing.T) {
	ctx := testContext(t)

	input := &entities.Tag{ID: "tag-1", Name: "renamed", Color: "#FF0000"}

	t.Run("несуществующая метка", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE tags SET .+").
			WithArgs(input.ID, input.Name, input.Color).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewTagRepository(mock)
		tag, err := repo.Update(ctx, input)

		assert.Nil(t, tag)
		assert.ErrorIs(t, err, entities.ErrTagNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("имя занято другой меткой", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE tags SET .+").
			WithArgs(input.ID, input.Name, input.Color).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_name_key"})

		repo := postgres.NewTagRepository(mock)
		tag, err := repo.Update(ctx, input)

		assert.Nil(t, tag)
		assert.ErrorIs(t, err, entities.ErrTagAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("несуществующая метка", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM tags WHERE id = .+").
			WithArgs("ghost").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewTagRepository(mock)
		err = repo.Delete(ctx, "ghost")

		assert.ErrorIs(t, err, entities.ErrTagNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
