// Package postgres содержит реализации хранилищ домена заметок.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/repositories"
)

// Коды ошибок PostgreSQL.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// PgxPoolInterface абстрагирует пул соединений для тестирования.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const noteColumns = "n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at"

// Допустимые значения параметра ordering; все прочее сводится к умолчанию.
var noteOrderings = map[string]string{
	"":            "n.updated_at DESC",
	"-updated_at": "n.updated_at DESC",
	"updated_at":  "n.updated_at ASC",
	"-created_at": "n.created_at DESC",
	"created_at":  "n.created_at ASC",
	"-title":      "n.title DESC",
	"title":       "n.title ASC",
}

// orderingClause возвращает безопасное выражение сортировки для ordering.
func orderingClause(ordering string) string {
	if clause, ok := noteOrderings[ordering]; ok {
		return clause
	}
	return noteOrderings[""]
}

// condBuilder накапливает условия WHERE и их аргументы.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// add добавляет аргумент и возвращает его плейсхолдер.
func (b *condBuilder) add(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *condBuilder) addCond(expr string, values ...interface{}) {
	placeholders := make([]interface{}, 0, len(values))
	for _, v := range values {
		placeholders = append(placeholders, b.add(v))
	}
	b.conds = append(b.conds, fmt.Sprintf(expr, placeholders...))
}

func (b *condBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// applyFilter добавляет предикаты владельца и метки; они комбинируются по AND
// с любым способом выборки.
func applyFilter(b *condBuilder, filter repositories.NoteFilter) {
	if filter.OwnerID != "" {
		b.addCond("n.user_id = %s", filter.OwnerID)
	}
	if filter.TagName != "" {
		b.addCond(`EXISTS (
            SELECT 1 FROM note_tags nt
            JOIN tags t ON t.id = nt.tag_id
            WHERE nt.note_id = n.id AND t.name = %s
        )`, filter.TagName)
	}
}

// scanNotes вычитывает строки заметок.
func scanNotes(rows pgx.Rows) ([]*entities.Note, error) {
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// hydrateNotes догружает к заметкам их метки и краткие учетные записи
// владельцев.
func hydrateNotes(ctx context.Context, pool PgxPoolInterface, notes []*entities.Note) error {
	if err := attachTags(ctx, pool, notes); err != nil {
		return err
	}
	return attachOwners(ctx, pool, notes)
}

// attachTags загружает метки для набора заметок одним запросом.
// Метки возвращаются в устойчивом порядке по имени.
func attachTags(ctx context.Context, pool PgxPoolInterface, notes []*entities.Note) error {
	if len(notes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(notes))
	byID := make(map[string]*entities.Note, len(notes))
	for _, note := range notes {
		note.Tags = make([]entities.Tag, 0)
		ids = append(ids, note.ID)
		byID[note.ID] = note
	}

	rows, err := pool.Query(ctx,
		`SELECT nt.note_id, t.id, t.name, t.color, t.created_at
         FROM note_tags nt
         JOIN tags t ON t.id = nt.tag_id
         WHERE nt.note_id = ANY($1)
         ORDER BY t.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID string
		var tag entities.Tag
		if err := rows.Scan(&noteID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan note tag: %w", err)
		}
		if note, ok := byID[noteID]; ok {
			note.Tags = append(note.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating note tags: %w", err)
	}

	return nil
}

// attachOwners загружает краткие учетные записи владельцев одним запросом.
func attachOwners(ctx context.Context, pool PgxPoolInterface, notes []*entities.Note) error {
	if len(notes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(notes))
	seen := make(map[string]struct{}, len(notes))
	for _, note := range notes {
		if _, ok := seen[note.UserID]; ok {
			continue
		}
		seen[note.UserID] = struct{}{}
		ids = append(ids, note.UserID)
	}

	rows, err := pool.Query(ctx,
		`SELECT id, email, username FROM users WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query note owners: %w", err)
	}
	defer rows.Close()

	owners := make(map[string]entities.NoteOwner, len(ids))
	for rows.Next() {
		var owner entities.NoteOwner
		if err := rows.Scan(&owner.ID, &owner.Email, &owner.Username); err != nil {
			return fmt.Errorf("failed to scan note owner: %w", err)
		}
		owners[owner.ID] = owner
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating note owners: %w", err)
	}

	for _, note := range notes {
		note.Owner = owners[note.UserID]
	}

	return nil
}
