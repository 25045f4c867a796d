package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/repositories"
	"notedeck/pkg/logger"
)

// Имена поисковых стратегий.
const (
	FullTextStrategyName  = "fulltext"
	SubstringStrategyName = "substring"
)

// Взвешенный документ: заголовок весомее содержимого.
const weightedVector = `setweight(to_tsvector('english', coalesce(n.title, '')), 'A') ||
        setweight(to_tsvector('english', coalesce(n.content, '')), 'B')`

// FullTextStrategy ранжирует заметки полнотекстовым поиском PostgreSQL.
type FullTextStrategy struct {
	pool PgxPoolInterface
}

// NewFullTextStrategy создает ранжирующую поисковую стратегию.
func NewFullTextStrategy(pool PgxPoolInterface) repositories.SearchStrategy {
	return &FullTextStrategy{pool: pool}
}

// Name возвращает имя стратегии.
func (s *FullTextStrategy) Name() string { return FullTextStrategyName }

// Search отбирает заметки по взвешенному полнотекстовому совпадению и
// упорядочивает их по убыванию релевантности; при равенстве - по убыванию
// времени обновления.
func (s *FullTextStrategy) Search(ctx context.Context, query string, filter repositories.NoteFilter) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "FullTextStrategy.Search"))
	log.Debug(ctx, "running ranked search", zap.String("query", query))

	builder := &condBuilder{}
	queryPh := builder.add(query)
	builder.conds = append(builder.conds,
		weightedVector+" @@ plainto_tsquery('english', "+queryPh+")")
	applyFilter(builder, filter)
	where := builder.whereClause()

	var totalCount int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes n`+where,
		builder.args...,
	).Scan(&totalCount)
	if err != nil {
		log.Error(ctx, "failed to count search results", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	limitPh := builder.add(filter.Limit)
	offsetPh := builder.add(filter.Offset)

	rows, err := s.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes n`+where+
			` ORDER BY ts_rank(`+weightedVector+`, plainto_tsquery('english', `+queryPh+`)) DESC, n.updated_at DESC`+
			` LIMIT `+limitPh+` OFFSET `+offsetPh,
		builder.args...,
	)
	if err != nil {
		log.Error(ctx, "failed to run ranked search", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to run ranked search: %w", err)
	}

	notes, err := scanNotes(rows)
	if err != nil {
		log.Error(ctx, "failed to scan search results", zap.Error(err))
		return nil, 0, err
	}

	if err := hydrateNotes(ctx, s.pool, notes); err != nil {
		log.Error(ctx, "failed to hydrate notes", zap.Error(err))
		return nil, 0, err
	}

	return notes, totalCount, nil
}

// SubstringStrategy отбирает заметки по вхождению подстроки без учета регистра.
// Ранжирования нет; порядок - по убыванию времени обновления.
type SubstringStrategy struct {
	pool PgxPoolInterface
}

// NewSubstringStrategy создает резервную поисковую стратегию.
func NewSubstringStrategy(pool PgxPoolInterface) repositories.SearchStrategy {
	return &SubstringStrategy{pool: pool}
}

// Name возвращает имя стратегии.
func (s *SubstringStrategy) Name() string { return SubstringStrategyName }

// Search отбирает заметки, чей заголовок или содержимое содержит запрос.
func (s *SubstringStrategy) Search(ctx context.Context, query string, filter repositories.NoteFilter) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "SubstringStrategy.Search"))
	log.Debug(ctx, "running substring search", zap.String("query", query))

	builder := &condBuilder{}
	queryPh := builder.add(query)
	builder.conds = append(builder.conds,
		"(n.title ILIKE '%' || "+queryPh+" || '%' OR n.content ILIKE '%' || "+queryPh+" || '%')")
	applyFilter(builder, filter)
	where := builder.whereClause()

	var totalCount int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes n`+where,
		builder.args...,
	).Scan(&totalCount)
	if err != nil {
		log.Error(ctx, "failed to count search results", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	limitPh := builder.add(filter.Limit)
	offsetPh := builder.add(filter.Offset)

	rows, err := s.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes n`+where+
			` ORDER BY n.updated_at DESC`+
			` LIMIT `+limitPh+` OFFSET `+offsetPh,
		builder.args...,
	)
	if err != nil {
		log.Error(ctx, "failed to run substring search", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to run substring search: %w", err)
	}

	notes, err := scanNotes(rows)
	if err != nil {
		log.Error(ctx, "failed to scan search results", zap.Error(err))
		return nil, 0, err
	}

	if err := hydrateNotes(ctx, s.pool, notes); err != nil {
		log.Error(ctx, "failed to hydrate notes", zap.Error(err))
		return nil, 0, err
	}

	return notes, totalCount, nil
}

// ProbeFullText проверяет при старте, поддерживает ли база полнотекстовый
// поиск. Проба выполняется один раз; запросы ее результат не перепроверяют.
func ProbeFullText(ctx context.Context, pool PgxPoolInterface) bool {
	log := logger.Log(ctx)

	var probe string
	err := pool.QueryRow(ctx, `SELECT to_tsvector('english', 'probe')::text`).Scan(&probe)
	if err != nil {
		log.Warn(ctx, "full-text search unavailable, falling back to substring matching", zap.Error(err))
		return false
	}

	return true
}
