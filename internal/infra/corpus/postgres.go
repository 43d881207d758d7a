package corpus

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

// PostgresSource reads entries from the faq_entries table:
//
//	CREATE TABLE faq_entries (
//		id        TEXT PRIMARY KEY,
//		position  INTEGER NOT NULL,
//		patterns  JSONB NOT NULL,
//		responses JSONB NOT NULL
//	);
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]faq.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patterns, responses
		FROM faq_entries
		ORDER BY position, id
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "query faq entries", err)
	}
	defer rows.Close()

	var entries []faq.Entry
	for rows.Next() {
		var entry faq.Entry
		if err := rows.Scan(&entry.ID, &entry.Patterns, &entry.Responses); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeCorpus, "scan faq entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "iterate faq entries", err)
	}
	return entries, nil
}

// Describe implements Source.
func (s *PostgresSource) Describe() string {
	return describe("postgres", "faq_entries")
}

var _ Source = (*PostgresSource)(nil)
