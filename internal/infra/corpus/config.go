package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/portal-assistant/internal/infra/config"
)

const pingTimeout = 5 * time.Second

// FromConfig builds the source selected by assistant.corpus.source. The
// returned release func frees any connection the source holds.
func FromConfig(ctx context.Context, cfg *config.Config) (Source, func(), error) {
	noop := func() {}
	switch cfg.Assistant.Corpus.Source {
	case config.CorpusSourceFile, "":
		return NewFileSource(cfg.Assistant.Corpus.Path), noop, nil
	case config.CorpusSourcePostgres:
		pool, err := newPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresSource(pool), pool.Close, nil
	case config.CorpusSourceObject:
		store := cfg.ObjectStore
		src, err := NewObjectSource(store.Endpoint, store.AccessKey, store.SecretKey, store.Region, store.Bucket, cfg.Assistant.Corpus.Key)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported corpus source %q", cfg.Assistant.Corpus.Source)
	}
}

func newPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
