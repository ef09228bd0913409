// Package bootstrap connects the storage backends shared by the API server and the
// worker manager.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/database"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/store"
	"admissions-platform/internal/store/memory"
	"admissions-platform/internal/store/postgres"
)

var (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Backends holds the store and whichever optional clients came up.
type Backends struct {
	Store  *store.Store
	Search *store.CollegeSearch

	Postgres      *database.PostgresClient
	Redis         *database.RedisClient
	Elasticsearch *database.ElasticsearchClient
}

// retryWithBackoff runs operation up to maxRetries times, doubling the delay after each failure.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// Open connects every enabled backend. Postgres that cannot be reached falls back to the
// seeded in-memory store; Redis and Elasticsearch failures only disable the profile cache
// and free-text search.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) *Backends {
	b := &Backends{}

	if cfg.Database.Postgres.Enabled {
		err := retryWithBackoff(ctx, func() error {
			pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
			if err != nil {
				return err
			}
			b.Postgres = pg
			return nil
		}, connectAttempts, connectDelay, log, "PostgreSQL connection")
		if err == nil {
			err = b.preparePostgres(ctx)
		}
		if err != nil {
			log.Error("postgres unavailable, using in-memory store", map[string]interface{}{"error": err})
			if b.Postgres != nil {
				_ = b.Postgres.Close()
				b.Postgres = nil
			}
		}
	}
	if b.Store == nil {
		b.Store = memory.NewSeeded()
	}
	log.Info("store ready", map[string]interface{}{"backend": b.Store.Backend})

	if cfg.Database.Redis.Enabled {
		rdb := database.NewRedis(cfg.Database.Redis)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis unavailable, profile cache disabled", map[string]interface{}{"error": err})
			_ = rdb.Close()
		} else {
			b.Redis = rdb
			ttl := time.Duration(cfg.Database.Redis.ProfileTTL) * time.Second
			b.Store.Profiles = store.NewProfileCache(b.Store.Profiles, rdb.Client, ttl, log)
			log.Info("redis profile cache enabled", map[string]interface{}{"ttl": ttl.String()})
		}
	}

	b.Search = store.NewCollegeSearch(nil, cfg.Database.Elasticsearch.CollegeIndex, b.Store.Colleges, log)
	if cfg.Database.Elasticsearch.Enabled {
		if err := b.openSearch(ctx, cfg.Database.Elasticsearch, log); err != nil {
			log.Warn("elasticsearch unavailable, free-text search uses the repository", map[string]interface{}{"error": err})
		}
	}

	return b
}

func (b *Backends) preparePostgres(ctx context.Context) error {
	if err := postgres.Migrate(ctx, b.Postgres.DB); err != nil {
		return err
	}
	s := postgres.New(b.Postgres.DB, 5*time.Second)
	if err := memory.Seed(ctx, s); err != nil {
		return err
	}
	b.Store = s
	return nil
}

func (b *Backends) openSearch(ctx context.Context, cfg config.ElasticsearchConfig, log logger.Logger) error {
	es, err := database.NewElasticsearch(cfg)
	if err != nil {
		return err
	}
	if err := es.Ping(ctx); err != nil {
		return err
	}

	search := store.NewCollegeSearch(es.Client, cfg.CollegeIndex, b.Store.Colleges, log)
	if err := search.Sync(ctx); err != nil {
		return err
	}
	b.Elasticsearch = es
	b.Search = search
	log.Info("elasticsearch college index synced", map[string]interface{}{"index": cfg.CollegeIndex})
	return nil
}

// Close releases every open client.
func (b *Backends) Close() {
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
	if b.Postgres != nil {
		_ = b.Postgres.Close()
	}
}
