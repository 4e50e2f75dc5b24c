package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"classroom-quiz-service/internal/app"
	"classroom-quiz-service/internal/config"
	"classroom-quiz-service/internal/infra/file"
	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/memory"
	"classroom-quiz-service/internal/infra/postgres"
	"classroom-quiz-service/internal/infra/records"
	redisinfra "classroom-quiz-service/internal/infra/redis"
	"classroom-quiz-service/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backends holds the connections opened from config.
type backends struct {
	store kv.Store
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}

	store, err := openStore(cfg, b.redis)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.store = store
	return b, nil
}

func openStore(cfg config.Config, client *redis.Client) (kv.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		return file.NewRecordStore(cfg.Store.DataDir)
	case config.DriverSQLite:
		return sqlite.NewRecordStore(cfg.Store.SQLitePath)
	case config.DriverRedis:
		if client == nil {
			return nil, fmt.Errorf("store driver redis requires redis.addr")
		}
		return redisinfra.NewRecordStore(client), nil
	default:
		return memory.NewRecordStore(), nil
	}
}

func (b *backends) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// repositories wires the record store, question bank and roster.
// The question bank comes from Postgres when configured, else the questions file,
// and is cached in Redis when available. The roster prefers Postgres, then the
// teachers file, then the static list in config.
func (b *backends) repositories(cfg config.Config) app.Repositories {
	var loader memory.QuizLoader = file.NewQuizLoader(cfg.Quiz.QuestionsFile)
	if b.pool != nil {
		loader = postgres.NewQuizLoader(b.pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizzes app.QuizRepository
	if b.redis != nil {
		quizzes = redisinfra.NewQuizRepository(b.redis, loader, config.TTLDuration(cfg.Redis.TTL, quizTTL))
	} else {
		quizzes = memory.NewQuizRepository(loader, quizTTL)
	}

	var roster app.TeacherRoster
	switch {
	case b.pool != nil:
		roster = postgres.NewRoster(b.pool)
	case cfg.Quiz.TeachersFile != "":
		roster = file.NewRoster(cfg.Quiz.TeachersFile)
	default:
		roster = memory.NewStaticRoster(cfg.Quiz.Teachers)
	}

	slog.Info("storage configured",
		"store", cfg.Store.Driver,
		"questions", questionSource(cfg, b),
		"redisCache", b.redis != nil,
	)

	return app.Repositories{
		Users:       records.NewUsers(b.store),
		Teachers:    roster,
		Sessions:    records.NewSessions(b.store),
		Submissions: records.NewSubmissions(b.store),
		Quizzes:     quizzes,
	}
}

func questionSource(cfg config.Config, b *backends) string {
	if b.pool != nil {
		return "postgres"
	}
	return cfg.Quiz.QuestionsFile
}
