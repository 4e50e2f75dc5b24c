package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"classroom-quiz-service/internal/config"
	"classroom-quiz-service/internal/infra/file"
	"classroom-quiz-service/internal/infra/postgres"
	pgmigrations "classroom-quiz-service/internal/infra/postgres/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and optionally seeds the question bank and roster.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations for the question bank and teacher roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg.Log.Level, cfg.Log.Format)
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			if seed {
				return seedPostgres(cmd.Context(), cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load quiz.questionsFile and quiz.teachers into Postgres")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.Info("migrations up to date")
		return nil
	}
	slog.Info("migrations applied", "group", group.String())
	return nil
}

func seedPostgres(ctx context.Context, cfg config.Config) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.Quiz.QuestionsFile != "" {
		quiz, err := file.NewQuizLoader(cfg.Quiz.QuestionsFile).LoadQuiz(ctx, cfg.Quiz.ID)
		if err != nil {
			return err
		}
		if err := quiz.Validate(); err != nil {
			return err
		}
		if err := postgres.NewQuizLoader(pool).SaveQuiz(ctx, quiz); err != nil {
			return err
		}
		slog.Info("seeded quiz", "quiz", quiz.ID, "questions", len(quiz.Questions))
	}

	roster := postgres.NewRoster(pool)
	for _, t := range cfg.Quiz.Teachers {
		if err := roster.AddTeacher(ctx, t); err != nil {
			return err
		}
	}
	if n := len(cfg.Quiz.Teachers); n > 0 {
		slog.Info("seeded teachers", "count", n)
	}
	return nil
}
