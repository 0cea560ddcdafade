package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_papers",
		SQL: `CREATE TABLE IF NOT EXISTS papers (
  id            TEXT        NOT NULL,
  partition_key TEXT        NOT NULL,
  exam_type     TEXT        NOT NULL,
  year          TEXT        NOT NULL,
  paper_type    TEXT        NOT NULL,
  paper_url     TEXT        NOT NULL,
  solution_url  TEXT        NOT NULL DEFAULT '',
  has_download  BOOLEAN     NOT NULL DEFAULT true,
  has_solution  BOOLEAN     NOT NULL DEFAULT false,
  upload_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
  views         BIGINT      NOT NULL DEFAULT 0 CHECK (views >= 0),
  downloads     BIGINT      NOT NULL DEFAULT 0 CHECK (downloads >= 0),
  last_viewed   TIMESTAMPTZ,
  subjects      JSONB       NOT NULL DEFAULT '[]'::jsonb,
  PRIMARY KEY (partition_key, id)
);`,
	},
	{
		Name: "create_index_papers_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_id ON papers (id);`,
	},
	{
		Name: "create_index_papers_exam_year",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_exam_year ON papers (exam_type, year);`,
	},
	{
		Name: "create_index_papers_upload_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_upload_date ON papers (upload_date DESC);`,
	},
}

// EnsureMigrated checks if the 'papers' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("database").With(zap.String("db_host", dbHost))
	start := time.Now()

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.papers') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
