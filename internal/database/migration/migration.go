package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_email_entries",
		SQL: `CREATE TABLE IF NOT EXISTS email_entries (
  id          UUID        PRIMARY KEY,
  title       TEXT        NOT NULL,
  slug        TEXT        NOT NULL,
  route       TEXT        NOT NULL,
  path        TEXT        NOT NULL,
  attachments INTEGER     NOT NULL DEFAULT 0 CHECK (attachments >= 0),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_email_entries_slug",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_email_entries_slug ON email_entries (slug);`,
	},
	{
		Name: "create_index_email_entries_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_email_entries_created_at ON email_entries (created_at);`,
	},
}

// EnsureMigrated checks if the 'email_entries' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	var exists bool
	query := "SELECT to_regclass('public.email_entries') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", "msg_detail", "schema already exists")
		return nil
	}

	log.Info("db_migration_start")
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"migration_step", step.Name,
				"error", err.Error(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Debug("db_migration_step",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
