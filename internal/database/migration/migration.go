package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  full_name     TEXT        NOT NULL,
  department    TEXT,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename     TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  owner_id     UUID        NOT NULL REFERENCES users (id),
  owner_name   TEXT        NOT NULL,
  description  TEXT,
  category     TEXT,
  storage_path TEXT        NOT NULL UNIQUE,
  uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_id ON documents (owner_id);`,
	},
	{
		Name: "create_table_access_permissions",
		SQL: `CREATE TABLE IF NOT EXISTS access_permissions (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id     UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  document_name   TEXT        NOT NULL,
  requester_id    UUID        NOT NULL REFERENCES users (id),
  requester_name  TEXT        NOT NULL,
  owner_id        UUID        NOT NULL REFERENCES users (id),
  permission_type TEXT        NOT NULL CHECK (permission_type IN ('view', 'download', 'edit')),
  status          TEXT        NOT NULL CHECK (status IN ('pending', 'approved', 'denied', 'expired')),
  requested_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  granted_at      TIMESTAMPTZ,
  expires_at      TIMESTAMPTZ,
  grant_reason    TEXT
);`,
	},
	{
		// At most one pending request per (document, requester); closes the
		// check-then-insert race at the storage layer.
		Name: "create_unique_index_access_permissions_pending",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_access_permissions_pending
  ON access_permissions (document_id, requester_id) WHERE status = 'pending';`,
	},
	{
		Name: "create_index_access_permissions_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_permissions_owner_id ON access_permissions (owner_id);`,
	},
	{
		Name: "create_index_access_permissions_requester_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_permissions_requester_id ON access_permissions (requester_id);`,
	},
	{
		// No FK to documents: audit history must survive document deletion.
		Name: "create_table_activity_logs",
		SQL: `CREATE TABLE IF NOT EXISTS activity_logs (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID        NOT NULL,
  user_name        TEXT        NOT NULL,
  document_id      UUID        NOT NULL,
  document_name    TEXT        NOT NULL,
  action           TEXT        NOT NULL CHECK (action IN ('view', 'download', 'edit', 'upload', 'delete', 'request_access', 'grant_access')),
  ts               TIMESTAMPTZ NOT NULL DEFAULT now(),
  duration_seconds INTEGER,
  metadata         JSONB
);`,
	},
	{
		Name: "create_index_activity_logs_user_id_ts",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id_ts ON activity_logs (user_id, ts);`,
	},
	{
		Name: "create_index_activity_logs_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_logs_document_id ON activity_logs (document_id);`,
	},
}

// EnsureMigrated checks if the newest table in the schema exists and runs the
// migration steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.activity_logs') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
