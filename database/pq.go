package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/model"
)

// PostgreSQLStore is a plain database/sql connection used for the
// PostgreSQL-only DDL that AutoMigrate cannot express: CHECK constraints
// guarding the registration counter and a partial index for the public feed.
type PostgreSQLStore struct {
	db *sql.DB
}

func StartPostgres(env *config.EnviornmentVariable) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", DSN(env))
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQLStore{db: db}, nil
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

// ApplyConstraints adds the storage-level invariants. It is idempotent and
// must run after AutoMigrate has created the tables.
func (s *PostgreSQLStore) ApplyConstraints(ctx context.Context) error {
	for _, stmt := range constraintStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply constraints: %w", err)
		}
	}
	log.Info().Int("statements", len(constraintStatements())).Msg("PostgreSQL constraints applied")
	return nil
}

func constraintStatements() []string {
	statuses := []string{
		string(model.EventStatusPending),
		string(model.EventStatusApproved),
		string(model.EventStatusRejected),
	}
	roles := make([]string, len(model.Roles))
	for i, r := range model.Roles {
		roles[i] = string(r)
	}
	departments := make([]string, len(model.Departments))
	for i, d := range model.Departments {
		departments[i] = string(d)
	}

	checks := []struct {
		table, name, expr string
	}{
		{"events", "chk_events_capacity", "capacity IS NULL OR capacity >= 1"},
		{"events", "chk_events_registrations_count", "registrations_count >= 0 AND (capacity IS NULL OR registrations_count <= capacity)"},
		{"events", "chk_events_status", "status IN (" + quoteList(statuses) + ")"},
		{"events", "chk_events_department", "department IN (" + quoteList(departments) + ")"},
		{"users", "chk_users_role", "role IN (" + quoteList(roles) + ")"},
		{"users", "chk_users_department", "department IN (" + quoteList(departments) + ")"},
	}

	stmts := make([]string, 0, len(checks)+1)
	for _, c := range checks {
		stmts = append(stmts, fmt.Sprintf(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
				ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
			END IF;
		END $$;`, c.name, c.table, c.name, c.expr))
	}

	stmts = append(stmts, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_events_approved_date ON events (date) WHERE status = '%s';`,
		model.EventStatusApproved,
	))

	return stmts
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
