package drivers

import (
	"fmt"

	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/drivers/postgres"
)

type PostgresDriver struct {
	db *squealx.DB
}

func NewPostgresDriver(dsn string) (*PostgresDriver, error) {
	db, err := postgres.Open(dsn, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresDriver{db: db}, nil
}

// ApplySQL executes a generated trigger batch inside one transaction,
// so the DROP/CREATE pair lands atomically.
func (p *PostgresDriver) ApplySQL(queries []string) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute query [%s]: %w", query, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTriggers returns the names of the triggers currently defined on
// a table.
func (p *PostgresDriver) ListTriggers(table string) ([]string, error) {
	var names []string
	err := p.db.Select(&names,
		"SELECT DISTINCT trigger_name FROM information_schema.triggers WHERE event_object_table = $1", table)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	return names, nil
}

func (p *PostgresDriver) DB() *squealx.DB {
	return p.db
}

func (p *PostgresDriver) Close() error {
	return p.db.Close()
}
