package drivers

import (
	"fmt"

	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/drivers/sqlite"
)

type SQLiteDriver struct {
	db *squealx.DB
}

func NewSQLiteDriver(dbPath string) (*SQLiteDriver, error) {
	db, err := sqlite.Open(dbPath, "sqlite3")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return &SQLiteDriver{db: db}, nil
}

// ApplySQL executes a generated trigger batch inside one transaction.
func (s *SQLiteDriver) ApplySQL(queries []string) error {
	tx, err := s.db.Begin()
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
func (s *SQLiteDriver) ListTriggers(table string) ([]string, error) {
	var names []string
	err := s.db.Select(&names,
		"SELECT name FROM sqlite_master WHERE type = 'trigger' AND tbl_name = ?", table)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	return names, nil
}

func (s *SQLiteDriver) DB() *squealx.DB {
	return s.db
}

func (s *SQLiteDriver) Close() error {
	return s.db.Close()
}
