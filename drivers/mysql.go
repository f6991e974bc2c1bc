package drivers

import (
	"fmt"

	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/drivers/mysql"
)

type MySQLDriver struct {
	db *squealx.DB
}

func NewMySQLDriver(dsn string) (*MySQLDriver, error) {
	db, err := mysql.Open(dsn, "mysql")
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &MySQLDriver{db: db}, nil
}

// ApplySQL executes a generated trigger batch statement by statement.
// MySQL DDL commits implicitly, so wrapping the batch in a transaction
// would buy nothing.
func (m *MySQLDriver) ApplySQL(queries []string) error {
	for _, query := range queries {
		if _, err := m.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query [%s]: %w", query, err)
		}
	}
	return nil
}

// ListTriggers returns the names of the triggers currently defined on
// a table.
func (m *MySQLDriver) ListTriggers(table string) ([]string, error) {
	var names []string
	err := m.db.Select(&names,
		"SELECT trigger_name FROM information_schema.triggers WHERE event_object_table = ?", table)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	return names, nil
}

func (m *MySQLDriver) DB() *squealx.DB {
	return m.db
}

func (m *MySQLDriver) Close() error {
	return m.db.Close()
}
