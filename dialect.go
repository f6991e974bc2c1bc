package hairtrigger

import (
	"strings"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Dialect emits native trigger SQL for one engine and answers the
// capability questions that decide whether a declaration is legal
// there. Emission is a pure read of prepared definition state.
type Dialect interface {
	Name() string

	// SupportsGroupedTrigger reports whether a trigger group collapses
	// into a single physical trigger (mysql) instead of expanding into
	// one trigger per member.
	SupportsGroupedTrigger() bool
	SupportsStatementScope() bool
	SupportsDefinerSecurity() bool
	SupportsMultipleEvents() bool

	CreateTriggerSQL(d *Definition) ([]string, error)
	DropTriggerSQL(name, table string) string
}

// ---------------------
// SQLite Implementation
// ---------------------
type SQLiteDialect struct{}

func (s *SQLiteDialect) Name() string                  { return DialectSQLite }
func (s *SQLiteDialect) SupportsGroupedTrigger() bool  { return false }
func (s *SQLiteDialect) SupportsStatementScope() bool  { return false }
func (s *SQLiteDialect) SupportsDefinerSecurity() bool { return false }
func (s *SQLiteDialect) SupportsMultipleEvents() bool  { return false }

func (s *SQLiteDialect) CreateTriggerSQL(d *Definition) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("CREATE TRIGGER ")
	sb.WriteString(d.name())
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(string(d.timing)))
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(string(d.events[0])))
	sb.WriteString(" ON ")
	sb.WriteString(d.table)
	sb.WriteString("\nFOR EACH ")
	sb.WriteString(strings.ToUpper(string(d.scope)))
	if d.preparedWhere != "" {
		sb.WriteString(" WHEN ")
		sb.WriteString(d.preparedWhere)
	}
	sb.WriteString("\nBEGIN\n")
	sb.WriteString(reindent(d.preparedAction, d.config.TabWidth))
	sb.WriteString("\nEND;\n")
	return []string{sb.String()}, nil
}

func (s *SQLiteDialect) DropTriggerSQL(name, table string) string {
	return "DROP TRIGGER IF EXISTS " + name + ";\n"
}

// ---------------------
// MySQL Implementation
// ---------------------
type MySQLDialect struct{}

func (m *MySQLDialect) Name() string                  { return DialectMySQL }
func (m *MySQLDialect) SupportsGroupedTrigger() bool  { return true }
func (m *MySQLDialect) SupportsStatementScope() bool  { return false }
func (m *MySQLDialect) SupportsDefinerSecurity() bool { return true }
func (m *MySQLDialect) SupportsMultipleEvents() bool  { return false }

func (m *MySQLDialect) CreateTriggerSQL(d *Definition) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if d.security == SecurityDefiner {
		if d.config.Definer.Empty() {
			return nil, defErr(d.name(), "definer security requires a resolved principal")
		}
		sb.WriteString("DEFINER = ")
		sb.WriteString(d.config.Definer.String())
		sb.WriteString(" ")
	}
	sb.WriteString("TRIGGER ")
	sb.WriteString(d.name())
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(string(d.timing)))
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(string(d.events[0])))
	sb.WriteString(" ON ")
	sb.WriteString(d.table)
	sb.WriteString("\nFOR EACH ")
	sb.WriteString(strings.ToUpper(string(d.scope)))
	sb.WriteString("\nBEGIN\n")
	sb.WriteString(reindent(m.body(d), d.config.TabWidth))
	sb.WriteString("\nEND\n")
	return []string{sb.String()}, nil
}

// body flattens a group into one ordered block: each guarded member
// becomes IF guard THEN action END IF; and unguarded members
// contribute their action alone, in declaration order.
func (m *MySQLDialect) body(d *Definition) string {
	if len(d.children) == 0 {
		return d.preparedAction
	}
	frags := make([]string, 0, len(d.children))
	for _, c := range d.children {
		if c.preparedWhere != "" {
			frags = append(frags, "IF "+c.preparedWhere+" THEN\n"+
				reindent(c.preparedAction, d.config.TabWidth)+"\nEND IF;")
		} else {
			frags = append(frags, c.preparedAction)
		}
	}
	return strings.Join(frags, "\n")
}

func (m *MySQLDialect) DropTriggerSQL(name, table string) string {
	return "DROP TRIGGER IF EXISTS " + name + ";\n"
}

// ---------------------
// Postgres Implementation
// ---------------------
type PostgresDialect struct{}

func (p *PostgresDialect) Name() string                  { return DialectPostgres }
func (p *PostgresDialect) SupportsGroupedTrigger() bool  { return false }
func (p *PostgresDialect) SupportsStatementScope() bool  { return true }
func (p *PostgresDialect) SupportsDefinerSecurity() bool { return true }
func (p *PostgresDialect) SupportsMultipleEvents() bool  { return true }

func (p *PostgresDialect) CreateTriggerSQL(d *Definition) ([]string, error) {
	name := d.name()
	var fn strings.Builder
	fn.WriteString("CREATE FUNCTION ")
	fn.WriteString(name)
	fn.WriteString("() RETURNS TRIGGER AS $$\nBEGIN\n")
	fn.WriteString(reindent(d.preparedAction, d.config.TabWidth))
	fn.WriteString("\nEND;\n$$ LANGUAGE plpgsql")
	if d.security == SecurityDefiner {
		fn.WriteString(" SECURITY DEFINER")
	}
	fn.WriteString(";\n")

	events := make([]string, 0, len(d.events))
	for _, e := range d.events {
		events = append(events, strings.ToUpper(string(e)))
	}
	var tr strings.Builder
	tr.WriteString("CREATE TRIGGER ")
	tr.WriteString(name)
	tr.WriteString(" ")
	tr.WriteString(strings.ToUpper(string(d.timing)))
	tr.WriteString(" ")
	tr.WriteString(strings.Join(events, " OR "))
	tr.WriteString(" ON ")
	tr.WriteString(d.table)
	tr.WriteString("\nFOR EACH ")
	tr.WriteString(strings.ToUpper(string(d.scope)))
	if d.preparedWhere != "" {
		tr.WriteString(" WHEN (")
		tr.WriteString(d.preparedWhere)
		tr.WriteString(")")
	}
	tr.WriteString("\nEXECUTE PROCEDURE ")
	tr.WriteString(name)
	tr.WriteString("();\n")
	return []string{fn.String(), tr.String()}, nil
}

// DropTriggerSQL drops both the trigger and its wrapping function, as
// one batch, so the DROP stays symmetric with the two CREATE artifacts.
func (p *PostgresDialect) DropTriggerSQL(name, table string) string {
	return "DROP TRIGGER IF EXISTS " + name + " ON " + table + ";\n" +
		"DROP FUNCTION IF EXISTS " + name + "();\n"
}

// ---------------------
// Registry & Helper
// ---------------------
var dialectRegistry = map[string]Dialect{}

func init() {
	dialectRegistry[DialectPostgres] = &PostgresDialect{}
	dialectRegistry[DialectMySQL] = &MySQLDialect{}
	dialectRegistry[DialectSQLite] = &SQLiteDialect{}
}

func getDialect(name string) (Dialect, bool) {
	d, ok := dialectRegistry[name]
	return d, ok
}

// Dialects lists the supported dialect identifiers.
func Dialects() []string {
	return []string{DialectPostgres, DialectMySQL, DialectSQLite}
}
