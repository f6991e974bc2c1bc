package hairtrigger

import (
	"strings"
	"testing"
)

func TestCapabilityMatrix(t *testing.T) {
	tests := []struct {
		dialect   string
		grouped   bool
		statement bool
		definer   bool
		multi     bool
	}{
		{DialectPostgres, false, true, true, true},
		{DialectMySQL, true, false, true, false},
		{DialectSQLite, false, false, false, false},
	}
	for _, tt := range tests {
		d, ok := getDialect(tt.dialect)
		if !ok {
			t.Fatalf("dialect %s not registered", tt.dialect)
		}
		if d.Name() != tt.dialect {
			t.Errorf("%s: Name() = %q", tt.dialect, d.Name())
		}
		if d.SupportsGroupedTrigger() != tt.grouped {
			t.Errorf("%s: SupportsGroupedTrigger = %v", tt.dialect, d.SupportsGroupedTrigger())
		}
		if d.SupportsStatementScope() != tt.statement {
			t.Errorf("%s: SupportsStatementScope = %v", tt.dialect, d.SupportsStatementScope())
		}
		if d.SupportsDefinerSecurity() != tt.definer {
			t.Errorf("%s: SupportsDefinerSecurity = %v", tt.dialect, d.SupportsDefinerSecurity())
		}
		if d.SupportsMultipleEvents() != tt.multi {
			t.Errorf("%s: SupportsMultipleEvents = %v", tt.dialect, d.SupportsMultipleEvents())
		}
	}
}

func TestPostgresCreateEmitsFunctionAndTrigger(t *testing.T) {
	d := New(DialectPostgres).
		On("users").
		After("insert").
		Do("PERFORM audit();")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("expected drop + function + trigger, got %d statements", len(stmts))
	}
	wantDrop := "DROP TRIGGER IF EXISTS users_after_insert_tr ON users;\n" +
		"DROP FUNCTION IF EXISTS users_after_insert_tr();\n"
	if stmts[0] != wantDrop {
		t.Errorf("drop mismatch:\ngot  %q\nwant %q", stmts[0], wantDrop)
	}
	wantFn := "CREATE FUNCTION users_after_insert_tr() RETURNS TRIGGER AS $$\n" +
		"BEGIN\n" +
		"    PERFORM audit();\n" +
		"END;\n" +
		"$$ LANGUAGE plpgsql;\n"
	if stmts[1] != wantFn {
		t.Errorf("function mismatch:\ngot  %q\nwant %q", stmts[1], wantFn)
	}
	wantTr := "CREATE TRIGGER users_after_insert_tr AFTER INSERT ON users\n" +
		"FOR EACH ROW\n" +
		"EXECUTE PROCEDURE users_after_insert_tr();\n"
	if stmts[2] != wantTr {
		t.Errorf("trigger mismatch:\ngot  %q\nwant %q", stmts[2], wantTr)
	}
}

func TestPostgresGuardIsParenthesized(t *testing.T) {
	d := New(DialectPostgres).
		On("users").
		After("update").
		Where("NEW.a OR NEW.b").
		Do("PERFORM audit();")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(stmts[2], "WHEN (NEW.a OR NEW.b)") {
		t.Errorf("guard not parenthesized: %q", stmts[2])
	}
}

func TestPostgresDefinerSecurity(t *testing.T) {
	d := New(DialectPostgres).
		On("users").
		After("insert").
		Security("definer").
		Do("PERFORM audit();")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(stmts[1], "$$ LANGUAGE plpgsql SECURITY DEFINER;\n") {
		t.Errorf("function lacks SECURITY DEFINER: %q", stmts[1])
	}
}

func TestMySQLDefinerRequiresPrincipal(t *testing.T) {
	d := New(DialectMySQL).
		On("users").
		After("insert").
		Security("definer").
		Do("SET NEW.x = 1;")
	if _, err := d.Generate(); err == nil {
		t.Fatal("expected error without a resolved principal")
	}

	cfg := DefaultConfig()
	cfg.Definer = Principal{Username: "admin", Host: "localhost"}
	d = NewWithConfig(DialectMySQL, cfg).
		On("users").
		After("insert").
		Security("definer").
		Do("SET NEW.x = 1;")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(stmts[1], "CREATE DEFINER = 'admin'@'localhost' TRIGGER ") {
		t.Errorf("definer clause missing: %q", stmts[1])
	}
}

func TestMySQLBodyHasNoTrailingSemicolonAfterEND(t *testing.T) {
	d := New(DialectMySQL).
		On("users").
		After("insert").
		Do("SET NEW.x = 1;")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasSuffix(stmts[1], "\nEND\n") {
		t.Errorf("mysql create should end with END and no semicolon: %q", stmts[1])
	}
}

func TestDefinerSecurityUnsupportedOnSQLite(t *testing.T) {
	if err := New(DialectSQLite).Security("definer").Err(); err == nil {
		t.Fatal("expected error for definer security on sqlite")
	}
}

func TestStatementScopeByDialect(t *testing.T) {
	d := New(DialectPostgres).
		On("logs").
		After("insert").
		ForEach("statement").
		Do("PERFORM compact();")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed on postgres: %v", err)
	}
	if !strings.Contains(stmts[2], "FOR EACH STATEMENT") {
		t.Errorf("statement scope missing: %q", stmts[2])
	}
	for _, dialect := range []string{DialectMySQL, DialectSQLite} {
		if err := New(dialect).ForEach("statement").Err(); err == nil {
			t.Errorf("%s: expected error for statement scope", dialect)
		}
	}
}

func TestMultipleEventsByDialect(t *testing.T) {
	d := New(DialectPostgres).
		On("users").
		After("insert", "update", "delete").
		Do("PERFORM audit();")
	stmts, err := d.Generate()
	if err != nil {
		t.Fatalf("Generate failed on postgres: %v", err)
	}
	if !strings.Contains(stmts[2], "AFTER INSERT OR UPDATE OR DELETE ON users") {
		t.Errorf("events not joined: %q", stmts[2])
	}
	for _, dialect := range []string{DialectMySQL, DialectSQLite} {
		if err := New(dialect).On("users").After("insert", "update").Err(); err == nil {
			t.Errorf("%s: expected error for multiple events", dialect)
		}
	}
}

func TestDialectsListsAllRegistered(t *testing.T) {
	for _, name := range Dialects() {
		if _, ok := getDialect(name); !ok {
			t.Errorf("listed dialect %s is not registered", name)
		}
	}
}
