package hairtrigger

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func resolvedName(t *testing.T, d *Definition) string {
	t.Helper()
	names, err := d.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	return names[0]
}

func TestInferredNameIsDeterministic(t *testing.T) {
	f := gofakeit.New(11)
	for i := 0; i < 25; i++ {
		table := strings.ToLower(f.LetterN(12))
		guard := "NEW." + strings.ToLower(f.LetterN(8)) + " > 0"
		a := New(DialectSQLite).On(table).After("update").Where(guard)
		b := New(DialectSQLite).On(table).After("update").Where(guard)
		na, nb := resolvedName(t, a), resolvedName(t, b)
		if na != nb {
			t.Fatalf("identical declarations named differently: %q vs %q", na, nb)
		}
		if !strings.HasSuffix(na, "_tr") {
			t.Fatalf("inferred name %q lacks the _tr suffix", na)
		}
		if len(na) > maxNameLength {
			t.Fatalf("inferred name %q exceeds %d characters", na, maxNameLength)
		}
	}
}

func TestInferredNameComposition(t *testing.T) {
	d := New(DialectSQLite).
		On("users").
		After("insert").
		Where("NEW.active")
	if got := resolvedName(t, d); got != "users_after_insert_when_new_active_tr" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestInferredNameReflectsAttributes(t *testing.T) {
	base := resolvedName(t, New(DialectSQLite).On("users").After("insert"))
	differing := []*Definition{
		New(DialectSQLite).On("accounts").After("insert"),
		New(DialectSQLite).On("users").Before("insert"),
		New(DialectSQLite).On("users").After("update"),
		New(DialectSQLite).On("users").After("insert").Where("NEW.active"),
		New(DialectPostgres).On("users").After("insert").ForEach("statement"),
	}
	for i, d := range differing {
		if got := resolvedName(t, d); got == base {
			t.Errorf("variant %d collides with base name %q", i, base)
		}
	}
}

func TestStatementScopeAppearsInName(t *testing.T) {
	d := New(DialectPostgres).On("users").After("insert").ForEach("statement")
	got := resolvedName(t, d)
	if !strings.Contains(got, "_statement_") {
		t.Errorf("statement scope missing from %q", got)
	}
	row := New(DialectPostgres).On("users").After("insert").ForEach("row")
	if strings.Contains(resolvedName(t, row), "_row") {
		t.Errorf("row scope should not appear in the name")
	}
}

func TestInferredNameTruncation(t *testing.T) {
	table := strings.Repeat("a", 80)
	d := New(DialectSQLite).On(table).After("insert")
	got := resolvedName(t, d)
	if len(got) > maxNameLength {
		t.Fatalf("name %q exceeds %d characters", got, maxNameLength)
	}
	if !strings.HasSuffix(got, "_tr") {
		t.Errorf("truncated name %q lacks the _tr suffix", got)
	}
	if strings.Contains(got, "__") {
		t.Errorf("truncated name %q has collapsed separators left over", got)
	}
}

func TestTruncationTrimsTrailingSeparator(t *testing.T) {
	// 59 chars of table plus the joining underscore lands the cut right
	// on a separator, which must not survive into the final name.
	table := strings.Repeat("b", 59)
	d := New(DialectSQLite).On(table).After("insert")
	if got := resolvedName(t, d); got != table+"_tr" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestIllegalCharactersAreNormalized(t *testing.T) {
	d := New(DialectSQLite).
		On("Üsers-2024").
		After("insert")
	got := resolvedName(t, d)
	for _, r := range got {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Fatalf("name %q contains illegal rune %q", got, r)
		}
	}
	if strings.Contains(got, "__") {
		t.Errorf("name %q has uncollapsed separators", got)
	}
}

func TestExplicitNameBypassesInference(t *testing.T) {
	d := New(DialectSQLite).
		Name("custom_tr").
		On("users").
		After("insert").
		Where("NEW.active")
	if got := resolvedName(t, d); got != "custom_tr" {
		t.Errorf("explicit name not honored: %q", got)
	}
}

func TestNameIsFixedOnceResolved(t *testing.T) {
	d := New(DialectSQLite).On("users").After("insert").Do("SELECT 1;")
	first := resolvedName(t, d)
	err := d.Name("late_tr").Err()
	if err == nil {
		t.Fatal("expected error when renaming after resolution")
	}
	if !strings.Contains(err.Error(), first) {
		t.Errorf("error %q does not name the resolved trigger %q", err, first)
	}
}

func TestLongExplicitNameByDialect(t *testing.T) {
	long := strings.Repeat("x", maxNameLength+1)
	if err := New(DialectPostgres).Name(long).Err(); err == nil {
		t.Error("expected fatal error for a long name on postgres")
	}
	cfg := DefaultConfig()
	cfg.Warnings = false
	if err := NewWithConfig(DialectSQLite, cfg).Name(long).Err(); err != nil {
		t.Errorf("long name should only warn on sqlite, got %v", err)
	}
}
