package hairtrigger

import (
	"strings"
	"testing"
)

func TestInterpolate(t *testing.T) {
	vars := map[string]string{"tbl": "stats", "col": "n"}
	got, err := interpolate("UPDATE ${tbl} SET ${col} = ${col} + 1;", vars)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if got != "UPDATE stats SET n = n + 1;" {
		t.Errorf("unexpected result %q", got)
	}

	if _, err := interpolate("UPDATE ${missing};", vars); err == nil {
		t.Error("expected error for an unbound placeholder")
	}
	if !strings.Contains(interpolateErr("${missing}").Error(), "missing") {
		t.Error("error should name the unresolved placeholder")
	}

	// Text without placeholders passes through untouched.
	plain := "SELECT 1; -- ${ not a placeholder"
	got, err = interpolate(plain, nil)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if got != plain {
		t.Errorf("plain text altered: %q", got)
	}
}

func interpolateErr(text string) error {
	_, err := interpolate(text, nil)
	return err
}

func TestTrimTrailing(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a  \nb\t\n\n\n", "a\nb"},
		{"a", "a"},
		{"", ""},
		{"a\n  b  ", "a\n  b"},
	}
	for _, tt := range tests {
		if got := trimTrailing(tt.in); got != tt.want {
			t.Errorf("trimTrailing(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReindent(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"a;", 4, "    a;"},
		{"  IF x THEN\n    y;\n  END IF;", 4, "    IF x THEN\n      y;\n    END IF;"},
		{"a;\n\nb;", 2, "  a;\n\n  b;"},
		{"    a;   ", 4, "    a;"},
	}
	for _, tt := range tests {
		if got := reindent(tt.in, tt.width); got != tt.want {
			t.Errorf("reindent(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestReindentIsStable(t *testing.T) {
	in := "IF x THEN\n    y;\nEND IF;"
	once := reindent(in, 4)
	if got := reindent(in, 4); got != once {
		t.Errorf("reindent not stable: %q vs %q", once, got)
	}
}

func TestComputeChecksum(t *testing.T) {
	a := computeChecksum([]byte("hello"))
	b := computeChecksum([]byte("hello"))
	c := computeChecksum([]byte("world"))
	if a != b {
		t.Error("checksum not deterministic")
	}
	if a == c {
		t.Error("distinct inputs produced the same checksum")
	}
	if len(a) != 64 {
		t.Errorf("unexpected checksum length %d", len(a))
	}
}
