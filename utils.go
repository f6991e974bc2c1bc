package hairtrigger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// interpolate substitutes ${name} placeholders from vars, exactly once
// at preparation time. An unresolved placeholder is an error rather
// than silently emitted into DDL.
func interpolate(text string, vars map[string]string) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholder ${%s}", missing[0])
	}
	return out, nil
}

// trimTrailing removes trailing whitespace from every line and drops
// blank lines at the end of the text.
func trimTrailing(text string) string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	return strings.TrimRight(out, "\n")
}

// reindent normalizes a block of SQL to the given indentation width:
// the minimum existing indentation is stripped from every line and
// replaced with width spaces, preserving relative nesting. Trailing
// whitespace is trimmed. Stable: same input, same output.
func reindent(text string, width int) string {
	lines := strings.Split(text, "\n")
	min := -1
	for _, ln := range lines {
		trimmed := strings.TrimLeft(ln, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(ln) - len(trimmed); min == -1 || n < min {
			min = n
		}
	}
	if min < 0 {
		min = 0
	}
	pad := strings.Repeat(" ", width)
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t")
		if strings.TrimSpace(ln) == "" {
			out = append(out, "")
			continue
		}
		if len(ln) >= min {
			ln = ln[min:]
		}
		out = append(out, pad+ln)
	}
	return strings.Join(out, "\n")
}

func computeChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
