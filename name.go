package hairtrigger

import (
	"regexp"
	"strconv"
	"strings"
)

// Identifier limits shared by the supported engines: postgres truncates
// at 63, mysql allows 64, sqlite is unbounded. Inferred names are kept
// within the strictest cap.
const (
	maxNameLength  = 63
	inferredPrefix = 60
	nameSuffix     = "_tr"
)

var (
	nameIllegalRe  = regexp.MustCompile(`[^a-z0-9_]+`)
	nameCollapseRe = regexp.MustCompile(`_+`)
)

// name returns the trigger's resolved name, inferring one from the
// declared attributes when none was given. The result is cached on
// first read and never recomputed, even if attributes change later.
func (d *Definition) name() string {
	if d.explicitName != "" {
		return d.explicitName
	}
	if d.cachedName != "" {
		return d.cachedName
	}
	d.cachedName = d.inferName()
	return d.cachedName
}

// inferName builds a deterministic, dialect-legal name from
// table/timing/events/scope/guard. The scope segment appears only for
// statement scope, keeping row-level names short; a guard contributes
// a "when_" tag built from its prepared text. Group members carry
// their declaration position so unguarded siblings never collide.
func (d *Definition) inferName() string {
	parts := []string{d.table, string(d.timing)}
	for _, e := range d.events {
		parts = append(parts, string(e))
	}
	if d.scope == ScopeStatement {
		parts = append(parts, string(ScopeStatement))
	}
	if d.preparedWhere != "" {
		parts = append(parts, "when_"+d.preparedWhere)
	}
	if d.member && d.ordinal > 0 {
		parts = append(parts, strconv.Itoa(d.ordinal))
	}
	name := strings.ToLower(strings.Join(parts, "_"))
	name = nameIllegalRe.ReplaceAllString(name, "_")
	name = nameCollapseRe.ReplaceAllString(name, "_")
	if len(name) > inferredPrefix {
		name = name[:inferredPrefix]
	}
	name = strings.Trim(name, "_")
	return name + nameSuffix
}
