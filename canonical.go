package hairtrigger

import (
	"sort"
	"strings"

	"github.com/oarkflow/json"
)

// CanonicalText reproduces the declaration as a stable textual form,
// replaying the recorded calls in order with the prepared guard and
// action substituted. The result is meant for schema snapshots and
// diffing, not for execution.
func (d *Definition) CanonicalText(indent int) (string, error) {
	if indent <= 0 {
		indent = d.config.TabWidth
	}
	if err := d.prepare(); err != nil {
		return "", err
	}
	return d.canonical(indent, 0), nil
}

func (d *Definition) canonical(width, depth int) string {
	pad := strings.Repeat(" ", width*depth)
	lines := make([]string, 0, len(d.calls))
	for _, c := range d.calls {
		switch c.method {
		case "where":
			lines = append(lines, pad+`where(`+quoteArg(d.preparedWhere)+`)`)
		case "do":
			lines = append(lines, pad+"do(\"\"\"\n"+
				reindent(d.preparedAction, width*(depth+1))+
				"\n"+pad+"\"\"\")")
		case "group":
			var members []string
			for _, m := range d.children {
				members = append(members, m.canonical(width, depth+1))
			}
			lines = append(lines, pad+"group {\n"+strings.Join(members, "\n")+"\n"+pad+"}")
		default:
			args := make([]string, 0, len(c.args))
			for _, a := range c.args {
				if a != "" {
					args = append(args, quoteArg(a))
				}
			}
			lines = append(lines, pad+c.method+"("+strings.Join(args, ", ")+")")
		}
	}
	return strings.Join(lines, ".\n")
}

func quoteArg(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Eql reports whether two definitions declare the same trigger: same
// option set, prepared guard, prepared action and, recursively, the
// same children. Declaration order of commutative setters is ignored.
func (d *Definition) Eql(o *Definition) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.prepare() != nil || o.prepare() != nil {
		return false
	}
	if d.explicitName != o.explicitName ||
		d.table != o.table ||
		d.timing != o.timing ||
		d.scope != o.scope ||
		d.security != o.security ||
		d.drop != o.drop ||
		d.preparedWhere != o.preparedWhere ||
		d.preparedAction != o.preparedAction {
		return false
	}
	if len(d.events) != len(o.events) || len(d.children) != len(o.children) {
		return false
	}
	for i := range d.events {
		if d.events[i] != o.events[i] {
			return false
		}
	}
	for i := range d.children {
		if !d.children[i].Eql(o.children[i]) {
			return false
		}
	}
	return true
}

type definitionRecord struct {
	Name     string             `json:"name,omitempty"`
	Table    string             `json:"table"`
	Timing   string             `json:"timing"`
	Events   []string           `json:"events"`
	Scope    string             `json:"scope"`
	Security string             `json:"security,omitempty"`
	Where    string             `json:"where,omitempty"`
	Action   string             `json:"action,omitempty"`
	Drop     bool               `json:"drop,omitempty"`
	Children []definitionRecord `json:"children,omitempty"`
}

func (d *Definition) asRecord() definitionRecord {
	r := definitionRecord{
		Name:     d.explicitName,
		Table:    d.table,
		Timing:   string(d.timing),
		Scope:    string(d.scope),
		Security: string(d.security),
		Where:    d.preparedWhere,
		Action:   d.preparedAction,
		Drop:     d.drop,
	}
	for _, e := range d.events {
		r.Events = append(r.Events, string(e))
	}
	for _, c := range d.children {
		r.Children = append(r.Children, c.asRecord())
	}
	return r
}

// Hash returns a stable digest of the prepared definition, used as the
// ordering tiebreak and for change detection against a stored baseline.
func (d *Definition) Hash() (string, error) {
	if err := d.prepare(); err != nil {
		return "", err
	}
	data, err := json.Marshal(d.asRecord())
	if err != nil {
		return "", err
	}
	return computeChecksum(data), nil
}

// Sort orders definitions by resolved name, breaking ties by hash, so
// a set of definitions has one stable order for diffing.
func Sort(defs []*Definition) error {
	type entry struct {
		def        *Definition
		name, hash string
	}
	entries := make([]entry, len(defs))
	for i, d := range defs {
		h, err := d.Hash()
		if err != nil {
			return err
		}
		entries[i] = entry{def: d, name: d.name(), hash: h}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].name != entries[j].name {
			return entries[i].name < entries[j].name
		}
		return entries[i].hash < entries[j].hash
	})
	for i := range entries {
		defs[i] = entries[i].def
	}
	return nil
}

// Diff compares the current definitions against a stored baseline and
// reports added, removed and changed trigger names.
func Diff(current, baseline []*Definition) (added, removed, changed []string, err error) {
	cur := map[string]*Definition{}
	for _, d := range current {
		if err = d.prepare(); err != nil {
			return nil, nil, nil, err
		}
		cur[d.name()] = d
	}
	base := map[string]*Definition{}
	for _, d := range baseline {
		if err = d.prepare(); err != nil {
			return nil, nil, nil, err
		}
		base[d.name()] = d
	}
	for name, d := range cur {
		old, ok := base[name]
		switch {
		case !ok:
			added = append(added, name)
		case !d.Eql(old):
			changed = append(changed, name)
		}
	}
	for name := range base {
		if _, ok := cur[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(changed)
	return added, removed, changed, nil
}
