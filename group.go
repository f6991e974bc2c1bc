package hairtrigger

// Group declares a trigger group: several guarded sub-triggers sharing
// this definition's table, timing and events. Inside fn, each chain of
// declaration calls against the head lands on a fresh member, so a
// member accumulates its own guard and action while inheriting
// everything else. On MySQL the whole group compiles to one physical
// trigger; on postgres and sqlite each member becomes its own trigger.
func (d *Definition) Group(fn func(*Definition)) *Definition {
	t := d.target()
	if t.member && t.emitter != nil && t.emitter.SupportsGroupedTrigger() {
		return t.fail(capErr(t.dialect, "nested trigger groups are not supported"))
	}
	if t.timing == "" || len(t.events) == 0 {
		return t.fail(defErr(t.displayName(), "timing and events must be declared before a group"))
	}
	before := len(t.children)
	t.grouping = true
	fn(t)
	t.grouping = false
	if len(t.children) == before {
		return t.fail(defErr(t.displayName(), "trigger group defined no members"))
	}
	t.record("group", "")
	return t
}

// cloneMember produces a structurally independent copy of the head for
// group membership: same table/timing/events/scope/security and vars,
// no name, no children, no call history. Mutating the member is never
// visible on the head or its siblings.
func (d *Definition) cloneMember() *Definition {
	m := &Definition{
		dialect:  d.dialect,
		emitter:  d.emitter,
		config:   d.config,
		table:    d.table,
		timing:   d.timing,
		scope:    d.scope,
		where:    d.where,
		security: d.security,
		member:   true,
	}
	m.events = make([]Event, len(d.events))
	copy(m.events, d.events)
	m.vars = make(map[string]string, len(d.vars))
	for k, v := range d.vars {
		m.vars[k] = v
	}
	return m
}
