// Package hairtrigger compiles dialect-neutral database trigger
// declarations into the native CREATE/DROP TRIGGER syntax of postgres,
// mysql and sqlite. Declarations are accumulated through a fluent
// builder or loaded from BCL files, then generated as ordered SQL
// statement batches (DROP always first, so re-applying a definition is
// idempotent against a prior version with the same name).
package hairtrigger

import (
	"strings"
)

type Timing string

const (
	TimingBefore Timing = "before"
	TimingAfter  Timing = "after"
)

type Event string

const (
	EventInsert Event = "insert"
	EventUpdate Event = "update"
	EventDelete Event = "delete"
)

type Scope string

const (
	ScopeRow       Scope = "row"
	ScopeStatement Scope = "statement"
)

type SecurityMode string

const (
	SecurityInvoker SecurityMode = "invoker"
	SecurityDefiner SecurityMode = "definer"
)

// Executor receives generated SQL for immediate execution. The drivers
// package provides implementations for each supported engine.
type Executor interface {
	ApplySQL(queries []string) error
}

// TriggerLister reports the trigger names a database currently has on
// a table. The drivers implement it alongside Executor.
type TriggerLister interface {
	ListTriggers(table string) ([]string, error)
}

type call struct {
	method string
	args   []string
}

// Definition is one node in a trigger declaration tree: either a leaf
// (an ordinary trigger) or a group head whose children share its
// table/timing/events but carry their own guard and action.
type Definition struct {
	dialect string
	emitter Dialect
	config  Config

	explicitName string
	cachedName   string
	table        string
	timing       Timing
	events       []Event
	scope        Scope
	where        string
	security     SecurityMode
	action       string
	drop         bool

	executeNow bool
	executor   Executor

	vars map[string]string

	children []*Definition
	grouping bool
	member   bool
	ordinal  int

	preparedWhere  string
	preparedAction string
	prepared       bool

	calls []call
	err   error
}

// New creates a definition targeting the given dialect (one of
// DialectPostgres, DialectMySQL, DialectSQLite) with default settings.
func New(dialect string) *Definition {
	return NewWithConfig(dialect, DefaultConfig())
}

// NewWithConfig creates a definition with explicit compilation settings.
func NewWithConfig(dialect string, cfg Config) *Definition {
	d := &Definition{
		dialect: dialect,
		config:  cfg.normalized(),
		scope:   ScopeRow,
		vars:    map[string]string{},
	}
	emitter, ok := getDialect(dialect)
	if !ok {
		d.fail(defErr("", "unsupported dialect: %s", dialect))
		return d
	}
	d.emitter = emitter
	return d
}

// Err returns the first fatal error recorded against this node or any
// of its children.
func (d *Definition) Err() error {
	if d.err != nil {
		return d.err
	}
	for _, c := range d.children {
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Definition) fail(err error) *Definition {
	if d.err == nil {
		d.err = err
	}
	return d
}

func (d *Definition) warn(format string, args ...any) {
	if !d.config.Warnings || d.config.Logger == nil {
		return
	}
	d.config.Logger.Warn().Str("dialect", d.dialect).Msgf(format, args...)
}

func (d *Definition) record(method string, args ...string) {
	d.calls = append(d.calls, call{method: method, args: args})
}

// target resolves which node a declaration call lands on. Inside a
// Group block the head spawns a fresh member for the first call of
// each chain; the call is then replayed against that member.
func (d *Definition) target() *Definition {
	if !d.grouping {
		return d
	}
	m := d.cloneMember()
	m.ordinal = len(d.children) + 1
	d.children = append(d.children, m)
	return m
}

// Name declares an explicit trigger name, bypassing inference. Names
// longer than 63 characters are fatal on postgres and a warning
// elsewhere. Group members cannot be named under MySQL, where the
// whole group collapses into a single physical trigger.
func (d *Definition) Name(name string) *Definition {
	t := d.target()
	if t.member && t.emitter != nil && t.emitter.SupportsGroupedTrigger() {
		return t.fail(defErr(name, "group members cannot carry explicit names on %s", t.dialect))
	}
	if t.cachedName != "" {
		return t.fail(defErr(t.cachedName, "name is already resolved and cannot change"))
	}
	if len(name) > maxNameLength {
		if t.dialect == DialectPostgres {
			return t.fail(capErr(t.dialect, "trigger name %q exceeds %d characters", name, maxNameLength))
		}
		t.warn("trigger name %q exceeds %d characters", name, maxNameLength)
	}
	t.explicitName = name
	t.record("name", name)
	return t
}

// On declares the target table. Tables are immutable once declared.
func (d *Definition) On(table string) *Definition {
	t := d.target()
	if t.table != "" {
		return t.fail(defErr(t.explicitName, "table is already set to %s", t.table))
	}
	t.table = table
	t.record("on", table)
	return t
}

// Before sets BEFORE timing together with the firing events.
func (d *Definition) Before(events ...string) *Definition {
	return d.timed(TimingBefore, "before", events)
}

// After sets AFTER timing together with the firing events.
func (d *Definition) After(events ...string) *Definition {
	return d.timed(TimingAfter, "after", events)
}

func (d *Definition) timed(timing Timing, method string, events []string) *Definition {
	t := d.target()
	t.timing = timing
	if err := t.setEvents(events); err != nil {
		return t.fail(err)
	}
	t.record(method, events...)
	return t
}

// SetTiming sets the timing without touching events.
func (d *Definition) SetTiming(timing string) *Definition {
	t := d.target()
	switch Timing(strings.ToLower(timing)) {
	case TimingBefore:
		t.timing = TimingBefore
	case TimingAfter:
		t.timing = TimingAfter
	default:
		return t.fail(defErr(t.explicitName, "invalid timing %q (must be before or after)", timing))
	}
	t.record("timing", strings.ToLower(timing))
	return t
}

// SetEvents sets the firing events without touching timing. The
// aliases create and destroy translate to insert and delete.
func (d *Definition) SetEvents(events ...string) *Definition {
	t := d.target()
	if err := t.setEvents(events); err != nil {
		return t.fail(err)
	}
	t.record("events", events...)
	return t
}

func (d *Definition) setEvents(events []string) error {
	normalized := make([]Event, 0, len(events))
	seen := map[Event]bool{}
	for _, e := range events {
		ev, err := normalizeEvent(e)
		if err != nil {
			return err
		}
		if !seen[ev] {
			seen[ev] = true
			normalized = append(normalized, ev)
		}
	}
	if len(normalized) > 1 && d.emitter != nil && !d.emitter.SupportsMultipleEvents() {
		return capErr(d.dialect, "triggers are limited to a single event (%d requested); declare a group instead", len(normalized))
	}
	d.events = normalized
	return nil
}

func normalizeEvent(event string) (Event, error) {
	switch strings.ToLower(event) {
	case "insert", "create":
		return EventInsert, nil
	case "update":
		return EventUpdate, nil
	case "delete", "destroy":
		return EventDelete, nil
	default:
		return "", defErr("", "invalid event %q (must be insert, update or delete)", event)
	}
}

// ForEach declares row or statement level firing. Statement scope is
// unsupported on sqlite and mysql.
func (d *Definition) ForEach(scope string) *Definition {
	t := d.target()
	switch Scope(strings.ToLower(scope)) {
	case ScopeRow:
		t.scope = ScopeRow
	case ScopeStatement:
		if t.emitter != nil && !t.emitter.SupportsStatementScope() {
			return t.fail(capErr(t.dialect, "statement-level triggers are not supported"))
		}
		t.scope = ScopeStatement
	default:
		return t.fail(defErr(t.explicitName, "invalid scope %q (must be row or statement)", scope))
	}
	t.record("for_each", strings.ToLower(scope))
	return t
}

// Where declares the guard condition restricting when the trigger
// fires. The text may contain ${name} placeholders resolved by Set.
func (d *Definition) Where(cond string) *Definition {
	t := d.target()
	t.where = cond
	t.record("where", cond)
	return t
}

// Security declares the execution privilege mode. Invoker is the
// default and a no-op; definer is unsupported on sqlite and requires a
// resolved principal (Config.Definer) on mysql.
func (d *Definition) Security(mode string) *Definition {
	t := d.target()
	switch SecurityMode(strings.ToLower(mode)) {
	case SecurityInvoker:
		t.security = ""
	case SecurityDefiner:
		if t.emitter != nil && !t.emitter.SupportsDefinerSecurity() {
			return t.fail(capErr(t.dialect, "definer security is not supported"))
		}
		t.security = SecurityDefiner
	default:
		return t.fail(defErr(t.explicitName, "invalid security mode %q (must be invoker or definer)", mode))
	}
	t.record("security", strings.ToLower(mode))
	return t
}

// Do declares the trigger action body. The text may contain ${name}
// placeholders resolved by Set.
func (d *Definition) Do(action string) *Definition {
	t := d.target()
	t.action = action
	t.record("do", action)
	return t
}

// DropOnly marks the definition as drop-only: it compiles to a DROP
// statement and never to a CREATE.
func (d *Definition) DropOnly() *Definition {
	t := d.target()
	t.drop = true
	t.record("drop", "")
	return t
}

// Set binds a ${name} placeholder used in guard and action text. The
// substitution happens once, at preparation time.
func (d *Definition) Set(name, value string) *Definition {
	t := d.target()
	t.vars[name] = value
	return t
}

// ExecuteWith attaches an executor and turns on immediate execution:
// Generate hands each compiled batch to the executor before returning.
func (d *Definition) ExecuteWith(e Executor) *Definition {
	d.executor = e
	d.executeNow = true
	return d
}

// prepare interpolates guard and action text for this node and every
// child, exactly once. Repeated calls are no-ops.
func (d *Definition) prepare() error {
	if d.prepared {
		return d.Err()
	}
	if err := d.Err(); err != nil {
		return err
	}
	w, err := interpolate(d.where, d.vars)
	if err != nil {
		return d.fail(defErr(d.explicitName, "guard: %v", err)).err
	}
	d.preparedWhere = strings.TrimSpace(w)
	a, err := interpolate(d.action, d.vars)
	if err != nil {
		return d.fail(defErr(d.explicitName, "action: %v", err)).err
	}
	d.preparedAction = trimTrailing(a)
	for _, c := range d.children {
		if err := c.prepare(); err != nil {
			return err
		}
	}
	d.prepared = true
	return nil
}

// validate checks that every node contributing SQL has what its
// dialect needs. Runs after prepare.
func (d *Definition) validate() error {
	if d.table == "" {
		return defErr(d.explicitName, "no table declared")
	}
	if d.drop {
		return nil
	}
	if d.timing == "" {
		return defErr(d.displayName(), "no timing declared")
	}
	if len(d.events) == 0 {
		return defErr(d.displayName(), "no events declared")
	}
	if len(d.children) > 0 {
		for _, c := range d.children {
			if err := c.validate(); err != nil {
				return err
			}
		}
		return nil
	}
	if d.preparedAction == "" {
		return defErr(d.displayName(), "no action declared")
	}
	return nil
}

func (d *Definition) displayName() string {
	if d.explicitName != "" {
		return d.explicitName
	}
	return d.table
}

// Generate compiles the definition tree into an ordered batch of SQL
// statements, DROP first. With an attached executor and immediate
// execution enabled, the batch is also handed to the executor.
func (d *Definition) Generate() ([]string, error) {
	if err := d.prepare(); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	var stmts []string
	switch {
	case d.drop:
		stmts = []string{d.emitter.DropTriggerSQL(d.name(), d.table)}
	case len(d.children) > 0 && !d.emitter.SupportsGroupedTrigger():
		// Non-grouping dialects expand a group into one physical
		// trigger per member; the head itself emits nothing.
		for _, c := range d.children {
			sub, err := c.Generate()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, sub...)
		}
	default:
		create, err := d.emitter.CreateTriggerSQL(d)
		if err != nil {
			return nil, err
		}
		stmts = append([]string{d.emitter.DropTriggerSQL(d.name(), d.table)}, create...)
	}
	if d.executeNow && d.executor != nil {
		if err := d.executor.ApplySQL(stmts); err != nil {
			return nil, defErr(d.name(), "execute: %v", err)
		}
	}
	return stmts, nil
}

// DropAll returns a DROP statement for every physical trigger name
// this definition would create, in Names order.
func (d *Definition) DropAll() ([]string, error) {
	names, err := d.Names()
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(names))
	for _, n := range names {
		stmts = append(stmts, d.emitter.DropTriggerSQL(n, d.table))
	}
	return stmts, nil
}

// Names returns the name of every physical trigger the definition
// would create, used to build a symmetric drop-all operation. On a
// grouping dialect a group is one physical trigger carrying the head's
// name; elsewhere each member is its own trigger and the head emits
// nothing.
func (d *Definition) Names() ([]string, error) {
	if err := d.prepare(); err != nil {
		return nil, err
	}
	if len(d.children) > 0 && !d.emitter.SupportsGroupedTrigger() {
		var names []string
		for _, c := range d.children {
			sub, err := c.Names()
			if err != nil {
				return nil, err
			}
			names = append(names, sub...)
		}
		return names, nil
	}
	return []string{d.name()}, nil
}

// Table returns the declared target table.
func (d *Definition) Table() string { return d.table }

// Dialect returns the resolved dialect identifier.
func (d *Definition) Dialect() string { return d.dialect }
