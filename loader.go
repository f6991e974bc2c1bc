package hairtrigger

import (
	"fmt"
	"os"

	"github.com/oarkflow/bcl"
)

// FileConfig is the shape of a .bcl trigger declaration file:
//
//	Trigger "audit_users" {
//	    Table  = "users"
//	    Timing = "after"
//	    Events = ["insert"]
//	    When   = "NEW.active"
//	    Action = "UPDATE stats SET n = n + 1;"
//	}
//
// The block label is the explicit trigger name; leave it empty to have
// one inferred. Branch sub-blocks declare group members. Attribute
// values are plain string literals and reach the builder as-is;
// parameterized guard or action text belongs in the builder API, where
// Set binds ${name} placeholders.
type FileConfig struct {
	Triggers []TriggerBlock `json:"Trigger"`
}

type TriggerBlock struct {
	Name     string        `json:"name"`
	Table    string        `json:"Table"`
	Timing   string        `json:"Timing"`
	Events   []string      `json:"Events"`
	ForEach  string        `json:"ForEach"`
	When     string        `json:"When"`
	Security string        `json:"Security"`
	Action   string        `json:"Action"`
	Drop     bool          `json:"Drop"`
	Branches []BranchBlock `json:"Branch"`
}

type BranchBlock struct {
	Name   string `json:"name"`
	When   string `json:"When"`
	Action string `json:"Action"`
}

// Build turns a declarative block into a Definition for the dialect.
func (tb TriggerBlock) Build(dialect string, cfg Config) (*Definition, error) {
	d := NewWithConfig(dialect, cfg)
	if tb.Name != "" {
		d.Name(tb.Name)
	}
	if tb.Table != "" {
		d.On(tb.Table)
	}
	if tb.Timing != "" {
		d.SetTiming(tb.Timing)
	}
	if len(tb.Events) > 0 {
		d.SetEvents(tb.Events...)
	}
	if tb.ForEach != "" {
		d.ForEach(tb.ForEach)
	}
	if tb.Security != "" {
		d.Security(tb.Security)
	}
	if tb.When != "" {
		d.Where(tb.When)
	}
	if tb.Drop {
		d.DropOnly()
	}
	switch {
	case len(tb.Branches) > 0:
		if tb.Action != "" {
			return nil, defErr(tb.Name, "declare either Action or Branch blocks, not both")
		}
		d.Group(func(t *Definition) {
			for _, br := range tb.Branches {
				m := t
				if br.When != "" {
					m = m.Where(br.When)
				}
				m.Do(br.Action)
			}
		})
	case tb.Action != "":
		d.Do(tb.Action)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load unmarshals BCL trigger declarations and builds a definition per
// Trigger block.
func Load(data []byte, dialect string, cfg Config) ([]*Definition, error) {
	var fc FileConfig
	if _, err := bcl.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger file: %w", err)
	}
	defs := make([]*Definition, 0, len(fc.Triggers))
	for _, tb := range fc.Triggers {
		d, err := tb.Build(dialect, cfg)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// LoadFile reads and loads one .bcl trigger declaration file.
func LoadFile(path, dialect string, cfg Config) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger file: %w", err)
	}
	return Load(data, dialect, cfg)
}
