package hairtrigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oarkflow/cli/contracts"
)

// Planner is the surface the CLI commands drive; Store implements it.
type Planner interface {
	ApplyTrigger(name string) error
	ApplyAll() error
	DropTrigger(name string) error
	ValidateTriggers() error
	CreateTriggerFile(name string) error
	GenerateSQL(name string) ([]string, error)
	ListTriggers(table string) ([]string, error)
	Names() ([]string, error)
}

type MakeTriggerCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *MakeTriggerCommand) Signature() string {
	return "make:trigger"
}

func (c *MakeTriggerCommand) Description() string {
	return "Creates a new trigger declaration file in the designated directory."
}

func (c *MakeTriggerCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *MakeTriggerCommand) Handle(ctx contracts.Context) error {
	name := ctx.Argument(0)
	if name == "" {
		return errors.New("trigger name is required")
	}
	return c.Planner.CreateTriggerFile(name)
}

type ApplyCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *ApplyCommand) Signature() string {
	return "trigger:apply"
}

func (c *ApplyCommand) Description() string {
	return "Applies all trigger declaration files that are not already applied."
}

func (c *ApplyCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *ApplyCommand) Handle(ctx contracts.Context) error {
	if name := ctx.Argument(0); name != "" {
		return c.Planner.ApplyTrigger(name)
	}
	return c.Planner.ApplyAll()
}

type GenerateCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *GenerateCommand) Signature() string {
	return "trigger:generate"
}

func (c *GenerateCommand) Description() string {
	return "Prints the SQL for trigger declaration files without executing it."
}

func (c *GenerateCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *GenerateCommand) Handle(ctx contracts.Context) error {
	names := []string{ctx.Argument(0)}
	if names[0] == "" {
		var err error
		names, err = c.Planner.Names()
		if err != nil {
			return err
		}
	}
	for _, name := range names {
		queries, err := c.Planner.GenerateSQL(name)
		if err != nil {
			return fmt.Errorf("failed to generate SQL for %s: %w", name, err)
		}
		fmt.Printf("-- %s\n%s\n", name, strings.Join(queries, "\n"))
	}
	return nil
}

type DropCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *DropCommand) Signature() string {
	return "trigger:drop"
}

func (c *DropCommand) Description() string {
	return "Drops every physical trigger a declaration file would create."
}

func (c *DropCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *DropCommand) Handle(ctx contracts.Context) error {
	name := ctx.Argument(0)
	if name == "" {
		return errors.New("trigger name is required")
	}
	return c.Planner.DropTrigger(name)
}

type ListCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *ListCommand) Signature() string {
	return "trigger:list"
}

func (c *ListCommand) Description() string {
	return "Lists the triggers the database currently defines on a table."
}

func (c *ListCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *ListCommand) Handle(ctx contracts.Context) error {
	table := ctx.Argument(0)
	if table == "" {
		return errors.New("table name is required")
	}
	names, err := c.Planner.ListTriggers(table)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

type ValidateCommand struct {
	extend  contracts.Extend
	Planner Planner
}

func (c *ValidateCommand) Signature() string {
	return "trigger:validate"
}

func (c *ValidateCommand) Description() string {
	return "Validates the trigger history against the declaration files."
}

func (c *ValidateCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *ValidateCommand) Handle(ctx contracts.Context) error {
	return c.Planner.ValidateTriggers()
}
