package hairtrigger

import (
	"fmt"
)

// DefinitionError represents a fatal error in a trigger declaration:
// a missing or conflicting attribute that no dialect could compile.
type DefinitionError struct {
	Trigger string
	Message string
}

func (e *DefinitionError) Error() string {
	if e.Trigger != "" {
		return fmt.Sprintf("trigger %s: %s", e.Trigger, e.Message)
	}
	return e.Message
}

func defErr(trigger, format string, args ...any) *DefinitionError {
	return &DefinitionError{Trigger: trigger, Message: fmt.Sprintf(format, args...)}
}

// CapabilityError represents a declaration the active dialect cannot
// express. The same declaration may be valid on another dialect.
type CapabilityError struct {
	Dialect string
	Message string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Dialect, e.Message)
}

func capErr(dialect, format string, args ...any) *CapabilityError {
	return &CapabilityError{Dialect: dialect, Message: fmt.Sprintf(format, args...)}
}
