package hairtrigger

import (
	"github.com/oarkflow/log"
)

// Principal is the resolved user for MySQL DEFINER clauses. It is
// supplied by the caller; this package never queries the server for it.
type Principal struct {
	Username string `json:"username"`
	Host     string `json:"host"`
}

func (p Principal) String() string {
	return "'" + p.Username + "'@'" + p.Host + "'"
}

func (p Principal) Empty() bool {
	return p.Username == "" && p.Host == ""
}

// Config carries compilation settings for a definition tree. A zero
// Config is usable; DefaultConfig fills in the documented defaults.
type Config struct {
	// TabWidth is the indentation width used when re-indenting action
	// and guard bodies inside generated SQL.
	TabWidth int
	// Warnings controls whether non-fatal dialect capability
	// violations are logged.
	Warnings bool
	// Logger receives capability warnings. Defaults to log.DefaultLogger.
	Logger *log.Logger
	// Definer is the resolved principal for MySQL DEFINER security.
	Definer Principal
}

func DefaultConfig() Config {
	return Config{
		TabWidth: 4,
		Warnings: true,
		Logger:   &log.DefaultLogger,
	}
}

func (c Config) normalized() Config {
	if c.TabWidth <= 0 {
		c.TabWidth = 4
	}
	if c.Logger == nil {
		c.Logger = &log.DefaultLogger
	}
	return c
}
