package hairtrigger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
)

// Store manages a directory of .bcl trigger declarations together with
// a history file recording which files were applied and with what
// checksum. Applying a file whose content drifted from its recorded
// checksum is refused; the symmetric drop path is generated from the
// definitions' own Names.
type Store struct {
	triggerDir  string
	historyFile string
	dialect     string
	config      Config
	executor    Executor
	logger      *log.Logger

	mu      sync.Mutex
	applied map[string]string
}

func NewStore(triggerDir, historyFile, dialect string) *Store {
	cfg := DefaultConfig()
	return &Store{
		triggerDir:  triggerDir,
		historyFile: historyFile,
		dialect:     dialect,
		config:      cfg,
		logger:      cfg.Logger,
		applied:     make(map[string]string),
	}
}

// WithExecutor attaches a database executor; without one, apply and
// drop run dry and only log the generated SQL.
func (s *Store) WithExecutor(e Executor) *Store {
	s.executor = e
	return s
}

// WithConfig replaces the compilation settings used for loaded files.
func (s *Store) WithConfig(cfg Config) *Store {
	s.config = cfg.normalized()
	s.logger = s.config.Logger
	return s
}

func (s *Store) loadHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.historyFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.applied)
}

func (s *Store) saveHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.applied)
	if err != nil {
		return err
	}
	return os.WriteFile(s.historyFile, data, 0644)
}

func (s *Store) readFile(name string) ([]byte, string, error) {
	path := filepath.Join(s.triggerDir, name+".bcl")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read trigger file: %w", err)
	}
	return data, computeChecksum(data), nil
}

// GenerateSQL compiles one declaration file without executing anything.
func (s *Store) GenerateSQL(name string) ([]string, error) {
	data, _, err := s.readFile(name)
	if err != nil {
		return nil, err
	}
	defs, err := Load(data, s.dialect, s.config)
	if err != nil {
		return nil, err
	}
	var queries []string
	for _, d := range defs {
		stmts, err := d.Generate()
		if err != nil {
			return nil, err
		}
		queries = append(queries, stmts...)
	}
	return queries, nil
}

// ApplyTrigger compiles one declaration file, executes it when an
// executor is attached, and records its checksum in the history.
func (s *Store) ApplyTrigger(name string) error {
	if err := s.loadHistory(); err != nil {
		return err
	}
	data, checksum, err := s.readFile(name)
	if err != nil {
		return err
	}
	if prev, ok := s.applied[name]; ok && prev != checksum {
		return fmt.Errorf("checksum mismatch for trigger file %s", name)
	}
	defs, err := Load(data, s.dialect, s.config)
	if err != nil {
		return err
	}
	var queries []string
	for _, d := range defs {
		stmts, err := d.Generate()
		if err != nil {
			return err
		}
		queries = append(queries, stmts...)
	}
	if s.executor != nil {
		if err := s.executor.ApplySQL(queries); err != nil {
			return fmt.Errorf("failed to apply trigger %s: %w", name, err)
		}
	} else {
		s.logger.Info().Str("trigger", name).Msg("dry run:\n" + strings.Join(queries, "\n"))
	}
	s.mu.Lock()
	s.applied[name] = checksum
	s.mu.Unlock()
	return s.saveHistory()
}

// DropTrigger generates (and executes, when possible) the DROP batch
// covering every physical trigger a declaration file would create, and
// removes the file from the history.
func (s *Store) DropTrigger(name string) error {
	if err := s.loadHistory(); err != nil {
		return err
	}
	data, _, err := s.readFile(name)
	if err != nil {
		return err
	}
	defs, err := Load(data, s.dialect, s.config)
	if err != nil {
		return err
	}
	var queries []string
	for _, d := range defs {
		stmts, err := d.DropAll()
		if err != nil {
			return err
		}
		queries = append(queries, stmts...)
	}
	if s.executor != nil {
		if err := s.executor.ApplySQL(queries); err != nil {
			return fmt.Errorf("failed to drop trigger %s: %w", name, err)
		}
	} else {
		s.logger.Info().Str("trigger", name).Msg("dry run:\n" + strings.Join(queries, "\n"))
	}
	s.mu.Lock()
	delete(s.applied, name)
	s.mu.Unlock()
	return s.saveHistory()
}

// ListTriggers reports the triggers the database currently defines on
// a table, via the attached executor's catalog access.
func (s *Store) ListTriggers(table string) ([]string, error) {
	lister, ok := s.executor.(TriggerLister)
	if !ok {
		return nil, errors.New("no executor attached that can list triggers")
	}
	return lister.ListTriggers(table)
}

// Names lists the declaration files in the trigger directory.
func (s *Store) Names() ([]string, error) {
	files, err := os.ReadDir(s.triggerDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger directory: %w", err)
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".bcl") {
			names = append(names, strings.TrimSuffix(f.Name(), ".bcl"))
		}
	}
	return names, nil
}

// ApplyAll applies every declaration file not yet in the history and
// re-verifies the checksums of the already-applied ones.
func (s *Store) ApplyAll() error {
	names, err := s.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.ApplyTrigger(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTriggers diffs the trigger directory against the history.
func (s *Store) ValidateTriggers() error {
	if err := s.loadHistory(); err != nil {
		return err
	}
	names, err := s.Names()
	if err != nil {
		return err
	}
	var missing []string
	for _, name := range names {
		if _, ok := s.applied[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("trigger files not applied: %v", missing)
	}
	s.logger.Info().Msg("all trigger files validated")
	return nil
}

// CreateTriggerFile scaffolds a timestamped declaration file.
func (s *Store) CreateTriggerFile(name string) error {
	name = fmt.Sprintf("%d_%s", time.Now().Unix(), name)
	filename := filepath.Join(s.triggerDir, name+".bcl")
	template := fmt.Sprintf(`Trigger "%s" {
    Table  = ""
    Timing = "after"
    Events = ["insert"]
    Action = ""
}`, name)
	if err := os.WriteFile(filename, []byte(template), 0644); err != nil {
		return fmt.Errorf("failed to create trigger file: %w", err)
	}
	s.logger.Info().Str("file", filename).Msg("trigger file created")
	return nil
}
