package envvar

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/schaermu/envvar/internal/fsutil"
	"github.com/schaermu/envvar/internal/shellrc"
)

// Environment abstracts access to the process environment
type Environment interface {
	Environ() []string
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// OSEnvironment implements Environment using the standard os package
type OSEnvironment struct{}

func (OSEnvironment) Environ() []string                   { return os.Environ() }
func (OSEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnvironment) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (OSEnvironment) Unsetenv(key string) error           { return os.Unsetenv(key) }

// ProcessStore implements Store on top of the process environment. Every
// mutation is also staged into a shell rc script, because changes to the
// process environment do not outlive the process.
type ProcessStore struct {
	env    Environment
	shell  string
	script *shellrc.Script
	logger *slog.Logger
}

// NewProcessStore creates a store over env whose rc script targets shell
func NewProcessStore(env Environment, shell string) *ProcessStore {
	return &ProcessStore{env: env, shell: shell, logger: discardLogger()}
}

// List returns every process variable outside the ignore-set
func (p *ProcessStore) List() (map[string]string, error) {
	vars := make(map[string]string)
	for _, kv := range p.env.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		// Windows keeps per-drive working directories as "=C:=C:\..."
		if !ok || k == "" {
			continue
		}
		if isIgnored(k) {
			continue
		}
		vars[k] = v
	}
	return vars, nil
}

// Get returns the value of name
func (p *ProcessStore) Get(name string) (string, error) {
	v, ok := p.env.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	return v, nil
}

// Set updates the process environment and stages the change
func (p *ProcessStore) Set(name, value string) error {
	script, err := p.staged()
	if err != nil {
		return err
	}
	if err := p.env.Setenv(name, value); err != nil {
		return fmt.Errorf("set %q: %w: %v", name, ErrStoreUnavailable, err)
	}
	script.Set(name, value)
	return nil
}

// Delete removes name from the process environment and the staged script
func (p *ProcessStore) Delete(name string) error {
	if _, ok := p.env.LookupEnv(name); !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	script, err := p.staged()
	if err != nil {
		return err
	}
	if err := p.env.Unsetenv(name); err != nil {
		return fmt.Errorf("delete %q: %w: %v", name, ErrStoreUnavailable, err)
	}
	script.Delete(name)
	return nil
}

// WriteRC renders the staged script, seeded with the full environment, to
// path. The file is replaced atomically. Variables whose names no shell can
// assign are left out and logged.
func (p *ProcessStore) WriteRC(fs afero.Fs, path string) error {
	shell, err := shellrc.ParseShell(p.shell)
	if err != nil {
		return err
	}
	script, err := p.staged()
	if err != nil {
		return err
	}

	for _, name := range script.InvalidNames() {
		p.logger.Warn("skipping variable with invalid name in rc script", "name", name)
	}
	data, err := script.Render(shell)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(fs, path, data, 0644); err != nil {
		return fmt.Errorf("write rc file %s: %w: %v", path, ErrIO, err)
	}
	return nil
}

// staged returns the pending script, seeding it from the current environment
// on first use so it always describes the full environment.
func (p *ProcessStore) staged() (*shellrc.Script, error) {
	if p.script != nil {
		return p.script, nil
	}

	vars, err := p.List()
	if err != nil {
		return nil, err
	}
	script := shellrc.NewScript()
	for _, name := range SortedNames(vars) {
		script.Set(name, vars[name])
	}
	p.script = script
	return script, nil
}
