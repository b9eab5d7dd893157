package envvar

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks Store

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"
)

// Store provides durable key/value storage for environment variables
type Store interface {
	// List returns every defined variable except the platform ignore-set
	List() (map[string]string, error)
	// Get returns the value of a variable
	Get(name string) (string, error)
	// Set creates or overwrites a variable
	Set(name, value string) error
	// Delete removes a variable
	Delete(name string) error
}

// RCWriter is implemented by stores that persist their changes through a
// generated shell-initialization script rather than a native backing store.
type RCWriter interface {
	WriteRC(fs afero.Fs, path string) error
}

// isIgnored reports whether name belongs to the platform ignore-set
func isIgnored(name string) bool {
	for _, k := range IgnoreKeys {
		if k == name {
			return true
		}
	}
	return false
}

// SortedNames returns the keys of vars in lexical order
func SortedNames(vars map[string]string) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MemoryStore is a map-backed Store. It applies the same ignore-set as the
// platform store so listings behave identically.
type MemoryStore struct {
	vars map[string]string
}

// NewMemoryStore creates a store seeded with a copy of vars
func NewMemoryStore(vars map[string]string) *MemoryStore {
	m := &MemoryStore{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

// List returns a copy of all variables outside the ignore-set
func (m *MemoryStore) List() (map[string]string, error) {
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		if isIgnored(k) {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Get returns the value of name
func (m *MemoryStore) Get(name string) (string, error) {
	v, ok := m.vars[name]
	if !ok {
		return "", fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	return v, nil
}

// Set creates or overwrites name
func (m *MemoryStore) Set(name, value string) error {
	m.vars[name] = value
	return nil
}

// Delete removes name
func (m *MemoryStore) Delete(name string) error {
	if _, ok := m.vars[name]; !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	delete(m.vars, name)
	return nil
}
