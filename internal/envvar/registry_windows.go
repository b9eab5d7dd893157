//go:build windows

package envvar

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows/registry"
)

// environmentKey is the per-user environment below HKEY_CURRENT_USER
const environmentKey = `Environment`

// RegistryStore implements Store on the user environment registry key.
// Each operation opens the key and closes it before returning. Strings are
// UTF-16 encoded with a terminating NUL by the registry package.
type RegistryStore struct {
	root   registry.Key
	path   string
	logger *slog.Logger
}

// NewRegistryStore creates a store over HKCU\Environment
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{root: registry.CURRENT_USER, path: environmentKey, logger: discardLogger()}
}

// withKey opens the environment key with access, runs fn and always closes
// the key. A close failure is reported only when fn succeeded.
func (r *RegistryStore) withKey(access uint32, fn func(k registry.Key) error) (err error) {
	k, err := registry.OpenKey(r.root, r.path, access)
	if err != nil {
		return fmt.Errorf("open %s: %w: %v", r.path, ErrStoreUnavailable, err)
	}
	defer func() {
		if cerr := k.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w: %v", r.path, ErrStoreUnavailable, cerr)
		}
	}()
	return fn(k)
}

// List enumerates every string value of the environment key. Values of
// other registry types are not environment variables and are skipped.
func (r *RegistryStore) List() (map[string]string, error) {
	vars := make(map[string]string)
	err := r.withKey(registry.QUERY_VALUE, func(k registry.Key) error {
		names, err := k.ReadValueNames(0)
		if err != nil {
			return fmt.Errorf("enumerate %s: %w: %v", r.path, ErrStoreUnavailable, err)
		}
		for _, name := range names {
			if isIgnored(name) {
				continue
			}
			v, err := readString(k, name)
			if errors.Is(err, registry.ErrUnexpectedType) {
				r.logger.Debug("skipping non-string registry value", "name", name)
				continue
			}
			if err != nil {
				return err
			}
			vars[name] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vars, nil
}

// Get reads a single value
func (r *RegistryStore) Get(name string) (string, error) {
	var value string
	err := r.withKey(registry.QUERY_VALUE, func(k registry.Key) error {
		v, err := readString(k, name)
		value = v
		return err
	})
	return value, err
}

// Set writes name as an expandable string value
func (r *RegistryStore) Set(name, value string) error {
	return r.withKey(registry.SET_VALUE, func(k registry.Key) error {
		if err := k.SetExpandStringValue(name, value); err != nil {
			return fmt.Errorf("set %q: %w: %v", name, ErrStoreUnavailable, err)
		}
		return nil
	})
}

// Delete removes name from the environment key
func (r *RegistryStore) Delete(name string) error {
	return r.withKey(registry.SET_VALUE, func(k registry.Key) error {
		if err := k.DeleteValue(name); err != nil {
			if errors.Is(err, registry.ErrNotExist) {
				return fmt.Errorf("delete %q: %w", name, ErrNotFound)
			}
			return fmt.Errorf("delete %q: %w: %v", name, ErrStoreUnavailable, err)
		}
		return nil
	})
}

// readString reads a REG_SZ or REG_EXPAND_SZ value without expanding it
func readString(k registry.Key, name string) (string, error) {
	v, _, err := k.GetStringValue(name)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, registry.ErrNotExist):
		return "", fmt.Errorf("get %q: %w", name, ErrNotFound)
	case errors.Is(err, registry.ErrUnexpectedType):
		return "", fmt.Errorf("get %q: %w: %w", name, ErrStoreUnavailable, err)
	default:
		return "", fmt.Errorf("get %q: %w: %v", name, ErrStoreUnavailable, err)
	}
}
