package envvar

import (
	"fmt"
	"os"
	"strings"
)

// PathDelimiter separates entries of the platform search path
var PathDelimiter = string(os.PathListSeparator)

// Variables layers delimiter-separated list semantics on top of a Store.
// Every list operation is a read-modify-write through Get and Set.
type Variables struct {
	store Store
}

// New wraps store with list and path helpers
func New(store Store) *Variables {
	return &Variables{store: store}
}

// Store returns the underlying store
func (v *Variables) Store() Store {
	return v.store
}

// SplitList splits value on delim after trimming exactly one trailing
// delimiter, so "a;b;c;" yields [a b c]. An empty value yields an empty list.
func SplitList(value, delim string) []string {
	if value == "" {
		return []string{}
	}
	if delim == "" {
		return []string{value}
	}
	value = strings.TrimSuffix(value, delim)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, delim)
}

// JoinList joins values with delim
func JoinList(values []string, delim string) string {
	return strings.Join(values, delim)
}

// GetList reads name and splits it into tokens
func (v *Variables) GetList(name, delim string) ([]string, error) {
	value, err := v.store.Get(name)
	if err != nil {
		return nil, err
	}
	return SplitList(value, delim), nil
}

// SetList joins values and writes them to name
func (v *Variables) SetList(name string, values []string, delim string) error {
	return v.store.Set(name, JoinList(values, delim))
}

// AppendList appends value to the end of the list stored in name.
// The variable must already exist.
func (v *Variables) AppendList(name, value, delim string) error {
	list, err := v.GetList(name, delim)
	if err != nil {
		return err
	}
	return v.SetList(name, append(list, value), delim)
}

// InsertList inserts value at index, shifting later tokens right.
// index may equal the list length, which appends.
func (v *Variables) InsertList(name, value string, index int, delim string) error {
	list, err := v.GetList(name, delim)
	if err != nil {
		return err
	}
	if index < 0 || index > len(list) {
		return fmt.Errorf("insert into %q at %d (length %d): %w", name, index, len(list), ErrIndexOutOfRange)
	}

	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, value)
	out = append(out, list[index:]...)
	return v.SetList(name, out, delim)
}

// RemoveList removes the token at index
func (v *Variables) RemoveList(name string, index int, delim string) error {
	list, err := v.GetList(name, delim)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("remove from %q at %d (length %d): %w", name, index, len(list), ErrIndexOutOfRange)
	}

	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return v.SetList(name, out, delim)
}

// RemoveListFrom removes every token equal to value. Nothing is written when
// no token matches.
func (v *Variables) RemoveListFrom(name, value, delim string) error {
	list, err := v.GetList(name, delim)
	if err != nil {
		return err
	}

	out := make([]string, 0, len(list))
	for _, token := range list {
		if token != value {
			out = append(out, token)
		}
	}
	if len(out) == len(list) {
		return nil
	}
	return v.SetList(name, out, delim)
}

// GetPath returns the entries of the platform search path
func (v *Variables) GetPath() ([]string, error) {
	return v.GetList(PathName, PathDelimiter)
}

// SetPath replaces the platform search path
func (v *Variables) SetPath(paths []string) error {
	return v.SetList(PathName, paths, PathDelimiter)
}

// AppendPath appends path to the platform search path
func (v *Variables) AppendPath(path string) error {
	return v.AppendList(PathName, path, PathDelimiter)
}

// InsertPath inserts path into the platform search path at index
func (v *Variables) InsertPath(path string, index int) error {
	return v.InsertList(PathName, path, index, PathDelimiter)
}

// RemovePath removes the search path entry at index
func (v *Variables) RemovePath(index int) error {
	return v.RemoveList(PathName, index, PathDelimiter)
}

// RemovePathFrom removes every occurrence of path from the search path
func (v *Variables) RemovePathFrom(path string) error {
	return v.RemoveListFrom(PathName, path, PathDelimiter)
}
