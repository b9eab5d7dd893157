package shellrc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Shell identifies the dialect of a generated rc script
type Shell string

const (
	Bash   Shell = "bash"
	Zsh    Shell = "zsh"
	Sh     Shell = "sh"
	Fish   Shell = "fish"
	Dotenv Shell = "dotenv"
)

// ParseShell validates a shell name
func ParseShell(name string) (Shell, error) {
	switch s := Shell(strings.ToLower(strings.TrimSpace(name))); s {
	case Bash, Zsh, Sh, Fish, Dotenv:
		return s, nil
	default:
		return "", fmt.Errorf("unsupported shell %q (must be bash, zsh, sh, fish, or dotenv)", name)
	}
}

// ShellFromPath derives the shell from a login shell path such as $SHELL,
// falling back to bash when the path names no supported shell.
func ShellFromPath(path string) Shell {
	if path == "" {
		return Bash
	}
	s, err := ParseShell(filepath.Base(path))
	if err != nil {
		return Bash
	}
	return s
}

// DefaultFileName returns the rc file name used when none is configured
func DefaultFileName(s Shell) string {
	return fmt.Sprintf(".envvar_%src", s)
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is an identifier every supported shell
// can assign
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// entry is one staged variable
type entry struct {
	key   string
	value string
}

// Script is the ordered set of variables an rc file exports. Keys keep the
// position of their first assignment; new keys are appended.
type Script struct {
	entries []entry
	index   map[string]int
}

// NewScript creates an empty script
func NewScript() *Script {
	return &Script{index: make(map[string]int)}
}

// Set assigns value to key
func (s *Script) Set(key, value string) {
	if i, ok := s.index[key]; ok {
		s.entries[i].value = value
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, entry{key: key, value: value})
}

// Delete removes key and reports whether it was present
func (s *Script) Delete(key string) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].key] = j
	}
	return true
}

// Len returns the number of staged variables
func (s *Script) Len() int {
	return len(s.entries)
}

// InvalidNames returns the staged names that Render leaves out because no
// supported shell can assign them, such as exported bash functions.
func (s *Script) InvalidNames() []string {
	var names []string
	for _, e := range s.entries {
		if !ValidName(e.key) {
			names = append(names, e.key)
		}
	}
	return names
}

// Render produces the rc file content for the given shell. Entries whose
// name is not a valid identifier are skipped.
func (s *Script) Render(shell Shell) ([]byte, error) {
	var buf bytes.Buffer
	if shell != Dotenv {
		buf.WriteString("# generated by envvar; do not edit\n")
	}
	for _, e := range s.entries {
		if !ValidName(e.key) {
			continue
		}
		line, err := renderLine(shell, e.key, e.value)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", e.key, err)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func renderLine(shell Shell, key, value string) (string, error) {
	switch shell {
	case Bash, Zsh:
		q, err := syntax.Quote(value, syntax.LangBash)
		if err != nil {
			return "", err
		}
		return "export " + key + "=" + q, nil
	case Sh:
		return "export " + key + "=" + posixQuote(value), nil
	case Fish:
		return "set -gx " + key + " " + fishQuote(value), nil
	case Dotenv:
		return dotenvLine(key, value)
	default:
		return "", fmt.Errorf("unsupported shell %q", shell)
	}
}

// posixQuote single-quotes s. A single quote closes the string, is emitted
// escaped and reopens it; everything else, newlines included, is literal.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// fishQuote single-quotes s; inside fish single quotes only backslash and
// the quote itself need escaping.
func fishQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
