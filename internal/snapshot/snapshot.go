package snapshot

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"

	"github.com/schaermu/envvar/internal/envvar"
	"github.com/schaermu/envvar/internal/fsutil"
	"github.com/schaermu/envvar/internal/shellrc"
)

// CurrentVersion is the only snapshot format version understood
const CurrentVersion = 1

// AppendIndex is the Insert value that appends to the end of a list
const AppendIndex = -1

//go:embed data/snapshot.schema.json
var schemaFS embed.FS

// Snapshot is the declarative desired state of the environment store
type Snapshot struct {
	Version int     `json:"version"`
	Entries []Entry `json:"data"`
}

// Entry is one desired variable together with its import policy
type Entry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Overwrite bool   `json:"overwrite"`
	Delimiter string `json:"delimiter"`
	Insert    int    `json:"insert"`
}

// IsList reports whether the entry describes a delimiter-separated value
func (e Entry) IsList() bool {
	return e.Delimiter != ""
}

// Appends reports whether a list entry is appended rather than inserted
func (e Entry) Appends() bool {
	return e.Insert < 0
}

// UnmarshalJSON fills the optional fields with their defaults before decoding
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	p := plain{Insert: AppendIndex}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

// Parse decodes a snapshot. Comments are accepted; unknown fields are
// ignored. Every failure wraps envvar.ErrInvalidSnapshot.
func Parse(data []byte) (*Snapshot, error) {
	data = jsonc.ToJSON(data)

	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", envvar.ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the version and entry invariants. Keys must be shell
// identifiers because they end up unquoted in generated rc scripts.
func (s *Snapshot) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", envvar.ErrInvalidSnapshot, s.Version, CurrentVersion)
	}
	for i, e := range s.Entries {
		if e.Key == "" {
			return fmt.Errorf("%w: data[%d]: key is required", envvar.ErrInvalidSnapshot, i)
		}
		if !shellrc.ValidName(e.Key) {
			return fmt.Errorf("%w: data[%d]: key %q is not a valid variable name", envvar.ErrInvalidSnapshot, i, e.Key)
		}
	}
	return nil
}

// Marshal encodes the snapshot as indented JSON with every field present
func Marshal(s *Snapshot) ([]byte, error) {
	out := *s
	if out.Entries == nil {
		out.Entries = []Entry{}
	}

	// Paths and values often contain '&' or '<'; keep them readable
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads and parses a snapshot file
func Load(fs afero.Fs, path string) (*Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w: %v", path, envvar.ErrIO, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return s, nil
}

// Save writes the snapshot to path. The file only appears once it has been
// written completely.
func Save(fs afero.Fs, path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := fsutil.WriteFileAtomic(fs, path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w: %v", path, envvar.ErrIO, err)
	}
	return nil
}

// Capture builds a snapshot from a store listing. Entries are sorted by key;
// the platform search path is marked as a list. Names that are not valid
// identifiers could never be imported and are left out.
func Capture(vars map[string]string) *Snapshot {
	s := &Snapshot{
		Version: CurrentVersion,
		Entries: make([]Entry, 0, len(vars)),
	}
	for _, name := range envvar.SortedNames(vars) {
		if !shellrc.ValidName(name) {
			continue
		}
		e := Entry{
			Key:    name,
			Value:  vars[name],
			Insert: AppendIndex,
		}
		if name == envvar.PathName {
			e.Delimiter = envvar.PathDelimiter
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// validateSchema checks data against the embedded snapshot schema
func validateSchema(data []byte) error {
	schemaData, err := schemaFS.ReadFile("data/snapshot.schema.json")
	if err != nil {
		return fmt.Errorf("failed to read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", envvar.ErrInvalidSnapshot, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return formatNumberedErrors(msgs)
}

// formatNumberedErrors joins schema violations into one error wrapping
// envvar.ErrInvalidSnapshot
func formatNumberedErrors(msgs []string) error {
	if len(msgs) == 1 {
		return fmt.Errorf("%w: %s", envvar.ErrInvalidSnapshot, msgs[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d schema errors:", len(msgs))
	for i, msg := range msgs {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
	}
	return fmt.Errorf("%w: %s", envvar.ErrInvalidSnapshot, b.String())
}
