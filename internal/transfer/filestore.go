package transfer

import (
	"bytes"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/schaermu/envvar/internal/envvar"
	"github.com/schaermu/envvar/internal/fsutil"
	"github.com/schaermu/envvar/internal/shellrc"
)

// LoadFileStore reads a dotenv file into a MemoryStore. A missing file
// yields an empty store.
func LoadFileStore(fs afero.Fs, path string) (*envvar.MemoryStore, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat file store %s: %w: %v", path, envvar.ErrIO, err)
	}
	if !exists {
		return envvar.NewMemoryStore(nil), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read file store %s: %w: %v", path, envvar.ErrIO, err)
	}

	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse file store %s: %w: %v", path, envvar.ErrStoreUnavailable, err)
	}
	return envvar.NewMemoryStore(vars), nil
}

// SaveFileStore writes every variable of store to path in dotenv format.
// Values are written so LoadFileStore reads them back unchanged.
func SaveFileStore(fs afero.Fs, path string, store envvar.Store) error {
	vars, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list store: %w", err)
	}

	content, err := shellrc.MarshalDotenv(vars)
	if err != nil {
		return fmt.Errorf("encode file store: %w", err)
	}

	if err := fsutil.WriteFileAtomic(fs, path, content, 0600); err != nil {
		return fmt.Errorf("write file store %s: %w: %v", path, envvar.ErrIO, err)
	}
	return nil
}
