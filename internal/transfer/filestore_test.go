package transfer

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schaermu/envvar/internal/envvar"
)

func TestLoadFileStore_Missing(t *testing.T) {
	store, err := LoadFileStore(afero.NewMemMapFs(), "/env")
	require.NoError(t, err)

	vars, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestLoadFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/env", []byte("# comment\nA=1\nB=\"two words\"\nexport C='single'\n"), 0600))

	store, err := LoadFileStore(fs, "/env")
	require.NoError(t, err)

	vars, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "two words", "C": "single"}, vars)
}

func TestSaveFileStore_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := envvar.NewMemoryStore(map[string]string{
		"EDITOR": "vim",
		"PATH":   "/usr/bin:/bin",
		"SPACED": "two words",
	})

	require.NoError(t, SaveFileStore(fs, "/dir/env", store))

	data, err := afero.ReadFile(fs, "/dir/env")
	require.NoError(t, err)
	assert.Contains(t, string(data), `EDITOR="vim"`)

	loaded, err := LoadFileStore(fs, "/dir/env")
	require.NoError(t, err)
	got, err := loaded.List()
	require.NoError(t, err)
	want, _ := store.List()
	assert.Equal(t, want, got)
}

func TestSaveFileStore_PreservesValueText(t *testing.T) {
	fs := afero.NewMemMapFs()
	want := map[string]string{
		"UMASK":  "0022",
		"OFFSET": "+5",
		"MULTI":  "line1\nline2",
		"PRICE":  "$5 and \\$6",
		"WINDIR": `C:\Tools\`,
	}

	require.NoError(t, SaveFileStore(fs, "/env", envvar.NewMemoryStore(want)))

	loaded, err := LoadFileStore(fs, "/env")
	require.NoError(t, err)
	got, err := loaded.List()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveFileStore_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, SaveFileStore(fs, "/env", envvar.NewMemoryStore(nil)))

	data, err := afero.ReadFile(fs, "/env")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSaveFileStore_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := SaveFileStore(fs, "/env", envvar.NewMemoryStore(map[string]string{"A": "1"}))
	assert.ErrorIs(t, err, envvar.ErrIO)
}
