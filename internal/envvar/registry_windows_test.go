//go:build windows

package envvar

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"
)

// newTestRegistryStore points a store at a scratch key below
// HKCU\Software that is removed when the test ends
func newTestRegistryStore(t *testing.T) (*RegistryStore, registry.Key) {
	t.Helper()
	path := fmt.Sprintf(`Software\envvar-test-%d`, time.Now().UnixNano())

	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.ALL_ACCESS)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = k.Close()
		_ = registry.DeleteKey(registry.CURRENT_USER, path)
	})

	return &RegistryStore{root: registry.CURRENT_USER, path: path, logger: discardLogger()}, k
}

func TestRegistryStore_SetGetDelete(t *testing.T) {
	store, k := newTestRegistryStore(t)

	require.NoError(t, store.Set("ENVVAR_TEST", `%USERPROFILE%\bin`))

	v, err := store.Get("ENVVAR_TEST")
	require.NoError(t, err)
	assert.Equal(t, `%USERPROFILE%\bin`, v, "values are returned unexpanded")

	_, valtype, err := k.GetStringValue("ENVVAR_TEST")
	require.NoError(t, err)
	assert.Equal(t, uint32(registry.EXPAND_SZ), valtype)

	require.NoError(t, store.Delete("ENVVAR_TEST"))
	_, err = store.Get("ENVVAR_TEST")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryStore_Overwrite(t *testing.T) {
	store, _ := newTestRegistryStore(t)

	require.NoError(t, store.Set("EDITOR", "notepad"))
	require.NoError(t, store.Set("EDITOR", "code"))

	v, err := store.Get("EDITOR")
	require.NoError(t, err)
	assert.Equal(t, "code", v)
}

func TestRegistryStore_List(t *testing.T) {
	store, k := newTestRegistryStore(t)

	require.NoError(t, k.SetStringValue("Path", `C:\Tools;C:\bin`))
	require.NoError(t, k.SetExpandStringValue("TEMP", `%USERPROFILE%\AppData\Local\Temp`))
	require.NoError(t, k.SetStringValue(IgnoreKeys[0], "1"))

	vars, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Path": `C:\Tools;C:\bin`,
		"TEMP": `%USERPROFILE%\AppData\Local\Temp`,
	}, vars)
}

func TestRegistryStore_ListSkipsNonStringValues(t *testing.T) {
	store, k := newTestRegistryStore(t)
	var logs bytes.Buffer
	store.logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, k.SetStringValue("EDITOR", "code"))
	require.NoError(t, k.SetDWordValue("Flags", 1))
	require.NoError(t, k.SetBinaryValue("Blob", []byte{0x01, 0x02}))

	vars, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"EDITOR": "code"}, vars)
	assert.Contains(t, logs.String(), "skipping non-string registry value")

	_, err = store.Get("Flags")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRegistryStore_MissingValue(t *testing.T) {
	store, _ := newTestRegistryStore(t)

	_, err := store.Get("ENVVAR_MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("ENVVAR_MISSING"), ErrNotFound)
}

func TestRegistryStore_MissingKey(t *testing.T) {
	store := &RegistryStore{
		root:   registry.CURRENT_USER,
		path:   fmt.Sprintf(`Software\envvar-test-missing-%d`, time.Now().UnixNano()),
		logger: discardLogger(),
	}

	_, err := store.List()
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, store.Set("A", "1"), ErrStoreUnavailable)
}

func TestNewPlatformStore_Registry(t *testing.T) {
	store, ok := NewPlatformStore(WithShell("fish")).(*RegistryStore)
	require.True(t, ok)
	assert.Equal(t, registry.CURRENT_USER, store.root)
	assert.Equal(t, environmentKey, store.path)
}
