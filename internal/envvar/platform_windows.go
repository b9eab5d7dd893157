//go:build windows

package envvar

// PathName is the platform search path variable
const PathName = "Path"

// FoldNames reports whether variable names compare case-insensitively
const FoldNames = true

// IgnoreKeys are volatile variables that are never user data
var IgnoreKeys = []string{"__PSLockDownPolicy"}

// NewPlatformStore returns the user environment registry store. The shell
// option has no effect on Windows.
func NewPlatformStore(opts ...Option) Store {
	o := applyOptions(opts)
	store := NewRegistryStore()
	store.logger = o.logger
	return store
}
