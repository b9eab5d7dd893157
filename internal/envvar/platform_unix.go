//go:build !windows

package envvar

// PathName is the platform search path variable
const PathName = "PATH"

// FoldNames reports whether variable names compare case-insensitively
const FoldNames = false

// IgnoreKeys are shell-internal variables that are never user data
var IgnoreKeys = []string{"_", "PWD", "SHLVL"}

// NewPlatformStore returns the process environment store. Changes are staged
// into a shell-initialization script for the configured shell.
func NewPlatformStore(opts ...Option) Store {
	o := applyOptions(opts)
	store := NewProcessStore(OSEnvironment{}, o.shell)
	store.logger = o.logger
	return store
}
