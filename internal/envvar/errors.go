package envvar

import "errors"

// Error kinds shared by the store, the list codec, snapshot handling and the
// reconciler. Operations wrap one of these with context, so callers match
// them with errors.Is.
var (
	// ErrStoreUnavailable reports that the backing store could not be opened or closed
	ErrStoreUnavailable = errors.New("environment store unavailable")
	// ErrNotFound reports a variable that does not exist
	ErrNotFound = errors.New("environment variable not found")
	// ErrIndexOutOfRange reports a list index beyond the current list bounds
	ErrIndexOutOfRange = errors.New("list index out of range")
	// ErrInvalidSnapshot reports a malformed snapshot file or an unsupported version
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrIO reports a filesystem read or write failure
	ErrIO = errors.New("i/o failure")
)
