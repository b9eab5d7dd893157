package envvar

import (
	"io"
	"log/slog"
)

// options holds the resolved configuration for NewPlatformStore
type options struct {
	shell  string
	logger *slog.Logger
}

// Option configures the store returned by NewPlatformStore
type Option func(*options)

// WithShell selects the shell the generated rc script targets
func WithShell(name string) Option {
	return func(o *options) {
		o.shell = name
	}
}

// WithLogger sets the logger the store reports skipped variables to
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{shell: "bash", logger: discardLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
