package transfer

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/schaermu/envvar/internal/envvar"
	"github.com/schaermu/envvar/internal/output"
	"github.com/schaermu/envvar/internal/reconcile"
	"github.com/schaermu/envvar/internal/shellrc"
	"github.com/schaermu/envvar/internal/snapshot"
)

// Service runs the user-facing actions against one store
type Service struct {
	fs      afero.Fs
	store   envvar.Store
	printer *output.Printer
	logger  *slog.Logger
}

// NewService creates a new transfer service
func NewService(fs afero.Fs, store envvar.Store, printer *output.Printer, logger *slog.Logger) *Service {
	return &Service{
		fs:      fs,
		store:   store,
		printer: printer,
		logger:  logger,
	}
}

// List prints every variable of the store as sorted key=value lines
func (s *Service) List() error {
	vars, err := s.store.List()
	if err != nil {
		return fmt.Errorf("failed to list store: %w", err)
	}
	s.logger.Debug("listing variables", "count", len(vars))
	return s.printer.Variables(vars)
}

// Export captures the store into a snapshot file at path
func (s *Service) Export(path string) error {
	vars, err := s.store.List()
	if err != nil {
		return fmt.Errorf("failed to list store: %w", err)
	}

	for _, name := range envvar.SortedNames(vars) {
		if !shellrc.ValidName(name) {
			s.logger.Warn("not exporting variable with invalid name", "name", name)
		}
	}

	snap := snapshot.Capture(vars)
	if err := snapshot.Save(s.fs, path, snap); err != nil {
		return err
	}

	s.logger.Info("exported snapshot", "path", path, "entries", len(snap.Entries))
	return nil
}

// Import loads the snapshot at path and reconciles the store against it
func (s *Service) Import(path string, dryRun bool) (*reconcile.Result, error) {
	s.logger.Info("loading snapshot", "path", path)

	snap, err := snapshot.Load(s.fs, path)
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(s.store, s.printer, s.logger, dryRun)
	return engine.Run(snap)
}
