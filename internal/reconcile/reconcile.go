package reconcile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/schaermu/envvar/internal/envvar"
	"github.com/schaermu/envvar/internal/output"
	"github.com/schaermu/envvar/internal/snapshot"
)

// Engine reconciles the live store against a snapshot
type Engine struct {
	vars    *envvar.Variables
	printer *output.Printer
	logger  *slog.Logger
	dryRun  bool

	// foldNames matches snapshot keys to existing names case-insensitively
	foldNames bool
}

// Result summarizes one import run
type Result struct {
	Plan    *Plan
	Applied int
}

// NewEngine creates a new reconcile engine
func NewEngine(store envvar.Store, printer *output.Printer, logger *slog.Logger, dryRun bool) *Engine {
	return &Engine{
		vars:    envvar.New(store),
		printer: printer,
		logger:  logger,
		dryRun:  dryRun,

		foldNames: envvar.FoldNames,
	}
}

// Run executes one linear import pass: list the store, classify every entry,
// print the preview and, unless in dry-run mode, apply the plan.
func (e *Engine) Run(s *snapshot.Snapshot) (*Result, error) {
	e.logger.Info("starting import",
		"entries", len(s.Entries),
		"dry_run", e.dryRun)

	// Point-in-time copy of the store; not refreshed during the run
	state, err := e.vars.Store().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list store: %w", err)
	}

	if e.foldNames {
		s = e.resolveNames(s, state)
	}
	plan := BuildPlan(s, state)
	counts := plan.Counts()

	// Log plan
	e.logger.Info("import plan",
		"new", counts[New],
		"overwrite", counts[Overwrite],
		"list", counts[ListMutate],
		"ignore", counts[Ignore])

	if err := e.preview(plan, state); err != nil {
		return nil, fmt.Errorf("failed to print preview: %w", err)
	}

	result := &Result{Plan: plan}

	// check for dry-run mode
	if e.dryRun {
		e.logger.Info("dry-run complete, no changes applied")
		return result, nil
	}

	applied, err := e.applyPlan(plan)
	result.Applied = applied
	if err != nil {
		if applied > 0 {
			e.logger.Warn("import partially applied; applied entries are not rolled back",
				"applied", applied,
				"total", plan.Mutations())
		}
		return result, fmt.Errorf("failed to apply import plan after %d of %d entries: %w", applied, plan.Mutations(), err)
	}

	e.logger.Info("import completed successfully", "applied", applied)
	return result, nil
}

// resolveNames returns a copy of s whose keys use the spelling of the
// existing variable they match case-insensitively, so "PATH" updates "Path"
// instead of being classified as new.
func (e *Engine) resolveNames(s *snapshot.Snapshot, state map[string]string) *snapshot.Snapshot {
	existing := make(map[string]string, len(state))
	for name := range state {
		existing[strings.ToLower(name)] = name
	}

	resolved := *s
	resolved.Entries = make([]snapshot.Entry, len(s.Entries))
	for i, entry := range s.Entries {
		if name, ok := existing[strings.ToLower(entry.Key)]; ok && name != entry.Key {
			e.logger.Debug("matched existing variable", "key", entry.Key, "name", name)
			entry.Key = name
		}
		resolved.Entries[i] = entry
	}
	return &resolved
}

// preview prints every group in the fixed order New, Overwrite, ListMutate, Ignore
func (e *Engine) preview(plan *Plan, state map[string]string) error {
	for _, d := range Dispositions {
		group := plan.Group(d)
		if err := e.printer.Section(d.String(), len(group)); err != nil {
			return err
		}
		for _, entry := range group {
			if err := e.previewEntry(d, entry, state); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) previewEntry(d Disposition, entry snapshot.Entry, state map[string]string) error {
	switch d {
	case New:
		e.logger.Debug("would create", "key", entry.Key)
		return e.printer.Item("+", entry.Key, entry.Value, "")
	case Overwrite:
		e.logger.Debug("would overwrite", "key", entry.Key)
		return e.printer.Item("~", entry.Key, entry.Value, fmt.Sprintf("(was %q)", state[entry.Key]))
	case ListMutate:
		target := listTarget(entry, state[entry.Key])
		e.logger.Debug("would modify list", "key", entry.Key, "target", target)
		return e.printer.Item("<", entry.Key, entry.Value, "("+target+")")
	default:
		e.logger.Debug("would ignore", "key", entry.Key)
		return e.printer.Key("=", entry.Key, "(exists, unchanged)")
	}
}

// listTarget describes where a list entry lands in the current value
func listTarget(entry snapshot.Entry, current string) string {
	if entry.Appends() {
		return "append"
	}
	n := len(envvar.SplitList(current, entry.Delimiter))
	if entry.Insert > n {
		return fmt.Sprintf("insert at %d, clamped to %d", entry.Insert, n)
	}
	return fmt.Sprintf("insert at %d", entry.Insert)
}

// applyPlan performs scalar writes first and list mutations second, each in
// snapshot order. It stops at the first failure and returns how many entries
// were applied before it.
func (e *Engine) applyPlan(plan *Plan) (int, error) {
	applied := 0

	// New and overwritten variables
	for _, it := range plan.Items {
		if it.Disposition != New && it.Disposition != Overwrite {
			continue
		}
		e.logger.Info("setting variable", "key", it.Entry.Key, "disposition", it.Disposition.String())
		if err := e.vars.Store().Set(it.Entry.Key, it.Entry.Value); err != nil {
			return applied, fmt.Errorf("failed to set %s: %w", it.Entry.Key, err)
		}
		applied++
	}

	// List mutations
	for _, it := range plan.Items {
		if it.Disposition != ListMutate {
			continue
		}
		if err := e.applyList(it.Entry); err != nil {
			return applied, fmt.Errorf("failed to update list %s: %w", it.Entry.Key, err)
		}
		applied++
	}

	return applied, nil
}

// applyList appends or inserts one list entry. Insert positions beyond the
// current length are clamped to it.
func (e *Engine) applyList(entry snapshot.Entry) error {
	if entry.Appends() {
		e.logger.Info("appending to list", "key", entry.Key, "value", entry.Value)
		return e.vars.AppendList(entry.Key, entry.Value, entry.Delimiter)
	}

	list, err := e.vars.GetList(entry.Key, entry.Delimiter)
	if err != nil {
		return err
	}
	index := entry.Insert
	if index > len(list) {
		index = len(list)
	}

	e.logger.Info("inserting into list", "key", entry.Key, "value", entry.Value, "index", index)
	return e.vars.InsertList(entry.Key, entry.Value, index, entry.Delimiter)
}
