// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
)

// ErrDispatchReused is returned when a dispatch context is run twice.
var ErrDispatchReused = errors.New("dispatch context is single-use")

// Dispatcher drives extraction then patching for a resolved descriptor.
// It keeps no per-dispatch state and is safe for concurrent use.
type Dispatcher struct {
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Dispatch runs the descriptor's extraction behavior, then its patch
// behavior, and returns the patched archive.
func (d *Dispatcher) Dispatch(ctx context.Context, descriptor *entities.Descriptor, archive *entities.Archive) (*entities.PatchedArchive, error) {
	return d.NewContext(descriptor, archive).Run(ctx)
}

// NewContext creates the single-use context for one dispatch.
func (d *Dispatcher) NewContext(descriptor *entities.Descriptor, archive *entities.Archive) *DispatchContext {
	return &DispatchContext{
		id:         values.NewDispatchID(),
		descriptor: descriptor,
		archive:    archive,
		state:      entities.DispatchCreated,
		history:    []entities.DispatchState{entities.DispatchCreated},
		logger:     d.logger,
	}
}

// DispatchContext holds the state of one dispatch. It is owned by the
// goroutine that calls Run; accessors may be read once Run has returned.
type DispatchContext struct {
	logger     *slog.Logger
	descriptor *entities.Descriptor
	archive    *entities.Archive
	result     *entities.PatchedArchive
	err        error
	entries    entities.EntrySet
	history    []entities.DispatchState
	state      entities.DispatchState
	id         values.DispatchID
	runOnce    sync.Once
}

// ID returns the dispatch identifier.
func (dc *DispatchContext) ID() values.DispatchID {
	return dc.id
}

// State returns the current state.
func (dc *DispatchContext) State() entities.DispatchState {
	return dc.state
}

// History returns every state visited, in order.
func (dc *DispatchContext) History() []entities.DispatchState {
	return append([]entities.DispatchState(nil), dc.history...)
}

// Entries returns the extracted entry set (empty before extraction).
func (dc *DispatchContext) Entries() entities.EntrySet {
	return dc.entries
}

// Result returns the patched archive after a successful run.
func (dc *DispatchContext) Result() *entities.PatchedArchive {
	return dc.result
}

// Err returns the failure of the run, if any.
func (dc *DispatchContext) Err() error {
	return dc.err
}

// Run executes the dispatch. Behavior failures are wrapped in
// *entities.ExtractionFailedError or *entities.PatchFailedError carrying the
// profile identifier, and are never retried. Patching is skipped if
// extraction fails or ctx is cancelled after extraction.
func (dc *DispatchContext) Run(ctx context.Context) (*entities.PatchedArchive, error) {
	reused := true
	dc.runOnce.Do(func() {
		reused = false
		dc.result, dc.err = dc.run(ctx)
	})
	if reused {
		return nil, ErrDispatchReused
	}
	return dc.result, dc.err
}

func (dc *DispatchContext) run(ctx context.Context) (*entities.PatchedArchive, error) {
	if dc.descriptor == nil || dc.archive == nil {
		return nil, dc.fail(fmt.Errorf("dispatch requires a descriptor and an archive"))
	}

	if err := dc.archive.Acquire(); err != nil {
		return nil, dc.fail(err)
	}
	defer dc.archive.Release()

	log := dc.logger.With(
		"dispatch_id", dc.id.String(),
		"profile", dc.descriptor.ID().String(),
		"archive", dc.archive.Path(),
	)

	if err := ctx.Err(); err != nil {
		return nil, dc.fail(fmt.Errorf("dispatch cancelled before extraction: %w", err))
	}

	log.Debug("extracting patchable entries")
	entries, err := dc.descriptor.Extractor().Extract(ctx, dc.archive)
	if err != nil {
		return nil, dc.fail(&entities.ExtractionFailedError{
			Cause:     err,
			ProfileID: dc.descriptor.ID(),
			Archive:   dc.archive.Path(),
		})
	}
	dc.entries = entries
	dc.transition(entities.DispatchExtracted)
	log.Debug("extracted entries", "count", entries.Len())

	// Last point at which cancellation is honoured; once the patch
	// behavior starts, atomicity is the engine's responsibility.
	if err := ctx.Err(); err != nil {
		return nil, dc.fail(fmt.Errorf("dispatch cancelled before patching: %w", err))
	}

	cfg := dc.descriptor.PatchConfig()
	log.Debug("applying patch", "ramdisk", cfg.Ramdisk, "has_boot_image", cfg.HasBootImage)
	patched, err := dc.descriptor.Patcher().Patch(ctx, dc.archive, entries, cfg)
	if err == nil && patched == nil {
		err = errors.New("patch behavior returned no archive")
	}
	if err != nil {
		return nil, dc.fail(&entities.PatchFailedError{
			Cause:     err,
			ProfileID: dc.descriptor.ID(),
			Archive:   dc.archive.Path(),
		})
	}
	dc.transition(entities.DispatchPatched)
	dc.transition(entities.DispatchDone)

	log.Info("archive patched", "output", patched.Path)
	return patched, nil
}

func (dc *DispatchContext) fail(err error) error {
	dc.transition(entities.DispatchFailed)
	dc.logger.Debug("dispatch failed", "dispatch_id", dc.id.String(), "error", err)
	return err
}

func (dc *DispatchContext) transition(next entities.DispatchState) {
	if !dc.state.CanTransition(next) {
		panic(fmt.Sprintf("invalid dispatch transition %s -> %s", dc.state, next))
	}
	dc.state = next
	dc.history = append(dc.history, next)
}
