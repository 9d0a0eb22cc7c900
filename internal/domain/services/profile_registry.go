// Package services contains domain services that operate on descriptors.
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/domain/matching"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
)

// ErrRegistrySealed is returned by Register once resolution has begun.
var ErrRegistrySealed = errors.New("profile registry is read-only after resolution has started")

// ProfileRegistry holds every known descriptor and resolves archive
// filenames to exactly one of them.
//
// The registry has two phases. During the build phase descriptors are
// registered from a single goroutine. The first call to Seal, Resolve,
// ResolveForDevice or List ends the build phase; from then on the registry
// is read-only and safe for concurrent use without locking. There is no
// way back to the build phase.
type ProfileRegistry struct {
	logger      *slog.Logger
	descriptors map[values.ProfileID]*entities.Descriptor
	ordered     []*entities.Descriptor
	sealOnce    sync.Once
	sealed      atomic.Bool
}

// NewProfileRegistry creates an empty registry in its build phase.
func NewProfileRegistry(logger *slog.Logger) *ProfileRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileRegistry{
		logger:      logger,
		descriptors: make(map[values.ProfileID]*entities.Descriptor),
	}
}

// Register adds a descriptor. A second descriptor with an identifier that
// is already present is rejected with *entities.DuplicateIdentifierError
// and the first registration is kept.
func (r *ProfileRegistry) Register(d *entities.Descriptor) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if d == nil {
		return entities.NewInvalidDescriptorError("", "descriptor is nil")
	}

	if existing, ok := r.descriptors[d.ID()]; ok {
		return &entities.DuplicateIdentifierError{
			ProfileID:    d.ID(),
			ExistingName: existing.Name(),
			RejectedName: d.Name(),
		}
	}

	r.descriptors[d.ID()] = d
	return nil
}

// RegisterSources builds and registers the descriptor of every source.
// A source that fails to build or collides with an earlier identifier is
// logged and skipped; the rest of the build continues. The returned slice
// holds one error per skipped source.
func (r *ProfileRegistry) RegisterSources(sources ...entities.ProfileSource) []error {
	var errs []error
	for i, src := range sources {
		if src == nil {
			continue
		}

		d, err := src.Descriptor()
		if err == nil {
			err = r.Register(d)
		}
		if err != nil {
			r.logger.Warn("skipping profile source", "index", i, "error", err)
			errs = append(errs, err)
			continue
		}

		r.logger.Debug("registered profile", "profile", d.ID().String(), "name", d.Name(), "device", d.Device().String())
	}
	return errs
}

// Seal ends the build phase. It is idempotent.
func (r *ProfileRegistry) Seal() {
	r.sealOnce.Do(func() {
		r.sealed.Store(true)

		ordered := make([]*entities.Descriptor, 0, len(r.descriptors))
		for _, d := range r.descriptors {
			ordered = append(ordered, d)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].ID().Less(ordered[j].ID())
		})
		r.ordered = ordered
	})
}

// Len returns the number of registered descriptors.
func (r *ProfileRegistry) Len() int {
	return len(r.descriptors)
}

// List returns every descriptor ordered by identifier.
func (r *ProfileRegistry) List() []*entities.Descriptor {
	r.Seal()
	return append([]*entities.Descriptor(nil), r.ordered...)
}

// Get returns the descriptor registered under id.
func (r *ProfileRegistry) Get(id values.ProfileID) (*entities.Descriptor, bool) {
	r.Seal()
	d, ok := r.descriptors[id]
	return d, ok
}

// Resolve returns the single descriptor whose matcher accepts the base name
// of filename. All descriptors compete regardless of device scope.
//
// Zero matches yield *entities.NoMatchingProfileError; two or more yield
// *entities.AmbiguousProfileError naming every candidate. Registration
// order never influences the result.
func (r *ProfileRegistry) Resolve(filename string) (*entities.Descriptor, error) {
	return r.ResolveForDevice(filename, values.AnyDevice)
}

// ResolveForDevice is Resolve restricted to descriptors whose device scope
// admits device. An empty device behaves exactly like Resolve.
func (r *ProfileRegistry) ResolveForDevice(filename string, device values.DeviceFamily) (*entities.Descriptor, error) {
	candidates := r.Candidates(filename, device)
	name := matching.Basename(filename)

	switch len(candidates) {
	case 0:
		return nil, &entities.NoMatchingProfileError{Filename: name, Device: device}
	case 1:
		return candidates[0], nil
	default:
		ids := make([]values.ProfileID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID()
		}
		return nil, &entities.AmbiguousProfileError{Filename: name, Candidates: ids}
	}
}

// Candidates returns every descriptor matching filename for device,
// ordered by identifier. It is the diagnostic form of ResolveForDevice.
func (r *ProfileRegistry) Candidates(filename string, device values.DeviceFamily) []*entities.Descriptor {
	r.Seal()

	name := matching.Basename(filename)
	if name == "" {
		return nil
	}

	var out []*entities.Descriptor
	for _, d := range r.ordered {
		if !d.Device().Admits(device) {
			continue
		}
		if d.Matches(name) {
			out = append(out, d)
		}
	}
	return out
}

// String summarizes the registry for logs.
func (r *ProfileRegistry) String() string {
	return fmt.Sprintf("ProfileRegistry(%d profiles, sealed=%t)", len(r.descriptors), r.sealed.Load())
}
