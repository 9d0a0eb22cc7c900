// Package profiles holds the statically known catalog of patch profiles.
// Each device family contributes its sources from its own subpackage;
// Builtin collects them in a fixed order.
package profiles

import (
	"sync"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/domain/matching"
)

// Factory builds a descriptor.
type Factory func() (*entities.Descriptor, error)

// Source is a ProfileSource backed by a Factory. The factory runs once.
type Source struct {
	factory Factory
	d       *entities.Descriptor
	err     error
	once    sync.Once
}

// NewSource wraps a factory.
func NewSource(factory Factory) *Source {
	return &Source{factory: factory}
}

// Descriptor implements entities.ProfileSource.
func (s *Source) Descriptor() (*entities.Descriptor, error) {
	s.once.Do(func() {
		if s.factory == nil {
			s.err = entities.NewInvalidDescriptorError("", "profile source has no factory")
			return
		}
		s.d, s.err = s.factory()
	})
	return s.d, s.err
}

// Matches implements entities.ProfileSource.
func (s *Source) Matches(filename string) bool {
	d, err := s.Descriptor()
	if err != nil {
		return false
	}
	return d.Matches(matching.Basename(filename))
}
