package entities

import (
	"fmt"
	"strings"

	"github.com/multiboot-dev/mbpatch/internal/domain/values"
)

// InvalidDescriptorError indicates a descriptor failed construction:
// malformed matcher, missing behaviors, or a bad identifier.
type InvalidDescriptorError struct {
	ProfileID string
	Problems  []string
}

func (e *InvalidDescriptorError) Error() string {
	id := e.ProfileID
	if id == "" {
		id = "<unnamed>"
	}
	return fmt.Sprintf("invalid profile %s: %s", id, strings.Join(e.Problems, "; "))
}

// NewInvalidDescriptorError creates a new invalid descriptor error.
func NewInvalidDescriptorError(profileID string, problems ...string) *InvalidDescriptorError {
	return &InvalidDescriptorError{
		ProfileID: profileID,
		Problems:  problems,
	}
}

// DuplicateIdentifierError indicates a second descriptor claimed an
// identifier that is already registered. The first registration is kept.
type DuplicateIdentifierError struct {
	ProfileID    values.ProfileID
	ExistingName string
	RejectedName string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate profile id %s: %q already registered, rejecting %q",
		e.ProfileID, e.ExistingName, e.RejectedName)
}

// NoMatchingProfileError indicates no descriptor matched the archive.
type NoMatchingProfileError struct {
	Filename string
	Device   values.DeviceFamily
}

func (e *NoMatchingProfileError) Error() string {
	if e.Device.IsAny() {
		return fmt.Sprintf("unsupported archive %q: no matching profile", e.Filename)
	}
	return fmt.Sprintf("unsupported archive %q: no matching profile for device %s", e.Filename, e.Device)
}

// AmbiguousProfileError indicates several descriptors matched the archive.
// Candidates are sorted by identifier.
type AmbiguousProfileError struct {
	Filename   string
	Candidates []values.ProfileID
}

func (e *AmbiguousProfileError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = c.String()
	}
	return fmt.Sprintf("ambiguous archive %q: matched by %d profiles (%s)",
		e.Filename, len(e.Candidates), strings.Join(ids, ", "))
}

// ExtractionFailedError wraps a failure of a descriptor's extraction behavior.
type ExtractionFailedError struct {
	Cause     error
	ProfileID values.ProfileID
	Archive   string
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed for %s with profile %s: %v", e.Archive, e.ProfileID, e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}

// PatchFailedError wraps a failure of a descriptor's patch behavior.
type PatchFailedError struct {
	Cause     error
	ProfileID values.ProfileID
	Archive   string
}

func (e *PatchFailedError) Error() string {
	return fmt.Sprintf("patch failed for %s with profile %s: %v", e.Archive, e.ProfileID, e.Cause)
}

func (e *PatchFailedError) Unwrap() error {
	return e.Cause
}
