package dto

import (
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
)

// ProfileSummary is the listing view of a descriptor.
type ProfileSummary struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Device       string `json:"device,omitempty" yaml:"device,omitempty"`
	Matcher      string `json:"matcher" yaml:"matcher"`
	Ramdisk      string `json:"ramdisk,omitempty" yaml:"ramdisk,omitempty"`
	HasBootImage bool   `json:"has_boot_image" yaml:"has_boot_image"`
}

// NewProfileSummary converts a descriptor to its listing view.
func NewProfileSummary(d *entities.Descriptor) ProfileSummary {
	return ProfileSummary{
		ID:           d.ID().String(),
		Name:         d.Name(),
		Device:       d.Device().String(),
		Matcher:      d.Matcher().String(),
		Ramdisk:      d.Ramdisk(),
		HasBootImage: d.HasBootImage(),
	}
}

// MatchResult reports how one filename resolved.
type MatchResult struct {
	Filename   string   `json:"filename" yaml:"filename"`
	ProfileID  string   `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// PatchResult reports the outcome of one dispatch.
type PatchResult struct {
	Err         error                  `json:"-" yaml:"-"`
	ArchivePath string                 `json:"archive" yaml:"archive"`
	DispatchID  string                 `json:"dispatch_id,omitempty" yaml:"dispatch_id,omitempty"`
	ProfileID   string                 `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	ProfileName string                 `json:"profile_name,omitempty" yaml:"profile_name,omitempty"`
	OutputPath  string                 `json:"output,omitempty" yaml:"output,omitempty"`
	Digest      string                 `json:"digest,omitempty" yaml:"digest,omitempty"`
	State       entities.DispatchState `json:"state" yaml:"state"`
	Error       string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Entries     []string               `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Failed reports whether the dispatch did not finish.
func (r PatchResult) Failed() bool {
	return r.Err != nil
}
