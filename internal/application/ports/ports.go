// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/system"
)

// PatchEngine performs the byte-level transformation of ROM archives.
// The registry and dispatch layers only invoke it.
//
// ApplyPatch must leave the input archive untouched, and must either
// produce a fully patched output or no output at all.
type PatchEngine interface {
	// ExtractPatchableEntries lists the entries eligible for patching.
	ExtractPatchableEntries(ctx context.Context, archive *entities.Archive) (entities.EntrySet, error)

	// ApplyPatch rewrites the archive using the extracted entries.
	ApplyPatch(ctx context.Context, archive *entities.Archive, entries entities.EntrySet, cfg entities.PatchConfig) (*entities.PatchedArchive, error)
}

// OverwriteConfirmer decides whether an existing output may be replaced.
type OverwriteConfirmer interface {
	ConfirmOverwrite(path string) (bool, error)
}

// SystemConfigProvider loads system configuration.
type SystemConfigProvider interface {
	LoadConfig(ctx context.Context, path string) (*system.Config, error)
}

// ProfileCatalogLoader loads additional profile sources from catalog files.
type ProfileCatalogLoader interface {
	LoadSources(path string) ([]entities.ProfileSource, error)
}

// OutputFormatter renders CLI results.
type OutputFormatter interface {
	FormatProfiles(profiles []dto.ProfileSummary) error
	FormatMatches(matches []dto.MatchResult) error
	FormatPatchResults(results []dto.PatchResult) error
}

// FormatterOptions configures output formatting.
type FormatterOptions struct {
	Indent bool
}
