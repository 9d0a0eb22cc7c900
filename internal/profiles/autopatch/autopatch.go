// Package autopatch binds descriptor behaviors to the patch engine.
// Every built-in profile uses these: the engine decides which entries are
// patchable and performs the whole rewrite.
package autopatch

import (
	"context"

	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
)

// FilesToAutoPatch returns an extraction behavior asking the engine for the
// patchable entries of an archive.
func FilesToAutoPatch(engine ports.PatchEngine) entities.ExtractFunc {
	return func(ctx context.Context, archive *entities.Archive) (entities.EntrySet, error) {
		return engine.ExtractPatchableEntries(ctx, archive)
	}
}

// AutoPatch returns a patch behavior handing the archive, entries and
// descriptor configuration to the engine.
func AutoPatch(engine ports.PatchEngine) entities.PatchFunc {
	return func(ctx context.Context, archive *entities.Archive, entries entities.EntrySet, cfg entities.PatchConfig) (*entities.PatchedArchive, error) {
		return engine.ApplyPatch(ctx, archive, entries, cfg)
	}
}

// Bind attaches both auto-patch behaviors to b.
func Bind(b *entities.DescriptorBuilder, engine ports.PatchEngine) *entities.DescriptorBuilder {
	return b.Extract(FilesToAutoPatch(engine)).Patch(AutoPatch(engine))
}
