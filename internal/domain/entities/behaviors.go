package entities

import "context"

// Extractor identifies the archive entries eligible for patching.
// It must not modify the archive.
type Extractor interface {
	Extract(ctx context.Context, archive *Archive) (EntrySet, error)
}

// ExtractFunc adapts a function to Extractor.
type ExtractFunc func(ctx context.Context, archive *Archive) (EntrySet, error)

// Extract implements Extractor.
func (f ExtractFunc) Extract(ctx context.Context, archive *Archive) (EntrySet, error) {
	return f(ctx, archive)
}

// Patcher transforms an archive given the extracted entries and the
// descriptor's configuration. Implementations must leave the input archive
// either untouched or fully patched, never partially.
type Patcher interface {
	Patch(ctx context.Context, archive *Archive, entries EntrySet, cfg PatchConfig) (*PatchedArchive, error)
}

// PatchFunc adapts a function to Patcher.
type PatchFunc func(ctx context.Context, archive *Archive, entries EntrySet, cfg PatchConfig) (*PatchedArchive, error)

// Patch implements Patcher.
func (f PatchFunc) Patch(ctx context.Context, archive *Archive, entries EntrySet, cfg PatchConfig) (*PatchedArchive, error) {
	return f(ctx, archive, entries, cfg)
}

func isNilBehavior(b any) bool {
	switch v := b.(type) {
	case nil:
		return true
	case ExtractFunc:
		return v == nil
	case PatchFunc:
		return v == nil
	default:
		return false
	}
}
