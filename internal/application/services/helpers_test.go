package services

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/stretchr/testify/require"
)

// NewTestLogger returns a logger that discards output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// recordingBehaviors records the order of behavior calls and the config
// handed to the patch behavior.
type recordingBehaviors struct {
	extractErr error
	patchErr   error
	entries    entities.EntrySet
	onExtract  func()
	calls      []string
	configs    []entities.PatchConfig
	mu         sync.Mutex
}

func (r *recordingBehaviors) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingBehaviors) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingBehaviors) extract(_ context.Context, a *entities.Archive) (entities.EntrySet, error) {
	r.record("extract:" + a.Name())
	if r.onExtract != nil {
		r.onExtract()
	}
	if r.extractErr != nil {
		return entities.EntrySet{}, r.extractErr
	}
	return r.entries, nil
}

func (r *recordingBehaviors) patch(_ context.Context, a *entities.Archive, entries entities.EntrySet, cfg entities.PatchConfig) (*entities.PatchedArchive, error) {
	r.record("patch:" + a.Name())
	r.mu.Lock()
	r.configs = append(r.configs, cfg)
	r.mu.Unlock()
	if r.patchErr != nil {
		return nil, r.patchErr
	}
	return &entities.PatchedArchive{Path: "out/" + a.Name(), Entries: entries}, nil
}

func buildDescriptor(t *testing.T, b *entities.DescriptorBuilder, rec *recordingBehaviors) *entities.Descriptor {
	t.Helper()
	d, err := b.
		Extract(entities.ExtractFunc(rec.extract)).
		Patch(entities.PatchFunc(rec.patch)).
		Build()
	require.NoError(t, err)
	return d
}
