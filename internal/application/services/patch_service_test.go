package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	domainservices "github.com/multiboot-dev/mbpatch/internal/domain/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, rec *recordingBehaviors) *PatchService {
	t.Helper()

	registry := domainservices.NewProfileRegistry(NewTestLogger())
	builders := []*entities.DescriptorBuilder{
		entities.NewDescriptorBuilder("gapps-gummy").
			Name("Gummy Google Apps").
			Pattern(`^gapps-kk-[0-9]{8}\.zip$`).
			BootImage(false),
		entities.NewDescriptorBuilder("jflte-aosp").
			Name("Broodplank's AOSP").
			Device("jflte").
			Pattern(`^aosp[0-9]+-i9505-.*\.zip$`).
			Ramdisk("jflte/AOSP/AOSP.def"),
		entities.NewDescriptorBuilder("jflte-wide").
			Device("jflte").
			Pattern(`^wide-.*\.zip$`),
		entities.NewDescriptorBuilder("hlte-wide").
			Device("hlte").
			Pattern(`^wide-.*\.zip$`),
	}
	for _, b := range builders {
		require.NoError(t, registry.Register(buildDescriptor(t, b, rec)))
	}

	return NewPatchService(registry, NewDispatcher(NewTestLogger()), NewTestLogger())
}

func TestPatchService_ListProfiles(t *testing.T) {
	svc := newTestService(t, &recordingBehaviors{})

	profiles := svc.ListProfiles()
	require.Len(t, profiles, 4)
	assert.Equal(t, "gapps-gummy", profiles[0].ID)
	assert.Equal(t, "Gummy Google Apps", profiles[0].Name)
	assert.False(t, profiles[0].HasBootImage)
	assert.Equal(t, "hlte-wide", profiles[1].ID)
	assert.Equal(t, "jflte/AOSP/AOSP.def", profiles[2].Ramdisk)
}

func TestPatchService_Match(t *testing.T) {
	svc := newTestService(t, &recordingBehaviors{})

	t.Run("single", func(t *testing.T) {
		m := svc.Match("gapps-kk-20140615.zip", "")
		assert.Equal(t, "gapps-gummy", m.ProfileID)
		assert.Empty(t, m.Error)
	})

	t.Run("ambiguous lists candidates", func(t *testing.T) {
		m := svc.Match("wide-1.zip", "")
		assert.Empty(t, m.ProfileID)
		assert.Equal(t, []string{"hlte-wide", "jflte-wide"}, m.Candidates)
		assert.Contains(t, m.Error, "ambiguous")
	})

	t.Run("device narrows", func(t *testing.T) {
		m := svc.Match("wide-1.zip", "hlte")
		assert.Equal(t, "hlte-wide", m.ProfileID)
	})

	t.Run("unsupported", func(t *testing.T) {
		m := svc.Match("random-file.zip", "")
		assert.Contains(t, m.Error, "no matching profile")
	})

	t.Run("bad device", func(t *testing.T) {
		m := svc.Match("random-file.zip", "a/b")
		assert.Contains(t, m.Error, "invalid device family")
	})
}

func TestPatchService_Patch(t *testing.T) {
	rec := &recordingBehaviors{entries: entities.NewEntrySet("META-INF/com/google/android/updater-script")}
	svc := newTestService(t, rec)

	result := svc.Patch(context.Background(), dto.PatchRequest{ArchivePath: "/tmp/gapps-kk-20140615.zip"})
	require.NoError(t, result.Err)

	assert.Equal(t, "gapps-gummy", result.ProfileID)
	assert.Equal(t, entities.DispatchDone, result.State)
	assert.Equal(t, "out/gapps-kk-20140615.zip", result.OutputPath)
	assert.NotEmpty(t, result.DispatchID)
	assert.Equal(t, []string{"META-INF/com/google/android/updater-script"}, result.Entries)

	require.Len(t, rec.configs, 1)
	assert.Empty(t, rec.configs[0].Ramdisk, "gapps has no ramdisk configuration")
	assert.False(t, rec.configs[0].HasBootImage)
}

func TestPatchService_PatchResolutionErrors(t *testing.T) {
	rec := &recordingBehaviors{}
	svc := newTestService(t, rec)

	result := svc.Patch(context.Background(), dto.PatchRequest{ArchivePath: "random-file.zip"})
	var noMatch *entities.NoMatchingProfileError
	assert.ErrorAs(t, result.Err, &noMatch)
	assert.Equal(t, entities.DispatchFailed, result.State)
	assert.True(t, result.Failed())

	result = svc.Patch(context.Background(), dto.PatchRequest{ArchivePath: "wide-2.zip"})
	var amb *entities.AmbiguousProfileError
	assert.ErrorAs(t, result.Err, &amb)

	assert.Empty(t, rec.Calls(), "nothing is dispatched for unresolved archives")
}

func TestPatchService_PatchAll(t *testing.T) {
	rec := &recordingBehaviors{}
	svc := newTestService(t, rec)

	var reqs []dto.PatchRequest
	for i := 0; i < 8; i++ {
		reqs = append(reqs, dto.PatchRequest{ArchivePath: fmt.Sprintf("aosp%d-i9505-nightly.zip", i)})
	}
	reqs = append(reqs,
		dto.PatchRequest{ArchivePath: "random-file.zip"},
		dto.PatchRequest{ArchivePath: "wide-1.zip", Device: "jflte"},
	)

	results := svc.PatchAll(context.Background(), reqs, dto.PatchOptions{Jobs: 3})
	require.Len(t, results, len(reqs))

	for i := 0; i < 8; i++ {
		assert.Equal(t, reqs[i].ArchivePath, results[i].ArchivePath, "results keep request order")
		assert.NoError(t, results[i].Err)
		assert.Equal(t, "jflte-aosp", results[i].ProfileID)
	}
	assert.Error(t, results[8].Err)
	assert.NoError(t, results[9].Err)
	assert.Equal(t, "jflte-wide", results[9].ProfileID)

	assert.Len(t, rec.Calls(), 18)
}

func TestPatchService_PatchAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recordingBehaviors{}
	svc := newTestService(t, rec)

	results := svc.PatchAll(ctx, []dto.PatchRequest{
		{ArchivePath: "aosp1-i9505-a.zip"},
		{ArchivePath: "aosp2-i9505-b.zip"},
	}, dto.PatchOptions{})

	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Equal(t, entities.DispatchFailed, r.State)
	}
	assert.Empty(t, rec.Calls())
}
