package entities

import (
	"errors"
	"testing"

	"github.com/multiboot-dev/mbpatch/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntrySet(t *testing.T) {
	s := NewEntrySet("boot.img", "META-INF/com/google/android/updater-script", "boot.img", "")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"META-INF/com/google/android/updater-script", "boot.img"}, s.Names())
	assert.True(t, s.Contains("boot.img"))
	assert.False(t, s.Contains("system/build.prop"))
	assert.True(t, EntrySet{}.IsEmpty())
}

func TestEntrySet_NamesIsCopy(t *testing.T) {
	s := NewEntrySet("a", "b")
	names := s.Names()
	names[0] = "z"

	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestEntrySet_Filter(t *testing.T) {
	s := NewEntrySet("boot.img", "kernel/boot.img", "updater-script")
	images := s.Filter(func(n string) bool { return n != "updater-script" })

	assert.Equal(t, []string{"boot.img", "kernel/boot.img"}, images.Names())
}

func TestArchive(t *testing.T) {
	a, err := NewArchive("/sdcard/roms/aosp4-i9505-build.zip", values.DeviceFamily("jflte"))
	require.NoError(t, err)

	assert.Equal(t, "aosp4-i9505-build.zip", a.Name())
	assert.Equal(t, values.DeviceFamily("jflte"), a.Device())

	_, err = NewArchive("  ", values.AnyDevice)
	assert.Error(t, err)
}

func TestArchive_ExclusiveOwnership(t *testing.T) {
	a, err := NewArchive("rom.zip", values.AnyDevice)
	require.NoError(t, err)

	require.NoError(t, a.Acquire())
	assert.True(t, errors.Is(a.Acquire(), ErrArchiveInUse))

	a.Release()
	assert.NoError(t, a.Acquire())
}

func TestDispatchState_Transitions(t *testing.T) {
	tests := []struct {
		from DispatchState
		to   DispatchState
		want bool
	}{
		{DispatchCreated, DispatchExtracted, true},
		{DispatchCreated, DispatchFailed, true},
		{DispatchCreated, DispatchPatched, false},
		{DispatchExtracted, DispatchPatched, true},
		{DispatchExtracted, DispatchFailed, true},
		{DispatchExtracted, DispatchCreated, false},
		{DispatchPatched, DispatchDone, true},
		{DispatchPatched, DispatchFailed, false},
		{DispatchDone, DispatchCreated, false},
		{DispatchFailed, DispatchExtracted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}

	assert.True(t, DispatchDone.IsTerminal())
	assert.True(t, DispatchFailed.IsTerminal())
	assert.False(t, DispatchExtracted.IsTerminal())
	assert.Error(t, DispatchState("bogus").Validate())
}

func TestErrorMessages(t *testing.T) {
	amb := &AmbiguousProfileError{
		Filename:   "aosp4-i9505-build.zip",
		Candidates: []values.ProfileID{values.MustNewProfileID("a"), values.MustNewProfileID("b")},
	}
	assert.Equal(t, `ambiguous archive "aosp4-i9505-build.zip": matched by 2 profiles (a, b)`, amb.Error())

	none := &NoMatchingProfileError{Filename: "random-file.zip"}
	assert.Equal(t, `unsupported archive "random-file.zip": no matching profile`, none.Error())

	cause := errors.New("disk full")
	pf := &PatchFailedError{Cause: cause, ProfileID: values.MustNewProfileID("a"), Archive: "x.zip"}
	assert.ErrorIs(t, pf, cause)
	assert.Contains(t, pf.Error(), "profile a")
}
