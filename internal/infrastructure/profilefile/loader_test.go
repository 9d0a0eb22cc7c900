package profilefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/version"
)

type stubEngine struct{}

func (stubEngine) ExtractPatchableEntries(context.Context, *entities.Archive) (entities.EntrySet, error) {
	return entities.NewEntrySet("boot.img"), nil
}

func (stubEngine) ApplyPatch(_ context.Context, a *entities.Archive, entries entities.EntrySet, _ entities.PatchConfig) (*entities.PatchedArchive, error) {
	return &entities.PatchedArchive{Path: a.Path(), Entries: entries}, nil
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(stubEngine{})
	require.NoError(t, err)
	return l
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_LoadSources(t *testing.T) {
	path := writeCatalog(t, `
profiles:
  - id: hammerhead-cm
    name: CyanogenMod (hammerhead)
    device: hammerhead
    pattern: 'cm-11-\d{8}-NIGHTLY-hammerhead\.zip'
    ramdisk: hammerhead/cm.def
  - id: any-gapps
    expr: 'Ext == ".zip" && Stem startsWith "pa_gapps-"'
    has_boot_image: false
`)

	sources, err := newTestLoader(t).LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	cm, err := sources[0].Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "hammerhead-cm", cm.ID().String())
	assert.Equal(t, "CyanogenMod (hammerhead)", cm.Name())
	assert.Equal(t, "hammerhead", cm.Device().String())
	assert.Equal(t, "hammerhead/cm.def", cm.Ramdisk())
	assert.True(t, cm.HasBootImage(), "boot image defaults to present")
	assert.True(t, sources[0].Matches("cm-11-20140101-NIGHTLY-hammerhead.zip"))
	assert.False(t, sources[0].Matches("cm-11-20140101-NIGHTLY-hammerhead.zip.bak"))

	gapps, err := sources[1].Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "any-gapps", gapps.Name(), "name defaults to the id")
	assert.False(t, gapps.HasBootImage())
	assert.True(t, sources[1].Matches("/sdcard/pa_gapps-full-4.4.zip"))
	assert.False(t, sources[1].Matches("pa_gapps-full-4.4.tar"))
}

func TestLoader_Parse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing profiles",
			content: "requires: '>= 0.1'\n",
			wantMsg: "catalog validation failed",
		},
		{
			name: "pattern and expr together",
			content: `
profiles:
  - id: both
    pattern: 'a\.zip'
    expr: 'Ext == ".zip"'
`,
			wantMsg: "/profiles/0",
		},
		{
			name: "neither pattern nor expr",
			content: `
profiles:
  - id: neither
`,
			wantMsg: "/profiles/0",
		},
		{
			name: "unknown field",
			content: `
profiles:
  - id: typo
    patern: 'a\.zip'
    pattern: 'a\.zip'
`,
			wantMsg: "/profiles/0",
		},
		{
			name: "invalid id",
			content: `
profiles:
  - id: '-leading-dash'
    pattern: 'a\.zip'
`,
			wantMsg: "/profiles/0/id",
		},
	}

	l := newTestLoader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoader_Parse_VersionConstraint(t *testing.T) {
	l := newTestLoader(t)
	l.build = version.Info{Version: "1.2.0"}

	_, err := l.Parse([]byte("requires: '>= 1.0, < 2.0'\nprofiles: []\n"))
	assert.NoError(t, err)

	_, err = l.Parse([]byte("requires: '>= 2.0'\nprofiles: []\n"))
	assert.ErrorContains(t, err, "requires mbpatch >= 2.0, running 1.2.0")

	_, err = l.Parse([]byte("requires: 'whenever'\nprofiles: []\n"))
	assert.ErrorContains(t, err, "invalid version constraint")
}

func TestLoader_InvalidEntryFailsLazily(t *testing.T) {
	sources, err := newTestLoader(t).LoadSources(writeCatalog(t, `
profiles:
  - id: broken
    pattern: '([unclosed'
  - id: fine
    pattern: 'fine\.zip'
`))
	require.NoError(t, err, "a bad regex passes the schema")
	require.Len(t, sources, 2)

	_, err = sources[0].Descriptor()
	var invalid *entities.InvalidDescriptorError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, sources[0].Matches("anything.zip"))

	_, err = sources[1].Descriptor()
	assert.NoError(t, err)
}

func TestLoader_LoadSources_MissingFile(t *testing.T) {
	_, err := newTestLoader(t).LoadSources(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read profile catalog")
}
