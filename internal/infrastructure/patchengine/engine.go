// Package patchengine is the reference patch engine for flashable zips.
// It never modifies the input archive: output is written to a temporary
// file next to the destination and renamed into place only when complete.
package patchengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/zip"

	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
	"github.com/multiboot-dev/mbpatch/internal/version"
)

// ManifestEntry is the name of the patch manifest added to every output.
const ManifestEntry = "multiboot/patchinfo.yaml"

var (
	// ErrMissingBootImage is returned when a profile expects a boot image
	// but the archive has none.
	ErrMissingBootImage = errors.New("archive has no boot image")

	// ErrOutputExists is returned when the output exists and may not be
	// replaced.
	ErrOutputExists = errors.New("output already exists")
)

// Options configures the zip engine.
type Options struct {
	// Confirmer is asked before replacing an existing output. Nil means
	// existing outputs are never replaced unless Overwrite is set.
	Confirmer ports.OverwriteConfirmer

	// OutputDir receives patched archives. Empty means the directory of
	// the input archive.
	OutputDir string

	// Suffix is appended to the input stem.
	Suffix string

	// Rewriters transform eligible entries, in order. Nil means the
	// default set.
	Rewriters []EntryRewriter

	// Overwrite replaces existing outputs without asking.
	Overwrite bool
}

// Manifest records how an output archive was produced.
type Manifest struct {
	Profile      string   `yaml:"profile"`
	Name         string   `yaml:"name"`
	Ramdisk      string   `yaml:"ramdisk,omitempty"`
	Source       string   `yaml:"source"`
	SourceDigest string   `yaml:"source_digest"`
	Tool         string   `yaml:"tool"`
	Entries      []string `yaml:"entries"`
	HasBootImage bool     `yaml:"has_boot_image"`
}

// ZipEngine implements ports.PatchEngine for zip archives.
type ZipEngine struct {
	logger *slog.Logger
	opts   Options
}

// DefaultRewriters returns the rewriters used when Options leaves them unset.
func DefaultRewriters() []EntryRewriter {
	return []EntryRewriter{UpdaterScriptMarker{}}
}

// NewZipEngine creates a zip engine.
func NewZipEngine(opts Options, logger *slog.Logger) *ZipEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Rewriters == nil {
		opts.Rewriters = DefaultRewriters()
	}
	return &ZipEngine{opts: opts, logger: logger}
}

// ExtractPatchableEntries implements ports.PatchEngine.
func (e *ZipEngine) ExtractPatchableEntries(ctx context.Context, archive *entities.Archive) (entities.EntrySet, error) {
	r, err := zip.OpenReader(archive.Path())
	if err != nil {
		return entities.EntrySet{}, fmt.Errorf("failed to open %s as zip: %w", archive.Path(), err)
	}
	defer func() { _ = r.Close() }()

	var names []string
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return entities.EntrySet{}, err
		}
		if isEligible(f.Name) {
			names = append(names, f.Name)
		}
	}

	entries := entities.NewEntrySet(names...)
	e.logger.Debug("extracted patchable entries", "archive", archive.Name(), "entries", entries.Len())
	return entries, nil
}

// OutputPath returns where the patched form of archive is written.
func (e *ZipEngine) OutputPath(archive *entities.Archive) string {
	dir := e.opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(archive.Path())
	}
	name := archive.Name()
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, stem+e.opts.Suffix+".zip")
}

// ApplyPatch implements ports.PatchEngine.
func (e *ZipEngine) ApplyPatch(ctx context.Context, archive *entities.Archive, entries entities.EntrySet, cfg entities.PatchConfig) (*entities.PatchedArchive, error) {
	if cfg.HasBootImage && entries.Filter(isBootImage).IsEmpty() {
		return nil, ErrMissingBootImage
	}

	out := e.OutputPath(archive)
	if filepath.Clean(out) == filepath.Clean(archive.Path()) {
		return nil, fmt.Errorf("output %s would replace the input archive", out)
	}
	if err := e.checkOverwrite(out); err != nil {
		return nil, err
	}

	sourceDigest, err := values.DigestFile(archive.Path())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(out), ".mbpatch-*.zip")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary output: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	manifest := Manifest{
		Profile:      cfg.Profile.String(),
		Name:         cfg.ProfileName,
		Ramdisk:      cfg.Ramdisk,
		HasBootImage: cfg.HasBootImage,
		Source:       archive.Name(),
		SourceDigest: sourceDigest.String(),
		Tool:         "mbpatch " + version.Get().String(),
		Entries:      entries.Names(),
	}
	if err := e.rewrite(ctx, archive.Path(), tmp, entries, cfg, manifest); err != nil {
		return nil, err
	}

	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output: %w", err)
	}

	digest, err := values.DigestFile(tmp.Name())
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmp.Name(), out); err != nil {
		return nil, fmt.Errorf("failed to move output into place: %w", err)
	}
	committed = true

	e.logger.Debug("patched archive written",
		"archive", archive.Name(),
		"profile", cfg.Profile.String(),
		"output", out,
		"digest", digest.Short())

	return &entities.PatchedArchive{Path: out, Digest: digest, Entries: entries}, nil
}

func (e *ZipEngine) checkOverwrite(out string) error {
	if _, err := os.Stat(out); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to stat output: %w", err)
	}

	if e.opts.Overwrite {
		return nil
	}
	if e.opts.Confirmer == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, out)
	}

	ok, err := e.opts.Confirmer.ConfirmOverwrite(out)
	if err != nil {
		return fmt.Errorf("overwrite confirmation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s (replacement declined)", ErrOutputExists, out)
	}
	return nil
}

func (e *ZipEngine) rewrite(ctx context.Context, src string, dst io.Writer, entries entities.EntrySet, cfg entities.PatchConfig, manifest Manifest) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open %s as zip: %w", src, err)
	}
	defer func() { _ = r.Close() }()

	w := zip.NewWriter(dst)
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Name == ManifestEntry {
			continue
		}
		if !entries.Contains(f.Name) {
			if err := w.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}
		if err := e.rewriteEntry(w, f, cfg); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	mw, err := w.Create(ManifestEntry)
	if err != nil {
		return fmt.Errorf("failed to add manifest: %w", err)
	}
	if _, err := mw.Write(data); err != nil {
		return fmt.Errorf("failed to add manifest: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish output zip: %w", err)
	}
	return nil
}

func (e *ZipEngine) rewriteEntry(w *zip.Writer, f *zip.File, cfg entities.PatchConfig) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}

	for _, rw := range e.opts.Rewriters {
		if !rw.Applies(f.Name) {
			continue
		}
		if data, err = rw.Rewrite(f.Name, data, cfg); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", f.Name, err)
		}
	}

	header := f.FileHeader
	header.Method = zip.Deflate
	out, err := w.CreateHeader(&header)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return nil
}
