package patchengine

import (
	"bytes"
	"fmt"
	"path"

	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
)

// UpdaterScript is the installer script of a flashable zip.
const UpdaterScript = "META-INF/com/google/android/updater-script"

// BootImage is the base name of kernel/ramdisk images.
const BootImage = "boot.img"

// markerPrefix starts the first line of every rewritten updater-script.
const markerPrefix = "# mbpatch:"

// EntryRewriter transforms the content of one eligible entry.
type EntryRewriter interface {
	// Applies reports whether the rewriter handles the entry.
	Applies(name string) bool

	// Rewrite returns the new content of the entry.
	Rewrite(name string, data []byte, cfg entities.PatchConfig) ([]byte, error)
}

// UpdaterScriptMarker stamps the updater-script with the profile that
// patched it. Stamping an already stamped script replaces the stamp.
type UpdaterScriptMarker struct{}

// Applies implements EntryRewriter.
func (UpdaterScriptMarker) Applies(name string) bool {
	return name == UpdaterScript
}

// Rewrite implements EntryRewriter.
func (UpdaterScriptMarker) Rewrite(_ string, data []byte, cfg entities.PatchConfig) ([]byte, error) {
	for bytes.HasPrefix(data, []byte(markerPrefix)) {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			data = nil
			break
		}
		data = data[i+1:]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s profile=%s", markerPrefix, cfg.Profile)
	if cfg.Ramdisk != "" {
		fmt.Fprintf(&buf, " ramdisk=%s", cfg.Ramdisk)
	}
	buf.WriteByte('\n')
	buf.Write(data)
	return buf.Bytes(), nil
}

func isEligible(name string) bool {
	return name == UpdaterScript || path.Base(name) == BootImage
}

func isBootImage(name string) bool {
	return path.Base(name) == BootImage
}
