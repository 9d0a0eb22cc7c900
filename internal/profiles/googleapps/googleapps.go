// Package googleapps contains device-independent Google Apps packages.
package googleapps

import (
	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/profiles/autopatch"
)

// Gummy returns the Gummy Google Apps profile. Gapps zips carry no kernel,
// so there is no boot image and no ramdisk configuration.
func Gummy(engine ports.PatchEngine) (*entities.Descriptor, error) {
	b := entities.NewDescriptorBuilder("gapps-gummy").
		Name("Gummy Google Apps").
		Pattern(`^gapps-kk-[0-9]{8}\.zip$`).
		BootImage(false)
	return autopatch.Bind(b, engine).Build()
}
