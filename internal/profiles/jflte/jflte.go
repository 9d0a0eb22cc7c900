// Package jflte contains ROM profiles for the Samsung Galaxy S4 (jflte).
package jflte

import (
	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/profiles/autopatch"
)

// Device is the family every profile in this package is scoped to.
const Device = "jflte"

// Ramdisk definitions shared by the jflte ROMs.
const (
	AOSPRamdisk          = "jflte/AOSP/AOSP.def"
	GoogleEditionRamdisk = "jflte/GoogleEdition/GoogleEdition.def"
)

// AOSP returns Broodplank's AOSP profile.
func AOSP(engine ports.PatchEngine) (*entities.Descriptor, error) {
	return build(engine, entities.NewDescriptorBuilder("jflte-aosp").
		Name("Broodplank's AOSP").
		Pattern(`^aosp[0-9]+-i9505-.*\.zip$`).
		Ramdisk(AOSPRamdisk))
}

// BAMAndroid returns the BAM Android profile.
func BAMAndroid(engine ports.PatchEngine) (*entities.Descriptor, error) {
	return build(engine, entities.NewDescriptorBuilder("jflte-bam-android").
		Name("BAM Android").
		Pattern(`^BAM-Rom.*\.zip$`).
		Ramdisk(AOSPRamdisk))
}

// GoogleEditionMaKTaiL returns MaKTaiL's Google Edition profile.
func GoogleEditionMaKTaiL(engine ports.PatchEngine) (*entities.Descriptor, error) {
	return build(engine, entities.NewDescriptorBuilder("jflte-ge-maktail").
		Name("MaKTaiL's Google Edition").
		Pattern(`^i9505-ge-untouched-4.3-.*.zip$`).
		Ramdisk(GoogleEditionRamdisk))
}

func build(engine ports.PatchEngine, b *entities.DescriptorBuilder) (*entities.Descriptor, error) {
	return autopatch.Bind(b.Device(Device), engine).Build()
}
