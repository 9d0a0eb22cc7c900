// Package entities contains domain entities for the patch profile model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"

	"github.com/multiboot-dev/mbpatch/internal/domain/matching"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
)

// Descriptor describes one supported ROM/device variant and how to patch it.
//
// Invariants Enforced:
// - ID is a valid, non-empty ProfileID
// - Matcher is set and was well-formed when built
// - Extraction and patch behaviors are both set
//
// A Descriptor is immutable once built; all fields are reachable only
// through accessors. Descriptors perform no I/O themselves.
type Descriptor struct {
	matcher      matching.Matcher
	extractor    Extractor
	patcher      Patcher
	id           values.ProfileID
	name         string
	ramdisk      string
	device       values.DeviceFamily
	hasBootImage bool
}

// ID returns the unique profile identifier.
func (d *Descriptor) ID() values.ProfileID {
	return d.id
}

// Name returns the human-readable label.
func (d *Descriptor) Name() string {
	return d.name
}

// Device returns the device family the profile is scoped to.
func (d *Descriptor) Device() values.DeviceFamily {
	return d.device
}

// Matcher returns the filename predicate.
func (d *Descriptor) Matcher() matching.Matcher {
	return d.matcher
}

// Matches reports whether the descriptor is a candidate for filename.
// Callers pass the base name.
func (d *Descriptor) Matches(filename string) bool {
	return d.matcher.Matches(filename)
}

// Ramdisk returns the opaque ramdisk definition reference, or "" when the
// profile does not customize the ramdisk.
func (d *Descriptor) Ramdisk() string {
	return d.ramdisk
}

// HasRamdisk reports whether a ramdisk reference is configured.
func (d *Descriptor) HasRamdisk() bool {
	return d.ramdisk != ""
}

// HasBootImage reports whether the patch engine must rewrite a boot image.
func (d *Descriptor) HasBootImage() bool {
	return d.hasBootImage
}

// Extractor returns the extraction behavior.
func (d *Descriptor) Extractor() Extractor {
	return d.extractor
}

// Patcher returns the patch behavior.
func (d *Descriptor) Patcher() Patcher {
	return d.patcher
}

// PatchConfig returns the configuration threaded to the patch behavior.
func (d *Descriptor) PatchConfig() PatchConfig {
	return PatchConfig{
		Profile:      d.id,
		ProfileName:  d.name,
		Ramdisk:      d.ramdisk,
		HasBootImage: d.hasBootImage,
	}
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.id, d.name)
}

// DescriptorBuilder assembles a Descriptor and validates it in Build.
// The zero value is not usable; start from NewDescriptorBuilder.
type DescriptorBuilder struct {
	matcher      matching.Matcher
	extractor    Extractor
	patcher      Patcher
	id           string
	name         string
	pattern      string
	expr         string
	ramdisk      string
	device       string
	hasBootImage bool
	patternSet   bool
	exprSet      bool
}

// NewDescriptorBuilder starts a descriptor with the given identifier.
// Boot image presence defaults to true.
func NewDescriptorBuilder(id string) *DescriptorBuilder {
	return &DescriptorBuilder{
		id:           id,
		hasBootImage: true,
	}
}

// Name sets the display name. Defaults to the identifier.
func (b *DescriptorBuilder) Name(name string) *DescriptorBuilder {
	b.name = name
	return b
}

// Device scopes the descriptor to a device family.
func (b *DescriptorBuilder) Device(device string) *DescriptorBuilder {
	b.device = device
	return b
}

// Pattern sets an anchored regular expression matcher.
func (b *DescriptorBuilder) Pattern(pattern string) *DescriptorBuilder {
	b.pattern = pattern
	b.patternSet = true
	return b
}

// Expr sets an expression matcher.
func (b *DescriptorBuilder) Expr(source string) *DescriptorBuilder {
	b.expr = source
	b.exprSet = true
	return b
}

// Matcher sets a prebuilt matcher.
func (b *DescriptorBuilder) Matcher(m matching.Matcher) *DescriptorBuilder {
	b.matcher = m
	return b
}

// Ramdisk sets the ramdisk definition reference.
func (b *DescriptorBuilder) Ramdisk(ref string) *DescriptorBuilder {
	b.ramdisk = ref
	return b
}

// BootImage sets whether the archive carries a boot image to rewrite.
func (b *DescriptorBuilder) BootImage(present bool) *DescriptorBuilder {
	b.hasBootImage = present
	return b
}

// Extract sets the extraction behavior.
func (b *DescriptorBuilder) Extract(e Extractor) *DescriptorBuilder {
	b.extractor = e
	return b
}

// Patch sets the patch behavior.
func (b *DescriptorBuilder) Patch(p Patcher) *DescriptorBuilder {
	b.patcher = p
	return b
}

// Build validates the accumulated fields and returns an immutable
// Descriptor, or an *InvalidDescriptorError listing every problem found.
func (b *DescriptorBuilder) Build() (*Descriptor, error) {
	var problems []string

	id, err := values.NewProfileID(b.id)
	if err != nil {
		problems = append(problems, err.Error())
	}

	device, err := values.NewDeviceFamily(b.device)
	if err != nil {
		problems = append(problems, err.Error())
	}

	matcher, err := b.buildMatcher()
	if err != nil {
		problems = append(problems, err.Error())
	}

	if isNilBehavior(b.extractor) {
		problems = append(problems, "extraction behavior is not set")
	}
	if isNilBehavior(b.patcher) {
		problems = append(problems, "patch behavior is not set")
	}

	if len(problems) > 0 {
		return nil, NewInvalidDescriptorError(b.id, problems...)
	}

	name := b.name
	if name == "" {
		name = id.String()
	}

	return &Descriptor{
		id:           id,
		name:         name,
		device:       device,
		matcher:      matcher,
		ramdisk:      b.ramdisk,
		hasBootImage: b.hasBootImage,
		extractor:    b.extractor,
		patcher:      b.patcher,
	}, nil
}

func (b *DescriptorBuilder) buildMatcher() (matching.Matcher, error) {
	set := 0
	for _, ok := range []bool{b.matcher != nil, b.patternSet, b.exprSet} {
		if ok {
			set++
		}
	}

	switch {
	case set == 0:
		return nil, fmt.Errorf("matcher is not set")
	case set > 1:
		return nil, fmt.Errorf("exactly one of matcher, pattern or expression may be set")
	case b.patternSet:
		return matching.NewRegexMatcher(b.pattern)
	case b.exprSet:
		return matching.NewExprMatcher(b.expr)
	default:
		return b.matcher, nil
	}
}
