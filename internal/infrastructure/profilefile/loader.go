// Package profilefile loads additional patch profiles from YAML catalog
// files. A catalog is validated against an embedded JSON Schema before any
// descriptor is built; individual entries that fail to build are reported
// by the registry and skipped.
package profilefile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/profiles"
	"github.com/multiboot-dev/mbpatch/internal/profiles/autopatch"
	"github.com/multiboot-dev/mbpatch/internal/version"
)

//go:embed schema.json
var catalogSchema []byte

const schemaURL = "profile-catalog.json"

// Catalog is the on-disk layout of a profile catalog file.
type Catalog struct {
	// Requires is an optional semver constraint on the mbpatch version.
	Requires string         `yaml:"requires"`
	Profiles []ProfileEntry `yaml:"profiles"`
}

// ProfileEntry is one profile definition in a catalog.
type ProfileEntry struct {
	// HasBootImage defaults to true when omitted.
	HasBootImage *bool  `yaml:"has_boot_image"`
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Device       string `yaml:"device"`
	Pattern      string `yaml:"pattern"`
	Expr         string `yaml:"expr"`
	Ramdisk      string `yaml:"ramdisk"`
}

// Loader reads catalog files and turns their entries into profile sources
// bound to a patch engine.
type Loader struct {
	engine ports.PatchEngine
	schema *jsonschema.Schema
	build  version.Info
}

// NewLoader compiles the catalog schema and returns a loader whose
// profiles delegate to engine.
func NewLoader(engine ports.PatchEngine) (*Loader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(schemaURL, bytes.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("failed to add catalog schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	return &Loader{engine: engine, schema: schema, build: version.Get()}, nil
}

// LoadSources implements ports.ProfileCatalogLoader.
func (l *Loader) LoadSources(path string) ([]entities.ProfileSource, error) {
	//nolint:gosec // G304: catalog paths come from the user's system config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile catalog %s: %w", path, err)
	}

	catalog, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile catalog %s: %w", path, err)
	}

	return l.Sources(catalog), nil
}

// Parse validates data against the catalog schema, checks the version
// constraint and decodes the catalog.
func (l *Loader) Parse(data []byte) (*Catalog, error) {
	if err := l.validate(data); err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	if catalog.Requires != "" {
		ok, err := l.build.Satisfies(catalog.Requires)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("requires mbpatch %s, running %s", catalog.Requires, l.build.Version)
		}
	}

	return &catalog, nil
}

// Sources builds one lazily evaluated source per catalog entry.
func (l *Loader) Sources(catalog *Catalog) []entities.ProfileSource {
	sources := make([]entities.ProfileSource, 0, len(catalog.Profiles))
	for _, entry := range catalog.Profiles {
		sources = append(sources, profiles.NewSource(l.factory(entry)))
	}
	return sources
}

func (l *Loader) factory(entry ProfileEntry) profiles.Factory {
	return func() (*entities.Descriptor, error) {
		b := entities.NewDescriptorBuilder(entry.ID).
			Name(entry.Name).
			Device(entry.Device).
			Ramdisk(entry.Ramdisk)

		if entry.Pattern != "" {
			b.Pattern(entry.Pattern)
		}
		if entry.Expr != "" {
			b.Expr(entry.Expr)
		}
		if entry.HasBootImage != nil {
			b.BootImage(*entry.HasBootImage)
		}

		return autopatch.Bind(b, l.engine).Build()
	}
}

func (l *Loader) validate(data []byte) error {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	if err := l.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError flattens the cause tree into one message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("catalog validation failed")
	}
	return fmt.Errorf("catalog validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
