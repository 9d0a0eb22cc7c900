package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// FormatProfiles writes the profile listing as YAML.
func (f *YAMLFormatter) FormatProfiles(profiles []dto.ProfileSummary) error {
	return f.encode(nonNil(profiles))
}

// FormatMatches writes match results as YAML.
func (f *YAMLFormatter) FormatMatches(matches []dto.MatchResult) error {
	return f.encode(nonNil(matches))
}

// FormatPatchResults writes patch results as YAML.
func (f *YAMLFormatter) FormatPatchResults(results []dto.PatchResult) error {
	return f.encode(nonNil(results))
}

func (f *YAMLFormatter) encode(v interface{}) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
