package output

import (
	"encoding/json"
	"io"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// FormatProfiles writes the profile listing as JSON.
func (f *JSONFormatter) FormatProfiles(profiles []dto.ProfileSummary) error {
	return f.write(nonNil(profiles))
}

// FormatMatches writes match results as JSON.
func (f *JSONFormatter) FormatMatches(matches []dto.MatchResult) error {
	return f.write(nonNil(matches))
}

// FormatPatchResults writes patch results as JSON.
func (f *JSONFormatter) FormatPatchResults(results []dto.PatchResult) error {
	return f.write(nonNil(results))
}

func (f *JSONFormatter) write(v interface{}) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = f.writer.Write(data)
	if err != nil {
		return err
	}

	// Add newline for better terminal output
	_, err = f.writer.Write([]byte("\n"))
	return err
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
