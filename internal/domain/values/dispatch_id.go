package values

import (
	"fmt"

	"github.com/google/uuid"
)

// DispatchID uniquely identifies one dispatch of an archive through a profile.
type DispatchID struct {
	value uuid.UUID
}

// NewDispatchID creates a new random dispatch ID
func NewDispatchID() DispatchID {
	return DispatchID{value: uuid.New()}
}

// ParseDispatchID parses a string into a DispatchID
func ParseDispatchID(s string) (DispatchID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DispatchID{}, fmt.Errorf("invalid dispatch ID: %w", err)
	}
	return DispatchID{value: id}, nil
}

// String returns the string representation
func (d DispatchID) String() string {
	return d.value.String()
}

// IsZero returns true if this is the zero value
func (d DispatchID) IsZero() bool {
	return d.value == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler
func (d DispatchID) MarshalText() ([]byte, error) {
	return []byte(d.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *DispatchID) UnmarshalText(data []byte) error {
	id, err := ParseDispatchID(string(data))
	if err != nil {
		return err
	}
	*d = id
	return nil
}
