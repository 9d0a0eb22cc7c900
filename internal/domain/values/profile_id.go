// Package values contains domain value objects that encapsulate
// primitive types with validation.
package values

import (
	"fmt"
	"regexp"
	"strings"
)

var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ProfileID identifies a patch profile.
// Enforces non-empty, trimmed identifiers without whitespace or path separators.
type ProfileID struct {
	value string
}

// NewProfileID creates a ProfileID with validation
func NewProfileID(id string) (ProfileID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ProfileID{}, fmt.Errorf("profile id cannot be empty")
	}
	if !profileIDPattern.MatchString(id) {
		return ProfileID{}, fmt.Errorf("invalid profile id %q: must match %s", id, profileIDPattern.String())
	}
	return ProfileID{value: id}, nil
}

// MustNewProfileID creates a ProfileID or panics
func MustNewProfileID(id string) ProfileID {
	pid, err := NewProfileID(id)
	if err != nil {
		panic(err)
	}
	return pid
}

// String returns the string representation
func (p ProfileID) String() string {
	return p.value
}

// IsEmpty returns true if this is the zero value
func (p ProfileID) IsEmpty() bool {
	return p.value == ""
}

// Equals checks if two profile ids are equal
func (p ProfileID) Equals(other ProfileID) bool {
	return p.value == other.value
}

// Less orders profile ids lexically.
func (p ProfileID) Less(other ProfileID) bool {
	return p.value < other.value
}

// MarshalText implements encoding.TextMarshaler
func (p ProfileID) MarshalText() ([]byte, error) {
	return []byte(p.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ProfileID) UnmarshalText(data []byte) error {
	id, err := NewProfileID(string(data))
	if err != nil {
		return err
	}
	*p = id
	return nil
}
