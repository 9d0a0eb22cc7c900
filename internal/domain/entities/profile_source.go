package entities

// ProfileSource is the contract a ROM-variant contributor implements.
// The registry consumes sources during its build phase.
type ProfileSource interface {
	// Matches reports whether filename (a base name) belongs to this source.
	Matches(filename string) bool

	// Descriptor returns the validated descriptor for this source.
	Descriptor() (*Descriptor, error)
}
