package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/multiboot-dev/mbpatch/internal/domain/matching"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
)

// ErrArchiveInUse is returned when a second dispatch tries to claim an
// archive handle that is already owned by a running dispatch.
var ErrArchiveInUse = errors.New("archive is already owned by another dispatch")

// Archive is a handle on an input ROM archive. The registry and dispatch
// layers never read its bytes; only the patch engine does.
type Archive struct {
	path   string
	device values.DeviceFamily
	owned  atomic.Bool
}

// NewArchive creates a handle for the archive at path targeting device.
func NewArchive(path string, device values.DeviceFamily) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path cannot be empty")
	}
	return &Archive{path: path, device: device}, nil
}

// Path returns the archive location as given.
func (a *Archive) Path() string {
	return a.path
}

// Name returns the base name used for profile matching.
func (a *Archive) Name() string {
	return matching.Basename(a.path)
}

// Device returns the target device family, if known.
func (a *Archive) Device() values.DeviceFamily {
	return a.device
}

// Acquire claims exclusive ownership of the handle.
func (a *Archive) Acquire() error {
	if !a.owned.CompareAndSwap(false, true) {
		return ErrArchiveInUse
	}
	return nil
}

// Release gives up ownership claimed by Acquire.
func (a *Archive) Release() {
	a.owned.Store(false)
}

// EntrySet is the sorted, de-duplicated set of archive entries eligible for
// patching. The zero value is an empty set.
type EntrySet struct {
	names []string
}

// NewEntrySet builds a set from entry names. Empty names are dropped.
func NewEntrySet(names ...string) EntrySet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return EntrySet{names: out}
}

// Names returns a copy of the entry names in sorted order.
func (s EntrySet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of entries.
func (s EntrySet) Len() int {
	return len(s.names)
}

// IsEmpty reports whether no entries are eligible.
func (s EntrySet) IsEmpty() bool {
	return len(s.names) == 0
}

// Contains reports whether name is in the set.
func (s EntrySet) Contains(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// Filter returns the subset of entries satisfying keep.
func (s EntrySet) Filter(keep func(name string) bool) EntrySet {
	var out []string
	for _, n := range s.names {
		if keep(n) {
			out = append(out, n)
		}
	}
	return EntrySet{names: out}
}

// PatchConfig is the descriptor configuration threaded to a patch behavior.
type PatchConfig struct {
	Profile      values.ProfileID
	ProfileName  string
	Ramdisk      string
	HasBootImage bool
}

// PatchedArchive is the result of a successful patch.
type PatchedArchive struct {
	Path    string
	Digest  values.Digest
	Entries EntrySet
}
