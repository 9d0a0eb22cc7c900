// Package dto contains data transfer objects for application layer use cases.
package dto

// PatchRequest identifies one archive to patch.
type PatchRequest struct {
	// ArchivePath is the location of the input ROM archive.
	ArchivePath string

	// Device is the target device family. Empty means unknown, in which
	// case every profile competes.
	Device string
}

// PatchOptions controls a batch of patch requests.
type PatchOptions struct {
	// Jobs limits concurrent dispatches (0 = number of CPUs).
	Jobs int
}
