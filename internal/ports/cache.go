package ports

import "rpk/internal/types"

// CachePort is the on-disk representation of synchronized packages.
// One descriptor maps to one directory holding the extracted files,
// the manifest and the per-sync log. Replacement is discard-then-
// populate: Discard removes the whole entry, Prepare recreates an
// empty directory, Extract unpacks a decrypted archive into it.
type CachePort interface {
	// Dir returns the cache directory for a descriptor. The directory
	// may not exist yet.
	Dir(desc types.Descriptor) string

	// LogPath returns the path of the per-sync log file inside the
	// cache entry.
	LogPath(desc types.Descriptor) string

	// ReadManifest loads the persisted manifest. A missing or
	// unparsable manifest yields CodeNotFound: the entry is treated as
	// never cached.
	ReadManifest(desc types.Descriptor) (types.Manifest, error)

	// WriteManifest overwrites just the manifest file in place.
	WriteManifest(desc types.Descriptor, manifest types.Manifest) error

	// Discard removes the cache entry entirely. Removing an absent
	// entry is not an error.
	Discard(desc types.Descriptor) error

	// Prepare creates an empty cache directory for the descriptor.
	Prepare(desc types.Descriptor) error

	// Extract unpacks a gzip-compressed tar archive into the cache
	// directory, then parses and returns the manifest shipped in it.
	// An archive without a manifest yields CodeInvalidArgument and
	// leaves the directory as extracted so a later sync retries from
	// scratch.
	Extract(desc types.Descriptor, archive []byte) (types.Manifest, error)
}
