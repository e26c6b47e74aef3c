package ports

import "rpk/internal/types"

// LauncherPort hands the process over to a synced package's entry
// point. On success Launch never returns: the current process image is
// replaced by the resolved executable with argv forwarded unchanged
// and the cache directory prepended to the runtime's module search
// path. A manifest without an entry point yields
// CodeFailedPrecondition.
type LauncherPort interface {
	Launch(cacheDir string, manifest types.Manifest, argv []string) error
}
