package ports

import "rpk/internal/types"

// SettingsPort loads the client configuration (shared secret, remote
// host and port) from its fixed location. A missing file or missing
// key is CodeFailedPrecondition: the client cannot run without it.
type SettingsPort interface {
	Load(path string) (types.Settings, error)
}
