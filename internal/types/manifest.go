package types

// Manifest is the metadata document shipped at the root of every
// package archive and persisted in the cache entry. InstallDate is
// empty until a sync completes; its presence is the proof that the
// entry is fully extracted and dependency-complete.
type Manifest struct {
	Version      string   `json:"version"`
	BuildDate    string   `json:"build_date"`
	Run          string   `json:"run,omitempty"`
	Lib          string   `json:"lib,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	InstallDate  string   `json:"install_date,omitempty"`
}

// Installed reports whether the manifest carries the completion
// marker written after a successful sync.
func (m Manifest) Installed() bool {
	return m.InstallDate != ""
}
