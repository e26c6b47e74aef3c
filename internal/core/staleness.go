package core

// UpToDate reports whether a cached package matches the remote. The
// policy is exact version-string equality: the server is the authority
// on what "current" means, so no ordering semantics are applied.
// An empty local version (nothing cached) is never up to date.
func UpToDate(localVersion string, remoteVersion string) bool {
	if localVersion == "" {
		return false
	}
	return localVersion == remoteVersion
}
