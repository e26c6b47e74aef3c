package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/ports"
	"rpk/internal/types"
)

// pythonPathEnv is the runtime module-search variable the cache
// directory is prepended to before handing off.
const pythonPathEnv = "PYTHONPATH"

// ExecLauncherAdapter replaces the current process image with a synced
// package's entry point. Launch only returns on failure.
type ExecLauncherAdapter struct{}

func NewExecLauncherAdapter() ExecLauncherAdapter {
	return ExecLauncherAdapter{}
}

func (a ExecLauncherAdapter) Launch(cacheDir string, manifest types.Manifest, argv []string) error {
	if strings.TrimSpace(manifest.Run) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("missing run entry point in manifest")
	}
	entry := filepath.Join(cacheDir, manifest.Run)
	if _, err := os.Stat(entry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("entry point does not exist: " + entry).
			WithCause(err)
	}
	env := prependPathVar(os.Environ(), pythonPathEnv, cacheDir)
	args := append([]string{entry}, argv...)
	if err := syscall.Exec(entry, args, env); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to exec entry point: " + entry).
			WithCause(err)
	}
	return nil
}

// prependPathVar returns a copy of env with dir prepended to the named
// os.PathListSeparator-delimited variable, creating it when absent.
func prependPathVar(env []string, name string, dir string) []string {
	prefix := name + "="
	out := make([]string, 0, len(env)+1)
	found := false
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			value := strings.TrimPrefix(entry, prefix)
			if value == "" {
				entry = prefix + dir
			} else {
				entry = prefix + dir + string(os.PathListSeparator) + value
			}
			found = true
		}
		out = append(out, entry)
	}
	if !found {
		out = append(out, prefix+dir)
	}
	return out
}

var _ ports.LauncherPort = ExecLauncherAdapter{}
