package ports

import (
	"context"
	"io"
)

// InstallerPort installs one third-party dependency specifier into a
// target directory through an external installer, streaming the
// installer's combined output into the given log writer. A non-zero
// installer exit is returned as CodeInternal.
type InstallerPort interface {
	Install(ctx context.Context, targetDir string, specifier string, logOutput io.Writer) error

	// CommandLine renders the installer invocation for logging before
	// it runs.
	CommandLine(targetDir string, specifier string) string
}
