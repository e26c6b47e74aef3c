package adapters

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/ports"
)

// PipInstallerAdapter installs dependency specifiers with pip into a
// target directory, the same directory the package was extracted to.
type PipInstallerAdapter struct {
	Pip string
}

func NewPipInstallerAdapter() PipInstallerAdapter {
	return PipInstallerAdapter{Pip: "pip"}
}

func (a PipInstallerAdapter) Install(ctx context.Context, targetDir string, specifier string, logOutput io.Writer) error {
	args := []string{"install", "--no-warn-conflicts", "--target", targetDir, specifier}
	cmd := exec.CommandContext(ctx, a.Pip, args...)
	cmd.Stdout = logOutput
	cmd.Stderr = logOutput
	if err := cmd.Run(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dependency install failed: " + specifier).
			WithCause(err)
	}
	return nil
}

// CommandLine renders the install invocation for logging before it
// runs.
func (a PipInstallerAdapter) CommandLine(targetDir string, specifier string) string {
	return strings.Join([]string{a.Pip, "install", "--no-warn-conflicts", "--target", targetDir, specifier}, " ")
}

var _ ports.InstallerPort = PipInstallerAdapter{}
