package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/types"
)

// Run syncs the runnable package name and hands the process over to
// its entry point with argv forwarded unchanged. On success Run never
// returns.
func (s Service) Run(ctx context.Context, name string, argv []string) error {
	desc := types.Descriptor{Name: name, Kind: types.KindRun}
	manifest, _, err := s.Sync(ctx, desc)
	if err != nil {
		return err
	}
	return s.Launcher.Launch(s.Cache.Dir(desc), manifest, argv)
}

// LibraryPath syncs the library package name and returns the resolved
// on-disk path of its importable code. This is the consumer surface
// for dynamic-loading hosts: the host runtime decides how to load the
// returned path.
func (s Service) LibraryPath(ctx context.Context, name string) (string, error) {
	desc := types.Descriptor{Name: name, Kind: types.KindLib}
	manifest, _, err := s.Sync(ctx, desc)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(manifest.Lib) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("missing lib path in manifest for package " + name)
	}
	return filepath.Join(s.Cache.Dir(desc), manifest.Lib), nil
}
