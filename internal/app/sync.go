package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rpk/internal/adapters"
	"rpk/internal/core"
	"rpk/internal/types"
)

// Sync brings the cache entry for desc in line with the remote.
//
// It returns the manifest now governing the entry and true iff a new
// version was downloaded and fully persisted. False means the entry
// was already current, or the server was unreachable and the cached
// entry was kept as a fallback (with a warning). When the server is
// unreachable and nothing is cached the error carries CodeUnavailable;
// when the server reports no such package it carries CodeNotFound so a
// dynamic-loading caller can translate it into its own not-found
// signal.
//
// Callers must serialize concurrent syncs of the same descriptor
// externally: cache replacement is discard-then-populate with no
// locking, so two simultaneous syncs of one package race on the cache
// directory.
func (s Service) Sync(ctx context.Context, desc types.Descriptor) (types.Manifest, bool, error) {
	logfile := adapters.NewLogfile(s.Debug)
	defer logfile.Close()
	return s.sync(ctx, desc, logfile)
}

func (s Service) sync(ctx context.Context, desc types.Descriptor, logfile *adapters.Logfile) (types.Manifest, bool, error) {
	if err := validateDescriptor(ctx, desc); err != nil {
		return types.Manifest{}, false, err
	}

	logfile.Log(fmt.Sprintf("check if package %q has changed", desc.Name))
	remote, err := s.Transport.Info(ctx, desc)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeUnavailable {
			if cached, cacheErr := s.Cache.ReadManifest(desc); cacheErr == nil {
				log.Warn().Str("package", desc.Name).Msg("unable to reach server")
				log.Warn().Str("package", desc.Name).Msg("falling back on cached package")
				s.logManifest(logfile, cached)
				return cached, false, nil
			}
		}
		return types.Manifest{}, false, err
	}

	local, localErr := s.Cache.ReadManifest(desc)
	if localErr == nil && local.Installed() && core.UpToDate(local.Version, remote.Version) {
		logfile.Log(fmt.Sprintf("local version: %s / remote version: %s", local.Version, remote.Version))
		logfile.Log("package is up-to-date")
		s.logManifest(logfile, local)
		return local, false, nil
	}

	logfile.Log(fmt.Sprintf("package %q was updated to version %s", desc.Name, remote.Version))

	if err := s.Cache.Discard(desc); err != nil {
		return types.Manifest{}, false, err
	}
	if err := s.Cache.Prepare(desc); err != nil {
		return types.Manifest{}, false, err
	}
	if err := logfile.Connect(s.Cache.LogPath(desc)); err != nil {
		return types.Manifest{}, false, err
	}

	logfile.Log(fmt.Sprintf("download package %q", desc.Name))
	ciphertext, err := s.Transport.Download(ctx, desc)
	if err != nil {
		return types.Manifest{}, false, err
	}
	archive, err := s.Crypto.Decrypt(ciphertext)
	if err != nil {
		return types.Manifest{}, false, err
	}

	dir := s.Cache.Dir(desc)
	logfile.Log(fmt.Sprintf("extract package %q to %q", desc.Name, dir))
	manifest, err := s.Cache.Extract(desc, archive)
	if err != nil {
		return types.Manifest{}, false, err
	}
	s.logManifest(logfile, manifest)

	if err := s.installDependencies(ctx, desc, manifest, logfile); err != nil {
		return types.Manifest{}, false, err
	}

	manifest.InstallDate = s.Clock().Format(time.RFC3339)
	if err := s.Cache.WriteManifest(desc, manifest); err != nil {
		return types.Manifest{}, false, err
	}
	return manifest, true, nil
}

// installDependencies runs the external installer for each specifier
// in manifest order. The first failing install aborts the sync; later
// specifiers are never attempted.
func (s Service) installDependencies(ctx context.Context, desc types.Descriptor, manifest types.Manifest, logfile *adapters.Logfile) error {
	requirements, err := core.ValidateRequirements(manifest.Dependencies)
	if err != nil {
		return err
	}
	dir := s.Cache.Dir(desc)
	for _, requirement := range requirements {
		logfile.Log(s.Installer.CommandLine(dir, requirement.Raw))
		if err := s.Installer.Install(ctx, dir, requirement.Raw, logfile.Writer()); err != nil {
			log.Error().Str("package", desc.Name).Str("dependency", requirement.Raw).
				Str("log", s.Cache.LogPath(desc)).Msg("dependency install failed")
			return err
		}
	}
	return nil
}

func (s Service) logManifest(logfile *adapters.Logfile, manifest types.Manifest) {
	logfile.Log("build date: " + manifest.BuildDate)
	logfile.Log("version: " + manifest.Version)
}
