package app

import (
	"context"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/adapters"
	"rpk/internal/core"
	"rpk/internal/ports"
	"rpk/internal/types"
)

// defaultWatchBackoff is the wait between retries after a transport
// failure inside the watch loop.
const defaultWatchBackoff = 5 * time.Second

// Service wires the transport, cache, crypto, installer and launcher
// into the sync engine. One Service handles any number of packages;
// per-sync state (the log file) is created per call.
type Service struct {
	Transport    ports.TransportPort
	Cache        ports.CachePort
	Crypto       core.Crypto
	Installer    ports.InstallerPort
	Launcher     ports.LauncherPort
	Clock        func() time.Time
	Debug        bool
	WatchBackoff time.Duration
}

func NewService(settings types.Settings, cacheRoot string, debug bool) (Service, error) {
	crypto, err := core.NewCrypto(settings.Secret)
	if err != nil {
		return Service{}, err
	}
	if cacheRoot == "" {
		cacheRoot = adapters.DefaultCacheRoot()
	}
	return Service{
		Transport:    adapters.NewHTTPTransportAdapter(settings),
		Cache:        adapters.NewCacheDirAdapter(cacheRoot),
		Crypto:       crypto,
		Installer:    adapters.NewPipInstallerAdapter(),
		Launcher:     adapters.NewExecLauncherAdapter(),
		Clock:        time.Now,
		Debug:        debug,
		WatchBackoff: defaultWatchBackoff,
	}, nil
}

func validateDescriptor(ctx context.Context, desc types.Descriptor) error {
	assert.NotEmpty(ctx, desc.Name, "package name must be set")
	if desc.Kind != types.KindLib && desc.Kind != types.KindRun {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package kind must be lib or run")
	}
	return nil
}
