// Package integration exercises the sync engine end to end: real HTTP
// transport against a local test server, real crypto, real on-disk
// cache. Only the dependency installer is stubbed, since running pip
// is out of scope for tests.
package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpk/internal/adapters"
	"rpk/internal/app"
	"rpk/internal/core"
	"rpk/internal/types"
	"rpk/tests/testutil"
)

const sharedSecret = "This is the secret key."

// packageServer is a minimal remote authority covering the info,
// download and watch commands for a single package. State is guarded
// because the watch test publishes a new version while the watch loop
// polls.
type packageServer struct {
	t  *testing.T
	mu sync.Mutex

	crypto  core.Crypto
	version string
	archive []byte
}

func (s *packageServer) publish(version string, archive []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	s.archive = archive
}

func (s *packageServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/info/run/foo", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		version := s.version
		s.mu.Unlock()
		fmt.Fprintf(w, `{"version": %q, "date": "2024-01-01T00:00:00"}`, version)
	})
	mux.HandleFunc("/watch/run/foo", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		version := s.version
		s.mu.Unlock()
		fmt.Fprintf(w, `{"version": %q, "date": "2024-01-01T00:00:00"}`, version)
	})
	mux.HandleFunc("/download/run/foo", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		archive := s.archive
		s.mu.Unlock()
		ciphertext, err := s.crypto.Encrypt(archive)
		require.NoError(s.t, err)
		fmt.Fprintf(w, `{"data": %q}`, base64.StdEncoding.EncodeToString(ciphertext))
	})
	return mux
}

type nopInstaller struct{}

func (nopInstaller) Install(ctx context.Context, targetDir string, specifier string, logOutput io.Writer) error {
	return nil
}

func (nopInstaller) CommandLine(targetDir string, specifier string) string {
	return "install " + specifier
}

type nopLauncher struct{}

func (nopLauncher) Launch(cacheDir string, manifest types.Manifest, argv []string) error {
	return nil
}

func newIntegrationService(t *testing.T, serverURL string, cacheRoot string) app.Service {
	t.Helper()
	crypto, err := core.NewCrypto(sharedSecret)
	require.NoError(t, err)
	return app.Service{
		Transport: adapters.HTTPTransportAdapter{
			BaseURL: serverURL,
			Node:    "integration-test",
			Client:  &http.Client{Timeout: 5 * time.Second},
		},
		Cache:        adapters.NewCacheDirAdapter(cacheRoot),
		Crypto:       crypto,
		Installer:    nopInstaller{},
		Launcher:     nopLauncher{},
		Clock:        time.Now,
		WatchBackoff: 10 * time.Millisecond,
	}
}

func TestSyncEndToEnd(t *testing.T) {
	crypto, err := core.NewCrypto(sharedSecret)
	require.NoError(t, err)

	manifest := types.Manifest{
		Version:   "1.0",
		BuildDate: "2024-01-01T00:00:00",
		Run:       "bin/foo",
	}
	remote := &packageServer{
		t:       t,
		crypto:  crypto,
		version: "1.0",
		archive: testutil.MakeArchive(t, map[string][]byte{
			adapters.ManifestName: testutil.MarshalManifest(t, manifest),
			"bin/foo":             []byte("#!/bin/sh\necho foo\n"),
		}),
	}
	server := httptest.NewServer(remote.handler())
	defer server.Close()

	root := t.TempDir()
	service := newIntegrationService(t, server.URL, root)
	desc := types.Descriptor{Name: "foo", Kind: types.KindRun}
	start := time.Now().Truncate(time.Second)

	// First sync downloads and persists.
	synced, updated, err := service.Sync(context.Background(), desc)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "1.0", synced.Version)

	entry := filepath.Join(root, "run", "foo")
	assert.FileExists(t, filepath.Join(entry, "bin", "foo"))

	data, err := os.ReadFile(filepath.Join(entry, adapters.ManifestName))
	require.NoError(t, err)
	var persisted types.Manifest
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.True(t, persisted.Installed())
	installedAt, err := time.Parse(time.RFC3339, persisted.InstallDate)
	require.NoError(t, err)
	assert.False(t, installedAt.Before(start))

	// Second sync with the same remote version is a no-op.
	_, updated, err = service.Sync(context.Background(), desc)
	require.NoError(t, err)
	assert.False(t, updated)

	// A version bump triggers a fresh download.
	bumped := manifest
	bumped.Version = "1.1"
	remote.publish("1.1", testutil.MakeArchive(t, map[string][]byte{
		adapters.ManifestName: testutil.MarshalManifest(t, bumped),
		"bin/foo":             []byte("#!/bin/sh\necho foo v2\n"),
	}))
	synced, updated, err = service.Sync(context.Background(), desc)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "1.1", synced.Version)
}

func TestWatchEndToEnd(t *testing.T) {
	crypto, err := core.NewCrypto(sharedSecret)
	require.NoError(t, err)
	remote := &packageServer{t: t, crypto: crypto, version: "1.0"}
	server := httptest.NewServer(remote.handler())
	defer server.Close()

	service := newIntegrationService(t, server.URL, t.TempDir())
	desc := types.Descriptor{Name: "foo", Kind: types.KindRun}

	type watchResult struct {
		info types.RemoteInfo
		err  error
	}
	done := make(chan watchResult, 1)
	go func() {
		info, watchErr := service.Watch(context.Background(), desc)
		done <- watchResult{info: info, err: watchErr}
	}()

	time.Sleep(50 * time.Millisecond)
	remote.publish("2.0", nil)

	select {
	case result := <-done:
		require.NoError(t, result.err)
		assert.Equal(t, "2.0", result.info.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not observe the version change")
	}
}
