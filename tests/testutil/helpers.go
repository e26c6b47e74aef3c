// Package testutil provides shared test helpers used across unit and
// integration test packages.
package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"rpk/internal/types"
)

// MakeArchive builds a gzip-compressed tar archive from the given
// file map, the format package payloads are shipped in.
func MakeArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0755,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// MarshalManifest encodes a manifest the way archives ship it.
func MarshalManifest(t *testing.T, manifest types.Manifest) []byte {
	t.Helper()
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	return data
}
