package adapters

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/ports"
	"rpk/internal/types"
)

// ManifestName is the fixed filename of the manifest at the root of
// every package archive and cache entry.
const ManifestName = "rpk.json"

// LogName is the per-sync log file written into each cache entry.
const LogName = "rpk.log"

// maxArchiveFileBytes bounds a single extracted file (500 MB) to guard
// against decompression bombs.
const maxArchiveFileBytes = 500 << 20

// CacheDirAdapter maps descriptors to directories under a cache root:
// {root}/{kind}/{name}. Replacement is discard-then-populate, so a
// crash between Discard and a completed manifest write leaves either
// no entry or an entry without an install date; both are treated as
// never-cached on the next sync.
type CacheDirAdapter struct {
	Root string
}

func NewCacheDirAdapter(root string) CacheDirAdapter {
	return CacheDirAdapter{Root: root}
}

// DefaultCacheRoot returns ~/.cache/rpk, falling back to a relative
// .cache/rpk when the home directory cannot be determined.
func DefaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "rpk")
	}
	return filepath.Join(home, ".cache", "rpk")
}

func (a CacheDirAdapter) Dir(desc types.Descriptor) string {
	return filepath.Join(a.Root, string(desc.Kind), desc.Name)
}

func (a CacheDirAdapter) LogPath(desc types.Descriptor) string {
	return filepath.Join(a.Dir(desc), LogName)
}

func (a CacheDirAdapter) manifestPath(desc types.Descriptor) string {
	return filepath.Join(a.Dir(desc), ManifestName)
}

func (a CacheDirAdapter) ReadManifest(desc types.Descriptor) (types.Manifest, error) {
	data, err := os.ReadFile(a.manifestPath(desc))
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not cached: " + desc.Name).
			WithCause(err)
	}
	var manifest types.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("cached manifest unparsable: " + desc.Name).
			WithCause(err)
	}
	return manifest, nil
}

func (a CacheDirAdapter) WriteManifest(desc types.Descriptor, manifest types.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode manifest").
			WithCause(err)
	}
	if err := os.WriteFile(a.manifestPath(desc), data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write manifest").
			WithCause(err)
	}
	return nil
}

func (a CacheDirAdapter) Discard(desc types.Descriptor) error {
	if err := os.RemoveAll(a.Dir(desc)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to discard cache entry").
			WithCause(err)
	}
	return nil
}

func (a CacheDirAdapter) Prepare(desc types.Descriptor) error {
	if err := os.MkdirAll(a.Dir(desc), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cache entry").
			WithCause(err)
	}
	return nil
}

// Extract unpacks a gzip-compressed tar archive into the cache entry
// and returns the manifest it shipped. The archive is scanned for a
// root-level ManifestName entry before anything is written, so a
// manifest-less archive is rejected with the entry left untouched and
// a later sync retries the download.
func (a CacheDirAdapter) Extract(desc types.Descriptor, archive []byte) (types.Manifest, error) {
	if err := scanArchive(archive); err != nil {
		return types.Manifest{}, err
	}
	dir := a.Dir(desc)
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("payload is not a gzip archive").
			WithCause(err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.Manifest{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("payload is not a tar archive").
				WithCause(err)
		}
		target, err := safeJoin(dir, header.Name)
		if err != nil {
			return types.Manifest{}, err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return types.Manifest{}, extractError(err)
			}
		case tar.TypeReg:
			if err := writeArchiveFile(target, reader, header.FileInfo().Mode()); err != nil {
				return types.Manifest{}, err
			}
		case tar.TypeSymlink:
			// Symlinks may not escape the cache entry.
			if _, err := safeJoin(filepath.Dir(target), header.Linkname); err != nil {
				return types.Manifest{}, err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return types.Manifest{}, extractError(err)
			}
		}
	}
	return a.readArchiveManifest(desc)
}

// scanArchive walks the archive entries without writing anything and
// rejects archives that are malformed or carry no manifest.
func scanArchive(archive []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("payload is not a gzip archive").
			WithCause(err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("payload is not a tar archive").
				WithCause(err)
		}
		if header.Typeflag == tar.TypeReg && filepath.Clean(header.Name) == ManifestName {
			return nil
		}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("archive has no manifest " + ManifestName)
}

// readArchiveManifest parses the manifest a just-extracted archive
// delivered. An unparsable manifest here marks the download itself as
// invalid; ReadManifest keeps its not-cached mapping for the ordinary
// cache-read path.
func (a CacheDirAdapter) readArchiveManifest(desc types.Descriptor) (types.Manifest, error) {
	data, err := os.ReadFile(a.manifestPath(desc))
	if err != nil {
		return types.Manifest{}, extractError(err)
	}
	var manifest types.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive manifest unparsable: " + desc.Name).
			WithCause(err)
	}
	return manifest, nil
}

func writeArchiveFile(target string, reader io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return extractError(err)
	}
	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return extractError(err)
	}
	defer file.Close()
	if _, err := io.Copy(file, io.LimitReader(reader, maxArchiveFileBytes)); err != nil {
		return extractError(err)
	}
	return nil
}

// safeJoin joins an archive entry name onto the extraction directory,
// rejecting absolute names and names escaping the directory.
func safeJoin(dir string, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive entry escapes cache entry: " + name)
	}
	return filepath.Join(dir, cleaned), nil
}

func extractError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to extract archive").
		WithCause(err)
}

var _ ports.CachePort = CacheDirAdapter{}
