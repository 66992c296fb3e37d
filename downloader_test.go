package dynamodblocal

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// tarGz builds a gzipped tarball from name→content entries
func tarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func boolPtr(b bool) *bool { return &b }

func TestDownloaderLocalSourceValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing path", func(t *testing.T) {
		d := NewDownloader(WithInstallDir(filepath.Join(t.TempDir(), "dest")))

		_, err := d.Provision(ctx, Source{Type: SourceLocal})
		require.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("nonexistent path", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "dest")
		oracleCalls := 0
		d := NewDownloader(
			WithInstallDir(dest),
			WithExists(func(string) bool {
				oracleCalls++
				return false
			}),
		)

		_, err := d.Provision(ctx, Source{Type: SourceLocal, Path: "/no/such/archive.tar.gz"})
		require.ErrorIs(t, err, ErrInvalidSource)
		require.Equal(t, 1, oracleCalls)

		// Rejected before any filesystem mutation: the install dir was
		// never created.
		_, statErr := os.Stat(dest)
		require.True(t, os.IsNotExist(statErr))
	})
}

func TestDownloaderExtract(t *testing.T) {
	archive := tarGz(t, map[string]string{
		JarFile:                       "jar bytes",
		LibDir + "/libsqlite4java.so": "native bytes",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "install")
	d := NewDownloader(WithInstallDir(dest), WithDownloadURL(srv.URL))

	dir, err := d.Provision(context.Background(), Source{})
	require.NoError(t, err)
	require.Equal(t, dest, dir)

	jar, err := os.ReadFile(filepath.Join(dir, JarFile))
	require.NoError(t, err)
	require.Equal(t, "jar bytes", string(jar))

	lib, err := os.ReadFile(filepath.Join(dir, LibDir, "libsqlite4java.so"))
	require.NoError(t, err)
	require.Equal(t, "native bytes", string(lib))

	t.Run("idempotent overwrite", func(t *testing.T) {
		_, err := d.Provision(context.Background(), Source{})
		require.NoError(t, err)
	})
}

func TestDownloaderRawSave(t *testing.T) {
	payload := []byte("raw archive bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "install")
	d := NewDownloader(WithInstallDir(dest), WithDownloadURL(srv.URL))

	dir, err := d.Provision(context.Background(), Source{Extract: boolPtr(false)})
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(dir, ArchiveFile))
	require.NoError(t, err)
	require.Equal(t, payload, saved)
}

func TestDownloaderFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDownloader(
		WithInstallDir(filepath.Join(t.TempDir(), "install")),
		WithDownloadURL(srv.URL),
	)

	_, err := d.Provision(context.Background(), Source{})
	require.ErrorIs(t, err, ErrFetch)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, OpFetch, opErr.Op)
}

func TestDownloaderExtractFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not a gzip stream"))
	}))
	defer srv.Close()

	d := NewDownloader(
		WithInstallDir(filepath.Join(t.TempDir(), "install")),
		WithDownloadURL(srv.URL),
	)

	_, err := d.Provision(context.Background(), Source{})
	require.ErrorIs(t, err, ErrExtract)
}

func TestDownloaderLocalArchive(t *testing.T) {
	archive := tarGz(t, map[string]string{JarFile: "jar bytes"})

	src := filepath.Join(t.TempDir(), "dynamodb.tar.gz")
	require.NoError(t, os.WriteFile(src, archive, 0o644))

	dest := filepath.Join(t.TempDir(), "install")
	d := NewDownloader(WithInstallDir(dest))

	dir, err := d.Provision(context.Background(), Source{Type: SourceLocal, Path: src})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, JarFile))
	require.NoError(t, err)
}

func TestExtractTarGzPathEscape(t *testing.T) {
	archive := tarGz(t, map[string]string{"../escape.txt": "outside"})

	dest := filepath.Join(t.TempDir(), "install")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	err := extractTarGz(bytes.NewReader(archive), dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	require.True(t, os.IsNotExist(statErr))
}
