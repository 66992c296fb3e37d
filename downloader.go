package dynamodblocal

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// Downloader provisions the emulator archive into a local directory. It
// downloads (or copies) the archive and, by default, extracts it in place,
// overwriting any previous contents. Provisioning is idempotent: the
// install directory is (re)materialized on every call and no cleanup is
// performed on failure.
type Downloader struct {
	// Dir is the install directory the archive is materialized into
	Dir string

	// URL is the archive fetched for www sources that name no URL
	URL string

	// Client is the HTTP client used for www sources
	Client *http.Client

	// Exists reports whether a local source path exists. It is consulted
	// before any network or filesystem mutation.
	Exists func(path string) bool

	log zerolog.Logger
}

// DownloaderOption configures a Downloader
type DownloaderOption func(*Downloader)

// WithInstallDir sets the install directory
func WithInstallDir(dir string) DownloaderOption {
	return func(d *Downloader) {
		d.Dir = dir
	}
}

// WithDownloadURL sets the default archive URL
func WithDownloadURL(url string) DownloaderOption {
	return func(d *Downloader) {
		d.URL = url
	}
}

// WithHTTPClient sets the HTTP client used for downloads
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.Client = c
	}
}

// WithExists sets the existence check used for local sources
func WithExists(fn func(path string) bool) DownloaderOption {
	return func(d *Downloader) {
		d.Exists = fn
	}
}

// WithDownloaderLogger sets the logger for provisioning events
func WithDownloaderLogger(log zerolog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.log = log
	}
}

// NewDownloader creates a Downloader with the conventional install
// directory and archive URL, applying any provided options.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		Dir:    InstallDir,
		URL:    DefaultDownloadURL,
		Client: http.DefaultClient,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Provision materializes the emulator tree described by src and returns
// the install directory. Local sources are rejected before any I/O when
// the path is missing or does not exist. A single failed fetch, extraction,
// or save surfaces immediately; there are no retries and a partially
// populated install directory may be left behind.
func (d *Downloader) Provision(ctx context.Context, src Source) (string, error) {
	if src.Type == SourceLocal {
		if src.Path == "" {
			return "", &OpError{Op: OpProvision, Path: src.Path, Err: fmt.Errorf("%w: local source requires a path", ErrInvalidSource)}
		}
		if !d.Exists(src.Path) {
			return "", &OpError{Op: OpProvision, Path: src.Path, Err: fmt.Errorf("%w: %q does not exist", ErrInvalidSource, src.Path)}
		}
	}

	if err := os.MkdirAll(d.Dir, DirMode); err != nil {
		return "", &OpError{Op: OpProvision, Path: d.Dir, Err: err}
	}

	body, origin, err := d.open(ctx, src)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	if src.extract() {
		d.log.Debug().Str("origin", origin).Str("dir", d.Dir).Msg("extracting archive")
		if err := extractTarGz(body, d.Dir); err != nil {
			return "", &OpError{Op: OpExtract, Path: d.Dir, Err: fmt.Errorf("%w: %v", ErrExtract, err)}
		}
		return d.Dir, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &OpError{Op: OpFetch, Path: origin, Err: fmt.Errorf("%w: %v", ErrFetch, err)}
	}

	target := filepath.Join(d.Dir, ArchiveFile)
	d.log.Debug().Str("origin", origin).Str("file", target).Msg("saving archive")
	if err := renameio.WriteFile(target, data, FileMode); err != nil {
		return "", &OpError{Op: OpWrite, Path: target, Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}

	return d.Dir, nil
}

// open returns a reader over the archive bytes and a description of where
// they came from
func (d *Downloader) open(ctx context.Context, src Source) (io.ReadCloser, string, error) {
	if src.Type == SourceLocal {
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, "", &OpError{Op: OpFetch, Path: src.Path, Err: fmt.Errorf("%w: %v", ErrFetch, err)}
		}
		return f, src.Path, nil
	}

	url := src.Path
	if url == "" {
		url = d.URL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &OpError{Op: OpFetch, Path: url, Err: fmt.Errorf("%w: %v", ErrFetch, err)}
	}

	d.log.Debug().Str("url", url).Msg("downloading archive")
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, "", &OpError{Op: OpFetch, Path: url, Err: fmt.Errorf("%w: %v", ErrFetch, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, "", &OpError{Op: OpFetch, Path: url, Err: fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)}
	}

	return resp.Body, url, nil
}

// extractTarGz decompresses a gzipped tarball into dir, overwriting existing
// entries. Entry paths are confined to dir; anything escaping it aborts the
// extraction.
func extractTarGz(r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	root := filepath.Clean(dir)
	tr := tar.NewReader(gz)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(root, hdr.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("entry %q escapes %q", hdr.Name, root)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, DirMode); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), DirMode); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return err
			}
			mode := FileMode
			if hdr.Mode&0o111 != 0 {
				mode = ExecMode
			}
			if err := renameio.WriteFile(target, data, mode); err != nil {
				return err
			}
		default:
			// symlinks and special entries are not part of the emulator
			// archive; skip anything unexpected
		}
	}
}
