package dynamodblocal

import "context"

// SourceType selects where the emulator archive comes from
type SourceType string

const (
	// SourceWWW fetches the archive over HTTP
	SourceWWW SourceType = "www"

	// SourceLocal reads the archive from a path on disk
	SourceLocal SourceType = "local"
)

// Source describes where to obtain the emulator archive and whether to
// extract it. The zero value means: download the default archive and
// extract it.
type Source struct {
	// Type selects the fetch strategy; empty is treated as SourceWWW
	Type SourceType `yaml:"type"`

	// Path is the URL (www) or filesystem path (local) of the archive.
	// Required for local sources; for www sources an empty Path means
	// DefaultDownloadURL.
	Path string `yaml:"path"`

	// Extract controls archive extraction. Nil means true. When false the
	// raw bytes are saved to ArchiveFile inside the install directory.
	Extract *bool `yaml:"extract"`
}

func (s Source) extract() bool {
	return s.Extract == nil || *s.Extract
}

// Provisioner materializes a runnable emulator tree from a Source. The
// returned path is the install directory; callers locate the entry-point
// jar and native libraries by the JarFile and LibDir conventions inside it.
type Provisioner interface {
	Provision(ctx context.Context, src Source) (string, error)
}
