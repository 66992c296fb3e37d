package dynamodblocal

import (
	"io/fs"
	"time"
)

// Install layout constants. The provisioner materializes everything under
// InstallDir relative to the working directory; the runnable artifact is
// located positionally inside it.
const (
	// InstallDir is the fixed relative directory the archive is provisioned into
	InstallDir = ".local_dynamodb"

	// ArchiveFile is the file name used when saving a raw, non-extracted archive
	ArchiveFile = "dynamodb_local_latest.tar.gz"

	// JarFile is the entry-point jar inside an extracted install tree
	JarFile = "DynamoDBLocal.jar"

	// LibDir is the native-library subdirectory inside an extracted install tree
	LibDir = "DynamoDBLocal_lib"

	// DefaultDownloadURL is the archive fetched when a www source names no URL
	DefaultDownloadURL = "https://s3-us-west-2.amazonaws.com/dynamodb-local/dynamodb_local_latest.tar.gz"
)

// Process invocation constants
const (
	// DefaultJavaPath is the executable used to spawn the emulator
	DefaultJavaPath = "java"

	// FlagPort is the emulator's port selection flag
	FlagPort = "-port"

	// FlagInMemory selects the non-persistent storage mode
	FlagInMemory = "-inMemory"

	// FlagSharedDB selects the single shared database file mode
	FlagSharedDB = "-sharedDb"

	// FlagLibraryPath is the JVM property prefix for the native library dir
	FlagLibraryPath = "-Djava.library.path="

	// FlagJar precedes the entry-point jar path
	FlagJar = "-jar"
)

// Port constraints and defaults
const (
	// PortMin is the lowest port Configure accepts
	PortMin = 1024

	// PortMax is the highest port Configure accepts
	PortMax = 65535

	// DefaultPort is the emulator's conventional listen port
	DefaultPort = 8000
)

const (
	// DefaultWatchDebounce is the debounce time for install-dir watching
	DefaultWatchDebounce = 25 * time.Millisecond

	// DirMode is the permission mode for created directories
	DirMode fs.FileMode = 0o755

	// FileMode is the permission mode for saved archive and data files
	FileMode fs.FileMode = 0o644

	// ExecMode is the permission mode preserved for executable entries
	ExecMode fs.FileMode = 0o755
)

// Operation identifies which library operation produced an error
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpProvision is the top-level provisioning operation
	OpProvision
	// OpFetch is the archive download or local read step
	OpFetch
	// OpExtract is the archive decompression step
	OpExtract
	// OpWrite is the raw archive save step
	OpWrite
	// OpStart spawns the emulator subprocess
	OpStart
	// OpStop signals the emulator subprocess
	OpStop
	// OpConfigure mutates the instance configuration
	OpConfigure
	// OpWait blocks on install-tree readiness
	OpWait
)

// String returns the operation name
func (o Operation) String() string {
	switch o {
	case OpProvision:
		return "provision"
	case OpFetch:
		return "fetch"
	case OpExtract:
		return "extract"
	case OpWrite:
		return "write"
	case OpStart:
		return "start"
	case OpStop:
		return "stop"
	case OpConfigure:
		return "configure"
	case OpWait:
		return "wait"
	default:
		return "unknown"
	}
}
