package dynamodblocal

// Version is the current version of the go-dynamodb-local library
const Version = "0.1.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Emulator is the emulator distribution this library targets
	Emulator string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:  Version,
		Emulator: "dynamodb_local_latest",
	}
}
