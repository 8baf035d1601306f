package aggregate

// Version constants for the aggregate package.
const (
	// Version is the current version of the aggregate package.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version of this package
	// that remains compatible with the current version.
	MinCompatibleVersion = "1.0.0"
)
