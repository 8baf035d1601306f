package frameio

// Version constants for the frameio package.
const (
	// Version is the current version of the frameio package.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version of this package
	// that remains compatible with the current version.
	MinCompatibleVersion = "1.0.0"
)
