package framepack

import (
	"fmt"

	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/frameio"
	"github.com/bft-labs/framepack/pkg/index"
	"github.com/bft-labs/framepack/pkg/log"
)

// Version constants for the framepack package.
const (
	// Version is the current version of the framepack package.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version of this package
	// that remains compatible with the current version.
	MinCompatibleVersion = "1.0.0"
)

// ModuleVersions returns the versions of all framepack sub-packages.
func ModuleVersions() map[string]string {
	return map[string]string{
		"framepack": Version,
		"frameio":   frameio.Version,
		"index":     index.Version,
		"aggregate": aggregate.Version,
		"log":       log.Version,
	}
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"frameio":   {frameio.Version, frameio.MinCompatibleVersion},
		"index":     {index.Version, index.MinCompatibleVersion},
		"aggregate": {aggregate.Version, aggregate.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	// Parse versions (simplified semver comparison)
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
