package scan

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/bft-labs/framepack/internal/ports"
	"github.com/bft-labs/framepack/pkg/index"
)

// VerifyReport summarizes an integrity check of an archive.
type VerifyReport struct {
	// Frames is the number of frames that decoded cleanly.
	Frames int

	// Lines is the number of non-empty lines across all decoded frames.
	Lines uint64

	// Records is the number of those lines holding a tab separator.
	Records uint64

	// Uncompressed is the total decoded payload size in bytes.
	Uncompressed uint64
}

// Verify checks an archive against its index: the index must be
// structurally valid and account for exactly archiveSize bytes, and
// every frame must decompress with a valid checksum. Frame failures are
// collected rather than aborting, so one corrupt frame does not hide
// the state of the rest.
func Verify(ctx context.Context, frames index.Index, reader ports.FrameReader, archiveSize int64) (VerifyReport, error) {
	select {
	case <-ctx.Done():
		return VerifyReport{}, ctx.Err()
	default:
	}

	if err := frames.Validate(); err != nil {
		return VerifyReport{}, fmt.Errorf("index invalid: %w", err)
	}
	if implied := frames.TotalCompressed(); implied != uint64(archiveSize) {
		return VerifyReport{}, fmt.Errorf("index implies %d bytes, archive has %d", implied, archiveSize)
	}

	var report VerifyReport
	var errs error
	for _, meta := range frames {
		payload, err := reader.ReadFrame(meta)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		report.Frames++
		report.Uncompressed += uint64(len(payload))
		lines, records := countPayload(payload)
		report.Lines += lines
		report.Records += records
	}
	return report, errs
}

// countPayload counts the non-empty lines in a decoded frame and how
// many of them carry a tab separator.
func countPayload(payload []byte) (lines, records uint64) {
	for _, line := range bytes.Split(payload, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		lines++
		if bytes.IndexByte(line, '\t') >= 0 {
			records++
		}
	}
	return lines, records
}
