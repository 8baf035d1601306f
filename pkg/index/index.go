package index

import (
	"fmt"
	"math"
)

// FrameMeta locates one compressed frame within an archive.
// A frame is the atomic unit of compression: it can be extracted and
// decompressed knowing nothing but its position and length.
type FrameMeta struct {
	// Position is the absolute byte offset of the frame's first byte.
	Position uint64 `json:"position"`

	// Length is the exact compressed byte length of the frame,
	// including the frame's own trailer and checksum.
	Length uint64 `json:"length"`

	// Order is the zero-based sequence number assigned at write time.
	Order uint64 `json:"order"`
}

// SectionLength returns Length as an int suitable for buffer allocation.
// Returns an error naming the frame's position if the value does not fit.
func (m FrameMeta) SectionLength() (int, error) {
	if m.Length > uint64(math.MaxInt) {
		return 0, fmt.Errorf("frame at position %d has unusable length %d", m.Position, m.Length)
	}
	return int(m.Length), nil
}

// End returns the byte offset immediately after the frame.
func (m FrameMeta) End() uint64 {
	return m.Position + m.Length
}

// Index is the ordered sequence of frame descriptors for one archive.
// It is produced wholly by one compression pass and is immutable once
// persisted; readers load it in full before any decompression begins.
type Index []FrameMeta

// TotalCompressed returns the archive size implied by the index, which is
// the end offset of the last frame. An empty index implies an empty archive.
func (idx Index) TotalCompressed() uint64 {
	if len(idx) == 0 {
		return 0
	}
	return idx[len(idx)-1].End()
}

// Validate checks the structural invariants of the index: orders are dense
// and ascending from zero, the first frame starts at offset zero, every
// frame is non-empty, and frames are contiguous with no gaps or overlaps.
func (idx Index) Validate() error {
	for i, m := range idx {
		if m.Order != uint64(i) {
			return fmt.Errorf("frame %d has order %d, want %d", i, m.Order, i)
		}
		if m.Length == 0 {
			return fmt.Errorf("frame %d at position %d is empty", i, m.Position)
		}
		if i == 0 {
			if m.Position != 0 {
				return fmt.Errorf("first frame starts at position %d, want 0", m.Position)
			}
			continue
		}
		if prev := idx[i-1]; m.Position != prev.End() {
			return fmt.Errorf("frame %d at position %d is not contiguous with previous frame ending at %d",
				i, m.Position, prev.End())
		}
	}
	return nil
}
