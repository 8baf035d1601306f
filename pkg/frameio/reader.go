package frameio

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/framepack/pkg/index"
)

// Reader decompresses individual frames from an archive by position.
// Frames are fetched with positional reads, so ReadFrame is safe for
// concurrent use by multiple goroutines.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
}

// Open opens the archive at path for positional frame reads.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	return &Reader{f: f, dec: dec}, nil
}

// ReadFrame reads the compressed frame described by meta and returns its
// decompressed payload. The frame's checksum is verified during
// decompression; a corrupt frame yields an error without affecting any
// other frame.
func (r *Reader) ReadFrame(meta index.FrameMeta) ([]byte, error) {
	length, err := meta.SectionLength()
	if err != nil {
		return nil, err
	}
	if meta.Position > math.MaxInt64 {
		return nil, fmt.Errorf("frame %d has unusable position %d", meta.Order, meta.Position)
	}

	compressed, err := preadSection(r.f, int64(meta.Position), length)
	if err != nil {
		return nil, fmt.Errorf("read frame %d at position %d: %w", meta.Order, meta.Position, err)
	}

	payload, err := r.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress frame %d at position %d: %w", meta.Order, meta.Position, err)
	}
	return payload, nil
}

// Size returns the archive's size in bytes.
func (r *Reader) Size() (int64, error) {
	fi, err := r.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	return fi.Size(), nil
}

// Close releases the decoder and closes the archive file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// preadSection reads [off, off+length) bytes from f.
func preadSection(f *os.File, off int64, length int) ([]byte, error) {
	sr := io.NewSectionReader(f, off, int64(length))
	buf := make([]byte, length)
	_, err := io.ReadFull(sr, buf)
	return buf, err
}
