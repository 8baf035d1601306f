package frameio

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/framepack/pkg/index"
)

// countingWriter tracks the absolute write offset so each frame's
// position can be recorded without seeking.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += uint64(n)
	return n, err
}

// Writer compresses chunks into independent zstd frames written
// back-to-back, building the frame index as it goes. Each frame carries
// its own content checksum and can be decompressed in isolation.
type Writer struct {
	cw  *countingWriter
	enc *zstd.Encoder
	idx index.Index
}

// NewWriter returns a Writer emitting frames to w at the given zstd
// compression level. A level of zero or below selects
// DefaultCompressionLevel.
func NewWriter(w io.Writer, level int) (*Writer, error) {
	if level <= 0 {
		level = DefaultCompressionLevel
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	return &Writer{
		cw:  &countingWriter{w: w},
		enc: enc,
	}, nil
}

// WriteChunk compresses one chunk into its own frame, appends the frame
// to the output, and returns the frame's descriptor.
func (w *Writer) WriteChunk(chunk []byte) (index.FrameMeta, error) {
	start := w.cw.n
	frame := w.enc.EncodeAll(chunk, nil)
	if _, err := w.cw.Write(frame); err != nil {
		return index.FrameMeta{}, fmt.Errorf("write frame %d: %w", len(w.idx), err)
	}
	meta := index.FrameMeta{
		Position: start,
		Length:   w.cw.n - start,
		Order:    uint64(len(w.idx)),
	}
	w.idx = append(w.idx, meta)
	return meta, nil
}

// Index returns the descriptors of all frames written so far.
func (w *Writer) Index() index.Index {
	return w.idx
}

// Close releases the encoder's resources. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// Compress reads r to EOF, writing line-aligned zstd frames of roughly
// blockSize uncompressed bytes each to w. It returns the frame index and
// the number of uncompressed bytes consumed.
func Compress(r io.Reader, w io.Writer, blockSize, level int) (index.Index, int64, error) {
	chunker, err := NewChunker(r, blockSize)
	if err != nil {
		return nil, 0, err
	}
	fw, err := NewWriter(w, level)
	if err != nil {
		return nil, 0, err
	}
	defer fw.Close()

	var total int64
	for {
		chunk, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, err
		}
		total += int64(len(chunk))
		if _, err := fw.WriteChunk(chunk); err != nil {
			return nil, total, err
		}
	}
	return fw.Index(), total, nil
}
