package frameio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Default format parameters. The block size is a target, not a ceiling:
// chunks grow in whole lines and may overshoot by up to one line.
const (
	// DefaultBlockSize is the target uncompressed chunk size in bytes.
	DefaultBlockSize = 64 << 10

	// DefaultCompressionLevel is the zstd compression level used when the
	// caller does not choose one.
	DefaultCompressionLevel = 3
)

// Chunker splits an input stream into line-aligned chunks of roughly
// blockSize bytes. Lines are never split across chunks, so a chunk may
// exceed blockSize when its final line pushes it past the target, and a
// single line longer than blockSize becomes a chunk of its own.
type Chunker struct {
	br        *bufio.Reader
	blockSize int
	buf       bytes.Buffer
	done      bool
}

// NewChunker returns a Chunker reading from r with the given target
// chunk size. blockSize must be positive.
func NewChunker(r io.Reader, blockSize int) (*Chunker, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}
	return &Chunker{
		br:        bufio.NewReaderSize(r, 64*1024),
		blockSize: blockSize,
	}, nil
}

// Next returns the next chunk of whole lines. The final line of the input
// is included even if it lacks a trailing newline. Returns io.EOF after
// the last chunk has been returned.
//
// The returned slice is only valid until the next call to Next.
func (c *Chunker) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}

	c.buf.Reset()
	for c.buf.Len() < c.blockSize {
		line, err := c.br.ReadBytes('\n')
		c.buf.Write(line)
		if err == io.EOF {
			c.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
	}

	if c.buf.Len() == 0 {
		return nil, io.EOF
	}
	return c.buf.Bytes(), nil
}
