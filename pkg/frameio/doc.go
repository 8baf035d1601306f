// Package frameio implements the framepack archive format: a sequence of
// independent zstd frames written back-to-back, each holding a block of
// whole input lines.
//
// Writing splits the input into line-aligned chunks near a target block
// size and compresses each chunk into its own checksummed frame. Because
// no state is shared between frames, any frame can later be read and
// decompressed knowing only its position and length, which is what makes
// parallel decompression possible.
//
// # Usage
//
// Compress a file in one call:
//
//	in, _ := os.Open("table.tsv")
//	out, _ := os.Create("table.tsv.zst")
//	idx, n, err := frameio.Compress(in, out, frameio.DefaultBlockSize, 3)
//
// Or drive the chunker and writer directly:
//
//	chunker, _ := frameio.NewChunker(in, frameio.DefaultBlockSize)
//	fw, _ := frameio.NewWriter(out, 3)
//	for {
//	    chunk, err := chunker.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    fw.WriteChunk(chunk)
//	}
//
// Read frames back in any order, from any number of goroutines:
//
//	r, _ := frameio.Open("table.tsv.zst")
//	payload, err := r.ReadFrame(idx[3])
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package frameio
