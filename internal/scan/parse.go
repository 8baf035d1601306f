package scan

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/log"
)

// ParseRecords extracts key/value records from one decompressed frame.
// Each line holds a key and an unsigned integer value separated by the
// first tab; lines without a tab are skipped. Keys are decoded
// permissively, replacing invalid UTF-8 sequences. A value that fails to
// parse is logged with its key and recorded as zero rather than dropping
// the record. Records are returned in line order with duplicate keys
// preserved.
func ParseRecords(payload []byte, logger log.Logger) []aggregate.Record {
	lines := bytes.Split(payload, []byte{'\n'})
	recs := make([]aggregate.Record, 0, len(lines))
	for _, line := range lines {
		sep := bytes.IndexByte(line, '\t')
		if sep < 0 {
			continue
		}
		key := strings.ToValidUTF8(string(line[:sep]), "�")
		value, err := parseValue(line[sep+1:])
		if err != nil {
			logger.Warn("unparsable record value, storing zero",
				log.String("key", key),
				log.Err(err))
			value = 0
		}
		recs = append(recs, aggregate.Record{Key: key, Value: value})
	}
	return recs
}

// parseValue parses an unsigned integer from raw bytes, tolerating
// surrounding whitespace (including the carriage return left by CRLF
// line endings).
func parseValue(raw []byte) (uint64, error) {
	trimmed := string(bytes.TrimSpace(raw))
	return strconv.ParseUint(trimmed, 10, 64)
}
