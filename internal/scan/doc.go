// Package scan turns compressed frames back into records: it parses
// decompressed payloads into key/value pairs, schedules frame work
// across a bounded worker pool, and verifies archives against their
// index.
package scan
