// Package cache provides a file-backed cache with TTL expiration and a bounded
// number of entries per namespace.
//
// It sits in front of slow or rate-limited upstream calls. Key features:
//   - One directory per namespace, one JSON file per entry (<key>.json)
//   - Deterministic SHA-256 keys derived from ordered call parameters
//   - Lazy expiration: stale entries are removed when next read
//   - Capacity enforcement before every write, oldest-by-write evicted first
//   - Atomic temp-file-then-rename writes
//
// Cache faults never fail the caller. Every I/O or decoding problem is logged
// and degrades to a miss or a no-op, so a broken cache directory only costs
// the caller its speedup.
package cache
