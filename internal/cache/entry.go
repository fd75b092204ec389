package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// errMissingTimestamp marks an entry file that decoded but carries no creation time.
var errMissingTimestamp = errors.New("cache entry has no timestamp")

// Entry is a single cached value with its creation time.
// On disk it is {"timestamp": <epoch ms>, "data": <payload>}.
type Entry[T any] struct {
	// Timestamp is the creation time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`

	// Data is the cached payload.
	Data T `json:"data"`
}

// NewEntry creates an entry stamped with now.
func NewEntry[T any](now time.Time, data T) *Entry[T] {
	return &Entry[T]{
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
}

// CreatedAt returns the creation time.
func (e *Entry[T]) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how long ago the entry was created, relative to now.
func (e *Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt())
}

// IsExpired reports whether the entry is strictly older than ttl at now.
// An entry exactly ttl old is still live.
func (e *Entry[T]) IsExpired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) > ttl
}

// decodeEntry parses an entry file. Unknown fields are ignored.
func decodeEntry[T any](data []byte) (*Entry[T], error) {
	var raw struct {
		Timestamp *int64          `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Timestamp == nil {
		return nil, errMissingTimestamp
	}

	entry := &Entry[T]{Timestamp: *raw.Timestamp}
	if len(raw.Data) > 0 {
		// Numbers under interface-typed payloads stay json.Number so large
		// integers survive the round trip.
		dec := json.NewDecoder(bytes.NewReader(raw.Data))
		dec.UseNumber()
		if err := dec.Decode(&entry.Data); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// encodeEntry serializes an entry for writing.
func encodeEntry[T any](e *Entry[T]) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
