package cache

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// options holds store configuration fixed at construction.
type options struct {
	ttl        time.Duration
	maxEntries int
	ext        string
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Store or Root.
type Option func(*options)

func defaultOptions() options {
	return options{
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		ext:        DefaultExtension,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithTTL sets the maximum entry age. Zero expires entries as soon as any
// time has passed since they were written.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithMaxEntries sets the namespace capacity. Values <= 0 disable capacity
// enforcement.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithExtension sets the entry file extension, with or without the leading dot.
func WithExtension(ext string) Option {
	return func(o *options) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.ext = ext
	}
}

// WithLogger sets the logger used for cache faults and housekeeping.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces time.Now. Entry timestamps and file modification times
// both come from this clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
