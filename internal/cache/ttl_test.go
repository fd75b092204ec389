package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fscache/internal/cache"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "3600", want: time.Hour},
		{input: "0", want: 0},
		{input: "24h", want: 24 * time.Hour},
		{input: "1h30m", want: 90 * time.Minute},
		{input: "-5", wantErr: true},
		{input: "-1h", wantErr: true},
		{input: "forever", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := cache.ParseTTL(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, cache.ErrInvalidTTL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", cache.FormatDuration(0))
	assert.Equal(t, "30s", cache.FormatDuration(30*time.Second))
	assert.Equal(t, "5m", cache.FormatDuration(5*time.Minute))
	assert.Equal(t, "2h", cache.FormatDuration(2*time.Hour))
	assert.Equal(t, "2h30m", cache.FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "1d", cache.FormatDuration(24*time.Hour))
	assert.Equal(t, "3d2h", cache.FormatDuration(74*time.Hour))
}
