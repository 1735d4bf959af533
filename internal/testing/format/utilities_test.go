package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       time.Duration
		expected string
	}{
		{in: 500 * time.Microsecond, expected: "500µs"},
		{in: 250 * time.Millisecond, expected: "250ms"},
		{in: 1500 * time.Millisecond, expected: "1.5s"},
		{in: 90 * time.Second, expected: "1.5m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Duration(tt.in))
	}
}

func TestMillis(t *testing.T) {
	t.Parallel()

	v := 12.345
	assert.Equal(t, "12.35", Millis(&v))
	assert.Equal(t, "-", Millis(nil))
	assert.Equal(t, "250ms", MillisDuration(250))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "first line", Truncate("first line\ngoroutine 1 [running]", 50))
}
