package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		name   string
		val    any
		want   int
		wantOk bool
	}{
		{"Int", 5, 5, true},
		{"Int64", int64(7), 7, true},
		{"Float64 from JSON", float64(3), 3, true},
		{"Numeric string", "42", 42, true},
		{"Byte slice", []byte("9"), 9, true},
		{"Garbage string", "abc", 0, false},
		{"Nil", nil, 0, false},
		{"Bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInt(tt.val)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("1"))
	assert.False(t, ToBool(false))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "1"}, ToStringSlice([]any{"a", 1}))
	assert.Nil(t, ToStringSlice("not-a-slice"))
	assert.Nil(t, ToStringSlice(nil))

	// Copy, not alias
	src := []string{"x"}
	out := ToStringSlice(src)
	out[0] = "y"
	assert.Equal(t, "x", src[0])
}
