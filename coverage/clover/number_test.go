package clover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"3", 3, false},
		{" 12 ", 12, false},
		{"1,234", 1234, false},
		{"0.0", 0, false},
		{"2.5", 2.5, false},
		{"1e2", 100, false},
		{"7 elements", 7, false},
		{"", 0, true},
		{"many", 0, true},
		{"-", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{"+3", 3, false},
		{"-1", -1, false},
		{"1,000", 1000, false},
		{"5.0", 5, false},
		{"5.5", 0, true},
		{"4x", 0, true},
		{"", 0, true},
		{"1e400", 0, true},
		{"1e30", 0, true},
		{"0", 0, false},
	}
	for _, tt := range tests {
		got, err := parseInteger("num", tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestOptionalCount(t *testing.T) {
	assert.Equal(t, 0, optionalCount(""))
	assert.Equal(t, 0, optionalCount("  "))
	assert.Equal(t, 0, optionalCount("abc"))
	assert.Equal(t, 0, optionalCount("-4"))
	assert.Equal(t, 3, optionalCount("3"))
	assert.Equal(t, 2, optionalCount("2.9"))
}

func TestStats_MatchedPercent(t *testing.T) {
	_, ok := Stats{}.MatchedPercent()
	assert.False(t, ok)

	percent, ok := Stats{Total: 3, Unmatched: 1}.MatchedPercent()
	assert.True(t, ok)
	assert.Equal(t, 66, percent)

	s := Stats{}
	s.unmatched("a")
	s.unmatched("b")
	assert.Equal(t, "a, b", s.UnmatchedList())
}
