package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewerThan(t *testing.T) {
	assert.True(t, NewerThan("2", "1"))
	assert.True(t, NewerThan("2~1", "1~2"))
	assert.True(t, NewerThan("2", "2rc"))
	assert.True(t, NewerThan("1.0-2", "1.0-1"))
	assert.False(t, NewerThan("1.0-1", "1.0-1"))
	assert.False(t, NewerThan("1", "2"))
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0.1", "1.0", 1},
		{"1.0", "1.0.1", -1},
		{"1.10", "1.9", 1},
		{"1.010", "1.10", 0},
		{"2rc", "2", -1},
		{"2a", "2.0", -1},
		{"1.0-1", "1.0", 0},
		{"3.22.16-1", "3.22.16-1", 0},
		{"2~3.22.16-1", "3.22.16-1", 1},
		{"1~5", "2~1", -1},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, Compare(c.a, c.b), "Compare(%q, %q)", c.a, c.b)
	}
}

func TestCompareEpochDefault(t *testing.T) {
	// No epoch means epoch zero.
	assert.Equal(t, 1, Compare("1~1.0-1", "1.0-1"))
	assert.Equal(t, -1, Compare("1.0-1", "1~0.1-1"))
}
