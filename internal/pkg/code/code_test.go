package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndCharset(t *testing.T) {
	for _, n := range []int{1, 4, 6, 12} {
		c, err := Generate(n)
		require.NoError(t, err)
		assert.Len(t, c, n)
		for _, r := range c {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q", r)
		}
	}
}

func TestGenerate_RejectsNonPositiveLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
}

func TestDigits_DefaultsToSix(t *testing.T) {
	c, err := Digits{}.Generate()
	require.NoError(t, err)
	assert.Len(t, c, DefaultLength)
}

// Every digit should show up over a few thousand draws; a biased or constant
// source would not.
func TestGenerate_CoversAllDigits(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 500 && len(seen) < 10; i++ {
		c, err := Generate(DefaultLength)
		require.NoError(t, err)
		for _, r := range c {
			seen[r] = true
		}
	}
	assert.Len(t, seen, 10)
}
