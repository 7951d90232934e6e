package random

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := Generate(r, 3, 5)
		require.GreaterOrEqual(t, n, 3)
		require.LessOrEqual(t, n, 5)
		seen[n] = true
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, 7, Generate(r, 7, 7))
}

func TestGenerateBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"single value", 7, 7},
		{"negative range", -10, -1},
		{"zero to max int", 0, math.MaxInt},
		{"min int to zero", math.MinInt, 0},
		{"min int to max int", math.MinInt, math.MaxInt},
		{"near full range", math.MinInt + 1, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(1))
			for i := 0; i < 100; i++ {
				n := Generate(r, tt.min, tt.max)
				require.GreaterOrEqual(t, n, tt.min)
				require.LessOrEqual(t, n, tt.max)
			}
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("prints header and numbers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Run(&buf, rand.New(rand.NewSource(42)), 1, 100, 3))
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Generating 3 random number(s) between 1 and 100:", lines[0])
		assert.True(t, strings.HasPrefix(lines[3], "Random number 3: "))
	})

	t.Run("same seed same output", func(t *testing.T) {
		var a, b bytes.Buffer
		require.NoError(t, Run(&a, rand.New(rand.NewSource(7)), -5, 5, 10))
		require.NoError(t, Run(&b, rand.New(rand.NewSource(7)), -5, 5, 10))
		assert.Equal(t, a.String(), b.String())
	})

	t.Run("whole int range", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Run(&buf, rand.New(rand.NewSource(1)), 0, math.MaxInt, 1))
		assert.True(t, strings.HasPrefix(buf.String(), "Generating 1 random number(s) between 0 and 9223372036854775807:\n"))
	})

	t.Run("invalid bounds", func(t *testing.T) {
		var buf bytes.Buffer
		assert.EqualError(t, Run(&buf, rand.New(rand.NewSource(1)), 10, 1, 1), "min 10 is greater than max 1")
		assert.EqualError(t, Run(&buf, rand.New(rand.NewSource(1)), 1, 10, -1), "count -1 is negative")
		assert.Empty(t, buf.String())
	})
}
