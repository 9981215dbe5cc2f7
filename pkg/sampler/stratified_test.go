package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStratifiedSamplerCoversEveryCell(t *testing.T) {
	const nx, ny = 4, 4
	s := NewStratifiedSampler(1, false)
	s.BeginPixel(nx, ny, 0, 1)

	seen := make([][]bool, ny)
	for i := range seen {
		seen[i] = make([]bool, nx)
	}

	for i := 0; i < nx*ny; i++ {
		u := s.Get2D()
		cx := int(u.X * nx)
		cy := int(u.Y * ny)
		assert.False(t, seen[cy][cx], "cell (%d,%d) hit twice", cx, cy)
		seen[cy][cx] = true
		s.EndSample()
	}

	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			assert.True(t, seen[y][x], "cell (%d,%d) never sampled", x, y)
		}
	}
}

func TestStratifiedSamplerDeterministicClone(t *testing.T) {
	parent := NewStratifiedSampler(42, true)
	a := parent.Clone(7).(*StratifiedSampler)
	b := parent.Clone(7).(*StratifiedSampler)

	a.BeginPixel(2, 2, 1, 1)
	b.BeginPixel(2, 2, 1, 1)

	for i := 0; i < 4; i++ {
		assert.Equal(t, a.Get1D(), b.Get1D())
		assert.Equal(t, a.Get2D(), b.Get2D())
		a.EndSample()
		b.EndSample()
	}
}

func TestStratifiedSamplerOverflowFallsBackToUniform(t *testing.T) {
	s := NewStratifiedSampler(3, true)
	s.BeginPixel(2, 2, 0, 0)

	v := s.Get1D()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
