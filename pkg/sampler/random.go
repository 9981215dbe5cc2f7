package sampler

import (
	"math/rand"

	"github.com/arclight-render/arclight/pkg/core"
)

// RandomSampler draws every dimension from a plain uniform PRNG stream,
// with no stratification structure.
type RandomSampler struct {
	rnd *rand.Rand
}

// NewRandomSampler creates a RandomSampler seeded deterministically.
func NewRandomSampler(seed uint64) *RandomSampler {
	return &RandomSampler{rnd: rand.New(rand.NewSource(int64(seed)))}
}

func (s *RandomSampler) Clone(seed uint64) Sampler { return NewRandomSampler(seed) }

func (s *RandomSampler) BeginPixel(nx, ny, dims1D, dims2D int) {}
func (s *RandomSampler) BeginSample()                          {}
func (s *RandomSampler) EndSample()                            {}
func (s *RandomSampler) EndPixel()                             {}

func (s *RandomSampler) Get1D() float64 {
	return min(s.rnd.Float64(), oneMinusEpsilon)
}

func (s *RandomSampler) Get2D() core.Vec2 {
	return core.Vec2{X: min(s.rnd.Float64(), oneMinusEpsilon), Y: min(s.rnd.Float64(), oneMinusEpsilon)}
}
