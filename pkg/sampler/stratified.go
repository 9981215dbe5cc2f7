package sampler

import (
	"math/rand"

	"github.com/arclight-render/arclight/pkg/core"
)

// StratifiedSampler allocates one jittered-or-centered value per cell of an
// nx*ny grid for each declared dimension, then independently Fisher-Yates
// shuffles each dimension's table so correlations between dimensions (e.g.
// between the BSDF-sample dimension and the light-sample dimension) are
// broken. Drawing beyond the declared dimension budget falls back to plain
// uniform draws.
type StratifiedSampler struct {
	rnd    *rand.Rand
	jitter bool

	samples1D [][]float64
	samples2D [][]core.Vec2

	sampleCount int
	current     int
	cur1D       int
	cur2D       int
}

// NewStratifiedSampler creates a StratifiedSampler seeded deterministically.
func NewStratifiedSampler(seed uint64, jitter bool) *StratifiedSampler {
	return &StratifiedSampler{rnd: rand.New(rand.NewSource(int64(seed))), jitter: jitter}
}

func (s *StratifiedSampler) Clone(seed uint64) Sampler {
	return NewStratifiedSampler(seed, s.jitter)
}

func (s *StratifiedSampler) BeginPixel(nx, ny, dims1D, dims2D int) {
	n := nx * ny
	s.sampleCount = n

	s.samples1D = make([][]float64, dims1D)
	for i := range s.samples1D {
		v := make([]float64, n)
		for j := 0; j < n; j++ {
			delta := 0.5
			if s.jitter {
				delta = s.rnd.Float64()
			}
			v[j] = min((float64(j)+delta)/float64(n), oneMinusEpsilon)
		}
		fisherYates(s.rnd, v)
		s.samples1D[i] = v
	}

	s.samples2D = make([][]core.Vec2, dims2D)
	for i := range s.samples2D {
		v := make([]core.Vec2, n)
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				dx, dy := 0.5, 0.5
				if s.jitter {
					dx, dy = s.rnd.Float64(), s.rnd.Float64()
				}
				v[y*nx+x] = core.Vec2{
					X: min((float64(x)+dx)/float64(nx), oneMinusEpsilon),
					Y: min((float64(y)+dy)/float64(ny), oneMinusEpsilon),
				}
			}
		}
		fisherYates2D(s.rnd, v)
		s.samples2D[i] = v
	}

	s.current = 0
	s.cur1D = 0
	s.cur2D = 0
}

func fisherYates(rnd *rand.Rand, v []float64) {
	for k := len(v) - 1; k >= 1; k-- {
		j := rnd.Intn(k + 1)
		v[k], v[j] = v[j], v[k]
	}
}

func fisherYates2D(rnd *rand.Rand, v []core.Vec2) {
	for k := len(v) - 1; k >= 1; k-- {
		j := rnd.Intn(k + 1)
		v[k], v[j] = v[j], v[k]
	}
}

func (s *StratifiedSampler) BeginSample() {}

func (s *StratifiedSampler) Get1D() float64 {
	if s.cur1D < len(s.samples1D) {
		v := s.samples1D[s.cur1D][s.current]
		s.cur1D++
		return v
	}
	return min(s.rnd.Float64(), oneMinusEpsilon)
}

func (s *StratifiedSampler) Get2D() core.Vec2 {
	if s.cur2D < len(s.samples2D) {
		v := s.samples2D[s.cur2D][s.current]
		s.cur2D++
		return v
	}
	return core.Vec2{X: min(s.rnd.Float64(), oneMinusEpsilon), Y: min(s.rnd.Float64(), oneMinusEpsilon)}
}

func (s *StratifiedSampler) EndSample() {
	s.current++
	s.cur1D = 0
	s.cur2D = 0
}

func (s *StratifiedSampler) EndPixel() {}
