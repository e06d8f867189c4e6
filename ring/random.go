package ring

import (
	"math"
	"math/rand/v2"

	"github.com/npillmayer/splinedit"
)

// RandomDirections produces unit vectors with an angle uniformly distributed
// in [0,2π).
type RandomDirections struct {
	rnd *rand.Rand
}

// NewRandomDirections creates a source of random unit vectors. Equal seeds
// produce equal sequences.
func NewRandomDirections(seed uint64) *RandomDirections {
	return &RandomDirections{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// UnitVector returns the next random unit vector.
func (rd *RandomDirections) UnitVector() splinedit.Pair {
	return splinedit.UnitVector(rd.rnd.Float64() * 2 * math.Pi)
}
