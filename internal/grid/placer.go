package grid

import (
	"math/rand/v2"

	"github.com/mmcdole/mosaic/internal/domain"
)

// EmptyCells returns the indices of nil cells in ascending order
func EmptyCells(cells []*domain.Image) []int {
	var empty []int
	for i, c := range cells {
		if c == nil {
			empty = append(empty, i)
		}
	}
	return empty
}

// FirstEmpty returns the lowest empty index or -1 if the board is full
func FirstEmpty(cells []*domain.Image) int {
	for i, c := range cells {
		if c == nil {
			return i
		}
	}
	return -1
}

// PickEmpty chooses one empty cell uniformly at random.
// It returns domain.ErrGridFull when there is none.
func PickEmpty(cells []*domain.Image, rng *rand.Rand) (int, error) {
	empty := EmptyCells(cells)
	if len(empty) == 0 {
		return -1, domain.ErrGridFull
	}
	return empty[rng.IntN(len(empty))], nil
}

// NewRand returns a seeded source. A zero seed yields a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
