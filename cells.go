package main

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	stepSize        = 0.1  // random walk step length during growth
	offspringOffset = 0.05 // distance of a duplicated cell from its parent
)

// Population stores per-cell state in parallel arrays. positions and
// movements hold xyz triples back to back; a cell is identified by its
// index. Cells are only ever appended, up to the capacity fixed at
// construction.
type Population struct {
	positions []float64
	movements []float64
	types     []int
	path      []float64
	divisions []int
	count     int
	capacity  int
}

// NewPopulation allocates storage for capacity cells and seeds the
// founder: type +1, centered in the unit cube.
func NewPopulation(capacity int) (*Population, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("population capacity must be positive, got %d", capacity)
	}
	p := &Population{
		positions: make([]float64, 3*capacity),
		movements: make([]float64, 3*capacity),
		types:     make([]int, capacity),
		path:      make([]float64, capacity),
		divisions: make([]int, capacity),
		count:     1,
		capacity:  capacity,
	}
	p.types[0] = 1
	copy(p.pos(0), []float64{0.5, 0.5, 0.5})
	return p, nil
}

func (p *Population) pos(c int) []float64 { return p.positions[3*c : 3*c+3] }
func (p *Population) mov(c int) []float64 { return p.movements[3*c : 3*c+3] }

// randomUnit fills v with a uniformly drawn direction of unit length.
func randomUnit(rng *rand.Rand, v []float64) {
	for {
		v[0] = rng.Float64() - 0.5
		v[1] = rng.Float64() - 0.5
		v[2] = rng.Float64() - 0.5
		if n := floats.Norm(v, 2); n > 0 {
			floats.Scale(1/n, v)
			return
		}
	}
}

// MoveAndDuplicate advances every active cell by one random unit step
// and duplicates cells whose accumulated path exceeds pathThreshold,
// provided they have divided fewer than divisionCap times and a slot is
// free. The residual path carries over; offspring take the negated
// parent type and are placed a small random offset away. Appends are
// sequential, so the loop is too. Returns the new active count.
func (p *Population) MoveAndDuplicate(rng *rand.Rand, pathThreshold float64, divisionCap int) int {
	dir := make([]float64, 3)
	n := p.count
	for c := 0; c < n; c++ {
		randomUnit(rng, dir)
		pc := p.pos(c)
		floats.AddScaled(pc, stepSize, dir)
		p.path[c] += stepSize

		if p.divisions[c] >= divisionCap || p.path[c] <= pathThreshold || p.count >= p.capacity {
			continue
		}
		p.path[c] -= pathThreshold
		p.divisions[c]++

		child := p.count
		p.count++
		p.divisions[child] = p.divisions[c]
		p.types[child] = -p.types[c]
		p.path[child] = 0

		cp := p.pos(child)
		copy(cp, pc)
		randomUnit(rng, dir)
		floats.AddScaled(cp, offspringOffset, dir)
	}
	return p.count
}

// MoveAlongGradient computes each cell's movement vector from the two
// substance gradients at its voxel: a cell climbs the gradient of the
// substance its type produces and descends the other. Cells where
// either gradient vanishes stay put. Writes are per-cell disjoint, so
// the cells are striped across workers.
func (p *Population) MoveAlongGradient(f *Field, speed float64) error {
	n := p.count
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			grad0 := make([]float64, 3)
			grad1 := make([]float64, 3)
			for c := w; c < n; c += workers {
				pc := p.pos(c)
				x := f.voxelOf(pc[0])
				y := f.voxelOf(pc[1])
				z := f.voxelOf(pc[2])
				f.gradientAt(0, x, y, z, grad0)
				f.gradientAt(1, x, y, z, grad1)
				n0 := floats.Norm(grad0, 2)
				n1 := floats.Norm(grad1, 2)
				mv := p.mov(c)
				if n0 > 0 && n1 > 0 {
					t := float64(p.types[c])
					for k := 0; k < 3; k++ {
						mv[k] = t * (grad1[k]/n1 - grad0[k]/n0) * speed
					}
				} else {
					mv[0], mv[1], mv[2] = 0, 0, 0
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ApplyMovement adds the movement vectors computed by MoveAlongGradient
// to every active cell's position.
func (p *Population) ApplyMovement() {
	floats.Add(p.positions[:3*p.count], p.movements[:3*p.count])
}

// ClampToUnitCube keeps every coordinate inside [0,1].
func (p *Population) ClampToUnitCube() {
	for i, v := range p.positions[:3*p.count] {
		if v < 0 {
			p.positions[i] = 0
		} else if v > 1 {
			p.positions[i] = 1
		}
	}
}
