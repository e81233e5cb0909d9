package main

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	numSubstances    = 2
	injectionAmount  = 0.1
	maxConcentration = 1.0
)

// Field holds the two co-located cubic concentration grids over the
// unit cube. Values are stored flat in x-major order:
// index = (x*L + y)*L + z.
type Field struct {
	L       int
	side    float64 // edge length of one voxel
	grids   [numSubstances][]float32
	scratch [numSubstances][]float32
	workers int
}

func NewField(L int) (*Field, error) {
	if L < 1 {
		return nil, fmt.Errorf("grid resolution must be positive, got %d", L)
	}
	f := &Field{L: L, side: 1 / float64(L), workers: runtime.GOMAXPROCS(0)}
	for s := range f.grids {
		f.grids[s] = make([]float32, L*L*L)
		f.scratch[s] = make([]float32, L*L*L)
	}
	return f, nil
}

func (f *Field) idx(x, y, z int) int { return (x*f.L+y)*f.L + z }

// voxelOf maps a continuous coordinate in [0,1] to a voxel index.
func (f *Field) voxelOf(p float64) int {
	i := int(math.Floor(p / f.side))
	if i > f.L-1 {
		return f.L - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

// stripes distributes x-slabs of the grid across worker goroutines and
// waits for all of them.
func (f *Field) stripes(fn func(x int)) error {
	workers := f.workers
	if workers > f.L {
		workers = f.L
	}
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for x := w; x < f.L; x += workers {
				fn(x)
			}
			return nil
		})
	}
	return g.Wait()
}

// Inject adds substance at every active cell's voxel. Type +1 cells
// feed substance 1, all others substance 0. Each contribution is
// clamped at the ceiling without re-clamping earlier voxel state.
func (f *Field) Inject(p *Population) {
	for c := 0; c < p.count; c++ {
		s := 0
		if p.types[c] == 1 {
			s = 1
		}
		pos := p.pos(c)
		i := f.idx(f.voxelOf(pos[0]), f.voxelOf(pos[1]), f.voxelOf(pos[2]))
		g := f.grids[s]
		g[i] += injectionAmount
		if g[i] > maxConcentration {
			g[i] = maxConcentration
		}
	}
}

// Diffuse runs one explicit stencil step at rate D/6 per face neighbor,
// reading the start-of-step snapshot so no update sees a half-updated
// neighbor. Out-of-bounds neighbors are skipped: no wraparound, and
// boundary voxels exchange less flux.
func (f *Field) Diffuse(D float64) error {
	for s := range f.grids {
		copy(f.scratch[s], f.grids[s])
	}
	rate := float32(D / 6)
	L := f.L
	return f.stripes(func(x int) {
		for s := range f.grids {
			cur, snap := f.grids[s], f.scratch[s]
			for y := 0; y < L; y++ {
				for z := 0; z < L; z++ {
					i := (x*L+y)*L + z
					c := snap[i]
					v := cur[i]
					if x+1 < L {
						v += (snap[((x+1)*L+y)*L+z] - c) * rate
					}
					if x-1 >= 0 {
						v += (snap[((x-1)*L+y)*L+z] - c) * rate
					}
					if y+1 < L {
						v += (snap[(x*L+y+1)*L+z] - c) * rate
					}
					if y-1 >= 0 {
						v += (snap[(x*L+y-1)*L+z] - c) * rate
					}
					if z+1 < L {
						v += (snap[i+1] - c) * rate
					}
					if z-1 >= 0 {
						v += (snap[i-1] - c) * rate
					}
					cur[i] = v
				}
			}
		}
	})
}

// Decay scales every voxel of both grids by (1 - mu).
func (f *Field) Decay(mu float64) error {
	keep := float32(1 - mu)
	L := f.L
	return f.stripes(func(x int) {
		base := x * L * L
		for s := range f.grids {
			g := f.grids[s][base : base+L*L]
			for i := range g {
				g[i] *= keep
			}
		}
	})
}

// gradientAt estimates the spatial gradient of substance s at voxel
// (x,y,z) by central differences with neighbor indices clamped into
// range. A component whose clamped neighbors coincide is zero.
func (f *Field) gradientAt(s, x, y, z int, grad []float64) {
	g := f.grids[s]
	xUp, xDown := min(x+1, f.L-1), max(x-1, 0)
	yUp, yDown := min(y+1, f.L-1), max(y-1, 0)
	zUp, zDown := min(z+1, f.L-1), max(z-1, 0)
	grad[0] = f.diff(g[f.idx(xUp, y, z)], g[f.idx(xDown, y, z)], xUp-xDown)
	grad[1] = f.diff(g[f.idx(x, yUp, z)], g[f.idx(x, yDown, z)], yUp-yDown)
	grad[2] = f.diff(g[f.idx(x, y, zUp)], g[f.idx(x, y, zDown)], zUp-zDown)
}

func (f *Field) diff(hi, lo float32, span int) float64 {
	if span == 0 {
		return 0
	}
	return float64(hi-lo) / (f.side * float64(span))
}

// Total returns the sum of all voxel values of substance s.
func (f *Field) Total(s int) float64 {
	var sum float64
	for _, v := range f.grids[s] {
		sum += float64(v)
	}
	return sum
}
