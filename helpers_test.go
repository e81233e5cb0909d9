package main

// makePopulation builds a population directly from types and positions.
func makePopulation(types []int, positions [][3]float64) *Population {
	n := len(types)
	p := &Population{
		positions: make([]float64, 3*n),
		movements: make([]float64, 3*n),
		types:     make([]int, n),
		path:      make([]float64, n),
		divisions: make([]int, n),
		count:     n,
		capacity:  n,
	}
	copy(p.types, types)
	for i, pos := range positions {
		copy(p.pos(i), pos[:])
	}
	return p
}

// clusterPositions lays out k positions inside a 0.001-wide blob around
// the given center, deterministically.
func clusterPositions(k int, cx, cy, cz float64) [][3]float64 {
	pts := make([][3]float64, k)
	for i := range pts {
		pts[i] = [3]float64{
			cx + 0.001*float64(i%5)/5,
			cy + 0.001*float64((i/5)%5)/5,
			cz + 0.001*float64(i/25)/25,
		}
	}
	return pts
}
