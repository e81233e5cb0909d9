package main

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// maxPairWeight bounds the influence of near-coincident cell pairs on
// the energy sum.
const maxPairWeight = 100

// extractSubvolume returns positions and types of the active cells
// inside the central cube expected to hold about targetN cells if the
// population were spread uniformly.
func extractSubvolume(p *Population, targetN int) ([]float64, []int, float64) {
	half := math.Cbrt(float64(targetN)/float64(p.count)) / 2
	var pos []float64
	var types []int
	for c := 0; c < p.count; c++ {
		pc := p.pos(c)
		if math.Abs(pc[0]-0.5) < half && math.Abs(pc[1]-0.5) < half && math.Abs(pc[2]-0.5) < half {
			pos = append(pos, pc...)
			types = append(types, p.types[c])
		}
	}
	return pos, types, half
}

// Energy quantifies how well the sub-volume population is clustered;
// lower is better. Close same-type pairs lower the value, close
// cross-type pairs raise it.
func Energy(p *Population, spatialRange float64, targetN int, lg *runLogger) float64 {
	pos, types, half := extractSubvolume(p, targetN)
	lg.logf(1, "subVolMax: %f", half)

	var intra, extra, nrClose float64
	m := len(types)
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			d := floats.Distance(pos[3*i:3*i+3], pos[3*j:3*j+3], 2)
			if d >= spatialRange {
				continue
			}
			nrClose++
			w := math.Min(maxPairWeight, spatialRange/d)
			if types[i]*types[j] > 0 {
				intra += w
			} else {
				extra += w
			}
		}
	}
	return (extra - intra) / (1 + 100*nrClose)
}

// Criterion reports whether the sub-volume population is arranged as
// well-separated same-type clusters: the sample must be a meaningful
// size, close cross-type pairs must be rare, and every cell needs
// enough same-type neighbors.
func Criterion(p *Population, spatialRange float64, targetN int, lg *runLogger) bool {
	pos, types, _ := extractSubvolume(p, targetN)
	m := len(types)
	lg.logf(1, "number of cells in subvolume: %d", m)

	frac := float64(m) / float64(targetN)
	if frac < 0.25 {
		lg.logf(2, "not enough cells in subvolume: %d", m)
		return false
	}
	if frac > 4 {
		lg.logf(2, "too many cells in subvolume: %d", m)
		return false
	}

	var nrClose, sameTypeClose, diffTypeClose int
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			d := floats.Distance(pos[3*i:3*i+3], pos[3*j:3*j+3], 2)
			if d >= spatialRange {
				continue
			}
			nrClose++
			if types[i]*types[j] < 0 {
				diffTypeClose++
			} else {
				sameTypeClose++
			}
		}
	}

	coefficient := float64(diffTypeClose) / (float64(nrClose) + 1)
	if coefficient > 0.1 {
		lg.logf(2, "cells in subvolume are not well-clustered: %f", coefficient)
		return false
	}

	avgNeighbors := float64(sameTypeClose) / float64(m)
	lg.logf(1, "average neighbors in subvolume: %f", avgNeighbors)
	if avgNeighbors < 100 {
		lg.logf(2, "cells in subvolume do not have enough neighbors: %f", avgNeighbors)
		return false
	}

	lg.logf(1, "correctness coefficient: %f", coefficient)
	return true
}
