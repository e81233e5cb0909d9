package main

import (
	"math"
	"math/rand"
	"testing"
)

func fillRandom(f *Field, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for s := range f.grids {
		for i := range f.grids[s] {
			f.grids[s][i] = rng.Float32()
		}
	}
}

func TestNewFieldRejectsBadResolution(t *testing.T) {
	for _, L := range []int{0, -1} {
		if _, err := NewField(L); err == nil {
			t.Errorf("NewField(%d): expected error", L)
		}
	}
}

func TestDecayScalesEveryVoxel(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatal(err)
	}
	fillRandom(f, 1)
	before := [numSubstances][]float32{}
	for s := range f.grids {
		before[s] = append([]float32(nil), f.grids[s]...)
	}

	mu := 0.3
	if err := f.Decay(mu); err != nil {
		t.Fatal(err)
	}
	keep := float32(1 - mu)
	for s := range f.grids {
		for i, v := range f.grids[s] {
			if want := before[s][i] * keep; v != want {
				t.Fatalf("substance %d voxel %d: got %v, want %v", s, i, v, want)
			}
		}
	}
}

func TestInjectRoutesSubstanceByType(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatal(err)
	}
	p := makePopulation(
		[]int{1, -1},
		[][3]float64{{0.1, 0.1, 0.1}, {0.9, 0.9, 0.9}},
	)
	f.Inject(p)

	if got := f.grids[1][f.idx(0, 0, 0)]; math.Abs(float64(got)-0.1) > 1e-6 {
		t.Errorf("type +1 cell: substance 1 at (0,0,0) = %v, want 0.1", got)
	}
	if got := f.grids[0][f.idx(3, 3, 3)]; math.Abs(float64(got)-0.1) > 1e-6 {
		t.Errorf("type -1 cell: substance 0 at (3,3,3) = %v, want 0.1", got)
	}
	if got := f.grids[0][f.idx(0, 0, 0)]; got != 0 {
		t.Errorf("type +1 cell leaked into substance 0: %v", got)
	}
}

func TestInjectClampsAtCeiling(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatal(err)
	}
	i := f.idx(0, 0, 0)
	f.grids[1][i] = 0.95
	p := makePopulation([]int{1}, [][3]float64{{0.1, 0.1, 0.1}})

	f.Inject(p)
	if got := f.grids[1][i]; got != 1 {
		t.Errorf("concentration after clamped injection = %v, want 1", got)
	}
	f.Inject(p)
	if got := f.grids[1][i]; got != 1 {
		t.Errorf("concentration after repeated injection = %v, want 1", got)
	}
}

func TestDiffusionConservesTotal(t *testing.T) {
	f, err := NewField(5)
	if err != nil {
		t.Fatal(err)
	}
	fillRandom(f, 2)
	before := f.Total(0) + f.Total(1)

	if err := f.Diffuse(0.8); err != nil {
		t.Fatal(err)
	}
	after := f.Total(0) + f.Total(1)
	if math.Abs(after-before) > 1e-3 {
		t.Errorf("total concentration changed: before %v, after %v", before, after)
	}
}

func TestDiffusionNoWraparound(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatal(err)
	}
	f.grids[0][f.idx(0, 0, 0)] = 1

	if err := f.Diffuse(0.6); err != nil {
		t.Fatal(err)
	}
	for _, far := range [][3]int{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}, {3, 3, 3}} {
		if got := f.grids[0][f.idx(far[0], far[1], far[2])]; got != 0 {
			t.Errorf("voxel %v received wrapped flux: %v", far, got)
		}
	}
	// each in-bounds neighbor receives exactly D/6 of the spike
	if got := f.grids[0][f.idx(1, 0, 0)]; math.Abs(float64(got)-0.1) > 1e-6 {
		t.Errorf("neighbor voxel = %v, want 0.1", got)
	}
}

func TestGradientAtCentralDifference(t *testing.T) {
	f, err := NewField(4)
	if err != nil {
		t.Fatal(err)
	}
	// substance 0 rises linearly along x
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				f.grids[0][f.idx(x, y, z)] = float32(x) * 0.1
			}
		}
	}

	grad := make([]float64, 3)
	f.gradientAt(0, 1, 1, 1, grad)
	// (0.2 - 0.0) / (0.25 * 2)
	if math.Abs(grad[0]-0.4) > 1e-6 || math.Abs(grad[1]) > 1e-6 || math.Abs(grad[2]) > 1e-6 {
		t.Errorf("interior gradient = %v, want (0.4, 0, 0)", grad)
	}

	// at the x=0 face the difference degrades to a forward difference
	f.gradientAt(0, 0, 1, 1, grad)
	if math.Abs(grad[0]-0.4) > 1e-6 {
		t.Errorf("boundary gradient x = %v, want 0.4", grad[0])
	}
}

func TestGradientDegenerateGrid(t *testing.T) {
	f, err := NewField(1)
	if err != nil {
		t.Fatal(err)
	}
	f.grids[0][0] = 0.7
	grad := []float64{1, 1, 1}
	f.gradientAt(0, 0, 0, 0, grad)
	for k, v := range grad {
		if v != 0 {
			t.Errorf("gradient component %d on a single-voxel grid = %v, want 0", k, v)
		}
	}
}
