package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// Params holds the nine required simulation parameters. All of them
// must come from the input file (or a command-line override); there are
// no defaults.
type Params struct {
	Speed            float64 // multiplicative factor for gradient-based movement
	T                int     // number of clustering time steps
	L                int     // resolution of the diffusion mesh
	D                float64 // diffusion constant
	Mu               float64 // decay constant
	DivThreshold     int     // maximum divisions per cell during growth
	FinalNumberCells int     // population capacity and growth target
	SpatialRange     float64 // maximal spatial extent of a cluster
	PathThreshold    float64 // path length traveled before a cell divides
}

var paramKeys = []string{
	"speed", "T", "L", "D", "mu",
	"divThreshold", "finalNumberCells", "spatialRange", "pathThreshold",
}

func (p *Params) set(key, value string) error {
	var err error
	switch key {
	case "speed":
		p.Speed, err = strconv.ParseFloat(value, 64)
	case "T":
		p.T, err = strconv.Atoi(value)
	case "L":
		p.L, err = strconv.Atoi(value)
	case "D":
		p.D, err = strconv.ParseFloat(value, 64)
	case "mu":
		p.Mu, err = strconv.ParseFloat(value, 64)
	case "divThreshold":
		p.DivThreshold, err = strconv.Atoi(value)
	case "finalNumberCells":
		p.FinalNumberCells, err = strconv.Atoi(value)
	case "spatialRange":
		p.SpatialRange, err = strconv.ParseFloat(value, 64)
	case "pathThreshold":
		p.PathThreshold, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("unknown parameter %q", key)
	}
	if err != nil {
		return fmt.Errorf("parameter %q: %v", key, err)
	}
	return nil
}

// LoadParams reads a param=value file. Blank lines and lines starting
// with # or // are ignored; every known key must appear exactly once.
func LoadParams(path string) (*Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Params{}
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected param=value, got %q", path, lineNo, line)
		}
		key = strings.TrimSpace(key)
		if seen[key] {
			return nil, fmt.Errorf("%s:%d: duplicate parameter %q", path, lineNo, key)
		}
		if err := p.set(key, strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, lineNo, err)
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, k := range paramKeys {
		if !seen[k] {
			return nil, fmt.Errorf("%s: missing required parameter %q", path, k)
		}
	}
	return p, nil
}

// applyOverrides replaces file values with trailing param=value
// command-line arguments.
func applyOverrides(p *Params, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("override %q: expected param=value", arg)
		}
		if err := p.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects configurations that cannot run. Every run aborts
// here before any allocation or simulation step.
func (p *Params) Validate() error {
	if p.L < 1 {
		return fmt.Errorf("L must be at least 1, got %d", p.L)
	}
	if p.T < 0 {
		return fmt.Errorf("T must be non-negative, got %d", p.T)
	}
	if p.DivThreshold < 0 {
		return fmt.Errorf("divThreshold must be non-negative, got %d", p.DivThreshold)
	}
	if p.FinalNumberCells < 1 {
		return fmt.Errorf("finalNumberCells must be at least 1, got %d", p.FinalNumberCells)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"speed", p.Speed},
		{"D", p.D},
		{"mu", p.Mu},
		{"spatialRange", p.SpatialRange},
		{"pathThreshold", p.PathThreshold},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%s must be finite and non-negative, got %v", f.name, f.value)
		}
	}
	if p.Mu > 1 {
		return fmt.Errorf("mu must be at most 1, got %v", p.Mu)
	}
	// growth doubles the population at most divThreshold times
	if p.DivThreshold < 63 && p.FinalNumberCells > 1<<uint(p.DivThreshold) {
		return fmt.Errorf("finalNumberCells %d is unreachable: divThreshold %d allows at most %d cells",
			p.FinalNumberCells, p.DivThreshold, 1<<uint(p.DivThreshold))
	}
	return nil
}

// report echoes the effective parameter values to the log.
func (p *Params) report() {
	log.Printf("%-35s = %v", "speed", p.Speed)
	log.Printf("%-35s = %d", "T", p.T)
	log.Printf("%-35s = %d", "L", p.L)
	log.Printf("%-35s = %v", "D", p.D)
	log.Printf("%-35s = %v", "mu", p.Mu)
	log.Printf("%-35s = %d", "divThreshold", p.DivThreshold)
	log.Printf("%-35s = %d", "finalNumberCells", p.FinalNumberCells)
	log.Printf("%-35s = %v", "spatialRange", p.SpatialRange)
	log.Printf("%-35s = %v", "pathThreshold", p.PathThreshold)
}
