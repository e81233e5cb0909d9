package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeParamsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.dat")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validParamsFile = `# clustering run
speed=20
T=50
L=50
D=15
mu=0.07

// growth phase
divThreshold=16
finalNumberCells=10000
spatialRange=0.1
pathThreshold=0.5
`

func TestLoadParams(t *testing.T) {
	p, err := LoadParams(writeParamsFile(t, validParamsFile))
	if err != nil {
		t.Fatal(err)
	}
	if p.Speed != 20 || p.T != 50 || p.L != 50 || p.D != 15 || p.Mu != 0.07 {
		t.Errorf("unexpected field values: %+v", p)
	}
	if p.DivThreshold != 16 || p.FinalNumberCells != 10000 || p.SpatialRange != 0.1 || p.PathThreshold != 0.5 {
		t.Errorf("unexpected growth values: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("valid file failed validation: %v", err)
	}
}

func TestLoadParamsRejectsUnknownKey(t *testing.T) {
	_, err := LoadParams(writeParamsFile(t, validParamsFile+"turbo=1\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown parameter") {
		t.Errorf("expected unknown parameter error, got %v", err)
	}
}

func TestLoadParamsRejectsMissingKey(t *testing.T) {
	content := strings.Replace(validParamsFile, "mu=0.07\n", "", 1)
	_, err := LoadParams(writeParamsFile(t, content))
	if err == nil || !strings.Contains(err.Error(), `missing required parameter "mu"`) {
		t.Errorf("expected missing mu error, got %v", err)
	}
}

func TestLoadParamsRejectsDuplicateKey(t *testing.T) {
	_, err := LoadParams(writeParamsFile(t, validParamsFile+"speed=3\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate parameter") {
		t.Errorf("expected duplicate parameter error, got %v", err)
	}
}

func TestLoadParamsRejectsMalformedLine(t *testing.T) {
	_, err := LoadParams(writeParamsFile(t, "speed 20\n"))
	if err == nil || !strings.Contains(err.Error(), "expected param=value") {
		t.Errorf("expected malformed line error, got %v", err)
	}
}

func TestLoadParamsRejectsBadValue(t *testing.T) {
	content := strings.Replace(validParamsFile, "T=50", "T=fifty", 1)
	_, err := LoadParams(writeParamsFile(t, content))
	if err == nil {
		t.Error("expected parse error for T=fifty")
	}
}

func TestApplyOverrides(t *testing.T) {
	p, err := LoadParams(writeParamsFile(t, validParamsFile))
	if err != nil {
		t.Fatal(err)
	}
	if err := applyOverrides(p, []string{"T=7", "mu=0.5"}); err != nil {
		t.Fatal(err)
	}
	if p.T != 7 || p.Mu != 0.5 {
		t.Errorf("overrides not applied: T=%d mu=%v", p.T, p.Mu)
	}

	if err := applyOverrides(p, []string{"bogus"}); err == nil {
		t.Error("expected error for override without '='")
	}
	if err := applyOverrides(p, []string{"turbo=1"}); err == nil {
		t.Error("expected error for unknown override key")
	}
}

func TestValidate(t *testing.T) {
	base := Params{
		Speed: 2, T: 10, L: 8, D: 0.3, Mu: 0.1,
		DivThreshold: 5, FinalNumberCells: 16,
		SpatialRange: 0.1, PathThreshold: 0.09,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base params invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero resolution", func(p *Params) { p.L = 0 }},
		{"negative steps", func(p *Params) { p.T = -1 }},
		{"zero target", func(p *Params) { p.FinalNumberCells = 0 }},
		{"negative diffusion", func(p *Params) { p.D = -0.1 }},
		{"decay above one", func(p *Params) { p.Mu = 1.5 }},
		{"unreachable growth", func(p *Params) { p.FinalNumberCells = 100; p.DivThreshold = 3 }},
	}
	for _, tc := range cases {
		p := base
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
