package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// recorder writes the per-step metrics CSV and accumulates the series
// behind the growth and energy charts. It only observes the simulation;
// nothing it records feeds back into a step.
type recorder struct {
	outDir string
	charts bool

	file *os.File
	csv  *csv.Writer

	growthSteps []float64
	growthCells []float64
	energyPts   plotter.XYs
}

func newRecorder(outDir string, charts bool) (*recorder, error) {
	f, err := os.Create(filepath.Join(outDir, "simulation_metrics.csv"))
	if err != nil {
		return nil, err
	}
	r := &recorder{outDir: outDir, charts: charts, file: f, csv: csv.NewWriter(f)}
	r.csv.Write([]string{"step", "phase", "cells", "substance0_total", "substance1_total", "energy"})
	return r, nil
}

// recordStep appends one CSV row. energy is written only when hasEnergy
// is set; growth and energy chart series are collected on the side.
func (r *recorder) recordStep(step int, phase string, cells int, total0, total1, energy float64, hasEnergy bool) {
	if r == nil {
		return
	}
	e := ""
	if hasEnergy {
		e = strconv.FormatFloat(energy, 'e', 6, 64)
	}
	r.csv.Write([]string{
		strconv.Itoa(step),
		phase,
		strconv.Itoa(cells),
		strconv.FormatFloat(total0, 'e', 6, 64),
		strconv.FormatFloat(total1, 'e', 6, 64),
		e,
	})
	switch phase {
	case "growing":
		r.growthSteps = append(r.growthSteps, float64(step))
		r.growthCells = append(r.growthCells, float64(cells))
	case "clustering":
		if hasEnergy {
			r.energyPts = append(r.energyPts, plotter.XY{X: float64(step), Y: energy})
		}
	}
}

func (r *recorder) writeGrowthChart() error {
	if len(r.growthSteps) < 2 {
		return nil
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name:  "step",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "active cells",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "active cells",
				XValues: r.growthSteps,
				YValues: r.growthCells,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255},
					StrokeWidth: 4.0,
				},
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.outDir, "growth.png"), buffer.Bytes(), 0644)
}

func (r *recorder) writeEnergyChart() error {
	if len(r.energyPts) < 2 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Clustering energy"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "energy"
	if err := plotutil.AddLinePoints(p, "energy", r.energyPts); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, filepath.Join(r.outDir, "energy.png"))
}

// close flushes the CSV and renders the charts.
func (r *recorder) close() error {
	if r == nil {
		return nil
	}
	r.csv.Flush()
	err := r.csv.Error()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if r.charts {
		if gerr := r.writeGrowthChart(); err == nil {
			err = gerr
		}
		if eerr := r.writeEnergyChart(); err == nil {
			err = eerr
		}
	}
	return err
}
