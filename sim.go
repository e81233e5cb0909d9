package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
)

const (
	// targetClusterCells sizes the metric sub-volume.
	targetClusterCells = 10000

	progressEvery = 10 // clustering steps between progress prints
	sampleEvery   = 10 // clustering steps between energy samples
	frameEvery    = 5  // steps between video frames
)

// runLogger gates diagnostic output on the accumulated quiet level.
// The zero level prints everything; each -q raises it, each -v lowers
// it. A nil logger discards all output.
type runLogger struct {
	quiet int
}

func (l *runLogger) logf(below int, format string, args ...any) {
	if l == nil || l.quiet >= below {
		return
	}
	log.Printf(format, args...)
}

// simOptions carries the run knobs that are not simulation parameters.
type simOptions struct {
	seed   int64
	quiet  int
	outDir string
	video  bool
	charts bool
}

// Simulation owns the field and the population for one run and drives
// the growth and clustering phases in order.
type Simulation struct {
	params Params
	opts   simOptions

	field *Field
	cells *Population
	rng   *rand.Rand

	timers opTimers
	lg     *runLogger
	rec    *recorder
	vid    *fieldVideo

	step int
}

func newSimulation(params Params, opts simOptions) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	field, err := NewField(params.L)
	if err != nil {
		return nil, err
	}
	cells, err := NewPopulation(params.FinalNumberCells)
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		params: params,
		opts:   opts,
		field:  field,
		cells:  cells,
		rng:    rand.New(rand.NewSource(opts.seed)),
		lg:     &runLogger{quiet: opts.quiet},
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return nil, err
		}
		if s.rec, err = newRecorder(opts.outDir, opts.charts); err != nil {
			return nil, err
		}
		if opts.video {
			if s.vid, err = newFieldVideo(opts.outDir, params.L); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Simulation) growthStep() error {
	var err error
	timed(&s.timers.inject, func() { s.field.Inject(s.cells) })
	timed(&s.timers.diffuse, func() { err = s.field.Diffuse(s.params.D) })
	if err != nil {
		return err
	}
	timed(&s.timers.decay, func() { err = s.field.Decay(s.params.Mu) })
	if err != nil {
		return err
	}
	timed(&s.timers.moveDup, func() {
		s.cells.MoveAndDuplicate(s.rng, s.params.PathThreshold, s.params.DivThreshold)
	})
	s.cells.ClampToUnitCube()
	return nil
}

func (s *Simulation) clusterStep() error {
	var err error
	timed(&s.timers.inject, func() { s.field.Inject(s.cells) })
	timed(&s.timers.diffuse, func() { err = s.field.Diffuse(s.params.D) })
	if err != nil {
		return err
	}
	timed(&s.timers.decay, func() { err = s.field.Decay(s.params.Mu) })
	if err != nil {
		return err
	}
	timed(&s.timers.gradient, func() { err = s.cells.MoveAlongGradient(s.field, s.params.Speed) })
	if err != nil {
		return err
	}
	s.cells.ApplyMovement()
	s.cells.ClampToUnitCube()
	return nil
}

// observe feeds the CSV recorder and the video writer after a step.
func (s *Simulation) observe(phase string, sampled bool) error {
	s.step++
	if s.rec != nil {
		var energy float64
		if sampled {
			timed(&s.timers.energy, func() {
				energy = Energy(s.cells, s.params.SpatialRange, targetClusterCells, nil)
			})
		}
		s.rec.recordStep(s.step, phase, s.cells.count, s.field.Total(0), s.field.Total(1), energy, sampled)
	}
	if s.vid != nil && s.step%frameEvery == 0 {
		return s.vid.addFrame(s.field, s.step, phase)
	}
	return nil
}

func (s *Simulation) progress(remaining int) {
	if remaining%progressEvery != 0 {
		return
	}
	if s.opts.quiet < 1 {
		fmt.Printf("step %d\n", remaining)
	} else if s.opts.quiet < 2 {
		fmt.Printf("\rstep %d", remaining)
	}
}

// Run grows the population to its target, then runs the fixed number of
// clustering steps. Energy and criterion evaluations bracket the
// clustering phase; they are reporting only and never feed back.
func (s *Simulation) Run() (float64, bool, error) {
	s.timers.compute.reset()

	s.timers.phase1.reset()
	for s.cells.count < s.params.FinalNumberCells {
		if err := s.growthStep(); err != nil {
			return 0, false, err
		}
		if err := s.observe("growing", false); err != nil {
			return 0, false, err
		}
	}
	s.timers.phase1.mark()
	log.Printf("%-35s = %e s", "PHASE1_TIME", s.timers.phase1.seconds())

	s.timers.phase2.reset()
	var energy float64
	var criterion bool
	timed(&s.timers.energy, func() {
		energy = Energy(s.cells, s.params.SpatialRange, targetClusterCells, s.lg)
	})
	timed(&s.timers.criterion, func() {
		criterion = Criterion(s.cells, s.params.SpatialRange, targetClusterCells, s.lg)
	})
	log.Printf("%-35s = %t", "INITIAL_CRITERION", criterion)
	log.Printf("%-35s = %e", "INITIAL_ENERGY", energy)

	for i := s.params.T; i > 0; i-- {
		s.progress(i - 1)
		if err := s.clusterStep(); err != nil {
			return 0, false, err
		}
		sampled := s.rec != nil && s.rec.charts && (i-1)%sampleEvery == 0
		if err := s.observe("clustering", sampled); err != nil {
			return 0, false, err
		}
	}
	if s.opts.quiet == 1 && s.params.T > 0 {
		fmt.Println()
	}

	timed(&s.timers.energy, func() {
		energy = Energy(s.cells, s.params.SpatialRange, targetClusterCells, s.lg)
	})
	timed(&s.timers.criterion, func() {
		criterion = Criterion(s.cells, s.params.SpatialRange, targetClusterCells, s.lg)
	})
	log.Printf("%-35s = %t", "FINAL_CRITERION", criterion)
	log.Printf("%-35s = %e", "FINAL_ENERGY", energy)

	s.timers.phase2.mark()
	s.timers.compute.mark()
	log.Printf("%-35s = %e s", "PHASE2_TIME", s.timers.phase2.seconds())
	s.timers.report()

	if err := s.rec.close(); err != nil {
		return energy, criterion, err
	}
	if err := s.vid.close(); err != nil {
		return energy, criterion, err
	}
	return energy, criterion, nil
}

// runSimulation is the single entry point behind the CLI: it builds a
// simulation from validated parameters, runs it to completion, and
// returns the final energy and criterion.
func runSimulation(params Params, opts simOptions) (float64, bool, error) {
	var initSW stopwatch
	initSW.reset()
	sim, err := newSimulation(params, opts)
	if err != nil {
		return 0, false, err
	}
	initSW.mark()
	sim.timers.init = initSW
	log.Printf("%-35s = %e s", "INITIALIZATION_TIME", initSW.seconds())
	return sim.Run()
}
