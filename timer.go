package main

import (
	"log"
	"time"
)

// stopwatch accumulates wall-clock time across repeated reset/mark
// brackets.
type stopwatch struct {
	start   time.Time
	elapsed time.Duration
}

func (s *stopwatch) reset() { s.start = time.Now() }
func (s *stopwatch) mark()  { s.elapsed += time.Since(s.start) }

func (s *stopwatch) seconds() float64 { return s.elapsed.Seconds() }

// opTimers collects cumulative per-operation timings for one run. It is
// passed around explicitly rather than living in package state.
type opTimers struct {
	init      stopwatch
	phase1    stopwatch
	phase2    stopwatch
	compute   stopwatch
	inject    stopwatch
	diffuse   stopwatch
	decay     stopwatch
	moveDup   stopwatch
	gradient  stopwatch
	energy    stopwatch
	criterion stopwatch
}

// timed runs fn inside a reset/mark bracket of w.
func timed(w *stopwatch, fn func()) {
	w.reset()
	fn()
	w.mark()
}

// report prints each operation's cumulative time and its share of the
// total compute time.
func (t *opTimers) report() {
	total := t.compute.seconds()
	if total <= 0 {
		total = 1e-9
	}
	row := func(name string, sw *stopwatch) {
		log.Printf("%-35s = %e s (%3.2f %%)", name, sw.seconds(), sw.seconds()*100/total)
	}
	row("INJECT_TIME", &t.inject)
	row("DIFFUSION_TIME", &t.diffuse)
	row("DECAY_TIME", &t.decay)
	row("MOVE_DUPLICATE_TIME", &t.moveDup)
	row("GRADIENT_STEP_TIME", &t.gradient)
	row("ENERGY_TIME", &t.energy)
	row("CRITERION_TIME", &t.criterion)
	row("TOTAL_COMPUTE_TIME", &t.compute)
}
