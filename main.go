package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// counter is a repeatable boolean flag; each occurrence increments it.
type counter int

func (c *counter) String() string   { return strconv.Itoa(int(*c)) }
func (c *counter) Set(string) error { *c++; return nil }
func (c *counter) IsBoolFlag() bool { return true }

func usage() {
	fmt.Fprintf(os.Stderr, "USAGE:\t%s [flags] <input file> [param=value ...]\n", os.Args[0])
	fmt.Fprint(os.Stderr, `DESCRIPTION
	Clustering of cells in 3D space by movements along substance
	gradients. The simulation has two phases. In the first, a single
	initial cell moves randomly and recursively gives rise to daughter
	cells by duplication. In the second, cells move along the gradients
	of their preferred substance. There are two substances, and cells
	produce the same substance as they prefer. The substances diffuse
	and decay in 3D space.
PARAMETERS
	<input file> holds param=value lines for: speed, T, L, D, mu,
	divThreshold, finalNumberCells, spatialRange, pathThreshold.
	Trailing param=value arguments override values from the file.
OPTIONS
`)
	flag.PrintDefaults()
}

func main() {
	var quiet, verbose counter
	flag.Var(&quiet, "q", "lower output to stdout; repeatable")
	flag.Var(&verbose, "v", "raise output to stdout; repeatable")
	sysconfig := flag.Bool("V", false, "print system configuration and exit")
	seed := flag.Int64("seed", 42, "random number generator seed")
	outDir := flag.String("outdir", "out", "artifact directory; empty disables CSV, charts and video")
	video := flag.Bool("video", true, "write an MJPEG video of the field mid-plane")
	charts := flag.Bool("charts", true, "write growth and energy charts")
	flag.Usage = usage
	flag.Parse()

	log.SetFlags(0)

	if *sysconfig {
		printSysConfig()
		return
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	log.Print(strings.Repeat("=", 50))
	printSysConfig()

	params, err := LoadParams(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading parameters: %v", err)
	}
	if err := applyOverrides(params, flag.Args()[1:]); err != nil {
		log.Fatalf("applying overrides: %v", err)
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("invalid parameters: %v", err)
	}
	params.report()

	opts := simOptions{
		seed:   *seed,
		quiet:  int(quiet) - int(verbose),
		outDir: *outDir,
		video:  *video,
		charts: *charts,
	}
	if _, _, err := runSimulation(*params, opts); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	log.Print(strings.Repeat("=", 50))
}
