// Command corewar loads one or more champion files and runs the battle
// to completion, printing the winner (or draw) and final engine stats.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/ksato/corewar/engine"
)

func main() {
	maxCycles := flag.Int("max-cycles", 0, "stop the battle after this many cycles (0 = unbounded)")
	debug := flag.Bool("debug", false, "read step/print/breakpoint commands from stdin instead of running to completion")
	dumpAff := flag.Bool("dump-aff", false, "print every byte written by aff to stdout")
	flag.Parse()

	defer glog.Flush()

	paths := flag.Args()
	if len(paths) == 0 {
		glog.Fatalln("usage: corewar [flags] champion.cor [champion.cor ...]")
	}

	specs := make([]engine.ChampionSpec, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			glog.Fatalf("reading %s: %v", path, err)
		}
		specs = append(specs, engine.ChampionSpec{Data: data})
	}

	cfg := engine.Config{MaxCycles: *maxCycles}
	if *dumpAff {
		cfg.AffSink = os.Stdout
	}

	if *debug {
		runDebug(cfg, specs)
		return
	}

	eng := engine.New(cfg)
	if err := eng.Load(specs); err != nil {
		glog.Fatalf("load: %v", err)
	}

	winner, err := eng.RunToCompletion()
	if err != nil {
		glog.Fatalf("run: %v", err)
	}
	printOutcome(winner, eng.Stat())
}

func runDebug(cfg engine.Config, specs []engine.ChampionSpec) {
	dbg := engine.NewDebugger(cfg)
	if err := dbg.Load(specs); err != nil {
		glog.Fatalf("load: %v", err)
	}
	if err := dbg.RunLoop(os.Stdin, os.Stdout); err != nil {
		glog.Fatalf("debug loop: %v", err)
	}
}

func printOutcome(winner *int, stats engine.Stats) {
	var names []string
	if winner != nil {
		names = append(names, fmt.Sprintf("champion %d wins", *winner))
	} else {
		names = append(names, "draw")
	}
	names = append(names, fmt.Sprintf("cycle=%d cycle_to_die=%d", stats.CurrentCycle, stats.CycleToDie))
	fmt.Println(strings.Join(names, " "))
}
