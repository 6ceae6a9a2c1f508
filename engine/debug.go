package engine

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Debugger wraps an Engine with a scriptable, stdio-style command loop:
// step one or more cycles, print engine state, set a breakpoint on a
// program counter value, reset to the original champions, or quit.
// Grounded on the teacher's DebugConsole (nes/debug_console.go); unlike
// the teacher's version this never calls os.Exit and never touches a
// framebuffer — a battle has no picture to print, only state.
type Debugger struct {
	*Engine

	cfg         Config
	specs       []ChampionSpec
	breakpoints []int
	quit        bool
}

// NewDebugger creates a Debugger around a fresh Engine built from cfg.
func NewDebugger(cfg Config) *Debugger {
	return &Debugger{Engine: New(cfg), cfg: cfg}
}

// Load remembers the champion specs so Reset can reload them later, then
// delegates to Engine.Load.
func (d *Debugger) Load(specs []ChampionSpec) error {
	if err := d.Engine.Load(specs); err != nil {
		return err
	}
	d.specs = specs
	return nil
}

// Reset reloads the last-loaded champions into a brand new Engine,
// discarding all progress.
func (d *Debugger) Reset() error {
	d.Engine = New(d.cfg)
	return d.Engine.Load(d.specs)
}

var stepCountRe = regexp.MustCompile(`^[0-9]+$`)

// RunCommand executes one command line (already split on whitespace by
// the caller's command loop) and writes any output to out. It returns
// true if the caller should stop reading further commands ("q"/"quit").
func (d *Debugger) RunCommand(args []string, out io.Writer) (bool, error) {
	if len(args) == 0 || args[0] == "" {
		return false, nil
	}
	switch args[0] {
	case "p", "print":
		d.printCommand(args, out)
	case "s", "step":
		return false, d.stepCommand(args, out)
	case "br", "breakpoint":
		return false, d.breakpointCommand(args)
	case "r", "reset":
		return false, d.Reset()
	case "q", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

// RunLoop reads whitespace-separated commands from in, one per line,
// until "q"/"quit" is seen or in is exhausted.
func (d *Debugger) RunLoop(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		stop, err := d.RunCommand(args, out)
		if err != nil {
			fmt.Fprintln(out, err)
		}
		if stop {
			fmt.Fprintln(out, "quitting")
			return nil
		}
	}
	return scanner.Err()
}

func (d *Debugger) printCommand(args []string, out io.Writer) {
	if len(args) < 2 {
		d.basePrint(out)
		return
	}
	switch args[1] {
	case "c", "champions":
		for _, champ := range d.Champions() {
			fmt.Fprintf(out, "%+v\n", *champ)
		}
	case "pr", "processes":
		for _, p := range d.Processes() {
			fmt.Fprintf(out, "%+v\n", *p)
		}
	default:
		d.basePrint(out)
	}
}

func (d *Debugger) basePrint(out io.Writer) {
	stat := d.Stat()
	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "cycle=%d cycle_to_die=%d active_processes=%d active_champions=%d\n",
		stat.CurrentCycle, stat.CycleToDie, stat.ActiveProcesses, stat.ActiveChampions)
	for _, p := range d.Processes() {
		fmt.Fprintf(out, "  process %d champion=%d pc=%d carry=%v\n", p.ID, p.ChampionID, p.PC, p.Carry)
	}
}

func (d *Debugger) stepCommand(args []string, out io.Writer) error {
	n := 1
	if len(args) >= 2 && stepCountRe.MatchString(args[1]) {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		n = v
	}
	for i := 0; i < n; i++ {
		running, err := d.Tick()
		if err != nil {
			return err
		}
		if d.checkBreak(out) || !running {
			break
		}
	}
	d.basePrint(out)
	return nil
}

func (d *Debugger) breakpointCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("breakpoint requires an address")
	}
	addr, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid breakpoint address %q: %w", args[1], err)
	}
	d.breakpoints = append(d.breakpoints, normalize(addr))
	return nil
}

func (d *Debugger) checkBreak(out io.Writer) bool {
	for _, bp := range d.breakpoints {
		for _, p := range d.Processes() {
			if p.PC == bp {
				fmt.Fprintf(out, "break: process %d at pc=%d\n", p.ID, bp)
				return true
			}
		}
	}
	return false
}
