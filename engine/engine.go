package engine

import (
	"io"

	"github.com/golang/glog"
)

// Config configures one Engine instance. It mirrors the teacher's
// single-argument NewConsole(cartridge, debug) constructor rather than a
// builder: a plain struct the caller fills in once (spec.md §4.7, §6).
type Config struct {
	// MaxCycles stops the engine after this many ticks, 0 means
	// unlimited (bounded only by process death / cycle_to_die
	// reaching zero).
	MaxCycles int

	// AffSink receives one byte per aff instruction executed,
	// synchronously, before Tick returns. May be nil to discard aff
	// output.
	AffSink io.Writer

	// Observer holds optional visualization/logging hooks, called
	// synchronously inside Tick, and inside Load for the initial
	// process spawns (spec.md §6).
	Observer Observer
}

// Stats is a read-only snapshot of engine-global counters (spec.md
// §4.7).
type Stats struct {
	CurrentCycle     int
	CycleToDie       int
	ActiveProcesses  int
	ActiveChampions  int
}

// Engine is the façade described in spec.md §4.7: it owns memory, the
// scheduler, and the champion list, and exposes load/tick/snapshot to
// external collaborators (an assembler-fed CLI, a terminal visualizer,
// a benchmarking harness — none of which are this package's concern).
// Grounded on the teacher's Console interface (nes/console.go).
type Engine struct {
	mem       *Memory
	champions []*Champion
	scheduler *Scheduler
	config    Config
	running   bool
	started   bool
}

// New creates an Engine with an empty arena and no champions loaded.
// Call Load before Tick.
func New(cfg Config) *Engine {
	return &Engine{
		mem:    NewMemory(),
		config: cfg,
	}
}

// Load validates and places 1..MaxChampions champion files into memory,
// assigns ids in argument order, and creates one initial process per
// champion (spec.md §4.6, §4.1). It fails without mutating engine state
// if any champion is malformed or placements overlap.
func (e *Engine) Load(specs []ChampionSpec) error {
	mem := NewMemory()
	champions, err := loadChampions(mem, specs)
	if err != nil {
		return err
	}

	e.mem = mem
	e.champions = champions
	e.scheduler = newScheduler(mem, champions, e.config.AffSink, e.config.Observer)
	for _, champ := range champions {
		e.scheduler.spawnInitialProcess(champ)
	}
	e.running = true
	e.started = true
	glog.Infof("loaded %d champion(s)", len(champions))
	return nil
}

// Tick executes exactly one engine cycle and reports whether the battle
// is still running. Calling Tick after the battle has ended is a no-op
// that returns false.
func (e *Engine) Tick() (bool, error) {
	if !e.started {
		return false, &InternalInvariantError{Reason: "tick called before load"}
	}
	if !e.running {
		return false, nil
	}

	e.scheduler.Tick()

	e.running = e.scheduler.ProcessCount() > 0 &&
		e.scheduler.CycleToDie() > 0 &&
		(e.config.MaxCycles == 0 || e.scheduler.CurrentCycle() < e.config.MaxCycles)

	return e.running, nil
}

// RunToCompletion ticks until the battle ends or MaxCycles is reached,
// then returns the winning champion id, or nil for a draw (spec.md
// §4.7).
func (e *Engine) RunToCompletion() (*int, error) {
	for {
		running, err := e.Tick()
		if err != nil {
			return nil, err
		}
		if !running {
			break
		}
	}
	return e.Winner(), nil
}

// Winner implements spec.md §4.7's winner-determination rule: if exactly
// one champion still has live processes, it wins; otherwise the most
// recent valid live(d) declaration names the winner; absent either, the
// battle is a draw.
func (e *Engine) Winner() *int {
	var alive []*Champion
	for _, c := range e.champions {
		if c.ProcessCount > 0 {
			alive = append(alive, c)
		}
	}
	if len(alive) == 1 {
		id := alive[0].ID
		return &id
	}
	if id := e.scheduler.LastDeclaredWinner(); id != 0 {
		return &id
	}
	return nil
}

// MemoryByte returns the byte at addr mod MemSize.
func (e *Engine) MemoryByte(addr int) byte { return e.mem.ReadByte(addr) }

// MemoryOwner returns the champion id that last wrote addr mod MemSize,
// or 0 if unowned.
func (e *Engine) MemoryOwner(addr int) int { return e.mem.Owner(addr) }

// Processes returns the live process list in scheduling order.
func (e *Engine) Processes() []*Process { return e.scheduler.Processes() }

// Champions returns the loaded champion list, in load order.
func (e *Engine) Champions() []*Champion { return e.champions }

// Stat returns a snapshot of engine-global counters.
func (e *Engine) Stat() Stats {
	active := 0
	for _, c := range e.champions {
		if c.ProcessCount > 0 {
			active++
		}
	}
	return Stats{
		CurrentCycle:    e.scheduler.CurrentCycle(),
		CycleToDie:      e.scheduler.CycleToDie(),
		ActiveProcesses: e.scheduler.ProcessCount(),
		ActiveChampions: active,
	}
}
