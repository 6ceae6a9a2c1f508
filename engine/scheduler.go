package engine

import (
	"io"

	"github.com/golang/glog"
)

// Observer bundles the optional synchronous callbacks a host can use to
// drive visualization or logging (spec.md §6). Every field may be left
// nil; the scheduler checks before calling.
type Observer struct {
	OnProcessSpawn func(p *Process)
	OnProcessDeath func(p *Process)
}

// Scheduler owns the ordered process list and drives one cycle at a
// time: advancing wait counters, committing instructions, handling
// forks, and running the periodic death check. Grounded on the
// teacher's console Step loop (nes/console.go), generalized from "one
// CPU" to "an ordered list of cooperative processes".
type Scheduler struct {
	mem       *Memory
	champions []*Champion

	processes     []*Process
	nextProcessID int

	currentCycle   int
	cycleToDie     int
	lastCheckCycle int

	livesThisPeriod      int
	checksSinceReduction int

	// lastDeclaredWinner is the champion id named by the most recent
	// valid live(d) declaration across the whole battle (spec.md
	// §4.7's winner-determination fallback).
	lastDeclaredWinner int

	affSink  io.Writer
	observer Observer
}

func newScheduler(mem *Memory, champions []*Champion, affSink io.Writer, observer Observer) *Scheduler {
	return &Scheduler{
		mem:            mem,
		champions:      champions,
		nextProcessID:  1,
		cycleToDie:     CycleToDieInit,
		affSink:        affSink,
		observer:       observer,
	}
}

// spawnInitialProcess creates and registers the first process for a
// freshly loaded champion.
func (s *Scheduler) spawnInitialProcess(champ *Champion) {
	p := newProcess(s.nextProcessID, champ.ID, champ.LoadAddress, s.currentCycle)
	s.nextProcessID++
	champ.ProcessCount++
	s.processes = append(s.processes, p)
	if s.observer.OnProcessSpawn != nil {
		s.observer.OnProcessSpawn(p)
	}
}

// ProcessCount returns the number of currently alive processes.
func (s *Scheduler) ProcessCount() int { return len(s.processes) }

// Processes returns the live process list in scheduling order. Callers
// must not mutate it.
func (s *Scheduler) Processes() []*Process { return s.processes }

// CurrentCycle returns the number of ticks executed so far.
func (s *Scheduler) CurrentCycle() int { return s.currentCycle }

// CycleToDie returns the current death-check period length.
func (s *Scheduler) CycleToDie() int { return s.cycleToDie }

// LastDeclaredWinner returns the champion id of the most recent valid
// live(d) declaration, or 0 if none has occurred yet.
func (s *Scheduler) LastDeclaredWinner() int { return s.lastDeclaredWinner }

func (s *Scheduler) championByID(id int) *Champion {
	for _, c := range s.champions {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Tick executes exactly one scheduler cycle: it advances every ready
// process by one committed instruction, drains any births, removes the
// dead, and runs the death check when due (spec.md §4.5).
func (s *Scheduler) Tick() {
	s.currentCycle++

	originalCount := len(s.processes)
	var births []*Process
	for i := 0; i < originalCount; i++ {
		p := s.processes[i]
		if !p.Alive {
			continue
		}
		s.advanceOne(p, &births)
	}

	s.processes = append(s.processes, births...)
	s.reapDead()

	if s.currentCycle >= s.lastCheckCycle+s.cycleToDie {
		s.runDeathCheck()
	}
}

// advanceOne runs the wait-state state machine for a single process: it
// decodes a fresh instruction if none is pending, and commits a pending
// instruction whose wait has elapsed.
func (s *Scheduler) advanceOne(p *Process, births *[]*Process) {
	if p.pending == nil {
		d, err := decodeAt(s.mem, p.PC)
		if err != nil {
			// Resolved open question (SPEC_FULL.md §D.1): invalid
			// opcodes are a benign, one-cycle no-op, not fatal.
			glog.V(2).Infof("process %d: %v, skipping one byte", p.ID, err)
			p.PC = normalize(p.PC + 1)
			return
		}
		p.pending = &d
		p.WaitUntilCycle = s.currentCycle + d.spec.cycles
	}

	if s.currentCycle < p.WaitUntilCycle {
		return
	}

	d := *p.pending
	p.pending = nil
	res := execute(d, p, s.mem)

	switch {
	case res.isLive:
		p.LastLiveCycle = s.currentCycle
		s.livesThisPeriod++
		if champ := s.championByID(p.ChampionID); champ != nil {
			champ.LiveCount++
		}
		if target := s.championByID(res.liveChampion); target != nil {
			s.lastDeclaredWinner = target.ID
		}
	case res.forked:
		child := p.fork(s.nextProcessID, res.forkPC, s.currentCycle)
		s.nextProcessID++
		if champ := s.championByID(child.ChampionID); champ != nil {
			champ.ProcessCount++
		}
		*births = append(*births, child)
		if s.observer.OnProcessSpawn != nil {
			s.observer.OnProcessSpawn(child)
		}
	case res.hasAff:
		if s.affSink != nil {
			_, _ = s.affSink.Write([]byte{res.affByte})
		}
	}
}

// reapDead removes dead processes from the scheduling list and updates
// champion process counts.
func (s *Scheduler) reapDead() {
	alive := s.processes[:0]
	for _, p := range s.processes {
		if p.Alive {
			alive = append(alive, p)
			continue
		}
		if champ := s.championByID(p.ChampionID); champ != nil && champ.ProcessCount > 0 {
			champ.ProcessCount--
		}
		if s.observer.OnProcessDeath != nil {
			s.observer.OnProcessDeath(p)
		}
	}
	s.processes = alive
}

// runDeathCheck implements spec.md §4.5 step 4: cull silent processes
// and possibly shrink the death-check period. Death-check timing is the
// resolved open question in SPEC_FULL.md §D.3 — this fires strictly
// every cycleToDie cycles, never early on livesThisPeriod alone.
func (s *Scheduler) runDeathCheck() {
	threshold := s.lastCheckCycle
	for _, p := range s.processes {
		if p.LastLiveCycle < threshold {
			p.Alive = false
		}
	}
	s.reapDead()

	if s.livesThisPeriod >= NbrLive || s.checksSinceReduction >= MaxChecks {
		if s.cycleToDie >= CycleDelta {
			s.cycleToDie -= CycleDelta
		} else {
			s.cycleToDie = 0
		}
		s.checksSinceReduction = 0
	} else {
		s.checksSinceReduction++
	}

	glog.V(1).Infof("death check at cycle %d: %d processes survive, cycle_to_die=%d",
		s.currentCycle, len(s.processes), s.cycleToDie)

	s.livesThisPeriod = 0
	for _, c := range s.champions {
		c.LiveCount = 0
	}
	s.lastCheckCycle = s.currentCycle
}
