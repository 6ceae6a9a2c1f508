package engine

// Champion is immutable after load except for the two battle counters at
// the bottom, which the scheduler updates every cycle (spec.md §3).
type Champion struct {
	ID          int
	Name        string
	Comment     string
	Code        []byte
	LoadAddress int

	// ProcessCount is the number of live processes this champion
	// currently owns.
	ProcessCount int

	// LiveCount is the number of live instructions this champion has
	// executed during the current death-check period. The scheduler
	// resets it to zero at every death check.
	LiveCount int
}
