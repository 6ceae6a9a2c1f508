// Package engine implements the Core War virtual machine: a circular
// memory arena shared by a fixed number of champion programs, a
// round-robin process scheduler with cycle-accurate wait states, and the
// decoder/executor for the sixteen-opcode Redcode-derived instruction set.
//
// The package has no notion of real time, performs no I/O beyond the
// champion file format, and never renders or sandboxes host input beyond
// validating its own binary format. Everything outside of load/tick/
// snapshot is left to the caller.
package engine

// Sizing and timing constants from the Core War standard this engine
// implements (spec.md §4.2).
const (
	// MemSize is the length of the circular memory arena, in bytes.
	MemSize = 6144

	// IdxMod is the short-index modulus applied to most operand
	// offsets. "Long" variants (lld, lldi, lfork) skip it.
	IdxMod = 512

	// CycleToDieInit is the initial death-check period, in cycles.
	CycleToDieInit = 1536

	// CycleDelta is subtracted from cycle_to_die each time a death
	// check reduces it.
	CycleDelta = 5

	// NbrLive is the number of live declarations within one
	// death-check period that forces cycle_to_die to shrink.
	NbrLive = 40

	// MaxChecks is the number of consecutive non-reducing death
	// checks tolerated before cycle_to_die is forced to shrink anyway.
	MaxChecks = 10

	// MaxChampions is the maximum number of champions one engine can
	// load.
	MaxChampions = 4

	// MaxNameLen and MaxCommentLen bound the champion file header's
	// NUL-padded text fields.
	MaxNameLen    = 128
	MaxCommentLen = 128
)

// championFileMagic is the 4-byte big-endian magic every .cor file must
// begin with (spec.md §6).
const championFileMagic = 0x00EA83F3
