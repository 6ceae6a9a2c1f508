package engine

// Mode is one of the three operand addressing modes (spec.md §4.2).
type Mode int

const (
	// ModeRegister selects a process register by its 1-byte index
	// (1..16).
	ModeRegister Mode = iota
	// ModeDirect is a literal immediate value.
	ModeDirect
	// ModeIndirect is a signed offset from pc, dereferenced as a
	// memory word.
	ModeIndirect
)

// modeMask is a bitset of allowed Modes for one operand position.
type modeMask uint8

const (
	maskR modeMask = 1 << ModeRegister
	maskD modeMask = 1 << ModeDirect
	maskI modeMask = 1 << ModeIndirect

	maskRI  = maskR | maskI
	maskRDI = maskR | maskD | maskI
)

func (m modeMask) allows(mode Mode) bool {
	return m&(1<<mode) != 0
}

// typeBits are the two-bit parameter-type codes read from the
// parameter-type byte (spec.md §4.3): 01=Register, 10=Direct,
// 11=Indirect. 00 is invalid.
const (
	typeBitsInvalid  = 0b00
	typeBitsRegister = 0b01
	typeBitsDirect   = 0b10
	typeBitsIndirect = 0b11
)

func modeFromTypeBits(bits byte) (Mode, bool) {
	switch bits {
	case typeBitsRegister:
		return ModeRegister, true
	case typeBitsDirect:
		return ModeDirect, true
	case typeBitsIndirect:
		return ModeIndirect, true
	default:
		return 0, false
	}
}

// opcode is a 1-based, byte-valued instruction identifier (0x01..0x10).
type opcode byte

const (
	opLive  opcode = 0x01
	opLd    opcode = 0x02
	opSt    opcode = 0x03
	opAdd   opcode = 0x04
	opSub   opcode = 0x05
	opAnd   opcode = 0x06
	opOr    opcode = 0x07
	opXor   opcode = 0x08
	opZjmp  opcode = 0x09
	opLdi   opcode = 0x0A
	opSti   opcode = 0x0B
	opFork  opcode = 0x0C
	opLld   opcode = 0x0D
	opLldi  opcode = 0x0E
	opLfork opcode = 0x0F
	opAff   opcode = 0x10
)

const (
	minOpcode = opLive
	maxOpcode = opAff
)

// instructionSpec is the static, opcode-indexed half of §4.2's table:
// everything the decoder needs to know before it has read a single
// parameter byte.
type instructionSpec struct {
	mnemonic string
	arity    int
	modes    [3]modeMask // allowed modes per parameter, left to right
	cycles   int
	setsCarry bool
	// useShortIndex is false for lld, lldi and lfork: their indirect
	// operands use raw offset mod MemSize rather than mod IdxMod.
	useShortIndex bool
	// halfWordDirect is true for the three branch-style single-
	// parameter ops (zjmp, fork, lfork) whose Direct operand is 2
	// bytes instead of 4.
	halfWordDirect bool
}

// instructionTable is the authoritative opcode→semantics table from
// spec.md §4.2, grounded on the teacher's createInstructions() opcode
// table (nes/cpu.go) generalized from a fixed 6502 dispatch table to
// this engine's arity/addressing-mode/carry/index-mod metadata.
var instructionTable = map[opcode]instructionSpec{
	opLive: {mnemonic: "live", arity: 1, modes: [3]modeMask{maskD}, cycles: 10, useShortIndex: true},
	opLd: {mnemonic: "ld", arity: 2, modes: [3]modeMask{maskD | maskI, maskR}, cycles: 5,
		setsCarry: true, useShortIndex: true},
	opSt: {mnemonic: "st", arity: 2, modes: [3]modeMask{maskR, maskRI}, cycles: 5, useShortIndex: true},
	opAdd: {mnemonic: "add", arity: 3, modes: [3]modeMask{maskR, maskR, maskR}, cycles: 10,
		setsCarry: true, useShortIndex: true},
	opSub: {mnemonic: "sub", arity: 3, modes: [3]modeMask{maskR, maskR, maskR}, cycles: 10,
		setsCarry: true, useShortIndex: true},
	opAnd: {mnemonic: "and", arity: 3, modes: [3]modeMask{maskRDI, maskRDI, maskR}, cycles: 6,
		setsCarry: true, useShortIndex: true},
	opOr: {mnemonic: "or", arity: 3, modes: [3]modeMask{maskRDI, maskRDI, maskR}, cycles: 6,
		setsCarry: true, useShortIndex: true},
	opXor: {mnemonic: "xor", arity: 3, modes: [3]modeMask{maskRDI, maskRDI, maskR}, cycles: 6,
		setsCarry: true, useShortIndex: true},
	opZjmp: {mnemonic: "zjmp", arity: 1, modes: [3]modeMask{maskD}, cycles: 20,
		useShortIndex: true, halfWordDirect: true},
	opLdi: {mnemonic: "ldi", arity: 3, modes: [3]modeMask{maskRDI, maskR | maskD, maskR}, cycles: 25,
		setsCarry: true, useShortIndex: true},
	opSti: {mnemonic: "sti", arity: 3, modes: [3]modeMask{maskR, maskRDI, maskR | maskD}, cycles: 25,
		useShortIndex: true},
	opFork: {mnemonic: "fork", arity: 1, modes: [3]modeMask{maskD}, cycles: 800,
		useShortIndex: true, halfWordDirect: true},
	opLld: {mnemonic: "lld", arity: 2, modes: [3]modeMask{maskD | maskI, maskR}, cycles: 10,
		setsCarry: true, useShortIndex: false},
	opLldi: {mnemonic: "lldi", arity: 3, modes: [3]modeMask{maskRDI, maskR | maskD, maskR}, cycles: 50,
		setsCarry: true, useShortIndex: false},
	opLfork: {mnemonic: "lfork", arity: 1, modes: [3]modeMask{maskD}, cycles: 1000, useShortIndex: false, halfWordDirect: true},
	opAff:   {mnemonic: "aff", arity: 1, modes: [3]modeMask{maskR}, cycles: 2},
}

// lookupInstruction returns the spec for op, or false if op is outside
// 0x01..0x10.
func lookupInstruction(op opcode) (instructionSpec, bool) {
	if op < minOpcode || op > maxOpcode {
		return instructionSpec{}, false
	}
	spec, ok := instructionTable[op]
	return spec, ok
}
