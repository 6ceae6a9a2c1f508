package engine

// param is one decoded operand: its resolved addressing mode and the raw
// value read from the instruction stream (a register index, a literal,
// or a signed offset — interpretation depends on mode).
type param struct {
	mode Mode
	raw  int32
}

// decoded is the result of reading one instruction at a program counter:
// the opcode's static spec plus the operands actually present in memory
// (spec.md §4.3).
type decoded struct {
	op     opcode
	spec   instructionSpec
	params []param
	// pc is the address the opcode byte was read from — every
	// relative computation (zjmp, fork, indirect dereference) is
	// relative to this, not to pc+length.
	pc int
	// length is the total instruction size in bytes; the caller
	// commits pc += length on a non-branching instruction.
	length int
}

// singleMode extracts the one allowed Mode from a single-bit mask, for
// arity-1 ops whose parameter type is statically known and never carries
// a parameter-type byte (spec.md §4.3 step 2).
func singleMode(m modeMask) Mode {
	switch {
	case m.allows(ModeRegister):
		return ModeRegister
	case m.allows(ModeDirect):
		return ModeDirect
	default:
		return ModeIndirect
	}
}

// decodeAt reads one instruction at pc. On any validation failure, it
// returns a DecodeFault alongside a decoded value whose length is 1 —
// per spec.md §4.3/§9, an invalid instruction always costs exactly one
// byte and one cycle, regardless of what made it invalid.
func decodeAt(mem *Memory, pc int) (decoded, error) {
	pc = normalize(pc)
	opByte := mem.ReadByte(pc)
	op := opcode(opByte)
	spec, ok := lookupInstruction(op)
	if !ok {
		return decoded{pc: pc, length: 1}, &DecodeFault{PC: pc, Reason: "unknown opcode"}
	}

	offset := pc + 1
	modes := make([]Mode, spec.arity)
	if spec.arity > 1 {
		typeByte := mem.ReadByte(offset)
		offset++
		for i := 0; i < spec.arity; i++ {
			shift := uint(6 - 2*i)
			bits := (typeByte >> shift) & 0b11
			mode, ok := modeFromTypeBits(bits)
			if !ok {
				return decoded{pc: pc, length: 1}, &DecodeFault{PC: pc, Reason: "invalid parameter-type bits"}
			}
			if !spec.modes[i].allows(mode) {
				return decoded{pc: pc, length: 1}, &DecodeFault{PC: pc, Reason: "disallowed addressing mode for operand"}
			}
			modes[i] = mode
		}
	} else {
		modes[0] = singleMode(spec.modes[0])
	}

	params := make([]param, spec.arity)
	for i, mode := range modes {
		switch mode {
		case ModeRegister:
			reg := mem.ReadByte(offset)
			offset++
			if reg < 1 || reg > numRegisters {
				return decoded{pc: pc, length: 1}, &DecodeFault{PC: pc, Reason: "register index out of range"}
			}
			params[i] = param{mode: ModeRegister, raw: int32(reg)}
		case ModeDirect:
			if spec.halfWordDirect {
				params[i] = param{mode: ModeDirect, raw: mem.ReadHalf(offset)}
				offset += 2
			} else {
				params[i] = param{mode: ModeDirect, raw: mem.ReadWord(offset)}
				offset += 4
			}
		case ModeIndirect:
			params[i] = param{mode: ModeIndirect, raw: mem.ReadHalf(offset)}
			offset += 2
		}
	}

	return decoded{op: op, spec: spec, params: params, pc: pc, length: offset - pc}, nil
}
