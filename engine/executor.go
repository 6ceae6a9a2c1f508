package engine

// execResult carries the side effects of one committed instruction that
// the process/memory mutation alone cannot express: a possible fork
// target and a possible aff byte. The scheduler drains these after each
// process step (spec.md §9, "births append buffer").
type execResult struct {
	forked bool
	forkPC int

	// liveChampion is the operand of a live instruction, set only when
	// the executed op was "live"; the scheduler validates it against
	// the loaded champion ids before treating it as a declaration.
	liveChampion int
	isLive       bool

	hasAff  bool
	affByte byte
}

// mod wraps x into [0, n) for any int32 x and positive n.
func mod(x int32, n int32) int32 {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}

// indexOffset applies the short-index modulus (IdxMod) unless the
// instruction is one of the "long" variants (lld, lldi, lfork), which
// use the full memory modulus instead (spec.md §4.4).
func indexOffset(offset int32, useShortIndex bool) int {
	if useShortIndex {
		return int(mod(offset, IdxMod))
	}
	return int(mod(offset, MemSize))
}

// resolveValue reads the effective value of a decoded operand: a
// register's contents, a direct literal, or the memory word an indirect
// offset dereferences relative to basePC (spec.md §4.4).
func resolveValue(p param, proc *Process, mem *Memory, basePC int, useShortIndex bool) int32 {
	switch p.mode {
	case ModeRegister:
		return proc.Register(int(p.raw))
	case ModeDirect:
		return p.raw
	default: // ModeIndirect
		idx := indexOffset(p.raw, useShortIndex)
		return mem.ReadWord(basePC + idx)
	}
}

// execute applies one decoded instruction's semantics to proc and mem.
// It assumes d was produced by decodeAt and is therefore already
// validated; decode failures never reach here (the scheduler handles
// them as a separate, one-cycle no-op path).
func execute(d decoded, proc *Process, mem *Memory) execResult {
	var res execResult
	useShort := d.spec.useShortIndex
	nextPC := d.pc + d.length

	switch d.op {
	case opLive:
		res.isLive = true
		res.liveChampion = int(d.params[0].raw)
		proc.PC = nextPC

	case opLd, opLld:
		v := resolveValue(d.params[0], proc, mem, d.pc, useShort)
		proc.SetRegister(int(d.params[1].raw), v)
		proc.Carry = v == 0
		proc.PC = nextPC

	case opSt:
		v := proc.Register(int(d.params[0].raw))
		dst := d.params[1]
		switch dst.mode {
		case ModeRegister:
			proc.SetRegister(int(dst.raw), v)
		case ModeIndirect:
			addr := d.pc + indexOffset(dst.raw, useShort)
			mem.WriteWord(addr, v, proc.ChampionID)
		}
		proc.PC = nextPC

	case opAdd:
		a := proc.Register(int(d.params[0].raw))
		b := proc.Register(int(d.params[1].raw))
		sum := a + b
		proc.SetRegister(int(d.params[2].raw), sum)
		proc.Carry = sum == 0
		proc.PC = nextPC

	case opSub:
		a := proc.Register(int(d.params[0].raw))
		b := proc.Register(int(d.params[1].raw))
		diff := a - b
		proc.SetRegister(int(d.params[2].raw), diff)
		proc.Carry = diff == 0
		proc.PC = nextPC

	case opAnd, opOr, opXor:
		a := resolveValue(d.params[0], proc, mem, d.pc, useShort)
		b := resolveValue(d.params[1], proc, mem, d.pc, useShort)
		var r int32
		switch d.op {
		case opAnd:
			r = a & b
		case opOr:
			r = a | b
		case opXor:
			r = a ^ b
		}
		proc.SetRegister(int(d.params[2].raw), r)
		proc.Carry = r == 0
		proc.PC = nextPC

	case opZjmp:
		if proc.Carry {
			proc.PC = d.pc + indexOffset(d.params[0].raw, useShort)
		} else {
			proc.PC = nextPC
		}
		// Carry is left unchanged by zjmp (resolved open question, SPEC_FULL.md §D.2).

	case opLdi, opLldi:
		a := resolveValue(d.params[0], proc, mem, d.pc, useShort)
		b := resolveValue(d.params[1], proc, mem, d.pc, useShort)
		idx := indexOffset(a+b, useShort)
		v := mem.ReadWord(d.pc + idx)
		proc.SetRegister(int(d.params[2].raw), v)
		proc.Carry = v == 0
		proc.PC = nextPC

	case opSti:
		v := proc.Register(int(d.params[0].raw))
		a := resolveValue(d.params[1], proc, mem, d.pc, useShort)
		b := resolveValue(d.params[2], proc, mem, d.pc, useShort)
		idx := indexOffset(a+b, useShort)
		mem.WriteWord(d.pc+idx, v, proc.ChampionID)
		proc.PC = nextPC

	case opFork, opLfork:
		res.forked = true
		res.forkPC = d.pc + indexOffset(d.params[0].raw, useShort)
		proc.PC = nextPC

	case opAff:
		v := proc.Register(int(d.params[0].raw))
		res.hasAff = true
		res.affByte = byte(v)
		proc.PC = nextPC
	}

	proc.PC = normalize(proc.PC)
	return res
}
