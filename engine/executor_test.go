package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteLiveSetsResultAndAdvancesPC(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 0, 0)
	d := decoded{op: opLive, spec: instructionTable[opLive], pc: 0, length: 5,
		params: []param{{mode: ModeDirect, raw: 1}}}

	res := execute(d, proc, mem)
	assert.True(t, res.isLive)
	assert.Equal(t, 1, res.liveChampion)
	assert.Equal(t, 5, proc.PC)
}

func TestExecuteAddSetsCarryOnZero(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 0, 0)
	proc.SetRegister(1, 5)
	proc.SetRegister(2, -5)
	d := decoded{op: opAdd, spec: instructionTable[opAdd], pc: 0, length: 4,
		params: []param{{mode: ModeRegister, raw: 1}, {mode: ModeRegister, raw: 2}, {mode: ModeRegister, raw: 3}}}

	execute(d, proc, mem)
	assert.Equal(t, int32(0), proc.Register(3))
	assert.True(t, proc.Carry)
}

func TestExecuteZjmpBranchesOnCarryAndLeavesItUnchanged(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 100, 0)
	proc.Carry = true
	d := decoded{op: opZjmp, spec: instructionTable[opZjmp], pc: 100, length: 3,
		params: []param{{mode: ModeDirect, raw: 50}}}

	execute(d, proc, mem)
	assert.Equal(t, normalize(150), proc.PC)
	assert.True(t, proc.Carry)
}

func TestExecuteZjmpFallsThroughWhenCarryClear(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 100, 0)
	proc.Carry = false
	d := decoded{op: opZjmp, spec: instructionTable[opZjmp], pc: 100, length: 3,
		params: []param{{mode: ModeDirect, raw: 50}}}

	execute(d, proc, mem)
	assert.Equal(t, 103, proc.PC)
	assert.False(t, proc.Carry)
}

func TestExecuteStWritesMemoryWithOwnership(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 0, 0)
	proc.ChampionID = 9
	proc.SetRegister(1, 123)
	d := decoded{op: opSt, spec: instructionTable[opSt], pc: 0, length: 4,
		params: []param{{mode: ModeRegister, raw: 1}, {mode: ModeIndirect, raw: 10}}}

	execute(d, proc, mem)
	assert.Equal(t, int32(123), mem.ReadWord(indexOffset(10, true)))
	assert.Equal(t, 9, mem.Owner(indexOffset(10, true)))
}

func TestExecuteForkComputesTargetFromDecodeStartPC(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 200, 0)
	d := decoded{op: opFork, spec: instructionTable[opFork], pc: 200, length: 3,
		params: []param{{mode: ModeDirect, raw: 7}}}

	res := execute(d, proc, mem)
	assert.True(t, res.forked)
	assert.Equal(t, normalize(207), res.forkPC)
}

func TestExecuteAffEmitsRegisterLowByte(t *testing.T) {
	mem := NewMemory()
	proc := newProcess(1, 1, 0, 0)
	proc.SetRegister(4, 321)
	d := decoded{op: opAff, spec: instructionTable[opAff], pc: 0, length: 2,
		params: []param{{mode: ModeRegister, raw: 4}}}

	res := execute(d, proc, mem)
	assert.True(t, res.hasAff)
	assert.Equal(t, byte(321&0xff), res.affByte)
}

func TestIndexOffsetUsesShortOrLongModulus(t *testing.T) {
	assert.Equal(t, int(IdxMod-1), indexOffset(-1, true))
	assert.Equal(t, int(MemSize-1), indexOffset(-1, false))
}
