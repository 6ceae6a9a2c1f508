package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProcessNeverDeclaredLiveSentinel(t *testing.T) {
	p := newProcess(1, 3, 0, 42)
	assert.Equal(t, neverDeclaredLive, p.LastLiveCycle)
	assert.Equal(t, 42, p.WaitUntilCycle)
	assert.Equal(t, int32(-3), p.Register(1), "register 1 holds the negated owning champion id")
}

func TestProcessRegisterIndexingIsOneBased(t *testing.T) {
	p := newProcess(1, 1, 0, 0)
	p.SetRegister(16, 99)
	assert.Equal(t, int32(99), p.Register(16))
	assert.Equal(t, int32(99), p.Registers[15])
}

func TestForkInheritsParentStateAndSetsOwnBirthCycle(t *testing.T) {
	parent := newProcess(1, 2, 0, 0)
	parent.Carry = true
	parent.SetRegister(5, 7)
	parent.LastLiveCycle = 100

	child := parent.fork(2, 300, 250)
	assert.Equal(t, 2, child.ID)
	assert.Equal(t, parent.ChampionID, child.ChampionID)
	assert.Equal(t, normalize(300), child.PC)
	assert.True(t, child.Carry)
	assert.Equal(t, int32(7), child.Register(5))
	assert.Equal(t, 100, child.LastLiveCycle)
	assert.Equal(t, 250, child.WaitUntilCycle)
	assert.True(t, child.Alive)
}
