package engine

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebuggerStepAdvancesOneCycle(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))

	var out bytes.Buffer
	stop, err := d.RunCommand([]string{"s"}, &out)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, 1, d.Stat().CurrentCycle)
}

func TestDebuggerStepWithCountAdvancesMultipleCycles(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))

	var out bytes.Buffer
	_, err := d.RunCommand([]string{"s", "5"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Stat().CurrentCycle)
}

func TestDebuggerResetReloadsOriginalChampions(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))

	var out bytes.Buffer
	_, err := d.RunCommand([]string{"s", "3"}, &out)
	require.NoError(t, err)
	require.Equal(t, 3, d.Stat().CurrentCycle)

	_, err = d.RunCommand([]string{"r"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Stat().CurrentCycle)
}

func TestDebuggerQuitStopsTheLoop(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))

	var out bytes.Buffer
	stop, err := d.RunCommand([]string{"q"}, &out)
	require.NoError(t, err)
	assert.True(t, stop)
}

func TestDebuggerRunLoopReadsMultipleCommands(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))

	in := strings.NewReader("s 2\np\nq\n")
	var out bytes.Buffer
	require.NoError(t, d.RunLoop(in, &out))
	assert.Equal(t, 2, d.Stat().CurrentCycle)
	assert.Contains(t, out.String(), "quitting")
}

func TestDebuggerBreakpointStopsStepping(t *testing.T) {
	d := NewDebugger(Config{})
	require.NoError(t, d.Load([]ChampionSpec{{Data: liveLoopChampion(t)}}))
	require.NotEmpty(t, d.Processes())
	pc := d.Processes()[0].PC

	var out bytes.Buffer
	_, err := d.RunCommand([]string{"br", strconv.Itoa(pc)}, &out)
	require.NoError(t, err)

	_, err = d.RunCommand([]string{"s", "1000"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "break:")
}
