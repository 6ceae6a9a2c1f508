package engine

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChampionFile(t *testing.T, name, comment string, code []byte) []byte {
	t.Helper()
	var buf bytes.Buffer

	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(championFileMagic)))

	nameField := make([]byte, MaxNameLen)
	copy(nameField, name)
	buf.Write(nameField)
	buf.Write(make([]byte, 4)) // padding

	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(code))))

	commentField := make([]byte, MaxCommentLen)
	copy(commentField, comment)
	buf.Write(commentField)
	buf.Write(make([]byte, 4)) // padding

	buf.Write(code)
	return buf.Bytes()
}

func TestParseChampionRoundTrips(t *testing.T) {
	code := []byte{byte(opLive), 0, 0, 0, 1}
	data := buildChampionFile(t, "zork", "a test champion", code)

	parsed, err := ParseChampion(data)
	require.NoError(t, err)
	assert.Equal(t, "zork", parsed.Name)
	assert.Equal(t, "a test champion", parsed.Comment)
	assert.Equal(t, code, parsed.Code)
}

func TestParseChampionRejectsBadMagic(t *testing.T) {
	data := buildChampionFile(t, "zork", "", nil)
	data[0] ^= 0xff

	_, err := ParseChampion(data)
	require.Error(t, err)
}

func TestParseChampionRejectsTruncatedFile(t *testing.T) {
	_, err := ParseChampion([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseChampionRejectsOversizedCode(t *testing.T) {
	data := buildChampionFile(t, "zork", "", nil)
	offset := 4 + MaxNameLen + 4
	binary.BigEndian.PutUint32(data[offset:], uint32(MemSize+1))

	_, err := ParseChampion(data)
	require.Error(t, err)
}

func TestLoadChampionsDefaultPlacement(t *testing.T) {
	mem := NewMemory()
	code1 := []byte{byte(opLive), 0, 0, 0, 1}
	code2 := []byte{byte(opLive), 0, 0, 0, 2}
	specs := []ChampionSpec{
		{Data: buildChampionFile(t, "one", "", code1)},
		{Data: buildChampionFile(t, "two", "", code2)},
	}

	champions, err := loadChampions(mem, specs)
	require.NoError(t, err)
	require.Len(t, champions, 2)
	assert.Equal(t, 1, champions[0].ID)
	assert.Equal(t, 0, champions[0].LoadAddress)
	assert.Equal(t, MemSize/2, champions[1].LoadAddress)
	assert.Equal(t, byte(opLive), mem.ReadByte(0))
}

func TestLoadChampionsRejectsOverlap(t *testing.T) {
	mem := NewMemory()
	code := make([]byte, MemSize)
	addrA := 0
	addrB := 1
	specs := []ChampionSpec{
		{Data: buildChampionFile(t, "a", "", code), Address: &addrA},
		{Data: buildChampionFile(t, "b", "", []byte{1}), Address: &addrB},
	}

	_, err := loadChampions(mem, specs)
	require.Error(t, err)
}

func TestLoadChampionsRejectsTooManyChampions(t *testing.T) {
	mem := NewMemory()
	specs := make([]ChampionSpec, MaxChampions+1)
	for i := range specs {
		specs[i] = ChampionSpec{Data: buildChampionFile(t, "x", "", []byte{byte(opLive), 0, 0, 0, 1})}
	}

	_, err := loadChampions(mem, specs)
	require.Error(t, err)
}

func TestLoadChampionsRejectsEmptyInput(t *testing.T) {
	mem := NewMemory()
	_, err := loadChampions(mem, nil)
	require.Error(t, err)
}
