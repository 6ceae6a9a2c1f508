package engine

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// championHeaderSize is the fixed byte length of a .cor file's header,
// magic through the second padding block (spec.md §6).
const championHeaderSize = 4 + MaxNameLen + 4 + 4 + MaxCommentLen + 4

// ParsedChampion is the result of validating one .cor file: everything
// the loader needs to place it in memory, grounded on the teacher's
// Cartridge (nes/cartridge.go), generalized from INES's two ROM blobs to
// Core War's single name/comment/code header.
type ParsedChampion struct {
	Name    string
	Comment string
	Code    []byte
}

// trimField cuts b at the first NUL byte (if any) and validates the
// remainder as UTF-8, the same contract nes/cartridge.go applies to its
// fixed-width header fields.
func trimField(b []byte) (string, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("invalid UTF-8")
	}
	return string(b), nil
}

// ParseChampion validates and decodes one .cor file's bytes per the
// bit-exact layout in spec.md §6. It never mutates engine state; on
// success the caller still owns deciding where to place the code.
func ParseChampion(data []byte) (ParsedChampion, error) {
	if len(data) < championHeaderSize {
		return ParsedChampion{}, fmt.Errorf("champion file truncated: have %d bytes, need at least %d", len(data), championHeaderSize)
	}

	magic := binary.BigEndian.Uint32(data[0:4])
	if magic != championFileMagic {
		return ParsedChampion{}, fmt.Errorf("bad magic: got 0x%08x, want 0x%08x", magic, championFileMagic)
	}

	name, err := trimField(data[4 : 4+MaxNameLen])
	if err != nil {
		return ParsedChampion{}, fmt.Errorf("invalid name: %w", err)
	}

	offset := 4 + MaxNameLen
	// 4 bytes of padding, must be zero.
	if !isZero(data[offset : offset+4]) {
		return ParsedChampion{}, fmt.Errorf("non-zero padding after name")
	}
	offset += 4

	codeSize := binary.BigEndian.Uint32(data[offset : offset+4])
	offset += 4
	if codeSize > uint32(MemSize) {
		return ParsedChampion{}, fmt.Errorf("code size %d exceeds memory size %d", codeSize, MemSize)
	}

	comment, err := trimField(data[offset : offset+MaxCommentLen])
	if err != nil {
		return ParsedChampion{}, fmt.Errorf("invalid comment: %w", err)
	}
	offset += MaxCommentLen

	if !isZero(data[offset : offset+4]) {
		return ParsedChampion{}, fmt.Errorf("non-zero padding after comment")
	}
	offset += 4

	if len(data) < offset+int(codeSize) {
		return ParsedChampion{}, fmt.Errorf("champion file truncated: code runs past end of file")
	}
	code := make([]byte, codeSize)
	copy(code, data[offset:offset+int(codeSize)])

	return ParsedChampion{Name: name, Comment: comment, Code: code}, nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ChampionSpec is one entry in a load request: the raw .cor bytes and an
// optional explicit load address.
type ChampionSpec struct {
	Data    []byte
	Address *int
}

// defaultLoadAddresses implements the placement policy of spec.md §4.1:
// for n champions, address i is i*(MemSize/n).
func defaultLoadAddresses(n int) []int {
	addrs := make([]int, n)
	for i := 0; i < n; i++ {
		addrs[i] = i * (MemSize / n)
	}
	return addrs
}

// loadChampions validates and places every entry of specs into mem,
// assigning ids 1..n in argument order, rejecting duplicate or
// overlapping code ranges (mod MemSize), and returns the resulting
// Champion records (spec.md §4.6).
func loadChampions(mem *Memory, specs []ChampionSpec) ([]*Champion, error) {
	if len(specs) == 0 {
		return nil, newLoadError(0, "no champions provided", nil)
	}
	if len(specs) > MaxChampions {
		return nil, newLoadError(0, fmt.Sprintf("too many champions: %d (max %d)", len(specs), MaxChampions), nil)
	}

	defaults := defaultLoadAddresses(len(specs))
	champions := make([]*Champion, 0, len(specs))
	occupied := make(map[int]int) // normalized address -> champion index (1-based)

	for i, spec := range specs {
		id := i + 1
		parsed, err := ParseChampion(spec.Data)
		if err != nil {
			return nil, newLoadError(id, err.Error(), err)
		}

		addr := defaults[i]
		if spec.Address != nil {
			addr = *spec.Address
		}
		addr = normalize(addr)

		for k := 0; k < len(parsed.Code); k++ {
			cell := normalize(addr + k)
			if owner, ok := occupied[cell]; ok {
				return nil, newLoadError(id, fmt.Sprintf("overlaps champion %d at address %d", owner, cell), nil)
			}
			occupied[cell] = id
		}

		champions = append(champions, &Champion{
			ID:          id,
			Name:        parsed.Name,
			Comment:     parsed.Comment,
			Code:        parsed.Code,
			LoadAddress: addr,
		})
	}

	for _, champ := range champions {
		if err := mem.LoadCode(champ.LoadAddress, champ.Code, champ.ID); err != nil {
			return nil, newLoadError(champ.ID, err.Error(), err)
		}
	}

	return champions, nil
}
