package engine

// Memory is the circular byte arena shared by every champion in a
// battle. Every address is normalized modulo MemSize before any read or
// write, so out-of-bounds access cannot occur by construction
// (spec.md §3, §4.1).
//
// A parallel ownership map records, per cell, the champion id that last
// wrote it (0 means unowned). It is updated on every byte write that
// names a non-zero owner, including the initial code placement performed
// by the loader.
type Memory struct {
	cells [MemSize]byte
	owner [MemSize]int
}

// NewMemory returns a freshly zeroed arena with every cell unowned.
func NewMemory() *Memory {
	return &Memory{}
}

// normalize folds any integer address, including negative ones, into
// [0, MemSize).
func normalize(addr int) int {
	m := addr % MemSize
	if m < 0 {
		m += MemSize
	}
	return m
}

// ReadByte returns the byte at addr mod MemSize.
func (m *Memory) ReadByte(addr int) byte {
	return m.cells[normalize(addr)]
}

// Owner returns the champion id that last wrote addr mod MemSize, or 0
// if no champion has ever written it.
func (m *Memory) Owner(addr int) int {
	return m.owner[normalize(addr)]
}

// WriteByte stores value at addr mod MemSize and, if owner is non-zero,
// tags the cell with that owner. A zero owner leaves the existing
// ownership untouched, matching the "owner?" optional parameter in
// spec.md §4.1.
func (m *Memory) WriteByte(addr int, value byte, owner int) {
	a := normalize(addr)
	m.cells[a] = value
	if owner != 0 {
		m.owner[a] = owner
	}
}

// ReadWord reads 4 bytes starting at addr, each individually normalized
// so the read straddles the wrap boundary correctly, and interprets them
// as a big-endian, sign-extended 32-bit integer (spec.md §4.1).
func (m *Memory) ReadWord(addr int) int32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v = v<<8 | uint32(m.ReadByte(addr+i))
	}
	return int32(v)
}

// ReadHalf reads 2 bytes starting at addr and interprets them as a
// big-endian, sign-extended 16-bit integer widened to int32.
func (m *Memory) ReadHalf(addr int) int32 {
	v := uint16(m.ReadByte(addr))<<8 | uint16(m.ReadByte(addr+1))
	return int32(int16(v))
}

// WriteWord writes the 4 big-endian bytes of value starting at addr,
// tagging every written byte with owner.
func (m *Memory) WriteWord(addr int, value int32, owner int) {
	u := uint32(value)
	for i := 0; i < 4; i++ {
		shift := uint(24 - 8*i)
		m.WriteByte(addr+i, byte(u>>shift), owner)
	}
}

// WriteHalf writes the 2 big-endian bytes of value starting at addr,
// tagging every written byte with owner.
func (m *Memory) WriteHalf(addr int, value int16, owner int) {
	u := uint16(value)
	m.WriteByte(addr, byte(u>>8), owner)
	m.WriteByte(addr+1, byte(u), owner)
}

// LoadCode copies code into the arena starting at addr, byte by byte,
// tagging every written cell with owner. It fails only if the code
// itself is longer than the arena — the copy always lands somewhere via
// modulo addressing, so there is no notion of "running off the end".
func (m *Memory) LoadCode(addr int, code []byte, owner int) error {
	if len(code) > MemSize {
		return &InternalInvariantError{Reason: "code length exceeds memory size"}
	}
	for i, b := range code {
		m.WriteByte(addr+i, b, owner)
	}
	return nil
}

// Size returns the arena length, MemSize, for callers that prefer not to
// hardcode the constant.
func (m *Memory) Size() int { return MemSize }

// Snapshot returns a copy of the full cell contents, suitable for a
// read-only observer (spec.md §4.7). The returned array is a value copy;
// later writes to the arena do not change it.
func (m *Memory) Snapshot() [MemSize]byte { return m.cells }

// OwnerSnapshot returns a copy of the full ownership map.
func (m *Memory) OwnerSnapshot() [MemSize]int { return m.owner }
