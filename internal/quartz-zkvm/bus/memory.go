package bus

import "fmt"

// DefaultMemorySize is the capacity of a machine's main memory when nothing
// else is configured. 5000 bytes leaves the 256-byte program segment prefix
// below the load origin plus room for program and data.
const DefaultMemorySize = 5000

// LinearMemory is a flat, fixed-capacity byte array. It is the main-memory
// Device owned by one machine per run.
type LinearMemory struct {
	bytes []byte
}

// NewLinearMemory allocates a zeroed memory of n bytes.
func NewLinearMemory(n int) *LinearMemory {
	return &LinearMemory{bytes: make([]byte, n)}
}

// Read returns the byte at addr, or false past capacity.
func (m *LinearMemory) Read(addr uint16) (byte, bool) {
	if int(addr) >= len(m.bytes) {
		return 0, false
	}
	return m.bytes[addr], true
}

// Write stores value at addr, or returns ErrOutOfBounds past capacity.
func (m *LinearMemory) Write(addr uint16, value byte) error {
	if int(addr) >= len(m.bytes) {
		return fmt.Errorf("%w: 0x%04x (capacity %d)", ErrOutOfBounds, addr, len(m.bytes))
	}
	m.bytes[addr] = value
	return nil
}

// Size returns the total byte capacity.
func (m *LinearMemory) Size() int {
	return len(m.bytes)
}

// Range exports a copy of the raw bytes in [start, end).
func (m *LinearMemory) Range(start, end int) []byte {
	out := make([]byte, end-start)
	copy(out, m.bytes[start:end])
	return out
}
