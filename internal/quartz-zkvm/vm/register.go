package vm

import (
	"errors"
	"fmt"
)

// RegisterID identifies one slot of the register bank. The set is fixed at
// construction; no register is ever added or removed afterwards.
type RegisterID uint8

// Register identities. RR0-RR3 are general purpose, RPC is the program
// counter, RIR holds the raw instruction word being executed, and RIM holds
// immediate values materialized during operand resolution.
const (
	RR0 RegisterID = iota
	RR1
	RR2
	RR3
	RPC
	RIR
	RIM
)

// MaxRegs is the size of the fixed register address space. Ids above RIM are
// unpopulated and resolve to UnknownRegister.
const MaxRegs = 8

// Register errors.
var (
	// ErrUnknownRegister is returned for lookups outside the constructed set.
	ErrUnknownRegister = errors.New("vm: unknown register")

	// ErrOverflow is returned when 16-bit arithmetic or the program counter
	// would exceed the word range. Overflow is fatal, never wrapped.
	ErrOverflow = errors.New("vm: overflow")
)

// Register pairs an identity with a 16-bit value. Registers hold copies of
// data; an "address-valued" register just holds a numeric address.
type Register struct {
	ID    RegisterID
	Value uint16
}

// Bank is the fixed register file. Every valid id is present from
// construction, so lookups by a known id never fail.
type Bank struct {
	regs map[RegisterID]*Register
}

// NewBank constructs a fully populated bank. The program counter starts at
// origin, the address where the first instruction is loaded.
func NewBank(origin uint16) *Bank {
	b := &Bank{regs: make(map[RegisterID]*Register, MaxRegs)}
	for _, id := range []RegisterID{RR0, RR1, RR2, RR3, RPC, RIR, RIM} {
		b.regs[id] = &Register{ID: id}
	}
	b.regs[RPC].Value = origin
	return b
}

// Get returns a read-only copy of the register with the given id.
func (b *Bank) Get(id RegisterID) (Register, error) {
	r, ok := b.regs[id]
	if !ok {
		return Register{}, fmt.Errorf("%w: id %d", ErrUnknownRegister, id)
	}
	return *r, nil
}

// GetMut returns the register itself for mutation.
func (b *Bank) GetMut(id RegisterID) (*Register, error) {
	r, ok := b.regs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownRegister, id)
	}
	return r, nil
}

// AdvancePC moves the program counter past one 2-byte instruction. Running
// off the end of the 16-bit address space is fatal to the run.
func (b *Bank) AdvancePC() error {
	pc := b.regs[RPC]
	if pc.Value > 0xFFFF-2 {
		return fmt.Errorf("%w: program counter past 0x%04x", ErrOverflow, pc.Value)
	}
	pc.Value += 2
	return nil
}

// Snapshot captures the bank as a fixed-size value array ordered by register
// id. Unpopulated ids read as zero; that default is a deliberate encoding
// choice for trace capture, not error suppression.
func (b *Bank) Snapshot() [MaxRegs]uint16 {
	var snap [MaxRegs]uint16
	for id, r := range b.regs {
		snap[id] = r.Value
	}
	return snap
}
