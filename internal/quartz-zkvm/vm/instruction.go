package vm

import (
	"errors"
	"fmt"
)

// Opcode is the task nibble of an instruction word.
type Opcode uint8

// The Quartz instruction set. Each instruction is one 16-bit word:
//
//	bits 15-12  opcode
//	bits 11-8   destination register id
//	bits  7-4   source register id
//	bits  3-0   immediate nibble
const (
	// OpHalt stops execution.
	OpHalt Opcode = iota

	// OpCopy copies the source register's value into the destination register.
	OpCopy

	// OpLoad loads the 16-bit memory value addressed by the source register
	// into the destination register.
	OpLoad

	// OpWrite writes the source register's value to the memory address held
	// by the destination register.
	OpWrite

	// OpAdd adds source into destination with checked 16-bit arithmetic.
	OpAdd

	// OpLoadImm is dispatched as a no-op: the immediate nibble was already
	// placed into the immediate register during operand resolution.
	OpLoadImm

	// OpStoreOut writes the source register's value to the fixed output
	// address.
	OpStoreOut
)

// ErrUnknownOpcode is returned when the opcode nibble maps to no known
// instruction. The fallback is a reachable error path, not a silent no-op.
var ErrUnknownOpcode = errors.New("vm: unknown opcode")

func (op Opcode) String() string {
	switch op {
	case OpHalt:
		return "HALT"
	case OpCopy:
		return "COPY"
	case OpLoad:
		return "LOAD"
	case OpWrite:
		return "WRITE"
	case OpAdd:
		return "ADD"
	case OpLoadImm:
		return "LOAD_IMM"
	case OpStoreOut:
		return "STORE_OUT"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Opcode Opcode
	Dest   RegisterID
	Src    RegisterID
	Imm    uint16
}

// Encode packs an instruction word. Every field is masked to its low 4 bits
// before packing; wider inputs are truncated intentionally rather than
// rejected.
func Encode(op Opcode, dest, src RegisterID, imm uint16) uint16 {
	return uint16(op&0xF)<<12 |
		uint16(dest&0xF)<<8 |
		uint16(src&0xF)<<4 |
		imm&0xF
}

// Decode splits a word into opcode and operand fields. The opcode nibble
// must map onto the closed instruction set.
func Decode(word uint16) (Instruction, error) {
	op := Opcode(word >> 12)
	if op > OpStoreOut {
		return Instruction{}, fmt.Errorf("%w: nibble %d in word 0x%04x", ErrUnknownOpcode, uint8(op), word)
	}
	return Instruction{
		Opcode: op,
		Dest:   RegisterID(word >> 8 & 0xF),
		Src:    RegisterID(word >> 4 & 0xF),
		Imm:    word & 0xF,
	}, nil
}
