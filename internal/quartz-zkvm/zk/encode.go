// Package zk turns recorded machine state into field-element witnesses for
// an external proving system: canonical serialization, a general-purpose
// digest, reduction into the BN254 scalar field, and a Poseidon pass that
// produces the public commitment values.
package zk

import (
	"encoding/binary"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/vm"
)

// Canonical byte layouts. Identical logical values must always serialize to
// identical bytes; commitments are reproducible across implementations only
// if these layouts hold. All integers are little-endian, matching the bus.
//
//	bank snapshot   8 x uint16 ordered by register id      = 16 bytes
//	step pre-image  bank(16) | mem@pc(2) | pc(2) | op(1)   = 21 bytes
//	program         len(words) as uint64(8) | words(2n)    = 8+2n bytes
//	output pre-image value@out(2) | raw [origin,pc) | bank(16)

// EncodeBank serializes a register snapshot. Slots above the populated ids
// are zero by construction.
func EncodeBank(bank [vm.MaxRegs]uint16) []byte {
	buf := make([]byte, 2*vm.MaxRegs)
	for i, v := range bank {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	return buf
}

// EncodeStep serializes one trace entry plus the memory value at its program
// counter into the 21-byte step pre-image.
func EncodeStep(e vm.TraceEntry, memAtPC uint16) []byte {
	buf := make([]byte, 0, 2*vm.MaxRegs+5)
	buf = append(buf, EncodeBank(e.Bank)...)
	buf = binary.LittleEndian.AppendUint16(buf, memAtPC)
	buf = binary.LittleEndian.AppendUint16(buf, e.PC)
	buf = append(buf, byte(e.Opcode))
	return buf
}

// EncodeProgram serializes the program words behind a fixed-width length
// prefix, so programs of different lengths can never collide byte-wise.
func EncodeProgram(words []uint16) []byte {
	buf := make([]byte, 0, 8+2*len(words))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(words)))
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint16(buf, w)
	}
	return buf
}
