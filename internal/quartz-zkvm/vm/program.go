package vm

import (
	"fmt"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
)

// LoadProgram writes the program words into memory starting at origin,
// 2 bytes apart, before the first tick. Bus errors and address-space
// overflow surface to the caller; nothing is executed here.
func LoadProgram(mem bus.Device, origin uint16, words []uint16) error {
	for i, w := range words {
		offset := 2 * i
		if int(origin)+offset+1 > 0xFFFF {
			return fmt.Errorf("%w: program word %d past address space", ErrOverflow, i)
		}
		addr := origin + uint16(offset)
		if err := bus.Write16(mem, addr, w); err != nil {
			return fmt.Errorf("loading word %d at 0x%04x: %w", i, addr, err)
		}
	}
	return nil
}

// BuildAddProgram assembles the demonstration sequence: load 5 into an
// accumulator, load 3 into a second register, add them, store the result to
// the output address, halt. Exactly five instructions, so the run halts
// after exactly five ticks with the output address holding 8.
//
// The immediate loads ride on ADD: naming RIM as the source makes operand
// resolution materialize the nibble, and adding it into a zeroed general
// register completes the load.
func BuildAddProgram() []uint16 {
	return []uint16{
		Encode(OpAdd, RR0, RIM, 5),      // r0 <- 0 + 5
		Encode(OpAdd, RR1, RIM, 3),      // r1 <- 0 + 3
		Encode(OpAdd, RR0, RR1, 0),      // r0 <- r0 + r1
		Encode(OpStoreOut, RR0, RR0, 0), // out <- r0
		Encode(OpHalt, 0, 0, 0),
	}
}
