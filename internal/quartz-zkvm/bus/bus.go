// Package bus provides the byte-addressable memory bus the Quartz machine
// executes against. A Device exposes bounds-checked single-byte access; the
// 16-bit helpers compose it little-endian with exact short-circuit semantics,
// which the commitment pipeline depends on for reproducibility.
package bus

import (
	"errors"
	"fmt"
)

// Bus errors.
var (
	// ErrOutOfBounds is returned by writes past a device's capacity.
	ErrOutOfBounds = errors.New("bus: address out of bounds")

	// ErrCopyFailed is returned by Copy16 when the source is unreadable.
	ErrCopyFailed = errors.New("bus: copy source unreadable")
)

// Device is the interface any memory-mapped device must implement to be
// driven by the machine. Reads report absence instead of a default value;
// writes fail without side effect when the address is out of range.
type Device interface {
	// Read returns the byte at addr, or false if addr is past capacity.
	Read(addr uint16) (byte, bool)

	// Write stores value at addr, or returns ErrOutOfBounds.
	Write(addr uint16, value byte) error

	// Size returns the total byte capacity.
	Size() int

	// Range exports a copy of the raw bytes in [start, end).
	// The caller must ensure start <= end <= Size; violating that is a
	// programming error and panics.
	Range(start, end int) []byte
}

// Read16 reads the little-endian 16-bit value at addr (low byte) and addr+1
// (high byte). It returns false if either byte is absent; no partial value
// is ever exposed.
func Read16(d Device, addr uint16) (uint16, bool) {
	lo, ok := d.Read(addr)
	if !ok {
		return 0, false
	}
	hi, ok := d.Read(addr + 1)
	if !ok {
		return 0, false
	}
	return uint16(lo) | uint16(hi)<<8, true
}

// Write16 writes value little-endian at addr. The low byte is written first;
// if it fails the high byte is not attempted. A high-byte failure therefore
// leaves the low byte committed. That partial-write behavior is part of the
// bus contract: the commitment pipeline hashes memory exactly as committed.
func Write16(d Device, addr uint16, value uint16) error {
	if err := d.Write(addr, byte(value)); err != nil {
		return err
	}
	return d.Write(addr+1, byte(value>>8))
}

// Copy16 reads the 16-bit value at src and writes it at dst. An unreadable
// source yields ErrCopyFailed; write errors propagate unchanged.
func Copy16(d Device, src, dst uint16) error {
	v, ok := Read16(d, src)
	if !ok {
		return fmt.Errorf("%w: 0x%04x", ErrCopyFailed, src)
	}
	return Write16(d, dst, v)
}

// ValueAt returns the little-endian 16-bit value at index, for trace and
// commitment capture. The caller must ensure index+1 is addressable; an
// unaddressable index is a programming error and panics.
func ValueAt(d Device, index uint16) uint16 {
	v, ok := Read16(d, index)
	if !ok {
		panic(fmt.Sprintf("bus: ValueAt(0x%04x) not addressable", index))
	}
	return v
}
