package vm

import (
	"errors"
	"testing"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
)

func newTestMachine(t *testing.T, program []uint16) (*Machine, bus.Device) {
	t.Helper()
	mem := bus.NewLinearMemory(bus.DefaultMemorySize)
	if err := LoadProgram(mem, LoadOrigin, program); err != nil {
		t.Fatalf("LoadProgram failed: %v", err)
	}
	return NewMachine(mem, LoadOrigin), mem
}

func TestHaltOnlyProgram(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{Encode(OpHalt, 0, 0, 0)})

	if err := m.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after HALT")
	}

	// Only the program counter and instruction register may have moved.
	snap := m.Bank().Snapshot()
	if snap[RPC] != LoadOrigin+2 {
		t.Errorf("PC = 0x%04x, want 0x%04x", snap[RPC], LoadOrigin+2)
	}
	if snap[RIR] != 0x0000 {
		t.Errorf("IR = 0x%04x, want the raw HALT word 0x0000", snap[RIR])
	}
	for _, id := range []RegisterID{RR0, RR1, RR2, RR3, RIM} {
		if snap[id] != 0 {
			t.Errorf("register %d = 0x%04x, want untouched 0", id, snap[id])
		}
	}
}

func TestTickOnHaltedMachine(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{Encode(OpHalt, 0, 0, 0)})
	if err := m.Tick(); err != nil {
		t.Fatalf("first Tick failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := m.Tick(); !errors.Is(err, ErrHalted) {
			t.Fatalf("Tick on halted machine err = %v, want ErrHalted", err)
		}
	}
}

func TestInstructionRegisterHoldsRawWord(t *testing.T) {
	word := Encode(OpAdd, RR0, RIM, 5)
	m, _ := newTestMachine(t, []uint16{word, Encode(OpHalt, 0, 0, 0)})
	if err := m.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	ir, _ := m.Bank().Get(RIR)
	if ir.Value != word {
		t.Fatalf("IR = 0x%04x, want raw word 0x%04x", ir.Value, word)
	}
}

func TestImmediateResolution(t *testing.T) {
	t.Run("NonzeroImmediateOverwritesRIM", func(t *testing.T) {
		m, _ := newTestMachine(t, []uint16{
			Encode(OpCopy, RR0, RIM, 7),
			Encode(OpHalt, 0, 0, 0),
		})
		if _, err := m.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		r0, _ := m.Bank().Get(RR0)
		rim, _ := m.Bank().Get(RIM)
		if r0.Value != 7 {
			t.Errorf("RR0 = %d, want 7", r0.Value)
		}
		if rim.Value != 7 {
			t.Errorf("RIM = %d, want 7 (resolution writes the bank)", rim.Value)
		}
	})

	t.Run("ZeroImmediateLeavesRIMUntouched", func(t *testing.T) {
		// Zero doubles as the no-immediate sentinel: the register's prior
		// contents stay in use.
		m, _ := newTestMachine(t, []uint16{
			Encode(OpCopy, RR0, RIM, 0),
			Encode(OpHalt, 0, 0, 0),
		})
		rim, _ := m.Bank().GetMut(RIM)
		rim.Value = 9
		if _, err := m.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		r0, _ := m.Bank().Get(RR0)
		if r0.Value != 9 {
			t.Fatalf("RR0 = %d, want the prior RIM contents 9", r0.Value)
		}
	})
}

func TestAddOverflowIsFatal(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{Encode(OpAdd, RR0, RR1, 0)})
	r0, _ := m.Bank().GetMut(RR0)
	r0.Value = 0xFFFF
	r1, _ := m.Bank().GetMut(RR1)
	r1.Value = 1

	err := m.Tick()
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after overflow")
	}
	// No wrapped result was written.
	after, _ := m.Bank().Get(RR0)
	if after.Value != 0xFFFF {
		t.Fatalf("RR0 = 0x%04x after fatal overflow, want 0xFFFF", after.Value)
	}
}

func TestLoadAndWrite(t *testing.T) {
	const dataAddr = 0x0400
	m, mem := newTestMachine(t, []uint16{
		Encode(OpLoad, RR2, RR1, 0),  // r2 <- mem[r1]
		Encode(OpWrite, RR3, RR2, 0), // mem[r3] <- r2
		Encode(OpHalt, 0, 0, 0),
	})
	if err := bus.Write16(mem, dataAddr, 0xCAFE); err != nil {
		t.Fatalf("seeding memory failed: %v", err)
	}
	r1, _ := m.Bank().GetMut(RR1)
	r1.Value = dataAddr
	r3, _ := m.Bank().GetMut(RR3)
	r3.Value = dataAddr + 0x10

	if _, err := m.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	r2, _ := m.Bank().Get(RR2)
	if r2.Value != 0xCAFE {
		t.Errorf("RR2 = 0x%04x, want 0xCAFE", r2.Value)
	}
	if got := bus.ValueAt(mem, dataAddr+0x10); got != 0xCAFE {
		t.Errorf("mem[0x%04x] = 0x%04x, want 0xCAFE", dataAddr+0x10, got)
	}
}

func TestLoadFromUnreadableAddressFaults(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{Encode(OpLoad, RR0, RR1, 0)})
	r1, _ := m.Bank().GetMut(RR1)
	r1.Value = 0xFFF0 // past the 5000-byte memory

	err := m.Tick()
	if !errors.Is(err, ErrMemoryRead) {
		t.Fatalf("err = %v, want ErrMemoryRead", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after load fault")
	}
}

func TestWriteOutOfBoundsFaults(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{Encode(OpWrite, RR0, RR1, 0)})
	r0, _ := m.Bank().GetMut(RR0)
	r0.Value = 0xFFF0

	err := m.Tick()
	if !errors.Is(err, bus.ErrOutOfBounds) {
		t.Fatalf("err = %v, want bus.ErrOutOfBounds", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after write fault")
	}
}

func TestFetchBeyondMemoryFaults(t *testing.T) {
	mem := bus.NewLinearMemory(16) // origin 0x100 is past capacity
	m := NewMachine(mem, LoadOrigin)
	err := m.Tick()
	if !errors.Is(err, ErrMemoryRead) {
		t.Fatalf("err = %v, want ErrMemoryRead", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after fetch fault")
	}
}

func TestUnknownOpcodeFaults(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{0xF000})
	err := m.Tick()
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("err = %v, want ErrUnknownOpcode", err)
	}
	if !m.Halted {
		t.Fatal("machine not halted after decode fault")
	}
}

func TestCopyBetweenRegisters(t *testing.T) {
	m, _ := newTestMachine(t, []uint16{
		Encode(OpCopy, RR3, RR2, 0),
		Encode(OpHalt, 0, 0, 0),
	})
	r2, _ := m.Bank().GetMut(RR2)
	r2.Value = 0x1234
	if _, err := m.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	r3, _ := m.Bank().Get(RR3)
	if r3.Value != 0x1234 {
		t.Fatalf("RR3 = 0x%04x, want 0x1234", r3.Value)
	}
}

func TestAddProgramEndToEnd(t *testing.T) {
	m, mem := newTestMachine(t, BuildAddProgram())
	ticks, err := m.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ticks != 5 {
		t.Fatalf("halted after %d ticks, want exactly 5", ticks)
	}
	if got := bus.ValueAt(mem, OutputAddress); got != 8 {
		t.Fatalf("output address holds %d, want 8", got)
	}
	r0, _ := m.Bank().Get(RR0)
	if r0.Value != 8 {
		t.Fatalf("RR0 = %d, want 8", r0.Value)
	}
}

func TestStoreOutWritesFixedAddress(t *testing.T) {
	m, mem := newTestMachine(t, []uint16{
		Encode(OpStoreOut, 0, RR1, 0),
		Encode(OpHalt, 0, 0, 0),
	})
	r1, _ := m.Bank().GetMut(RR1)
	r1.Value = 0x4242
	if _, err := m.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := bus.ValueAt(mem, OutputAddress); got != 0x4242 {
		t.Fatalf("mem[output] = 0x%04x, want 0x4242", got)
	}
}
