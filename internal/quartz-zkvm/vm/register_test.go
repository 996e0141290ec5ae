package vm

import (
	"errors"
	"testing"
)

func TestBankFullyPopulated(t *testing.T) {
	b := NewBank(LoadOrigin)
	for _, id := range []RegisterID{RR0, RR1, RR2, RR3, RPC, RIR, RIM} {
		r, err := b.Get(id)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", id, err)
		}
		if r.ID != id {
			t.Fatalf("Get(%d).ID = %d", id, r.ID)
		}
	}
}

func TestBankProgramCounterStartsAtOrigin(t *testing.T) {
	b := NewBank(0x0100)
	pc, err := b.Get(RPC)
	if err != nil {
		t.Fatalf("Get(RPC) failed: %v", err)
	}
	if pc.Value != 0x0100 {
		t.Fatalf("initial PC = 0x%04x, want 0x0100", pc.Value)
	}
}

func TestBankUnknownRegister(t *testing.T) {
	b := NewBank(LoadOrigin)
	if _, err := b.Get(7); !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("Get(7) err = %v, want ErrUnknownRegister", err)
	}
	if _, err := b.GetMut(15); !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("GetMut(15) err = %v, want ErrUnknownRegister", err)
	}
}

func TestBankGetReturnsCopy(t *testing.T) {
	b := NewBank(LoadOrigin)
	r, _ := b.Get(RR0)
	r.Value = 99

	again, _ := b.Get(RR0)
	if again.Value != 0 {
		t.Fatal("mutating a Get copy leaked into the bank")
	}

	m, _ := b.GetMut(RR0)
	m.Value = 42
	after, _ := b.Get(RR0)
	if after.Value != 42 {
		t.Fatal("GetMut mutation did not stick")
	}
}

func TestAdvancePC(t *testing.T) {
	t.Run("StepsByTwo", func(t *testing.T) {
		b := NewBank(0x0100)
		if err := b.AdvancePC(); err != nil {
			t.Fatalf("AdvancePC failed: %v", err)
		}
		pc, _ := b.Get(RPC)
		if pc.Value != 0x0102 {
			t.Fatalf("PC = 0x%04x, want 0x0102", pc.Value)
		}
	})

	t.Run("OverflowIsFatal", func(t *testing.T) {
		b := NewBank(0xFFFE)
		if err := b.AdvancePC(); !errors.Is(err, ErrOverflow) {
			t.Fatalf("err = %v, want ErrOverflow", err)
		}
		// The counter stays where it was.
		pc, _ := b.Get(RPC)
		if pc.Value != 0xFFFE {
			t.Fatalf("PC = 0x%04x after failed advance, want 0xFFFE", pc.Value)
		}
	})

	t.Run("LastValidStep", func(t *testing.T) {
		b := NewBank(0xFFFC)
		if err := b.AdvancePC(); err != nil {
			t.Fatalf("AdvancePC from 0xFFFC failed: %v", err)
		}
	})
}

func TestBankSnapshot(t *testing.T) {
	b := NewBank(0x0100)
	r0, _ := b.GetMut(RR0)
	r0.Value = 0x1234

	snap := b.Snapshot()
	if snap[RR0] != 0x1234 {
		t.Errorf("snapshot[RR0] = 0x%04x, want 0x1234", snap[RR0])
	}
	if snap[RPC] != 0x0100 {
		t.Errorf("snapshot[RPC] = 0x%04x, want 0x0100", snap[RPC])
	}
	// Unpopulated id 7 reads as zero.
	if snap[7] != 0 {
		t.Errorf("snapshot[7] = 0x%04x, want 0", snap[7])
	}
}
