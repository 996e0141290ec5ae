// Package vm implements the Quartz fetch-decode-execute engine: a fixed
// register bank over a pluggable memory bus, with an append-only execution
// trace feeding the commitment pipeline.
package vm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
)

// LoadOrigin is the address programs are loaded at. The 256 bytes below it
// are reserved as the program segment prefix.
const LoadOrigin uint16 = 0x0100

// OutputAddress is the fixed well-known address STORE_OUT writes to. It
// coincides with the load origin, so storing a result overwrites the first
// program word after that word has executed.
const OutputAddress = LoadOrigin

// Machine errors.
var (
	// ErrHalted is returned by every tick on an already-halted machine.
	ErrHalted = errors.New("vm: machine is halted")

	// ErrMemoryRead is returned when an instruction fetch or load finds no
	// value at the requested address.
	ErrMemoryRead = errors.New("vm: memory read failed")
)

// Machine simulates the 16-bit CPU. It exclusively owns its register bank
// and memory device for the duration of one run; instances are not reset or
// reused across runs.
type Machine struct {
	bank *Bank
	mem  bus.Device

	// Halted is set by HALT and by any execution error. A faulted machine
	// cannot be un-halted.
	Halted bool

	trace *Recorder
	log   *slog.Logger
}

// NewMachine creates a machine over mem with the program counter at origin.
// Tracing is off until EnableTrace is called.
func NewMachine(mem bus.Device, origin uint16) *Machine {
	return &Machine{
		bank: NewBank(origin),
		mem:  mem,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger injects the observability collaborator. The execution path emits
// debug events only; it never writes to stdout directly.
func (m *Machine) SetLogger(l *slog.Logger) {
	if l != nil {
		m.log = l
	}
}

// EnableTrace attaches a fresh trace recorder. One entry is appended per
// executed instruction, before operand resolution.
func (m *Machine) EnableTrace() {
	m.trace = NewRecorder()
}

// Trace returns the recorded entries in execution order, or nil when tracing
// is disabled. The partial trace stays inspectable after a fatal halt.
func (m *Machine) Trace() []TraceEntry {
	if m.trace == nil {
		return nil
	}
	return m.trace.Entries()
}

// Bank exposes the register bank for end-of-run inspection.
func (m *Machine) Bank() *Bank {
	return m.bank
}

// Memory exposes the machine's memory device.
func (m *Machine) Memory() bus.Device {
	return m.mem
}

// PC returns the current program counter value.
func (m *Machine) PC() uint16 {
	pc, _ := m.bank.Get(RPC)
	return pc.Value
}

// fault transitions the machine to Halted and surfaces err. All execution
// errors are fatal to the run; none are retried or recovered internally.
func (m *Machine) fault(err error) error {
	m.Halted = true
	m.log.Debug("machine faulted", "err", err)
	return err
}

// Tick advances the machine by one fetch-decode-execute cycle.
func (m *Machine) Tick() error {
	if m.Halted {
		return ErrHalted
	}

	pc, err := m.bank.Get(RPC)
	if err != nil {
		return m.fault(err)
	}
	fetchAddr := pc.Value

	word, ok := bus.Read16(m.mem, fetchAddr)
	if !ok {
		return m.fault(fmt.Errorf("%w: fetch at 0x%04x", ErrMemoryRead, fetchAddr))
	}

	ir, err := m.bank.GetMut(RIR)
	if err != nil {
		return m.fault(err)
	}
	ir.Value = word

	if err := m.bank.AdvancePC(); err != nil {
		return m.fault(err)
	}

	inst, err := Decode(word)
	if err != nil {
		return m.fault(err)
	}
	m.log.Debug("tick", "pc", fetchAddr, "opcode", inst.Opcode.String())

	// Snapshot pre-execution state, before operand resolution mutates RIM.
	if m.trace != nil {
		m.trace.Record(fetchAddr, inst, m.bank)
	}

	dest, err := m.resolve(inst.Dest, inst.Imm)
	if err != nil {
		return m.fault(err)
	}
	src, err := m.resolve(inst.Src, inst.Imm)
	if err != nil {
		return m.fault(err)
	}

	if err := m.execute(inst.Opcode, dest, src); err != nil {
		return m.fault(err)
	}
	return nil
}

// Run ticks until the machine halts, returning the number of completed ticks
// and the first fatal error, if any.
func (m *Machine) Run() (int, error) {
	ticks := 0
	for !m.Halted {
		if err := m.Tick(); err != nil {
			return ticks, err
		}
		ticks++
	}
	return ticks, nil
}

// resolve turns an operand field into a register value copy. A field naming
// the immediate register first overwrites that register with the
// instruction's immediate nibble -- but only when the nibble is nonzero.
// Zero doubles as the "no immediate present" sentinel, so a zero nibble
// leaves the register's prior contents in use.
func (m *Machine) resolve(id RegisterID, imm uint16) (Register, error) {
	if id == RIM && imm != 0 {
		rim, err := m.bank.GetMut(RIM)
		if err != nil {
			return Register{}, err
		}
		rim.Value = imm
	}
	return m.bank.Get(id)
}

// execute dispatches one opcode against resolved operands. Every arm that
// touches the bus or bank surfaces errors to the caller, which faults the
// machine.
func (m *Machine) execute(op Opcode, dest, src Register) error {
	switch op {
	case OpHalt:
		m.Halted = true
		return nil

	case OpCopy:
		d, err := m.bank.GetMut(dest.ID)
		if err != nil {
			return err
		}
		d.Value = src.Value
		return nil

	case OpLoad:
		v, ok := bus.Read16(m.mem, src.Value)
		if !ok {
			return fmt.Errorf("%w: load at 0x%04x", ErrMemoryRead, src.Value)
		}
		d, err := m.bank.GetMut(dest.ID)
		if err != nil {
			return err
		}
		d.Value = v
		return nil

	case OpWrite:
		return bus.Write16(m.mem, dest.Value, src.Value)

	case OpAdd:
		sum := uint32(dest.Value) + uint32(src.Value)
		if sum > 0xFFFF {
			return fmt.Errorf("%w: %d + %d exceeds 16 bits", ErrOverflow, dest.Value, src.Value)
		}
		d, err := m.bank.GetMut(dest.ID)
		if err != nil {
			return err
		}
		d.Value = uint16(sum)
		return nil

	case OpLoadImm:
		// Resolution already placed the immediate into RIM.
		return nil

	case OpStoreOut:
		return bus.Write16(m.mem, OutputAddress, src.Value)

	default:
		// Unreachable: Decode rejects unknown nibbles.
		return fmt.Errorf("%w: %d", ErrUnknownOpcode, uint8(op))
	}
}
