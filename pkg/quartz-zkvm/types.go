package quartzzkvm

import (
	"math/big"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/utils"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/vm"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/zk"
)

// Config represents configuration for the Quartz VM
// This is the public type for the run configuration used throughout Quartz
type Config = utils.Config

// TraceEntry is one recorded pre-execution machine snapshot
type TraceEntry = vm.TraceEntry

// Commitment is one public/private witness pair
type Commitment = zk.Commitment

// Opcode is the instruction task nibble
type Opcode = vm.Opcode

// RegisterID identifies one register bank slot
type RegisterID = vm.RegisterID

// Well-known machine addresses.
const (
	// LoadOrigin is the fixed program load address.
	LoadOrigin = vm.LoadOrigin

	// OutputAddress is the fixed address STORE_OUT writes to.
	OutputAddress = vm.OutputAddress
)

// DefaultConfig returns the reference machine configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// Encode packs an instruction word from its four 4-bit fields
func Encode(op Opcode, dest, src RegisterID, imm uint16) uint16 {
	return vm.Encode(op, dest, src, imm)
}

// BuildAddProgram assembles the demonstration add-and-store program
func BuildAddProgram() []uint16 {
	return vm.BuildAddProgram()
}

// Result represents the artifacts of one run
type Result struct {
	// Ticks executed before halt
	Ticks int

	// Trace entries, in execution order (nil when tracing is disabled).
	// The partial trace survives a fatal halt for inspection.
	Trace []TraceEntry

	// Program identity commitment, computed before execution
	Program Commitment

	// Output-state commitment, computed at halt
	Output Commitment

	// Per-step witness sequences, index i = i-th executed instruction,
	// zero-padded to the configured trace capacity
	StepPublic  []*big.Int
	StepPrivate []*big.Int
}

// State represents the machine state visible after a run (read-only)
type State struct {
	// Registers ordered by register id
	Registers [vm.MaxRegs]uint16

	// PC is the final program counter
	PC uint16

	// Halted flag
	Halted bool
}
