package quartzzkvm

import (
	"io"
	"log/slog"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/vm"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/zk"
)

// VM is the public interface for the Quartz VM
type VM interface {
	// Run loads a program at the configured origin, executes it to halt,
	// and returns the run artifacts. On a fatal execution error the
	// returned Result still carries the partial trace and the program
	// commitment alongside the error.
	Run(program []uint16) (*Result, error)

	// State returns the machine state of the last run
	State() *State

	// SetLogger injects the structured logging collaborator used by the
	// execution path. The default discards everything.
	SetLogger(l *slog.Logger)
}

// NewVM creates a new Quartz VM with the given configuration. Each run
// constructs a fresh machine, memory, and trace buffer; a VM value may be
// reused across runs, machine instances are not.
func NewVM(config *Config) (VM, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, wrapError("invalid configuration", err)
	}
	return &vmImpl{config: config.Clone(), log: slog.New(slog.NewTextHandler(io.Discard, nil))}, nil
}

// vmImpl is the internal implementation of VM
type vmImpl struct {
	config  *Config
	log     *slog.Logger
	machine *vm.Machine
}

// SetLogger injects a structured logger into subsequently created machines.
func (v *vmImpl) SetLogger(l *slog.Logger) {
	if l != nil {
		v.log = l
	}
}

// Run executes one program from load to halt.
func (v *vmImpl) Run(program []uint16) (*Result, error) {
	mem := bus.NewLinearMemory(v.config.MemorySize)
	if err := vm.LoadProgram(mem, v.config.LoadOrigin, program); err != nil {
		return nil, wrapError("loading program", err)
	}

	machine := vm.NewMachine(mem, v.config.LoadOrigin)
	machine.SetLogger(v.log)
	if v.config.TraceEnabled {
		machine.EnableTrace()
	}
	v.machine = machine

	ctx, err := zk.NewContext(v.config.HashFunction)
	if err != nil {
		return nil, wrapError("creating commitment context", err)
	}

	// Program identity is committed before the first tick, independent of
	// execution.
	ctx.CommitProgram(program)

	result := &Result{Program: ctx.Program}
	ticks, runErr := machine.Run()
	result.Ticks = ticks
	result.Trace = machine.Trace()
	if runErr != nil {
		return result, wrapError("execution failed", runErr)
	}

	if v.config.TraceEnabled {
		if err := ctx.CommitSteps(result.Trace, mem, v.config.TraceCapacity); err != nil {
			return result, wrapError("committing trace steps", err)
		}
		result.StepPublic = ctx.StepPublic
		result.StepPrivate = ctx.StepPrivate
	}

	if err := ctx.CommitOutput(machine.Bank().Snapshot(), mem, v.config.LoadOrigin, machine.PC()); err != nil {
		return result, wrapError("committing output state", err)
	}
	result.Output = ctx.Output

	return result, nil
}

// CommitProgram computes the program identity commitment alone, before and
// independent of any execution.
func CommitProgram(words []uint16, hashFunction string) (Commitment, error) {
	ctx, err := zk.NewContext(hashFunction)
	if err != nil {
		return Commitment{}, wrapError("creating commitment context", err)
	}
	ctx.CommitProgram(words)
	return ctx.Program, nil
}

// State returns the machine state of the last run
func (v *vmImpl) State() *State {
	if v.machine == nil {
		return &State{}
	}
	return &State{
		Registers: v.machine.Bank().Snapshot(),
		PC:        v.machine.PC(),
		Halted:    v.machine.Halted,
	}
}
