package zk

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/vm"
)

// Supported general-purpose digest functions.
const (
	HashSHA256 = "sha256"
	HashSHA3   = "sha3"
)

// Pipeline errors.
var (
	// ErrHashFunction rejects digest selectors outside the supported set.
	ErrHashFunction = errors.New("zk: unsupported hash function")

	// ErrCapacity is returned when the configured trace capacity is smaller
	// than the number of recorded steps. Truncation would drop witnesses
	// silently, so this is a configuration error instead.
	ErrCapacity = errors.New("zk: trace capacity smaller than recorded steps")

	// ErrOutputRead is returned when the output address holds no value.
	ErrOutputRead = errors.New("zk: output value unreadable")
)

// Commitment is one public/private pair: the Poseidon output and the reduced
// digest pre-image that produced it.
type Commitment struct {
	Public  *big.Int
	Private *big.Int
}

// Context accumulates the witnesses of one run. Every public value is
// Poseidon(reduce(digest(bytes))); the matching private value is the reduced
// digest itself. StepPublic and StepPrivate always have equal length, and
// index i in both corresponds to the i-th executed instruction.
type Context struct {
	hashFunction string

	Program Commitment
	Output  Commitment

	StepPublic  []*big.Int
	StepPrivate []*big.Int
}

// NewContext creates a commitment context using the given digest function,
// HashSHA256 or HashSHA3.
func NewContext(hashFunction string) (*Context, error) {
	switch hashFunction {
	case HashSHA256, HashSHA3:
		return &Context{hashFunction: hashFunction}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrHashFunction, hashFunction)
	}
}

// digest hashes the concatenation of parts with the configured function.
func (c *Context) digest(parts ...[]byte) [32]byte {
	var sum [32]byte
	switch c.hashFunction {
	case HashSHA3:
		h := sha3.New256()
		for _, p := range parts {
			h.Write(p)
		}
		copy(sum[:], h.Sum(nil))
	default:
		h := sha256.New()
		for _, p := range parts {
			h.Write(p)
		}
		copy(sum[:], h.Sum(nil))
	}
	return sum
}

// commit runs the full hash -> reduce -> permute pipeline over parts.
func (c *Context) commit(parts ...[]byte) Commitment {
	private := ReduceDigest(c.digest(parts...))
	return Commitment{
		Public:  PoseidonHash(private),
		Private: new(big.Int).Set(private),
	}
}

// CommitProgram establishes the program identity commitment over the
// serialized instruction words alone, independent of execution. It runs
// before the first tick.
func (c *Context) CommitProgram(words []uint16) {
	c.Program = c.commit(EncodeProgram(words))
}

// CommitSteps converts the trace buffer into the per-step witness sequences,
// in original execution order. For each entry it hashes the canonical step
// pre-image: register snapshot, the memory value now at the entry's program
// counter, the program counter, and the opcode id.
//
// A capacity > 0 pads both sequences with the field's additive identity up
// to capacity; a capacity smaller than the real step count is ErrCapacity.
// Capacity 0 means no padding.
func (c *Context) CommitSteps(entries []vm.TraceEntry, mem bus.Device, capacity int) error {
	if capacity > 0 && capacity < len(entries) {
		return fmt.Errorf("%w: capacity %d, steps %d", ErrCapacity, capacity, len(entries))
	}

	c.StepPublic = make([]*big.Int, 0, max(len(entries), capacity))
	c.StepPrivate = make([]*big.Int, 0, max(len(entries), capacity))
	for _, e := range entries {
		memAtPC := bus.ValueAt(mem, e.PC)
		cm := c.commit(EncodeStep(e, memAtPC))
		c.StepPublic = append(c.StepPublic, cm.Public)
		c.StepPrivate = append(c.StepPrivate, cm.Private)
	}

	for len(c.StepPublic) < capacity {
		c.StepPublic = append(c.StepPublic, new(big.Int))
		c.StepPrivate = append(c.StepPrivate, new(big.Int))
	}
	return nil
}

// CommitOutput summarizes the end state into one public/private pair: the
// value at the output address, the raw memory between the load origin and
// the final program counter, and the serialized register bank, through the
// same pipeline. finalPC must not precede origin; the machine guarantees
// that for any halted run.
func (c *Context) CommitOutput(bank [vm.MaxRegs]uint16, mem bus.Device, origin, finalPC uint16) error {
	out, ok := bus.Read16(mem, vm.OutputAddress)
	if !ok {
		return fmt.Errorf("%w: 0x%04x", ErrOutputRead, vm.OutputAddress)
	}

	outBytes := []byte{byte(out), byte(out >> 8)}
	memorySubset := mem.Range(int(origin), int(finalPC))
	c.Output = c.commit(outBytes, memorySubset, EncodeBank(bank))
	return nil
}
