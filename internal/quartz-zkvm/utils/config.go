// Package utils holds run configuration for the Quartz VM and its
// commitment pipeline.
package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// TraceCapacityEnv names the environment variable carrying the padded trace
// length expected by the proof circuit.
const TraceCapacityEnv = "QUARTZ_TRACE_CAPACITY"

// ErrConfig marks invalid or missing configuration. Configuration problems
// are reported, never paniced on.
var ErrConfig = errors.New("config error")

// Config represents the configuration for one VM run.
type Config struct {
	// MemorySize is the main memory capacity in bytes.
	MemorySize int

	// LoadOrigin is the address the program is written to and the initial
	// program counter.
	LoadOrigin uint16

	// HashFunction selects the general-purpose digest: "sha256" or "sha3".
	HashFunction string

	// TraceEnabled turns on per-instruction trace capture.
	TraceEnabled bool

	// TraceCapacity is the padded length of the per-step witness sequences.
	// Zero means no padding.
	TraceCapacity int
}

// DefaultConfig returns the configuration of the reference machine: 5000
// bytes of memory, programs at 0x0100, SHA-256 digests, tracing off.
func DefaultConfig() *Config {
	return &Config{
		MemorySize:   5000,
		LoadOrigin:   0x0100,
		HashFunction: "sha256",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MemorySize <= 0 {
		return fmt.Errorf("%w: memory size must be positive", ErrConfig)
	}
	if int(c.LoadOrigin)+1 >= c.MemorySize {
		return fmt.Errorf("%w: load origin 0x%04x outside memory of %d bytes",
			ErrConfig, c.LoadOrigin, c.MemorySize)
	}
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("%w: hash function must be 'sha256' or 'sha3', got %q",
			ErrConfig, c.HashFunction)
	}
	if c.TraceCapacity < 0 {
		return fmt.Errorf("%w: trace capacity must not be negative", ErrConfig)
	}
	return nil
}

// WithMemorySize sets the memory capacity.
func (c *Config) WithMemorySize(n int) *Config {
	c.MemorySize = n
	return c
}

// WithLoadOrigin sets the program load origin.
func (c *Config) WithLoadOrigin(origin uint16) *Config {
	c.LoadOrigin = origin
	return c
}

// WithHashFunction sets the digest function.
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// WithTrace enables trace capture.
func (c *Config) WithTrace() *Config {
	c.TraceEnabled = true
	return c
}

// WithTraceCapacity sets the padded witness length and enables tracing.
func (c *Config) WithTraceCapacity(n int) *Config {
	c.TraceEnabled = true
	c.TraceCapacity = n
	return c
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// CapacityFromEnv reads the proof-circuit trace capacity from the
// environment. A missing, malformed, or negative value is a reportable
// configuration error.
func CapacityFromEnv() (int, error) {
	raw, ok := os.LookupEnv(TraceCapacityEnv)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not set", ErrConfig, TraceCapacityEnv)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrConfig, TraceCapacityEnv, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrConfig, TraceCapacityEnv)
	}
	return n, nil
}
