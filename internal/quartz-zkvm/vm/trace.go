package vm

// TraceEntry is an immutable snapshot of machine state taken at one
// instruction, before operand resolution: the program counter at fetch time,
// the decoded fields, and a full copy of the register bank.
type TraceEntry struct {
	PC     uint16
	Opcode Opcode
	Dest   RegisterID
	Src    RegisterID
	Imm    uint16
	Bank   [MaxRegs]uint16
}

// Recorder accumulates trace entries for the lifetime of one run. The buffer
// is append-only during execution and consumed read-only afterwards; a new
// run takes a new recorder.
type Recorder struct {
	entries []TraceEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make([]TraceEntry, 0, 64)}
}

// Record appends the pre-execution snapshot for one instruction.
func (r *Recorder) Record(pc uint16, inst Instruction, bank *Bank) {
	r.entries = append(r.entries, TraceEntry{
		PC:     pc,
		Opcode: inst.Opcode,
		Dest:   inst.Dest,
		Src:    inst.Src,
		Imm:    inst.Imm,
		Bank:   bank.Snapshot(),
	})
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Entries returns the recorded entries in execution order.
func (r *Recorder) Entries() []TraceEntry {
	return r.entries
}
