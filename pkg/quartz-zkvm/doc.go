// Package quartzzkvm provides a minimal byte-addressable 16-bit virtual CPU
// with a per-instruction execution-trace pipeline that produces
// deterministic cryptographic commitments for an external zero-knowledge
// proving system.
//
// # Features
//
// - Fetch-decode-execute engine over a pluggable memory bus
// - Fixed register bank with program-counter discipline
// - 16-bit instruction words: 4-bit opcode and three 4-bit operand fields
// - Append-only execution trace, one pre-execution snapshot per instruction
// - SHA-256/SHA3-256 -> BN254 reduction -> Poseidon commitment pipeline
// - Program identity, output-state, and per-step witness commitments
//
// # Quick Start
//
// Running a program and collecting its witnesses:
//
//	config := quartzzkvm.DefaultConfig().WithTraceCapacity(8)
//	machine, err := quartzzkvm.NewVM(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := machine.Run(quartzzkvm.BuildAddProgram())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println("ticks:", result.Ticks)
//	fmt.Println("program commitment:", result.Program.Public)
//	for i, p := range result.StepPublic {
//		fmt.Printf("step %d: public %s private %s\n", i, p, result.StepPrivate[i])
//	}
//
// Commitments are reproducible: two runs of the same program produce
// byte-identical public and private sequences. The canonical byte layouts
// they depend on are documented in internal/quartz-zkvm/zk.
//
// The proving system itself is out of scope; the four produced artifacts
// (program commitment, output commitment, per-step public and private
// sequences) are the hand-off boundary.
package quartzzkvm
