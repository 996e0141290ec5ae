// quartz-vm-witness runs Quartz VM programs and emits their witness
// commitments as JSON for hand-off to an external proving system.
//
// Programs are JSON files of the form {"words": [17669, ...]}; without
// --program the built-in demonstration program is used. The padded trace
// capacity comes from --capacity or the QUARTZ_TRACE_CAPACITY environment
// variable.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	quartzzkvm "github.com/quartzlabs/quartz-zkvm/pkg/quartz-zkvm"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/utils"
)

type programInput struct {
	Words []uint16 `json:"words"`
}

type commitmentOutput struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}

type witnessOutput struct {
	Ticks       int                `json:"ticks"`
	Program     commitmentOutput   `json:"program_commitment"`
	Output      *commitmentOutput  `json:"output_commitment,omitempty"`
	StepPublic  []string           `json:"step_public,omitempty"`
	StepPrivate []string           `json:"step_private,omitempty"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "quartz-vm-witness",
		Short: "Quartz zkVM witness generator",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		programPath string
		hashFn      string
		capacity    int
		verbose     bool
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a program and emit all witness commitments",
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loadWords(programPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("capacity") {
				envCap, err := utils.CapacityFromEnv()
				if err != nil {
					return fmt.Errorf("no --capacity given and %v", err)
				}
				capacity = envCap
			}

			config := quartzzkvm.DefaultConfig().
				WithHashFunction(hashFn).
				WithTraceCapacity(capacity)
			machine, err := quartzzkvm.NewVM(config)
			if err != nil {
				return err
			}
			if verbose {
				machine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			result, err := machine.Run(words)
			if err != nil {
				return err
			}

			out := witnessOutput{
				Ticks:   result.Ticks,
				Program: hexPair(result.Program),
				Output:  &commitmentOutput{},
			}
			*out.Output = hexPair(result.Output)
			for i := range result.StepPublic {
				out.StepPublic = append(out.StepPublic, fmt.Sprintf("%#x", result.StepPublic[i]))
				out.StepPrivate = append(out.StepPrivate, fmt.Sprintf("%#x", result.StepPrivate[i]))
			}
			return emit(out)
		},
	}
	runCmd.Flags().StringVar(&programPath, "program", "", "JSON program file (default: built-in add program)")
	runCmd.Flags().StringVar(&hashFn, "hash", "sha256", "digest function: sha256 or sha3")
	runCmd.Flags().IntVar(&capacity, "capacity", 0, "padded trace capacity (default: $"+utils.TraceCapacityEnv+")")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log each executed instruction to stderr")

	commitCmd := &cobra.Command{
		Use:   "commit",
		Short: "Emit only the program identity commitment, without executing",
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loadWords(programPath)
			if err != nil {
				return err
			}
			commitment, err := quartzzkvm.CommitProgram(words, hashFn)
			if err != nil {
				return err
			}
			return emit(map[string]commitmentOutput{"program_commitment": hexPair(commitment)})
		},
	}
	commitCmd.Flags().StringVar(&programPath, "program", "", "JSON program file (default: built-in add program)")
	commitCmd.Flags().StringVar(&hashFn, "hash", "sha256", "digest function: sha256 or sha3")

	rootCmd.AddCommand(runCmd, commitCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadWords(path string) ([]uint16, error) {
	if path == "" {
		return quartzzkvm.BuildAddProgram(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in programInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(in.Words) == 0 {
		return nil, fmt.Errorf("%s contains no program words", path)
	}
	return in.Words, nil
}

func hexPair(c quartzzkvm.Commitment) commitmentOutput {
	return commitmentOutput{
		Public:  fmt.Sprintf("%#x", c.Public),
		Private: fmt.Sprintf("%#x", c.Private),
	}
}

func emit(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
