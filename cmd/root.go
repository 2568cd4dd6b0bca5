package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/qtree-sim/sim"
	"github.com/inference-sim/qtree-sim/sim/population"
	"github.com/inference-sim/qtree-sim/sim/trace"
)

var (
	// CLI flags for a single resolution run
	seed           int64  // Seed for random population generation
	logLevel       string // Log verbosity level
	numTags        int    // Number of tags to generate
	idBits         int    // Identifier length in bits
	populationPath string // YAML population file (overrides generation)
	savePopulation string // Write the generated population to this YAML file
	traceLevel     string // Query trace verbosity
	traceOut       string // Write the query trace as JSON to this file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "qtree-sim",
	Short: "Query Tree anti-collision protocol simulator for RFID tag populations",
}

// setupLogging applies the --log flag to logrus.
func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
}

// runOutput is the JSON document printed by the run command.
type runOutput struct {
	sim.RunResult
	Efficiency float64             `json:"efficiency"`
	Trace      *trace.TraceSummary `json:"trace,omitempty"`
}

// printRunResult writes the run metrics block to w.
func printRunResult(w io.Writer, res sim.RunResult, summary *trace.TraceSummary) error {
	data, err := json.MarshalIndent(runOutput{RunResult: res, Efficiency: res.Efficiency(), Trace: summary}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run result: %w", err)
	}
	fmt.Fprintln(w, "=== Resolution Metrics ===")
	fmt.Fprintln(w, string(data))
	return nil
}

// writeTraceFile dumps every recorded query as a JSON array.
func writeTraceFile(path string, tr *trace.Trace) error {
	data, err := json.MarshalIndent(tr.Queries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// loadOrGeneratePopulation reads --population if set, else draws --tags
// identifiers of --bits width from the seeded population stream.
func loadOrGeneratePopulation() (*sim.Population, error) {
	if populationPath != "" {
		return population.LoadFile(populationPath)
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	return population.Generate(rng.ForSubsystem(sim.SubsystemPopulation), numTags, idBits)
}

// runCmd resolves one tag population and reports the query count
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Identify one tag population with the Query Tree protocol",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, queries)", traceLevel)
		}
		if traceOut != "" && !trace.TraceLevel(traceLevel).Enabled() {
			logrus.Warnf("--trace-out set without --trace-level queries; enabling query tracing")
			traceLevel = string(trace.TraceLevelQueries)
		}

		pop, err := loadOrGeneratePopulation()
		if err != nil {
			logrus.Fatalf("Unable to prepare tag population: %v", err)
		}
		if savePopulation != "" {
			if err := population.Save(savePopulation, pop); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Infof("Resolving %d tags of %d bits", pop.Len(), pop.Bits())

		var tr *trace.Trace
		if trace.TraceLevel(traceLevel).Enabled() {
			tr = trace.NewTrace()
		}
		res := sim.NewResolution(pop, tr).Run()

		var summary *trace.TraceSummary
		if tr != nil {
			summary = trace.Summarize(tr)
			if cov := trace.CoverageOf(tr, pop.Len()); !cov.Complete() {
				logrus.Errorf("incomplete identification: missing=%v duplicates=%d", cov.Missing, cov.Duplicates)
			}
			if traceOut != "" {
				if err := writeTraceFile(traceOut, tr); err != nil {
					logrus.Fatalf("%v", err)
				}
			}
		}
		if err := printRunResult(cmd.OutOrStdout(), res, summary); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Info("Resolution complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random population generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&numTags, "tags", 100, "Number of tags to generate")
	runCmd.Flags().IntVar(&idBits, "bits", 32, "Identifier length in bits (1-64)")
	runCmd.Flags().StringVar(&populationPath, "population", "", "YAML population file to resolve instead of generating tags")
	runCmd.Flags().StringVar(&savePopulation, "save-population", "", "Write the resolved population to this YAML file")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Query trace verbosity (none, queries)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the per-query trace as JSON to this file")

	// Attach `run` and `sweep` as subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
