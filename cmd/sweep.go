package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/qtree-sim/sim/store"
	"github.com/inference-sim/qtree-sim/sim/sweep"
	"github.com/inference-sim/qtree-sim/sim/telemetry"
)

var (
	// CLI flags for the population sweep
	sweepConfigPath string // YAML sweep config
	sweepLogLevel   string
	sweepSeed       int64
	sweepBits       int
	sweepMinTags    int
	sweepMaxTags    int
	sweepStep       int
	sweepTrials     int
	sweepWorkers    int
	dbPath          string // SQLite file receiving the results
	metricsOut      string // Prometheus textfile receiving the metrics
)

// resolveSweepConfig loads --config when given and lets explicitly set
// flags override the file, the way --seed overrides a workload seed.
func resolveSweepConfig(cmd *cobra.Command) (sweep.Config, error) {
	cfg := sweep.DefaultConfig()
	if sweepConfigPath != "" {
		loaded, err := sweep.LoadConfig(sweepConfigPath)
		if err != nil {
			return sweep.Config{}, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if sweepConfigPath == "" || flags.Changed(name) {
			if sweepConfigPath != "" {
				logrus.Warnf("--%s overrides the value in %s", name, sweepConfigPath)
			}
			apply()
		}
	}
	override("seed", func() { cfg.Seed = sweepSeed })
	override("bits", func() { cfg.Bits = sweepBits })
	override("min-tags", func() { cfg.MinTags = sweepMinTags })
	override("max-tags", func() { cfg.MaxTags = sweepMaxTags })
	override("step", func() { cfg.Step = sweepStep })
	override("trials", func() { cfg.Trials = sweepTrials })
	override("workers", func() { cfg.Workers = sweepWorkers })
	return cfg, cfg.Validate()
}

// sweepCmd averages query counts over a range of population sizes
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep population sizes and report mean query count and efficiency",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(sweepLogLevel)

		cfg, err := resolveSweepConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting sweep: bits=%d tags=%d..%d step=%d trials=%d seed=%d",
			cfg.Bits, cfg.MinTags, cfg.MaxTags, cfg.Step, cfg.Trials, cfg.Seed)

		var obs sweep.Observer
		var collector *telemetry.Collector
		if metricsOut != "" {
			collector, err = telemetry.NewCollector(prometheus.NewRegistry())
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			obs = collector
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		res, err := sweep.Run(ctx, cfg, obs)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		if err := res.Print(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
		if collector != nil {
			if err := collector.WriteTextfile(metricsOut); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if dbPath != "" {
			st, err := store.Open(dbPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			defer st.Close()
			id, err := st.SaveSweep(res)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Stored sweep as run %s in %s", id, dbPath)
		}

		logrus.Info("Sweep complete.")
	},
}

func init() {
	defaults := sweep.DefaultConfig()
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "YAML sweep config; explicitly set flags override it")
	sweepCmd.Flags().StringVar(&sweepLogLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", defaults.Seed, "Master seed; every trial draws from its own derived stream")
	sweepCmd.Flags().IntVar(&sweepBits, "bits", defaults.Bits, "Identifier length in bits (1-64)")
	sweepCmd.Flags().IntVar(&sweepMinTags, "min-tags", defaults.MinTags, "Smallest population size")
	sweepCmd.Flags().IntVar(&sweepMaxTags, "max-tags", defaults.MaxTags, "Largest population size")
	sweepCmd.Flags().IntVar(&sweepStep, "step", defaults.Step, "Population size increment")
	sweepCmd.Flags().IntVar(&sweepTrials, "trials", defaults.Trials, "Trials per population size")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", defaults.Workers, "Concurrent trials (0 = one per CPU)")
	sweepCmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to store the sweep result in")
	sweepCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
}
