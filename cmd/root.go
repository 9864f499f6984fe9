package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/landlord-sim/sim"
	_ "github.com/inference-sim/landlord-sim/sim/script" // registers the SCRIPT tie-break
	"github.com/inference-sim/landlord-sim/sim/trace"
	"github.com/inference-sim/landlord-sim/sim/workload"
)

var (
	// Inputs
	inputPath  string // Workload YAML (objects + requests)
	configPath string // Policy bundle YAML

	// Cache policy; each overrides the policy bundle when set explicitly
	capacity       float64 // Cache capacity in size units
	refreshScalar  int     // 0 = FIFO-Landlord, 1 = LRU-Landlord
	hitPolicy      string  // LRU, FIFO, HALF or RAND
	tieBreakName   string  // LRU, FIFO, RAND or SCRIPT
	tieBreakScript string  // Path to a Lua file defining rank(entry)
	seed           int64   // Seed for RAND hit policy and tie-break
	workers        int     // Parallel suffix replays (0 = GOMAXPROCS)
	division       int     // Suffix detailed in the report

	// Output
	outputPath   string // Report destination ("" = stdout)
	outputFormat string // yaml or json
	noSuffixes   bool   // Skip suffix analysis
	metricsOut   string // Prometheus text exposition destination
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "landlord-sim",
	Short: "Credit-based (Landlord) cache replacement simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a request trace through a Landlord cache and report outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if err := executeRun(cmd); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// simulation holds the validated inputs of one run.
type simulation struct {
	runID    string
	catalog  *sim.Catalog
	requests []string
	cfg      sim.Config
	workers  int
	division int
	suffixes bool
	registry prometheus.Registerer
}

// executeRun resolves inputs from flags, runs the simulation and writes its outputs.
func executeRun(cmd *cobra.Command) error {
	if !trace.IsValidFormat(outputFormat) {
		return fmt.Errorf("unknown --format %q; valid: yaml, json", outputFormat)
	}

	spec, err := workload.Load(inputPath)
	if err != nil {
		return err
	}
	catalog, requests, err := spec.Build()
	if err != nil {
		return fmt.Errorf("invalid workload %s: %w", inputPath, err)
	}

	bundle := &sim.PolicyBundle{}
	if configPath != "" {
		if bundle, err = sim.LoadPolicyBundle(configPath); err != nil {
			return err
		}
	}
	if err := applyFlagOverrides(cmd, bundle); err != nil {
		return err
	}
	cfg, err := bundle.Config()
	if err != nil {
		return err
	}
	if err := catalog.CheckCapacity(cfg.Capacity); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	s := simulation{
		runID:    uuid.NewString(),
		catalog:  catalog,
		requests: requests,
		cfg:      cfg,
		suffixes: !noSuffixes,
		registry: registry,
	}
	if bundle.Workers != nil {
		s.workers = *bundle.Workers
	}
	if bundle.Division != nil {
		s.division = *bundle.Division
	}

	startTime := time.Now()
	logrus.Infof("Starting run %s: %d objects, %d requests, capacity=%v, refresh=%v, tiebreak=%v, seed=%d",
		s.runID, catalog.Len(), len(requests), cfg.Capacity, cfg.Refresh, cfg.TieBreak, cfg.Seed)

	report, run, err := runSimulation(s)
	if err != nil {
		return err
	}

	metricsDst := io.Writer(os.Stdout)
	if outputPath == "" {
		metricsDst = os.Stderr
		if err := report.Write(os.Stdout, trace.Format(outputFormat)); err != nil {
			return err
		}
	} else if err := writeReportFile(report, outputPath, trace.Format(outputFormat)); err != nil {
		return err
	}
	run.Metrics.Print(metricsDst, cfg.Capacity)

	if metricsOut != "" {
		if err := writeMetrics(registry, metricsOut); err != nil {
			return err
		}
	}
	logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	return nil
}

// runSimulation replays the full trace and, unless disabled, every suffix, and
// builds the report. Engine events feed Prometheus collectors registered with s.registry.
func runSimulation(s simulation) (*trace.Report, *sim.Run, error) {
	var opts []sim.Option
	if s.registry != nil {
		obs, err := sim.NewPrometheusObserver(s.registry, s.runID)
		if err != nil {
			return nil, nil, fmt.Errorf("registering metrics: %w", err)
		}
		opts = append(opts, sim.WithObserver(obs))
	}

	run, err := sim.Replay(s.catalog, s.requests, s.cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	var suffixes []sim.SuffixResult
	if s.suffixes {
		if suffixes, err = sim.AnalyzeSuffixes(s.catalog, s.requests, s.cfg, s.workers); err != nil {
			return nil, nil, err
		}
	}

	report, err := sim.BuildReport(run, suffixes, s.division)
	if err != nil {
		return nil, nil, err
	}
	report.RunID = s.runID
	return report, run, nil
}

// applyFlagOverrides copies explicitly set flags into the bundle.
// A refresh scalar or hit policy given on the command line replaces both bundle fields.
// --tiebreak-script selects the SCRIPT tie-break over whatever the bundle names.
func applyFlagOverrides(cmd *cobra.Command, b *sim.PolicyBundle) error {
	flags := cmd.Flags()
	if flags.Changed("capacity") {
		b.Capacity = &capacity
	}
	if flags.Changed("refresh") || flags.Changed("hit-policy") {
		b.RefreshScalar, b.HitPolicy = nil, ""
	}
	if flags.Changed("refresh") {
		b.RefreshScalar = &refreshScalar
	}
	if flags.Changed("hit-policy") {
		b.HitPolicy = hitPolicy
	}
	if flags.Changed("tiebreak") {
		b.TieBreak.Policy = tieBreakName
	}
	if flags.Changed("tiebreak-script") {
		src, err := os.ReadFile(tieBreakScript)
		if err != nil {
			return fmt.Errorf("reading tie-break script: %w", err)
		}
		if flags.Changed("tiebreak") && !strings.EqualFold(strings.TrimSpace(tieBreakName), "SCRIPT") {
			return &sim.ConfigError{Field: "tiebreak", Reason: fmt.Sprintf("--tiebreak-script needs the SCRIPT tie-break, got %q", tieBreakName)}
		}
		b.TieBreak.Policy = "SCRIPT"
		b.TieBreak.Script, b.TieBreak.ScriptFile = string(src), ""
	}
	if flags.Changed("seed") {
		b.Seed = &seed
	}
	if flags.Changed("workers") {
		b.Workers = &workers
	}
	if flags.Changed("div") {
		b.Division = &division
	}
	return b.Validate()
}

func writeReportFile(report *trace.Report, path string, format trace.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := report.Write(f, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	logrus.Infof("Report written to %s", path)
	return nil
}

// writeMetrics dumps every gathered metric family in the Prometheus text format.
func writeMetrics(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close() //nolint:errcheck // errors surface through MetricFamilyToText
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Workload YAML with objects and requests")
	runCmd.Flags().StringVar(&configPath, "config", "", "Policy bundle YAML (flags override its values)")
	_ = runCmd.MarkFlagRequired("input")

	runCmd.Flags().Float64Var(&capacity, "capacity", 0, "Cache capacity in size units")
	runCmd.Flags().IntVar(&refreshScalar, "refresh", 1, "Refresh scalar: 0 = FIFO-Landlord, 1 = LRU-Landlord")
	runCmd.Flags().StringVar(&hitPolicy, "hit-policy", "LRU", "Hit policy ("+strings.Join(sim.ValidHitPolicyNames(), ", ")+")")
	runCmd.Flags().StringVar(&tieBreakName, "tiebreak", "LRU", "Tie-break among zero-credit entries ("+strings.Join(sim.ValidTieBreakNames(), ", ")+")")
	runCmd.Flags().StringVar(&tieBreakScript, "tiebreak-script", "", "Lua file defining rank(entry) for the SCRIPT tie-break")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the RAND hit policy and tie-break")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel suffix replays (0 = GOMAXPROCS)")
	runCmd.Flags().IntVar(&division, "div", 0, "Suffix start detailed with cumulative and per-object ratios")

	runCmd.Flags().StringVar(&outputPath, "output", "", "Report file (default stdout)")
	runCmd.Flags().StringVar(&outputFormat, "format", "yaml", "Report format (yaml, json)")
	runCmd.Flags().BoolVar(&noSuffixes, "no-suffixes", false, "Skip suffix analysis")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
