package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/landlord-sim/sim/workload"
)

var composeFromPaths []string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Concatenate workloads into one trace over a merged catalog",
	Long: "Load workload YAML files, union their object catalogs and append their requests in --from order. " +
		"Objects shared between files must agree on cost and size. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		merged, err := composeWorkloads(composeFromPaths)
		if err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
		writeSpecToStdout(merged)
	},
}

// composeWorkloads loads every path and merges the results. The merged workload
// is built once so that a file which could not be replayed on its own is reported here.
func composeWorkloads(paths []string) (*workload.Spec, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one --from flag is required")
	}
	specs := make([]*workload.Spec, 0, len(paths))
	for _, path := range paths {
		spec, err := workload.Load(path)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	merged, err := workload.Compose(specs)
	if err != nil {
		return nil, err
	}
	if _, _, err := merged.Build(); err != nil {
		return nil, fmt.Errorf("merged workload is not replayable: %w", err)
	}
	logrus.Infof("Composed %d workloads: %d objects, %d requests", len(paths), len(merged.Objects), len(merged.Requests))
	return merged, nil
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Workload YAML to append (repeatable, order preserved)")
	_ = composeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(composeCmd)
}
