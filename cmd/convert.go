package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/landlord-sim/sim/workload"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert external formats to a workload YAML",
	Long:  "Convert external catalog and trace formats to workload YAML. Output is written to stdout for piping.",
}

// --- landlord-sim convert csv ---

var (
	csvObjectsPath string
	csvTracePath   string
)

var convertCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Convert an objects CSV (id,cost,size) and a trace CSV (id) to workload YAML",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := workload.ConvertCSV(csvObjectsPath, csvTracePath)
		if err != nil {
			logrus.Fatalf("CSV conversion failed: %v", err)
		}
		if _, _, err := spec.Build(); err != nil {
			logrus.Fatalf("CSV conversion produced an invalid workload: %v", err)
		}
		writeSpecToStdout(spec)
	},
}

// writeSpecToStdout marshals a workload Spec to YAML and writes to stdout.
func writeSpecToStdout(spec *workload.Spec) {
	data, err := spec.Marshal()
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	convertCSVCmd.Flags().StringVar(&csvObjectsPath, "objects", "", "Path to objects CSV (header: id,cost,size)")
	convertCSVCmd.Flags().StringVar(&csvTracePath, "trace", "", "Path to trace CSV (header: id)")
	_ = convertCSVCmd.MarkFlagRequired("objects")
	_ = convertCSVCmd.MarkFlagRequired("trace")

	convertCmd.AddCommand(convertCSVCmd)

	rootCmd.AddCommand(convertCmd)
}
