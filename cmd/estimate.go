package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seislocate/seislocate/seis"
)

var (
	estimateJobPath string
	estimateOutPath string
	estimateWorkers int
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate per-station delays and write the delay matrix as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		spec, err := seis.LoadJobSpec(estimateJobPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sig, err := spec.LoadSignals()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		engine := seis.NewEngine(ctx, estimateWorkers)
		defer engine.Close()

		delays, err := engine.EstimateDelays(ctx, sig, spec.DelayConfig())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeDelaysCSV(estimateOutPath, delays); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("wrote %d delay rows to %s", delays.Samples, estimateOutPath)
	},
}

// writeDelaysCSV stores the [T, S+1] delay matrix, one row per time index
// with the validity flag in column 0.
func writeDelaysCSV(path string, d seis.RealDelays) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write delays: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	record := make([]string, d.Stations+1)
	for t := 0; t < d.Samples; t++ {
		for i, v := range d.Row(t) {
			record[i] = strconv.FormatInt(int64(v), 10)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write delays row %d: %w", t, err)
		}
	}
	return nil
}

// readDelaysCSV is the inverse of writeDelaysCSV.
func readDelaysCSV(path string, stations int) (seis.RealDelays, error) {
	f, err := os.Open(path)
	if err != nil {
		return seis.RealDelays{}, fmt.Errorf("read delays: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = stations + 1
	rows, err := r.ReadAll()
	if err != nil {
		return seis.RealDelays{}, fmt.Errorf("read delays %s: %w", path, err)
	}
	d := seis.NewRealDelays(len(rows), stations)
	for t, row := range rows {
		for i, field := range row {
			v, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				return seis.RealDelays{}, fmt.Errorf("delays %s row %d column %d: %w", path, t, i, err)
			}
			d.Data[t*(stations+1)+i] = int32(v)
		}
	}
	return d, nil
}

func init() {
	estimateCmd.Flags().StringVar(&estimateJobPath, "job", "", "Path to the YAML job file")
	estimateCmd.Flags().StringVar(&estimateOutPath, "out", "delays.csv", "Output CSV path for the delay matrix")
	estimateCmd.Flags().IntVar(&estimateWorkers, "workers", 0, "Worker pool size (0 = one per CPU)")
	_ = estimateCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(estimateCmd)
}
