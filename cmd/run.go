package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/seislocate/seislocate/seis"
	"github.com/seislocate/seislocate/server"
)

var (
	runJobPath string
	runOutPath string
	runWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline (delay estimation + localization) from a job file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		spec, err := seis.LoadJobSpec(runJobPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sig, err := spec.LoadSignals()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("loaded %d stations x %d samples, network aperture %.0f",
			sig.Stations, sig.Samples, floats.Max(spec.StationDistances()))

		engine := seis.NewEngine(ctx, runWorkers)
		defer engine.Close()

		job := &server.Job{
			Signals:          channels(sig),
			Stations:         spec.Stations,
			StationsAltitude: spec.StationsAltitude,
			VelocityModel:    spec.VelocityModel,
			Delay:            spec.Delay,
			Grid:             spec.Grid,
			Search:           spec.Search,
			OriginOffset:     spec.OriginOffset,
		}
		events, err := server.Process(ctx, engine, job)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeJSON(runOutPath, events); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// channels splits a station-major block back into per-station slices.
func channels(sig seis.Signals) [][]float32 {
	out := make([][]float32, sig.Stations)
	for s := range out {
		out[s] = sig.Data[s*sig.Samples : (s+1)*sig.Samples]
	}
	return out
}

// writeJSON writes v to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	runCmd.Flags().StringVar(&runJobPath, "job", "", "Path to the YAML job file")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "Write event results to this JSON file (default stdout)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Worker pool size (0 = one per CPU)")
	_ = runCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(runCmd)
}
