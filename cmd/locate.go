package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seislocate/seislocate/seis"
	"github.com/seislocate/seislocate/server"
)

var (
	locateJobPath    string
	locateDelaysPath string
	locateOutPath    string
	locateWorkers    int
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate events from a previously estimated delay matrix",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		spec, err := seis.LoadJobSpec(locateJobPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		delayMatrix, err := readDelaysCSV(locateDelaysPath, len(spec.Stations))
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		origin := spec.Origin()
		detected, delays, origins := seis.ExtractEvents(delayMatrix, origin)
		logrus.Infof("%d events detected in %d delay rows", len(detected), delayMatrix.Samples)
		if len(detected) == 0 {
			if err := writeJSON(locateOutPath, []server.EventResult{}); err != nil {
				logrus.Fatalf("%v", err)
			}
			return
		}

		engine := seis.NewEngine(ctx, locateWorkers)
		defer engine.Close()

		grid := spec.GridConfig()
		bestNode, residual, cube, err := engine.LocateEvents(ctx, spec.VelocityModel, delays,
			spec.Stations, spec.StationsAltitude, origins, grid, spec.SearchConfig(), spec.Delay.Base)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		seis.CollectMetrics(cube, grid.Nodes(), bestNode, residual).Print()

		results := make([]server.EventResult, len(detected))
		for i, ev := range detected {
			r := server.EventResult{Time: ev.Time, Node: bestNode[i]}
			if bestNode[i] != seis.Null {
				r.Located = true
				r.Residual = residual[i]
				r.X, r.Y, r.Z = seis.NodePosition(grid, origin, bestNode[i])
			}
			results[i] = r
		}
		if err := writeJSON(locateOutPath, results); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	locateCmd.Flags().StringVar(&locateJobPath, "job", "", "Path to the YAML job file")
	locateCmd.Flags().StringVar(&locateDelaysPath, "delays", "delays.csv", "CSV delay matrix from the estimate command")
	locateCmd.Flags().StringVar(&locateOutPath, "out", "", "Write event results to this JSON file (default stdout)")
	locateCmd.Flags().IntVar(&locateWorkers, "workers", 0, "Worker pool size (0 = one per CPU)")
	_ = locateCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(locateCmd)
}
