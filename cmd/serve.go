package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seislocate/seislocate/seis"
	"github.com/seislocate/seislocate/server"
)

var (
	serveRedisAddr string
	serveWorkers   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background HTTP service and queue worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		queue := server.NewQueue(serveRedisAddr)
		defer queue.Close()
		if err := queue.Ping(ctx); err != nil {
			logrus.Fatalf("queue unreachable: %v", err)
		}

		engine := seis.NewEngine(ctx, serveWorkers)
		defer engine.Close()

		worker := server.NewWorker(queue, engine)
		worker.Start()
		defer worker.Stop()

		srv := &http.Server{Addr: server.Addr(), Handler: server.NewServer(queue)}
		go func() {
			logrus.Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("serve: %v", err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("shutdown: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveRedisAddr, "redis", server.DefaultRedisAddr, "Address of the queue/cache service")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Worker pool size (0 = one per CPU)")

	rootCmd.AddCommand(serveCmd)
}
