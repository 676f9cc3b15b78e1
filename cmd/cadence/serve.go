package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpAdapter "github.com/openstimuli/cadence/internal/adapters/http"
	"github.com/openstimuli/cadence/pkg/adapters/exprlang"
	"github.com/openstimuli/cadence/pkg/observability"
	"github.com/openstimuli/cadence/pkg/schema"
)

var serveCmd = &cobra.Command{
	Use:   "serve <flow.json>",
	Short: "Serve a survey flow over HTTP",
	Long:  `Hosts the survey flow document as a JSON API: remote clients fetch prepared pages and post answers, while the interpreter runs server-side. Prometheus metrics are exposed on /metrics.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		cfg, err := loadSettings(cmd)
		if err != nil {
			fmt.Printf("Error loading settings: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cmd)

		doc, err := schema.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error loading flow document: %v\n", err)
			os.Exit(1)
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		server := httpAdapter.NewServer(doc, exprlang.New(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithResultStore(newResultStore(cfg)),
			httpAdapter.WithLifecycleHooks(metrics.Hooks()),
		)

		r := chi.NewRouter()
		r.Mount("/", server.Handler())
		r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Cadence Server on %s\n", srv.Addr)
			fmt.Printf("Serving flow document: %s\n", args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Cadence Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
