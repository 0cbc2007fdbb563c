package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkatlas/datakit/internal/health"
)

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run health checks over both stores",
		Long: `Health runs one check pass over the store pair and prints the verdict.
With --watch it keeps checking on the configured interval and serves the
Prometheus metrics endpoint until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(injector do.Injector) error {
				monitor := do.MustInvoke[*health.Monitor](injector)

				report := monitor.Check(cmd.Context())
				done, err := rootOpts.emit(cmd, report)
				if err != nil {
					return err
				}
				if !done {
					printHealthReport(cmd, report)
				}
				if !watch {
					return nil
				}
				return watchHealth(cmd, monitor, metricsAddr)
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep checking on the configured interval and serve metrics")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9464", "listen address for the /metrics endpoint")
	return cmd
}

func printHealthReport(cmd *cobra.Command, report *health.Report) {
	cmd.Printf("overall: %s\n", report.Overall)
	cmd.Printf("primary: healthy=%t count=%d latency=%s\n",
		report.Primary.Healthy, report.Primary.Count, report.Primary.Latency.Round(timeRound))
	cmd.Printf("index:   healthy=%t count=%d latency=%s\n",
		report.Index.Healthy, report.Index.Count, report.Index.Latency.Round(timeRound))
	for _, alert := range report.Alerts {
		cmd.Printf("[%s/%s] %s: %s\n", alert.Category, alert.Severity, alert.Source, alert.Message)
	}
}

// watchHealth runs the background check loop and serves the process metrics
// until the command context is cancelled.
func watchHealth(cmd *cobra.Command, monitor *health.Monitor, addr string) error {
	ctx := cmd.Context()
	monitor.Start(ctx)
	defer monitor.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	cmd.Printf("watching; metrics on %s/metrics\n", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
