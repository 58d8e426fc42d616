package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sorawallet/internal/auth"
	"sorawallet/internal/relay"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr    string
		maxSkew time.Duration
		level   string
	)
	cmd := &cobra.Command{
		Use:          "authverifier",
		Short:        "Development wallet backend that verifies signed requests",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			lvl, err := logrus.ParseLevel(level)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, maxSkew, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&maxSkew, "max-skew", auth.DefaultMaxSkew, "maximum accepted clock skew of signed requests")
	cmd.Flags().StringVar(&level, "log-level", "info", "log level")
	return cmd
}

func serve(ctx context.Context, addr string, maxSkew time.Duration, log *logrus.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := relay.NewServer(auth.Verifier{MaxSkew: maxSkew, Metrics: auth.NewMetrics(reg)}, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", srv.Handler())

	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdown)
	}()

	log.WithFields(logrus.Fields{"addr": addr, "max_skew": maxSkew}).Info("auth verifier listening")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
