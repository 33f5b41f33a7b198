package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/config"
	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/metrics"
	"github.com/Jayphen/opsboard/internal/redis"
)

var (
	serveAddr     string
	servePublish  bool
	serveInterval time.Duration
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Export board counters as Prometheus metrics",
		Long: `Periodically rebuild the board and expose its counters at /metrics.
After each refresh the counters are also published to the opsboard:stats
Redis hash unless --publish=false.`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&servePublish, "publish", true, "Publish stats to Redis after each refresh")
	cmd.Flags().DurationVar(&serveInterval, "interval", 0, "Refresh interval (default from config)")

	return cmd
}

// statsPublisher is the part of redis.Client the refresher needs.
type statsPublisher interface {
	PublishStats(ctx context.Context, today board.Date, stats board.Stats) error
}

// refresher rebuilds the board and pushes it to the exporters.
type refresher struct {
	load      func(ctx context.Context) (board.Board, error)
	metrics   *metrics.Metrics
	publisher statsPublisher
	log       *logging.Logger
}

// refresh runs one cycle. Failures leave the previous values in place.
func (r *refresher) refresh(ctx context.Context) error {
	start := time.Now()
	b, err := r.load(ctx)
	r.metrics.ObserveRefresh(err, time.Since(start), now())
	if err != nil {
		r.log.WithError(err).Warn("refresh failed")
		return err
	}

	r.metrics.Observe(b)
	r.log.WithFields(map[string]interface{}{
		"total":   b.Stats.Total,
		"overdue": b.Stats.Overdue,
	}).Debug("board refreshed")

	if r.publisher != nil {
		if err := r.publisher.PublishStats(ctx, b.Today, b.Stats); err != nil {
			r.log.WithError(err).Warn("failed to publish stats")
		}
	}
	return nil
}

// run refreshes immediately and then every interval until ctx is done.
func (r *refresher) run(ctx context.Context, interval time.Duration) {
	_ = r.refresh(ctx)

	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.refresh(ctx)
		}
	}
}

// refreshInterval prefers a positive --interval and otherwise the configured one.
func refreshInterval(flag time.Duration, cfg *config.Config) time.Duration {
	if flag > 0 {
		return flag
	}
	return cfg.Interval()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	interval := refreshInterval(serveInterval, cfg)

	loader, err := newBoardLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	log := logging.WithCommand("serve")

	registry := prometheus.NewRegistry()
	r := &refresher{
		load:    loader.Load,
		metrics: metrics.MustNewMetrics(registry),
		log:     log,
	}

	if servePublish {
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			// Metrics still work without Redis
			log.WithError(err).Warn("redis unavailable, stats will not be published")
		} else {
			defer client.Close()
			r.publisher = client
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go r.run(ctx, interval)

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":     addr,
			"interval": interval.String(),
		}).Info("serving metrics")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
