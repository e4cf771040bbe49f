// Command server runs the pairs analytics service: one websocket trade
// stream per configured symbol feeding the hot buffers, plus the HTTP
// analytics API, optional metrics endpoint and optional tick archival.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pairs-analytics-go/api"
	"pairs-analytics-go/cache"
	"pairs-analytics-go/config"
	"pairs-analytics-go/gateway"
	"pairs-analytics-go/infrastructure/alert"
	"pairs-analytics-go/infrastructure/logger"
	"pairs-analytics-go/market"
	"pairs-analytics-go/metrics"
	"pairs-analytics-go/pipeline"
	"pairs-analytics-go/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*configPath)
	if err != nil {
		// Config problems happen before the logger exists.
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Close()

	if err := run(cfg, *configPath, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, configPath string, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting pairs analytics",
		zap.String("env", cfg.Env),
		zap.Strings("symbols", cfg.Symbols),
		zap.String("addr", cfg.HTTP.Addr),
	)

	if cfg.Metrics.Addr != "" {
		metrics.StartMetricsServer(cfg.Metrics.Addr)
		log.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
	}

	buffers := market.NewRegistry(cfg.Buffer.Capacity)

	var archiver *storage.Archiver
	if cfg.Archive.Enabled {
		store, err := storage.OpenTickStore(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		archiver = storage.NewArchiver(store, cfg.Archive.FlushSpec, log.Logger)
		if err := archiver.Start(); err != nil {
			return err
		}
		defer func() {
			if err := archiver.Stop(); err != nil {
				log.Warn("final archive flush failed", zap.Error(err))
			}
		}()
	}

	alerts := alert.NewManager(time.Duration(cfg.Alerting.ThrottleMs) * time.Millisecond)
	alerts.AddChannel(alert.NewZapChannel("log", log.Logger))

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		mem := cache.NewMemory()
		resultCache = mem

		sweeper := cron.New()
		if _, err := sweeper.AddFunc("@every 1m", func() { mem.Sweep() }); err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	pipe := pipeline.New(
		buffers,
		cfg.Analytics.ResampleInterval(),
		cfg.Analytics.Window,
		cfg.Analytics.ZScoreThreshold,
		cfg.Analytics.MaxPoints,
		pipeline.Options{
			Cache:    resultCache,
			CacheTTL: cfg.CacheTTL(),
			Alerts:   alerts,
			Log:      log.Logger,
		},
	)

	// One ingestion goroutine per symbol; it is the sole writer into that
	// symbol's buffer.
	for _, sym := range cfg.Symbols {
		buf := buffers.Buffer(sym)
		stream := gateway.NewTradeStream(cfg.Gateway.Endpoint, sym, log.Logger)
		go func(sym string) {
			err := stream.Run(ctx, func(t market.Tick) {
				buf.Append(t)
				if archiver != nil {
					archiver.Enqueue(t)
				}
				metrics.TicksIngested.WithLabelValues(sym).Inc()
				metrics.BufferSize.WithLabelValues(sym).Set(float64(buf.Len()))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("trade stream stopped", zap.String("symbol", sym), zap.Error(err))
			}
		}(stream.Symbol)
	}

	// Hot-reload analytic thresholds on config file changes.
	go func() {
		err := config.Watcher{Path: configPath}.Start(ctx, func(updated config.AppConfig) {
			pipe.UpdateThresholds(updated.Analytics.Window, updated.Analytics.ZScoreThreshold)
			log.Info("analytics thresholds reloaded",
				zap.Int("window", updated.Analytics.Window),
				zap.Float64("zscore_threshold", updated.Analytics.ZScoreThreshold),
			)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("config watcher stopped", zap.Error(err))
		}
	}()

	server := api.New(pipe, buffers, log.Logger)
	httpServer := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
