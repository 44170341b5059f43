package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/infra/realtime"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/mirror"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucClient "github.com/BruksfildServices01/barber-booking/internal/usecase/client"
	"github.com/BruksfildServices01/barber-booking/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg, "barber")

	h := hub.New(log, m)

	// ======================================================
	// LOCAL MIRROR
	// ======================================================
	backend, err := openMirror(ctx, cfg, log)
	if err != nil {
		return err
	}
	mir := mirror.New(backend, h, log, m)
	defer mir.Close()

	if err := mir.Watch(ctx); err != nil {
		log.Warn().Err(err).Msg("mirror watch unavailable")
	}

	// ======================================================
	// REMOTE STORE + REALTIME
	// ======================================================
	store, feed, err := openRemote(cfg, log)
	if err != nil {
		return err
	}
	gw := gateway.New(store, mir, log, m, gateway.DefaultBreakerSettings)

	if cfg.Realtime {
		changes, err := feed.Subscribe(ctx, gateway.Tables...)
		if err != nil {
			// polling still keeps the mirror fresh
			log.Warn().Err(err).Msg("realtime feed unavailable")
		} else {
			h.Attach(ctx, changes)
		}
	}

	// ======================================================
	// SUPPORT SERVICES
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(log), log)
	defer auditDispatcher.Close()

	clock := timezone.ClockIn(cfg.ShopTimezone)

	var deliverer notification.Deliverer = notification.NewLogDeliverer(log)
	if cfg.Twilio.Enabled() {
		deliverer = notification.NewTwilioDeliverer(cfg.Twilio, log)
	}
	notifier := notification.NewService(mir, deliverer, clock, log)
	defer notifier.Close()

	var presigner *media.Presigner
	if cfg.Media.Enabled() {
		presigner = media.NewPresigner(cfg.Media, log)
	}

	unfollow := ucClient.NewSession(mir, log).FollowProfile(h)
	defer unfollow()

	poller := worker.NewAppointmentPoller(gw, mir, log)
	stopPoller, err := poller.Start(cfg.PollSchedule, h)
	if err != nil {
		return fmt.Errorf("poller: %w", err)
	}
	defer stopPoller()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      log,
		Hub:      h,
		Mirror:   mir,
		Gateway:  gw,
		Notifier: notifier,
		Media:    presigner,
		Audit:    auditDispatcher,
		Metrics:  m,
		Gatherer: reg,
		Clock:    clock,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func openMirror(ctx context.Context, cfg *config.Config, log zerolog.Logger) (mirror.Backend, error) {
	switch cfg.MirrorBackend {
	case "memory":
		return mirror.NewMemoryBackend(), nil
	case "redis":
		return mirror.NewRedisBackend(ctx, cfg.RedisURL, log)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.MirrorPath), 0o755); err != nil {
			return nil, fmt.Errorf("mirror dir: %w", err)
		}
		return mirror.OpenSQLite(cfg.MirrorPath)
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", cfg.MirrorBackend)
	}
}

func openRemote(cfg *config.Config, log zerolog.Logger) (gateway.Store, gateway.Feed, error) {
	switch cfg.RemoteBackend {
	case "memory":
		store := repository.NewMemoryStore()
		return store, store, nil
	case "postgres":
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStore(db), realtime.NewPGFeed(cfg.DBUrl, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}
