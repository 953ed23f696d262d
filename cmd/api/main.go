package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/roomhub/internal/auth"
	"github.com/geocoder89/roomhub/internal/cache"
	"github.com/geocoder89/roomhub/internal/config"
	"github.com/geocoder89/roomhub/internal/domain/reservation"
	httpx "github.com/geocoder89/roomhub/internal/http"
	"github.com/geocoder89/roomhub/internal/notifications"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "roomhub-api",
		Environment: cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		sctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	st, err := openStorage(ctx, cfg, log, prom)
	if err != nil {
		return err
	}
	defer st.close()

	var store cache.Store = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pctx)
		cancel()

		if err != nil {
			log.Warn("redis unreachable, using in-process rooms cache", "addr", cfg.RedisAddr, "err", err)
		} else {
			store = rdb
		}
	}
	rooms := cache.NewCachedRooms(st.rooms, store, cfg.RoomsCacheTTL(), log)

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{
			OnStateChange: func(from, to string) {
				log.Warn("notifier circuit changed", "from", from, "to", to)
			},
		},
	)

	svc := reservation.NewService(rooms, st.reservations, reservation.ServiceConfig{
		Notifier: notifier,
		Logger:   log,
	})

	jwtManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		return fmt.Errorf("jwt manager: %w", err)
	}

	router := httpx.NewRouter(log, httpx.Deps{
		Config:   cfg,
		Service:  svc,
		Users:    st.users,
		JWT:      jwtManager,
		Prom:     prom,
		Gatherer: reg,
		Ping: func() error {
			pctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return st.ping(pctx)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}
