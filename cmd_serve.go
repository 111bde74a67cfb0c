package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"clearmoney/config"
	httpLayer "clearmoney/http"
	"clearmoney/jobs"
	"clearmoney/logging"
	"clearmoney/repository"
	"clearmoney/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg.Log, os.Stdout)
	health := map[string]httpLayer.Pinger{}

	var cache repository.CacheRepository = repository.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if cfg.Redis.Addr != "" {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Cache.TTL)
		defer redisCache.Close()
		cache = redisCache
		health["redis"] = redisCache
	}

	var plans repository.PlanRepository = repository.NewPlanRepositoryMemory()
	if cfg.Database.DSN != "" {
		pg, err := repository.OpenPlanRepositoryPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		plans = pg
		health["postgres"] = pg
	}

	planService := service.NewDebtPlanService(
		cache,
		plans,
		log,
		service.SimulationOptions{MaxMonths: cfg.Simulation.MaxMonths},
		service.Limits{MaxDebts: cfg.Simulation.MaxDebts},
	)
	explainer := service.NewExplanationService(cfg.AI.APIKey, cfg.AI.APIURL, cfg.AI.Model, log)

	retention, err := jobs.NewRetention(cfg.Retention.Schedule, cfg.Retention.MaxAge, planService, log)
	if err != nil {
		return err
	}

	limiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer limiter.Stop()

	router := httpLayer.NewRouter(log, httpLayer.RouterDependencies{
		Debts:   httpLayer.NewDebtHandler(planService, explainer, log),
		Limiter: limiter,
		Health:  health,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retention.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", server.Addr).Info("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		retention.Stop(shutdownCtx)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
