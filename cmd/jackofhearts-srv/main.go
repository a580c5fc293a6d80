package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/jack-games/jackofhearts/internal/cache/cachelru"
	"github.com/jack-games/jackofhearts/internal/database"
	statedb "github.com/jack-games/jackofhearts/internal/database/roomstate/database"
	"github.com/jack-games/jackofhearts/internal/game"
	"github.com/jack-games/jackofhearts/internal/logging"
	"github.com/jack-games/jackofhearts/internal/server"
	"github.com/jack-games/jackofhearts/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := realMain(ctx); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context) error {
	config := server.Config{}
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("processing the config: %w", err)
	}

	logger := logging.NewLogger(config.Debug).Named("srv")
	ctx = logging.WithLogger(ctx, logger)

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}
	defer db.Close(ctx)

	finishedCache, err := cachelru.NewLRU(config.FinishedCacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	registry := game.NewRegistry(statedb.New(db), finishedCache, logger)
	if err := registry.Load(ctx); err != nil {
		return fmt.Errorf("restore rooms: %w", err)
	}

	if config.ProfAddr != "" {
		go func() {
			if err := http.ListenAndServe(config.ProfAddr, nil); err != nil {
				logger.Errorf("pprof server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    config.Addr,
		Handler: server.New(registry, logger).Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on %s", config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("shutting down, saving rooms")
		registry.SaveAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
