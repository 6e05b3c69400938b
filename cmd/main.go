package main

//
//  @title           coffeepulse API
//  @version         1.0
//  @description     Single-instrument price tracker with daily e-mail reports and threshold alerts.
//  @termsOfService  https://github.com/guttosm/coffeepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/coffeepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        status
//  @tag.description Service status
//
//  @tag.name        market
//  @tag.description Current price, tick history and monthly trend
//
//  @tag.name        report
//  @tag.description Dashboard, test reports and delivery journal
//
//  @tag.name        auth
//  @tag.description Dashboard login and sessions
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/coffeepulse/config"
	_ "github.com/guttosm/coffeepulse/docs" // swagger docs
	"github.com/guttosm/coffeepulse/internal/app"
	"github.com/guttosm/coffeepulse/internal/ingestion"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/market"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown waits until ctx is done (signal received or a worker
// failed), then drains the HTTP server and releases resources.
//
// Parameters:
//   - ctx (context.Context): Cancelled on SIGINT/SIGTERM or worker failure.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connection).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) error {
	<-ctx.Done()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
	return err
}

// serve runs the HTTP server, the feed client and the report scheduler until
// a signal arrives or one of them fails.
func serve(ctx context.Context, a *app.App, port string, cleanup func()) error {
	server := startServer(a.Router, port)

	feedDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(feedDone)
		return a.Feed.Run(gctx)
	})
	g.Go(func() error { return a.Scheduler.Run(gctx) })
	g.Go(func() error {
		return gracefulShutdown(gctx, server, drainAfter(feedDone, a.State.WaitAlerts, cleanup))
	})
	return g.Wait()
}

// drainAfter returns a cleanup that waits for the feed to stop before
// draining in-flight alerts, so no tick can start a delivery after the wait.
func drainAfter(feedDone <-chan struct{}, waitAlerts, cleanup func()) func() {
	return func() {
		<-feedDone
		waitAlerts()
		cleanup()
	}
}

// seed replays historical CSV ticks into the state without raising alerts.
func seed(ctx context.Context, state *market.State, dir string, parallel int) error {
	ticks, err := ingestion.LoadDirectory(ctx, dir, parallel)
	if err != nil {
		return err
	}
	state.Replay(ticks)
	logger.L().Info().Int("ticks", len(ticks)).Str("dir", dir).Msg("history replayed")
	return nil
}

// replay loads CSV history into a fresh state and writes its monthly trend as JSON.
func replay(ctx context.Context, dir string, parallel int, loc *time.Location, out io.Writer) error {
	state := market.NewState(market.WithLocation(loc))
	if err := seed(ctx, state, dir, parallel); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state.MonthlyTrend()); err != nil {
		return fmt.Errorf("write trend: %w", err)
	}
	return nil
}

// main is the entry point of the coffeepulse application.
//
// Modes (selected via --mode flag):
//   - serve:  Tracks the live feed, serves HTTP and sends reports and alerts.
//   - replay: Loads CSV history from --seed-dir and prints the monthly trend.
//
// Flags:
//   - --mode:     Execution mode ("serve" or "replay"). Default: "serve".
//   - --seed-dir: Directory with semicolon separated .csv tick files.
//   - --parallel: How many files to parse concurrently (0=auto).
//   - --port:     Port for the HTTP server. Defaults to SERVER_PORT.
func main() {
	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "serve", "Mode: serve or replay")
	seedDir := flag.String("seed-dir", "", "Directory with .csv tick history to replay before the feed starts")
	parallel := flag.Int("parallel", 0, "How many files to parse concurrently (0=auto up to CPU)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for serve mode")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "replay":
		if *seedDir == "" {
			logger.L().Fatal().Msg("--seed-dir is required in replay mode")
		}
		if err := replay(ctx, *seedDir, *parallel, config.AppConfig.Report.Location, os.Stdout); err != nil {
			logger.L().Fatal().Err(err).Msg("replay failed")
		}

	case "serve":
		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		if *seedDir != "" {
			if err := seed(ctx, a.State, *seedDir, *parallel); err != nil {
				cleanup()
				logger.L().Fatal().Err(err).Msg("seed failed")
			}
		}
		if err := serve(ctx, a, *port, cleanup); err != nil {
			logger.L().Fatal().Err(err).Msg("service stopped with error")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
