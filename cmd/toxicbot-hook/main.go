// @title         toxicbot webhook API
// @version       0.1.0
// @description   Moderates GitHub comments delivered by webhook
// @BasePath      /api/v1

// Command toxicbot-hook serves GitHub webhook deliveries and moderates comments as they arrive
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toxicbot/internal/core/version"
	"toxicbot/internal/modkit/module"
	"toxicbot/internal/platform/config"
	"toxicbot/internal/platform/logger"
	phttp "toxicbot/internal/platform/net/http"
	"toxicbot/internal/platform/net/middleware"
	"toxicbot/internal/platform/store"

	"toxicbot/internal/services/api"
	moderatemod "toxicbot/internal/services/moderate/module"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const name = "toxicbot-hook"

func main() {
	if err := run(os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    name,
		Usage:   "webhook receiver that flags toxic comments on GitHub",
		Version: version.Info(name).Version,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "request-timeout",
				Usage:   "deadline for a single webhook delivery",
				Value:   30 * time.Second,
				EnvVars: []string{"CORE_HOOK_REQUEST_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "metrics-path",
				Usage:   "path the prometheus handler is mounted at, empty disables it",
				Value:   "/metrics",
				EnvVars: []string{"CORE_HOOK_METRICS_PATH"},
			},
			&cli.DurationFlag{
				Name:    "guard-every",
				Usage:   "how often to ping clickhouse when telemetry storage is configured",
				Value:   time.Minute,
				EnvVars: []string{"CORE_HOOK_GUARD_EVERY"},
			},
			&cli.IntFlag{
				Name:    "max-in-flight",
				Usage:   "concurrent deliveries allowed per module, 0 for no cap",
				EnvVars: []string{"CORE_HOOK_MAX_IN_FLIGHT"},
			},
			&cli.BoolFlag{
				Name:    "docs",
				Usage:   "serve the swagger ui at /api/docs",
				EnvVars: []string{"CORE_HOOK_DOCS"},
			},
			&cli.BoolFlag{
				Name:    "warmup",
				Usage:   "classify a sample sentence before accepting traffic",
				EnvVars: []string{"CORE_HOOK_WARMUP"},
			},
		},
		Action: serve,
	}
	return app.Run(args)
}

func serve(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	hookCfg := root.Prefix("CORE_HOOK_")
	l := logger.Named("hook")
	info := version.Info(name)

	// SERVICE_CLICKHOUSE_DBURL is optional; without it telemetry stays in prometheus
	st, err := store.Open(ctx,
		store.ConfigFrom(root.Prefix("SERVICE_CLICKHOUSE_"), version.Service, info.Version),
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// reads CORE_HOOK_PORT / CORE_HOOK_ADDR
	srv := phttp.NewServer(hookCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/health"))
	})
	r := srv.Router()

	api.Mount(r, api.Options{
		Config:  root,
		Store:   st,
		Logger:  logger.Get(),
		Timeout: cctx.Duration("request-timeout"),

		MaxInFlight: cctx.Int("max-in-flight"),
		Docs:        cctx.Bool("docs"),
	})
	if p := cctx.String("metrics-path"); p != "" {
		r.Handle(p, promhttp.Handler())
	}

	if cctx.Bool("warmup") {
		warmup(ctx, l)
	}

	l.Info().Str("version", info.Version).Str("commit", info.Commit).Str("addr", srv.Addr()).
		Strs("modules", module.Names()).Strs("backends", st.Backends()).Msg("starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if st.CH != nil {
		g.Go(func() error { return guard(gctx, st, cctx.Duration("guard-every"), l) })
	}
	return g.Wait()
}

// warmup runs one classification so a cold model or bad credentials show up in the logs at boot
func warmup(ctx context.Context, l *logger.Logger) {
	ports, ok := module.PortsAs[moderatemod.Ports]("moderation")
	if !ok || ports.Service == nil {
		l.Warn().Msg("warmup skipped, moderation ports not registered")
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	res, err := ports.Service.Check(wctx, "thanks for the review, looks good to me")
	if err != nil {
		l.Warn().Err(err).Msg("warmup classification failed")
		return
	}
	l.Info().Bool("is_toxic", res.IsToxic).Dur("took", time.Since(start)).Msg("classifier warm")
}

// guard pings the store until ctx ends; failures are logged, never fatal
func guard(ctx context.Context, st *store.Store, every time.Duration, l *logger.Logger) error {
	if every <= 0 {
		return nil
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := st.Guard(pctx); err != nil {
				l.Warn().Err(err).Msg("store unreachable")
			}
			cancel()
		}
	}
}
