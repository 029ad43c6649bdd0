// Command toxicbot-action moderates the single event a GitHub Actions run was triggered by
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"toxicbot/internal/core/event"
	"toxicbot/internal/core/version"
	"toxicbot/internal/modkit"
	"toxicbot/internal/platform/config"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	"toxicbot/internal/platform/store"
	"toxicbot/internal/services/moderate/domain"

	moderatemod "toxicbot/internal/services/moderate/module"

	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

const name = "toxicbot-action"

func main() {
	if err := run(os.Args); err != nil {
		// workflow annotation marks the run failed in the checks UI
		fmt.Fprintf(os.Stdout, "::error::%s\n", annotation(err))
		logger.Get().Error().Err(err).Msg("moderation failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    name,
		Usage:   "classify the triggering comment and intervene when it is toxic",
		Version: version.Info(name).Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "event-path",
				Usage:    "path to the webhook payload of the triggering event",
				EnvVars:  []string{"GITHUB_EVENT_PATH"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "event-name",
				Usage:    "name of the triggering event, e.g. issue_comment",
				EnvVars:  []string{"GITHUB_EVENT_NAME"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "file that step outputs are appended to",
				EnvVars: []string{"GITHUB_OUTPUT"},
			},
		},
		Action: moderate,
	}
	return app.Run(args)
}

func moderate(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := logger.Named("action")
	root := config.New()

	raw, err := os.ReadFile(cctx.String("event-path"))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read event payload")
	}
	d, err := event.Normalize(cctx.String("event-name"), raw)
	if err != nil {
		return err
	}
	d.DeliveryID = os.Getenv("GITHUB_RUN_ID")

	st, err := store.Open(ctx,
		store.ConfigFrom(root.Prefix("SERVICE_CLICKHOUSE_"), version.Service, version.Info(name).Version),
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

	svc, err := moderatemod.NewService(modkit.Deps{Log: *l, Cfg: root, CH: st.CH}, moderatemod.FromConfig(root))
	if err != nil {
		return err
	}

	out, err := svc.Process(ctx, d)
	if err != nil {
		return err
	}
	l.Info().
		Str("command", out.Telemetry).
		Bool("is_toxic", out.IsToxic).
		Bool("should_intervene", out.ShouldIntervene).
		Bool("posted", out.Posted).
		Bool("logged", out.Logged).
		Msg("done")

	if p := cctx.String("output"); p != "" {
		if err := writeOutputs(p, out); err != nil {
			l.Warn().Err(err).Msg("failed to write step outputs")
		}
	}
	return nil
}

// writeOutputs appends key=value step outputs
func writeOutputs(path string, out domain.Outcome) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "is_toxic=%t\nshould_intervene=%t\nposted=%t\ncommand=%s\n",
		out.IsToxic, out.ShouldIntervene, out.Posted, out.Telemetry)
	return err
}

// annotation flattens err onto one line; workflow commands end at the first newline
func annotation(err error) string {
	msg := err.Error()
	if e, ok := perr.As(err); ok && e.Op() != "" {
		msg = e.Op() + ": " + msg
	}
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(msg)
}
