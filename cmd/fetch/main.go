package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"stockseries/internal/config"
	"stockseries/internal/export"
	"stockseries/internal/httpx"
	"stockseries/internal/logger"
	"stockseries/internal/provider"
	"stockseries/internal/provider/alphavantage"
	"stockseries/internal/series"
	"stockseries/internal/snapshot"
)

// Exit codes per failure kind.
const (
	exitGeneric       = 1
	exitTransport     = 2
	exitBodyRead      = 3
	exitDeserializing = 4
	exitNormalizing   = 5
)

func main() {
	log := logger.New()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("Error loading .env file")
	}

	app := newApp(log, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("fetch failed")
		os.Exit(exitCode(err))
	}
}

func newApp(log *logger.Log, stdout io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "fetch"
	app.Usage = "Fetch one intraday snapshot for a symbol and print it"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", EnvVar: "CONFIG_FILE", Usage: "path to config.json or config.yaml (optional)"},
		cli.StringFlag{Name: "symbol, s", Usage: "ticker symbol"},
		cli.StringFlag{Name: "interval, i", Usage: "sampling interval (1min, 5min, 15min, 30min, 60min)"},
		cli.StringFlag{Name: "function", Usage: "query function"},
		cli.StringFlag{Name: "endpoint", Usage: "query endpoint"},
		cli.StringFlag{Name: "format, f", Usage: "output format: table, json or csv"},
		cli.StringFlag{Name: "policy", Usage: "normalize policy: fail-fast or skip-invalid"},
		cli.StringFlag{Name: "timezone", Usage: "zone the provider timestamps are in"},
		cli.IntFlag{Name: "timeout", Usage: "request timeout seconds"},
	}
	app.Action = func(c *cli.Context) error {
		return run(c, log, stdout)
	}
	return app
}

func run(c *cli.Context, log *logger.Log, stdout io.Writer) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAgeDays); err != nil {
		return err
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	policy, err := series.ParsePolicy(cfg.Normalize.Policy)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.AlphaVantage.RequestTimeoutSec) * time.Second
	client, err := alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		alphavantage.WithHTTPClient(httpx.New(timeout)),
		alphavantage.WithBaseURL(cfg.AlphaVantage.Endpoint),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	svc := snapshot.New(client, series.NewNormalizer(series.WithPolicy(policy), series.WithLocation(loc)), log)
	snap, err := svc.Take(ctx, cfg.Request())
	if err != nil {
		return err
	}
	return export.Write(stdout, format, snap)
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("symbol") { cfg.AlphaVantage.Symbol = c.String("symbol") }
	if c.IsSet("interval") { cfg.AlphaVantage.Interval = c.String("interval") }
	if c.IsSet("function") { cfg.AlphaVantage.Function = c.String("function") }
	if c.IsSet("endpoint") { cfg.AlphaVantage.Endpoint = c.String("endpoint") }
	if c.IsSet("format") { cfg.Output.Format = c.String("format") }
	if c.IsSet("policy") { cfg.Normalize.Policy = c.String("policy") }
	if c.IsSet("timezone") { cfg.Normalize.Timezone = c.String("timezone") }
	if c.IsSet("timeout") && c.Int("timeout") > 0 { cfg.AlphaVantage.RequestTimeoutSec = c.Int("timeout") }
}

// exitCode maps the error taxonomy onto distinct process exit codes.
func exitCode(err error) int {
	var (
		transport *provider.TransportError
		bodyRead  *provider.BodyReadError
		decoding  *provider.DeserializationError
		entry     *series.EntryError
	)
	switch {
	case errors.As(err, &transport):
		return exitTransport
	case errors.As(err, &bodyRead):
		return exitBodyRead
	case errors.As(err, &decoding):
		return exitDeserializing
	case errors.As(err, &entry):
		return exitNormalizing
	}
	return exitGeneric
}
