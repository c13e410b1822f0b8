package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"edbo-scraper/internal/components/chrono"
	"edbo-scraper/internal/components/telemetry"
	"edbo-scraper/internal/store"
	"edbo-scraper/lib/configutil"
	"edbo-scraper/lib/serviceutil"
	libtelemetry "edbo-scraper/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var configName string

var rootCmd = &cobra.Command{
	Use:           "edbo",
	Short:         "edbo scrapes master's admission offers and applications from the EDBO registry.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configName,
		"config",
		"edbo.json5",
		"Name of the optional json5 config, searched from the working directory upwards.",
	)
}

// app is the state every command shares, built once before the command runs.
type app struct {
	cfg   Config
	clock chrono.StandardImpl
	sink  libtelemetry.LogSink
	otel  libtelemetry.Telemetry
	tel   telemetry.API
}

var current *app

func setup(ctx context.Context) error {
	cfg, err := configutil.Load[Config](configName)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	clock, err := chrono.NewStandardImpl()
	if err != nil {
		return err
	}
	sink, err := libtelemetry.OpenLogSink(cfg.AppName, cfg.Log, clock.Now())
	if err != nil {
		return fmt.Errorf("open log sink: %w", err)
	}
	otel, err := libtelemetry.SetupFromEnv(ctx, strings.ToLower(cfg.AppName))
	if err != nil {
		return errors.Join(fmt.Errorf("setup telemetry: %w", err), sink.Close())
	}
	if otel.Enabled() {
		libtelemetry.InstrumentPerfStats(ctx, 30*time.Second)
	}

	current = &app{
		cfg:   cfg,
		clock: clock,
		sink:  sink,
		otel:  otel,
		tel:   sink.API,
	}
	return nil
}

func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(a.otel.Shutdown(ctx), a.sink.Close())
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.DatabaseURL == "" {
		return store.Store{}, errNoDatabase
	}
	return store.Open(ctx, a.cfg.DatabaseURL, a.tel)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func ExecuteContext(ctx context.Context) {
	ctx, stop := serviceutil.SignalContext(ctx)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if current != nil {
		closeErr := current.close()
		if closeErr != nil {
			fmt.Fprintln(os.Stderr, "failed to flush telemetry:", closeErr)
		}
	}
	if err != nil {
		serviceutil.Fatal("edbo", err)
	}
}
