package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/kylycht/flux/controller/converter"
	widgetctl "github.com/kylycht/flux/controller/widget"
	amounts "github.com/kylycht/flux/converter"
	_ "github.com/kylycht/flux/docs"
	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/kylycht/flux/service/api"
	"github.com/kylycht/flux/service/catalog"
	"github.com/kylycht/flux/service/erapi"
	"github.com/kylycht/flux/service/frankfurter"
	"github.com/kylycht/flux/storage"
	"github.com/kylycht/flux/storage/cache"
	"github.com/kylycht/flux/storage/history"
	"github.com/kylycht/flux/storage/prefs"
	"github.com/kylycht/flux/widget"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//	@title			Flux
//	@version		1.0
//	@description	Currency conversion widget: live rates, 30 day trend and conversion history

// @host		localhost:3000
// @BasePath	/
func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		configPath string
		cfg        Config
	)

	root := &cobra.Command{
		Use:          "flux",
		Short:        "Currency conversion widget service",
		Version:      "v1.0.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = LoadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				log.Error().Err(err).Str("path", configPath).Msg("unable to read configuration file")
				return err
			}
			setupLogging(cfg.Log)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	root.AddCommand(serveCommand(&cfg), convertCommand(&cfg))

	return root
}

func serveCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the widget HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := New(*cfg); err != nil {
				log.Error().Err(err).Msg("unable to initialize application")
				return err
			}
			return nil
		},
	}
}

func convertCommand(cfg *Config) *cobra.Command {
	var from, to, amount string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an amount once using the live rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rateProvider, err := newRateProvider(cfg.Provider)
			if err != nil {
				return err
			}

			quotes := cache.NewQuotes(rateProvider, cfg.Provider.QuoteTTL)
			rate, updated, err := quotes.Rate(cmd.Context(), from, to)
			if err != nil {
				log.Error().Err(err).Msg("unable to resolve rate")
				return err
			}

			result := amounts.Convert(amount, model.Source, rate, true)
			if result.To == "" {
				return fmt.Errorf("invalid amount: %q", amount)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (rate %v, updated %s)\n",
				amounts.FormatGrouped(result.From), model.NormalizeCode(from),
				amounts.FormatGrouped(result.To), model.NormalizeCode(to),
				rate, updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "USD", "source currency")
	cmd.Flags().StringVarP(&to, "to", "t", "EUR", "target currency")
	cmd.Flags().StringVarP(&amount, "amount", "a", "1", "amount in the source currency")

	return cmd
}

func setupLogging(cfg LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newRateProvider(cfg ProviderConfig) (service.RateProvider, error) {
	return erapi.New(erapi.Config{
		URL:     cfg.LatestURL,
		Options: providerOptions(cfg),
		Retries: cfg.Retries,
		Backoff: cfg.Backoff,
	})
}

func providerOptions(cfg ProviderConfig) api.Options {
	return api.Options{
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
}

func New(cfg Config) error {
	a := Application{cfg: cfg}
	return a.init()
}

type Application struct {
	cfg      Config         // application configuration
	fiberApp *fiber.App     // underlying fiber application
	store    storage.Store  // persisted widget state
	widget   *widget.Widget // conversion state machine
	quotes   *cache.Quotes  // quotes for one-off conversions
	cron     *cron.Cron     // periodic rate revalidation
	stopC    chan os.Signal // handle interrupt for clean up(close connections, etc)
}

func (a *Application) init() error {
	ctx := context.Background()

	a.fiberApp = fiber.New()
	a.stopC = make(chan os.Signal, 1)
	signal.Notify(a.stopC, os.Interrupt, syscall.SIGTERM)

	store, err := openStore(ctx, a.cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("unable to open store")
		return err
	}
	a.store = store

	rateProvider, err := newRateProvider(a.cfg.Provider)
	if err != nil {
		log.Error().Err(err).Msg("unable to create rate client")
		return err
	}

	seriesProvider, err := frankfurter.New(a.cfg.Provider.HistoryURL, providerOptions(a.cfg.Provider))
	if err != nil {
		log.Error().Err(err).Msg("unable to create history client")
		return err
	}

	ledger := history.New(ctx, history.NewRepository(a.store), a.cfg.Widget.HistorySize)
	preferences := prefs.New(a.store, model.Theme(a.cfg.Widget.Theme))

	a.widget = widget.New(widget.Config{
		From:        a.cfg.Widget.From,
		To:          a.cfg.Widget.To,
		Amount:      a.cfg.Widget.Amount,
		QuietPeriod: a.cfg.Widget.QuietPeriod,
		ChartDays:   a.cfg.Widget.ChartDays,
		ChartTTL:    a.cfg.Widget.ChartTTL,
	}, rateProvider, seriesProvider, catalog.New(), ledger, preferences)
	a.widget.Start()

	a.quotes = cache.NewQuotes(rateProvider, a.cfg.Provider.QuoteTTL)

	if err := a.schedule(); err != nil {
		log.Error().Err(err).Str("spec", a.cfg.Widget.RefreshSchedule).Msg("invalid refresh schedule")
		a.cleanup()
		return err
	}

	a.buildRoutes()
	go a.stop()
	log.Debug().Str("port", a.cfg.HTTP.Port).Msg("preparing fiber http server")

	if err := a.fiberApp.Listen(a.cfg.HTTP.Port); err != nil {
		log.Error().Err(err).Msg("unable to start http server")
	}

	a.cleanup()
	return nil
}

func (a *Application) schedule() error {
	a.cron = cron.New()

	if a.cfg.Widget.RefreshSchedule == "" {
		return nil
	}

	if _, err := a.cron.AddFunc(a.cfg.Widget.RefreshSchedule, a.widget.RevalidateRates); err != nil {
		return err
	}

	a.cron.Start()
	return nil
}

func (a *Application) buildRoutes() {
	a.fiberApp.Get("/swagger/*", swagger.HandlerDefault)
	a.fiberApp.Get("/convert", converter.New(a.quotes).Convert)
	widgetctl.New(a.widget).Register(a.fiberApp.Group("/api"))
}

func (a *Application) stop() {
	<-a.stopC
	log.Debug().Msg("shutting down")
	if err := a.fiberApp.Shutdown(); err != nil {
		log.Error().Err(err).Msg("unable to shutdown http server")
	}
}

func (a *Application) cleanup() {
	<-a.cron.Stop().Done()
	a.widget.Close()
	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Msg("unable to close store")
	}
}
