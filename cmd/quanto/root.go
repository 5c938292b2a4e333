package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/quantohedge/config"
	"github.com/alejandrodnm/quantohedge/internal/adapters/exchange"
	"github.com/alejandrodnm/quantohedge/internal/adapters/notify"
	"github.com/alejandrodnm/quantohedge/internal/adapters/storage"
	"github.com/alejandrodnm/quantohedge/internal/application/optimizer"
	"github.com/alejandrodnm/quantohedge/internal/application/session"
	"github.com/alejandrodnm/quantohedge/internal/ports"
)

// app agrupa las dependencias que comparten los comandos. Se construye en
// PersistentPreRunE, una vez parseados los flags.
type app struct {
	cfg      *config.Config
	store    ports.RunStorage
	session  *session.Session
	reporter ports.Reporter

	// flags globales
	configPath string
	offline    bool
	verbose    bool
	format     string

	// flags de posición, compartidos por prices/surface/optimize
	pos positionFlags
}

// newRootCmd devuelve el comando raíz y el app que comparten los subcomandos.
// El llamador cierra el app al terminar, también si el comando falla.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "quanto",
		Short: "ETH quanto futures hedge model",
		Long: `quanto modela una posición corta en futuros quanto ETH de BitMEX cubierta con BTC,
ETH spot y opciones de Deribit: PnL sobre un grid de precios BTC/ETH, precio de
liquidación y búsqueda de las patas de opciones que maximizan el peor caso.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config/config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "use the last stored price snapshot instead of querying the exchanges")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "set log level to debug")
	root.PersistentFlags().StringVar(&a.format, "format", notify.FormatTable, "output format: table|json")

	root.AddCommand(
		newPricesCmd(a),
		newSurfaceCmd(a),
		newOptimizeCmd(a),
		newHistoryCmd(a),
	)
	return root, a
}

// setup carga la configuración y construye storage, cliente de exchanges y sesión.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	setupLogger(cfg.Log)
	a.cfg = cfg

	slog.Debug("quanto starting",
		"command", cmd.Name(),
		"config", a.configPath,
		"offline", a.offline,
		"dsn", cfg.Storage.DSN,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	a.store = store

	client := exchange.NewClient(exchange.Config{
		BitmexBase:   cfg.API.BitmexBase,
		BinanceBase:  cfg.API.BinanceBase,
		DeribitBase:  cfg.API.DeribitBase,
		BTCSymbol:    cfg.Market.BTCSymbol,
		QuantoSymbol: cfg.Market.QuantoSymbol,
		SpotSymbol:   cfg.Market.SpotSymbol,
		ExpiryTag:    cfg.Market.ExpiryTag,
		BTCWindow:    cfg.Market.BTCWindow,
		ETHWindow:    cfg.Market.ETHWindow,
	})

	opt := optimizer.New(optimizer.Config{
		Steps:     cfg.Optimizer.Steps,
		MaxAmount: cfg.Optimizer.MaxAmount,
		Grid:      cfg.ScenarioGrid(),
		Bounds:    cfg.Bounds(),
		Workers:   cfg.Optimizer.Workers,
	})

	a.session = session.New(client, a.store, opt)
	a.reporter = notify.NewConsoleWriter(cmd.OutOrStdout(), a.format)
	return nil
}

// close libera el storage. Se puede llamar más de una vez.
func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close storage", "err", err)
	}
	a.store = nil
}

// loadPrices refresca los precios o, con --offline, carga el último snapshot.
func (a *app) loadPrices(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if !a.offline {
		return a.session.Refresh(ctx)
	}
	ok, err := a.session.LoadLatest(ctx)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("no stored price snapshot, using default prices")
	}
	return nil
}

// prepare carga precios y aplica la configuración y los flags de posición.
func (a *app) prepare(cmd *cobra.Command) error {
	if err := a.loadPrices(cmd); err != nil {
		return err
	}
	if err := a.pos.apply(cmd, a.cfg.Portfolio, a.session); err != nil {
		return fmt.Errorf("apply positions: %w", err)
	}
	return nil
}
