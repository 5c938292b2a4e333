package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/quantohedge/config"
	"github.com/alejandrodnm/quantohedge/internal/application/session"
	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// positionFlags sobreescriben las posiciones del config para un comando.
type positionFlags struct {
	btcAmount   float64
	ethSpot     float64
	contracts   float64
	premiumLeft float64
	exitBTC     float64
	exitETH     float64
	legs        []string
}

func (f *positionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.btcAmount, "btc", 0, "BTC deposited on BitMEX (default from config)")
	fl.Float64Var(&f.ethSpot, "eth-spot", 0, "ETH held spot")
	fl.Float64Var(&f.contracts, "contracts", 0, "ETH quanto contracts to short")
	fl.Float64Var(&f.premiumLeft, "premium-left", 0, "futures premium left at exit, percent")
	fl.Float64Var(&f.exitBTC, "exit-btc", 0, "BTC exit price for the point PnL")
	fl.Float64Var(&f.exitETH, "exit-eth", 0, "ETH exit price for the point PnL")
	fl.StringArrayVar(&f.legs, "leg", nil, "option leg as kind:amount:strike, e.g. eth-put:1:1800 (repeatable)")
}

// apply vuelca config y flags sobre la sesión. Un flag solo cuenta si se pasó
// explícitamente, así "--btc 0" es distinto de no pasarlo.
func (f *positionFlags) apply(cmd *cobra.Command, pc config.PortfolioConfig, s *session.Session) error {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	pick := func(name string, flag, cfg float64) float64 {
		if changed(name) {
			return flag
		}
		return cfg
	}

	s.SetBTCAmountBitmex(pick("btc", f.btcAmount, *pc.BTCAmountBitmex))
	s.SetETHSpotAmount(pick("eth-spot", f.ethSpot, pc.ETHSpotAmount))
	s.SetContractsToShort(pick("contracts", f.contracts, pc.ContractsToShort))
	s.SetPremiumLeftPct(pick("premium-left", f.premiumLeft, pc.PremiumLeftPct))
	s.SetExitPrices(pick("exit-btc", f.exitBTC, pc.BTCExitPrice), pick("exit-eth", f.exitETH, pc.ETHExitPrice))

	for _, raw := range f.legs {
		kind, amount, strike, err := parseLeg(raw)
		if err != nil {
			return err
		}
		if err := s.SelectLeg(kind, amount, strike); err != nil {
			return err
		}
	}
	return nil
}

// parseLeg interpreta "kind:amount:strike".
func parseLeg(raw string) (domain.LegKind, float64, float64, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("parse leg %q: want kind:amount:strike", raw)
	}
	kind, err := domain.ParseLegKind(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse leg %q: %w", raw, err)
	}
	amount, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse leg %q: amount: %w", raw, err)
	}
	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse leg %q: strike: %w", raw, err)
	}
	return kind, amount, strike, nil
}
