package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/quantohedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "XBTUSD", cfg.Market.BTCSymbol)
	assert.Equal(t, "JUN", cfg.Market.ExpiryTag)
	assert.Equal(t, 5000.0, cfg.Market.BTCWindow)
	assert.Equal(t, 200.0, cfg.Market.ETHWindow)
	require.NotNil(t, cfg.Portfolio.BTCAmountBitmex)
	assert.Equal(t, 1.0, *cfg.Portfolio.BTCAmountBitmex)
	assert.Equal(t, 1800.0, cfg.Portfolio.ETHExitPrice)
	assert.Equal(t, 4, cfg.Optimizer.Steps)
	assert.Equal(t, domain.DefaultBounds(), cfg.Bounds())
	assert.Len(t, cfg.ScenarioGrid().BTCPrices, 101)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
market:
  quanto_symbol: "ETHUSDU21"
  expiry_tag: "SEP"
portfolio:
  btc_amount_bitmex: 0
  contracts_to_short: 1000
grid:
  resolution: 20
  btc_max: 100000
optimizer:
  upper_bound: { btc: 120000, eth: 6000 }
`))
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDU21", cfg.Market.QuantoSymbol)
	assert.Equal(t, "SEP", cfg.Market.ExpiryTag)
	assert.Equal(t, 0.0, *cfg.Portfolio.BTCAmountBitmex, "0 explícito no se pisa")
	assert.Equal(t, 1000.0, cfg.Portfolio.ContractsToShort)

	grid := cfg.ScenarioGrid()
	require.Len(t, grid.BTCPrices, 21)
	assert.Equal(t, 100000.0, grid.BTCPrices[20])
	assert.Equal(t, 10000.0, grid.ETHPrices[20])

	b := cfg.Bounds()
	assert.Equal(t, 120000.0, b.Upper.BTCExitPrice)
	assert.Equal(t, 32000.0, b.Lower.BTCExitPrice)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUANTO_DSN", ":memory:")

	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "grid: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_RepoConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDM21", cfg.Market.QuantoSymbol)
	assert.Equal(t, domain.DefaultBounds(), cfg.Bounds())
}
