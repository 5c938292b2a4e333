package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// Config es la configuración completa de quanto.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Market    MarketConfig    `yaml:"market"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Grid      GridConfig      `yaml:"grid"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig contiene los base URLs de los exchanges.
type APIConfig struct {
	BitmexBase  string `yaml:"bitmex_base"`
	BinanceBase string `yaml:"binance_base"`
	DeribitBase string `yaml:"deribit_base"`
}

// MarketConfig elige los instrumentos y el filtro de la cadena de opciones.
type MarketConfig struct {
	BTCSymbol    string  `yaml:"btc_symbol"`    // perpetuo BitMEX
	QuantoSymbol string  `yaml:"quanto_symbol"` // futuro quanto ETH, cambia con cada vencimiento
	SpotSymbol   string  `yaml:"spot_symbol"`   // par de Binance
	ExpiryTag    string  `yaml:"expiry_tag"`    // fragmento del nombre de Deribit, ej. "JUN"
	BTCWindow    float64 `yaml:"btc_window"`
	ETHWindow    float64 `yaml:"eth_window"`
}

// PortfolioConfig son las posiciones con las que arranca la sesión.
type PortfolioConfig struct {
	BTCAmountBitmex  *float64 `yaml:"btc_amount_bitmex"` // nil → 1
	ETHSpotAmount    float64  `yaml:"eth_spot_amount"`
	ContractsToShort float64  `yaml:"contracts_to_short"`
	PremiumLeftPct   float64  `yaml:"premium_left_pct"`
	BTCExitPrice     float64  `yaml:"btc_exit_price"`
	ETHExitPrice     float64  `yaml:"eth_exit_price"`
}

// GridConfig controla el grid de escenarios del surface y del optimizador.
type GridConfig struct {
	Resolution int     `yaml:"resolution"` // puntos por eje = resolution + 1
	BTCMax     float64 `yaml:"btc_max"`
	ETHMax     float64 `yaml:"eth_max"`
	TableStep  int     `yaml:"table_step"` // submuestreo de la tabla de consola
}

// BoundConfig es un escenario frontera del optimizador.
type BoundConfig struct {
	BTC float64 `yaml:"btc"`
	ETH float64 `yaml:"eth"`
}

// OptimizerConfig controla la búsqueda maximin.
type OptimizerConfig struct {
	Steps      int         `yaml:"steps"`      // fracciones de max_amount: 4 → cuartos
	MaxAmount  float64     `yaml:"max_amount"` // cantidad máxima por pata
	Workers    int         `yaml:"workers"`    // 0 → runtime.NumCPU()
	UpperBound BoundConfig `yaml:"upper_bound"`
	LowerBound BoundConfig `yaml:"lower_bound"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	// File activa un log rotado además de stderr. Vacío → sin archivo.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScenarioGrid devuelve el grid de escenarios configurado.
func (c *Config) ScenarioGrid() domain.Grid {
	return domain.NewGrid(c.Grid.Resolution, c.Grid.BTCMax, c.Grid.ETHMax)
}

// Bounds devuelve los escenarios frontera del optimizador.
func (c *Config) Bounds() domain.Bounds {
	return domain.Bounds{
		Upper: domain.ExitPrices{BTCExitPrice: c.Optimizer.UpperBound.BTC, ETHExitPrice: c.Optimizer.UpperBound.ETH},
		Lower: domain.ExitPrices{BTCExitPrice: c.Optimizer.LowerBound.BTC, ETHExitPrice: c.Optimizer.LowerBound.ETH},
	}
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("QUANTO_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.BitmexBase == "" {
		cfg.API.BitmexBase = "https://www.bitmex.com"
	}
	if cfg.API.BinanceBase == "" {
		cfg.API.BinanceBase = "https://api.binance.com"
	}
	if cfg.API.DeribitBase == "" {
		cfg.API.DeribitBase = "https://www.deribit.com"
	}

	if cfg.Market.BTCSymbol == "" {
		cfg.Market.BTCSymbol = "XBTUSD"
	}
	if cfg.Market.QuantoSymbol == "" {
		cfg.Market.QuantoSymbol = "ETHUSDM21"
	}
	if cfg.Market.SpotSymbol == "" {
		cfg.Market.SpotSymbol = "ETHUSDT"
	}
	if cfg.Market.ExpiryTag == "" {
		cfg.Market.ExpiryTag = "JUN"
	}
	if cfg.Market.BTCWindow <= 0 {
		cfg.Market.BTCWindow = 5000
	}
	if cfg.Market.ETHWindow <= 0 {
		cfg.Market.ETHWindow = 200
	}

	if cfg.Portfolio.BTCAmountBitmex == nil {
		one := 1.0
		cfg.Portfolio.BTCAmountBitmex = &one
	}
	exit := domain.DefaultExitPrices()
	if cfg.Portfolio.BTCExitPrice <= 0 {
		cfg.Portfolio.BTCExitPrice = exit.BTCExitPrice
	}
	if cfg.Portfolio.ETHExitPrice <= 0 {
		cfg.Portfolio.ETHExitPrice = exit.ETHExitPrice
	}

	if cfg.Grid.Resolution <= 0 {
		cfg.Grid.Resolution = domain.DefaultResolution
	}
	if cfg.Grid.BTCMax <= 0 {
		cfg.Grid.BTCMax = domain.DefaultBTCMax
	}
	if cfg.Grid.ETHMax <= 0 {
		cfg.Grid.ETHMax = domain.DefaultETHMax
	}
	if cfg.Grid.TableStep <= 0 {
		cfg.Grid.TableStep = 10
	}

	if cfg.Optimizer.Steps <= 0 {
		cfg.Optimizer.Steps = 4
	}
	if cfg.Optimizer.MaxAmount <= 0 {
		cfg.Optimizer.MaxAmount = 1
	}
	bounds := domain.DefaultBounds()
	if cfg.Optimizer.UpperBound == (BoundConfig{}) {
		cfg.Optimizer.UpperBound = BoundConfig{BTC: bounds.Upper.BTCExitPrice, ETH: bounds.Upper.ETHExitPrice}
	}
	if cfg.Optimizer.LowerBound == (BoundConfig{}) {
		cfg.Optimizer.LowerBound = BoundConfig{BTC: bounds.Lower.BTCExitPrice, ETH: bounds.Lower.ETHExitPrice}
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "quanto.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 30
	}
}
