package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBitmexBase  = "https://www.bitmex.com"
	defaultBinanceBase = "https://api.binance.com"
	defaultDeribitBase = "https://www.deribit.com"

	// Rate limits al 60% de los límites públicos documentados.
	// BitMEX sin auth: 120/min → 72/min
	bitmexRatePerSec = 1.2
	// Binance: 1200 weight/min, ticker/price pesa 2 → 360/min
	binanceRatePerSec = 6
	// Deribit public: 20/s sostenido → 12/s
	deribitRatePerSec = 12

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Config agrupa los base URLs y el filtro de la cadena de opciones.
type Config struct {
	BitmexBase  string
	BinanceBase string
	DeribitBase string

	BTCSymbol    string  // perpetuo BitMEX, XBTUSD
	QuantoSymbol string  // futuro quanto ETH de BitMEX, ej. ETHUSDM21
	SpotSymbol   string  // par spot de Binance, ETHUSDT
	ExpiryTag    string  // fragmento del nombre del instrumento Deribit, ej. "JUN"
	BTCWindow    float64 // strikes BTC a ±window del precio de inicio
	ETHWindow    float64 // strikes ETH a ±window del precio de inicio
}

// DefaultConfig devuelve la configuración de producción.
func DefaultConfig() Config {
	return Config{
		BitmexBase:   defaultBitmexBase,
		BinanceBase:  defaultBinanceBase,
		DeribitBase:  defaultDeribitBase,
		BTCSymbol:    "XBTUSD",
		QuantoSymbol: "ETHUSDM21",
		SpotSymbol:   "ETHUSDT",
		ExpiryTag:    "JUN",
		BTCWindow:    5000,
		ETHWindow:    200,
	}
}

// Client es el HTTP client de los tres exchanges con rate limiting y retries.
type Client struct {
	http           *http.Client
	cfg            Config
	bitmexLimiter  *rate.Limiter
	binanceLimiter *rate.Limiter
	deribitLimiter *rate.Limiter
}

// NewClient crea un Client. Los campos vacíos de cfg toman el valor de DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BitmexBase == "" {
		cfg.BitmexBase = def.BitmexBase
	}
	if cfg.BinanceBase == "" {
		cfg.BinanceBase = def.BinanceBase
	}
	if cfg.DeribitBase == "" {
		cfg.DeribitBase = def.DeribitBase
	}
	if cfg.BTCSymbol == "" {
		cfg.BTCSymbol = def.BTCSymbol
	}
	if cfg.QuantoSymbol == "" {
		cfg.QuantoSymbol = def.QuantoSymbol
	}
	if cfg.SpotSymbol == "" {
		cfg.SpotSymbol = def.SpotSymbol
	}
	if cfg.ExpiryTag == "" {
		cfg.ExpiryTag = def.ExpiryTag
	}
	if cfg.BTCWindow <= 0 {
		cfg.BTCWindow = def.BTCWindow
	}
	if cfg.ETHWindow <= 0 {
		cfg.ETHWindow = def.ETHWindow
	}
	return &Client{
		http:           &http.Client{Timeout: 10 * time.Second},
		cfg:            cfg,
		bitmexLimiter:  rate.NewLimiter(bitmexRatePerSec, 5),
		binanceLimiter: rate.NewLimiter(binanceRatePerSec, 5),
		deribitLimiter: rate.NewLimiter(deribitRatePerSec, 10),
	}
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, limiter *rate.Limiter, url string, out any) error {
	return c.doWithRetry(ctx, limiter, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta la función con backoff exponencial.
// Solo reintenta errores de red, 429 y 5xx; un 4xx se devuelve directamente.
func (c *Client) doWithRetry(ctx context.Context, limiter *rate.Limiter, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries || ctx.Err() != nil {
				return fmt.Errorf("request failed after %d retries: %w", attempt, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by API", "url", resp.Request.URL.Host, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
