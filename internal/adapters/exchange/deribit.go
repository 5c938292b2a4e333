package exchange

// deribit.go: cadena de opciones de Deribit.
//
// get_instruments no trae precios, así que cada instrumento aceptado por el filtro
// necesita su propio /public/ticker. Los tickers se piden en goroutines y el
// deribitLimiter marca el ritmo; el orden de salida es el de get_instruments.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

const (
	deribitInstrumentsPath = "/api/v2/public/get_instruments"
	deribitTickerPath      = "/api/v2/public/ticker"
)

// FetchOptionChain devuelve las calls y puts de currency que pasan el filtro
// de vencimiento y de distancia al precio de inicio.
func (c *Client) FetchOptionChain(ctx context.Context, currency string, start, window float64) (calls, puts []domain.OptionQuote, err error) {
	instruments, err := c.fetchInstruments(ctx, currency)
	if err != nil {
		return nil, nil, fmt.Errorf("deribit.FetchOptionChain %s: %w", currency, err)
	}

	f := chainFilter{expiryTag: c.cfg.ExpiryTag, start: start, window: window}
	callInst, putInst := f.split(instruments)

	slog.Debug("deribit instruments filtered",
		"currency", currency,
		"total", len(instruments),
		"calls", len(callInst),
		"puts", len(putInst),
		"expiry_tag", c.cfg.ExpiryTag,
	)

	all := append(append([]deribitInstrument{}, callInst...), putInst...)
	quotes, err := c.fetchTickers(ctx, all)
	if err != nil {
		return nil, nil, fmt.Errorf("deribit.FetchOptionChain %s: %w", currency, err)
	}
	return quotes[:len(callInst)], quotes[len(callInst):], nil
}

// fetchInstruments lista las opciones no vencidas de currency.
func (c *Client) fetchInstruments(ctx context.Context, currency string) ([]deribitInstrument, error) {
	q := url.Values{}
	q.Set("currency", currency)
	q.Set("kind", "option")
	q.Set("expired", "false")
	u := c.cfg.DeribitBase + deribitInstrumentsPath + "?" + q.Encode()

	var resp deribitInstrumentsResponse
	if err := c.get(ctx, c.deribitLimiter, u, &resp); err != nil {
		return nil, fmt.Errorf("get_instruments: %w", err)
	}
	return resp.Result, nil
}

// fetchTickers pide el ticker de cada instrumento en paralelo.
// Si falla uno, falla todo: no se devuelven cadenas parciales.
func (c *Client) fetchTickers(ctx context.Context, instruments []deribitInstrument) ([]domain.OptionQuote, error) {
	if len(instruments) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type tickerResult struct {
		quote domain.OptionQuote
		err   error
		idx   int
	}

	resultCh := make(chan tickerResult, len(instruments))
	var wg sync.WaitGroup

	for i, inst := range instruments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t, err := c.fetchTicker(ctx, inst.InstrumentName)
			if err != nil {
				resultCh <- tickerResult{err: err, idx: i}
				return
			}
			resultCh <- tickerResult{quote: mapOptionQuote(inst, t), idx: i}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	quotes := make([]domain.OptionQuote, len(instruments))
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("ticker %s: %w", instruments[r.idx].InstrumentName, r.err)
				cancel()
			}
			continue
		}
		quotes[r.idx] = r.quote
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return quotes, nil
}

// fetchTicker devuelve el ticker de un instrumento.
func (c *Client) fetchTicker(ctx context.Context, instrument string) (deribitTicker, error) {
	u := c.cfg.DeribitBase + deribitTickerPath + "?instrument_name=" + url.QueryEscape(instrument)

	var resp deribitTickerResponse
	if err := c.get(ctx, c.deribitLimiter, u, &resp); err != nil {
		return deribitTicker{}, err
	}
	return resp.Result, nil
}
