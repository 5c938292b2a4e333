package exchange

import "encoding/json"

// DTOs raw de las APIs. Solo se usan dentro de este paquete;
// la conversión a domain se hace en mapping.go.

// --- BitMEX ---

// bitmexQuote es un item de GET /api/v1/quote.
type bitmexQuote struct {
	Timestamp string  `json:"timestamp"`
	Symbol    string  `json:"symbol"`
	BidSize   float64 `json:"bidSize"`
	BidPrice  float64 `json:"bidPrice"`
	AskPrice  float64 `json:"askPrice"`
	AskSize   float64 `json:"askSize"`
}

// --- Binance ---

// binanceTicker es la respuesta de GET /api/v3/ticker/price.
// Binance devuelve el precio como string JSON.
type binanceTicker struct {
	Symbol string      `json:"symbol"`
	Price  json.Number `json:"price"`
}

// --- Deribit ---

// deribitInstrumentsResponse es la respuesta de GET /public/get_instruments.
type deribitInstrumentsResponse struct {
	Result []deribitInstrument `json:"result"`
}

type deribitInstrument struct {
	InstrumentName      string  `json:"instrument_name"`
	Strike              float64 `json:"strike"`
	OptionType          string  `json:"option_type"`
	ExpirationTimestamp int64   `json:"expiration_timestamp"`
	IsActive            bool    `json:"is_active"`
}

// deribitTickerResponse es la respuesta de GET /public/ticker.
type deribitTickerResponse struct {
	Result deribitTicker `json:"result"`
}

type deribitTicker struct {
	InstrumentName  string  `json:"instrument_name"`
	UnderlyingPrice float64 `json:"underlying_price"`
	BestAskPrice    float64 `json:"best_ask_price"`
	BestBidPrice    float64 `json:"best_bid_price"`
	MarkPrice       float64 `json:"mark_price"`
	LastPrice       float64 `json:"last_price"`
}
