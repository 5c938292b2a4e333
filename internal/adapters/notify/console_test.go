package notify_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alejandrodnm/quantohedge/internal/adapters/notify"
	"github.com/alejandrodnm/quantohedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSummary() domain.Summary {
	start := domain.DefaultStartingPrices()
	start.ETHCalls = []domain.OptionQuote{
		{Strike: 2400, UnderlyingPrice: 2000, BestAskPrice: 0.05},
		{Strike: 2200, UnderlyingPrice: 2000, BestAskPrice: 0.08},
	}
	p := domain.DefaultPortfolio()
	p.ETHSpotAmount = 2
	p.ETHCalls = domain.OptionLeg{Amount: 0.5, Strike: 2400, Premium: 100}
	return domain.NewSummary(start, p, domain.DefaultExitPrices())
}

func makeRun(best, baseline float64) domain.OptimizationRun {
	return domain.OptimizationRun{
		ID:            "0f8fad5b-d9cb-469f-a165-70867728950e",
		StartedAt:     time.Date(2021, 4, 20, 10, 0, 0, 0, time.UTC),
		Duration:      2 * time.Second,
		Candidates:    1250,
		Evaluated:     1250,
		BestScore:     best,
		BaselineScore: baseline,
		Legs: [4]domain.OptionLeg{
			{Strike: 1000000},
			{},
			{Strike: 1000000},
			{Amount: 1, Strike: 1800, Premium: 100},
		},
	}
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, notify.FormatTable)

	c.Summary(makeSummary())

	out := buf.String()
	assert.Contains(t, out, "STARTING PRICES (defaults)")
	assert.Contains(t, out, "$50000.00")
	assert.Contains(t, out, "38%", "starting premium 2200/1600")
	assert.Contains(t, out, "eth-call")
	assert.Contains(t, out, "2200 2400", "strikes ordenados")
	assert.Contains(t, out, "$3200.00", "valor ETH spot")
}

func TestConsole_Surface(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, "")

	start := domain.DefaultStartingPrices()
	p := domain.DefaultPortfolio()
	p.BTCAmountBitmex = 0
	p.ETHSpotAmount = 1
	surf := domain.BuildSurface(start, p, 0, domain.NewGrid(4, 200000, 8000))

	c.Surface(surf, 2)

	out := buf.String()
	assert.Contains(t, out, "ETH \\ BTC")
	assert.Contains(t, out, "8k", "fila ETH 8000")
	assert.Contains(t, out, "100k", "cabecera BTC 100000 con el mismo formato que las filas")
	assert.NotContains(t, out, "100 K")
	assert.Contains(t, out, "Contours:  0 .. 0 step 0")
	assert.NotContains(t, out, "-0 ..")
	assert.Contains(t, out, "never", "sin contratos no hay liquidación")
	assert.Contains(t, out, "6400", "ETH 8000 → +6400")
	assert.Contains(t, out, "Worst PnL: $-1600.00")
}

func TestConsole_Optimization(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, notify.FormatTable)

	c.Optimization(makeRun(100, domain.RangeMinSentinel))

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZATION 0f8fad5b")
	assert.Contains(t, out, "1250 evaluated of 1250")
	assert.Contains(t, out, "LOSS AT BOUNDS")
	assert.Contains(t, out, "1800")
	assert.Contains(t, out, "do not improve", "baseline inaceptable → sin mejora medible")
}

func TestConsole_Optimization_NotAcceptable(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, notify.FormatTable)

	c.Optimization(makeRun(domain.RangeMinSentinel, domain.RangeMinSentinel))
	assert.Contains(t, buf.String(), "no leg combination avoids a loss")
}

func TestConsole_History(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, notify.FormatTable)

	c.History(nil)
	assert.Contains(t, buf.String(), "No optimization runs stored")

	buf.Reset()
	c.History([]domain.OptimizationRun{makeRun(100, 50)})
	out := buf.String()
	assert.Contains(t, out, "0f8fad5b")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "$50.00")
}

func TestConsole_JSON(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, notify.FormatJSON)

	c.Optimization(makeRun(100, 50))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", decoded["ID"])
	assert.InDelta(t, 100, decoded["BestScore"], 1e-9)

	buf.Reset()
	c.Summary(makeSummary())
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	strikes, ok := decoded["Strikes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, strikes, "eth-call")
}
