package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/alejandrodnm/quantohedge/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Formatos de salida soportados.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Console implementa ports.Reporter.
type Console struct {
	out    io.Writer
	format string
}

// NewConsoleWriter crea un reporter sobre w.
// Un formato desconocido cae a FormatTable.
func NewConsoleWriter(w io.Writer, format string) *Console {
	if format != FormatJSON {
		format = FormatTable
	}
	return &Console{out: w, format: format}
}

// Summary imprime los precios de inicio, las posiciones y las patas de opciones.
func (c *Console) Summary(s domain.Summary) {
	if c.format == FormatJSON {
		c.writeJSON(s)
		return
	}

	p := s.Prices
	queried := "defaults"
	if !p.QueriedAt.IsZero() {
		queried = p.QueriedAt.Local().Format("2006-01-02 15:04:05")
	}

	fmt.Fprintf(c.out, "\n=== STARTING PRICES (%s) ===\n", queried)
	fmt.Fprintf(c.out, "  BTC start:         $%.2f\n", p.BTCStartPrice)
	fmt.Fprintf(c.out, "  ETH spot start:    $%.2f\n", p.ETHSpotStartPrice)
	fmt.Fprintf(c.out, "  ETH quanto start:  $%.2f\n", p.ETHQuantoFuturesStartPrice)
	fmt.Fprintf(c.out, "  Starting premium:  %.0f%%\n", s.StartingPremium)
	fmt.Fprintf(c.out, "  Premium left:      %.1f%%\n\n", s.PremiumExit*100)

	table := c.newTable()
	table.Header("Position", "Amount", "Value")
	table.Append("BTC on BitMEX", fmtAmount(s.BTCAmountBitmex), fmt.Sprintf("$%.2f", s.BitmexValue))
	table.Append("ETH spot", fmtAmount(s.ETHSpotAmount), fmt.Sprintf("$%.2f", s.ETHSpotValue))
	table.Append("ETH quanto short", fmtAmount(s.Contracts),
		fmt.Sprintf("%.4f BTC / $%.2f", s.FuturesBTCValue, s.FuturesUSDValue))
	table.Render()

	legs := c.newTable()
	legs.Header("Leg", "Amount", "Strike", "Premium", "Cost", "Strikes available")
	for _, l := range s.Legs {
		legs.Append(
			l.Kind.String(),
			fmtAmount(l.Amount),
			strikeLabel(l.Strike),
			fmt.Sprintf("$%.2f", l.Premium),
			fmt.Sprintf("$%.2f", l.Cost),
			strikesLabel(s.Strikes[l.Kind], 8),
		)
	}
	legs.Render()
}

// Surface imprime la superficie de PnL submuestreada cada step puntos, con el
// ETH alto arriba y una fila final con el precio de liquidación por BTC.
func (c *Console) Surface(s domain.Surface, step int) {
	if c.format == FormatJSON {
		c.writeJSON(s)
		return
	}
	if step <= 0 {
		step = 1
	}

	btcIdx := sampleIndexes(len(s.Grid.BTCPrices), step)
	ethIdx := sampleIndexes(len(s.Grid.ETHPrices), step)

	header := []any{"ETH \\ BTC"}
	for _, j := range btcIdx {
		header = append(header, fmtPrice(s.Grid.BTCPrices[j]))
	}

	table := c.newTable()
	table.Header(header...)
	for k := len(ethIdx) - 1; k >= 0; k-- {
		i := ethIdx[k]
		row := []any{fmtPrice(s.Grid.ETHPrices[i])}
		for _, j := range btcIdx {
			row = append(row, fmt.Sprintf("%.0f", s.At(i, j)))
		}
		table.Append(row...)
	}
	liq := []any{"liquidation"}
	for _, j := range btcIdx {
		liq = append(liq, liquidationLabel(s.LiquidationCurve[j]))
	}
	table.Append(liq...)
	table.Render()

	worst, btc, eth := s.Min()
	fmt.Fprintf(c.out, "  Reference: BTC start $%.2f | ETH quanto start $%.2f | ETH spot start $%.2f\n",
		s.References.BTCStart, s.References.ETHFuturesStart, s.References.ETHSpotStart)
	fmt.Fprintf(c.out, "  Contours:  %.0f .. %.0f step %.0f\n", s.ContourStart, s.ContourEnd, s.ContourSize)
	fmt.Fprintf(c.out, "  Worst PnL: $%.2f at BTC $%.0f / ETH $%.0f\n", worst, btc, eth)
}

// Optimization imprime el resultado de una búsqueda.
func (c *Console) Optimization(run domain.OptimizationRun) {
	if c.format == FormatJSON {
		c.writeJSON(run)
		return
	}

	fmt.Fprintf(c.out, "\n=== OPTIMIZATION %s ===\n", shortID(run.ID))
	fmt.Fprintf(c.out, "  Candidates: %d evaluated of %d in %s\n",
		run.Evaluated, run.Candidates, run.Duration.Round(time.Millisecond))
	fmt.Fprintf(c.out, "  Worst-case PnL: %s (no options: %s)\n",
		scoreLabel(run.BestScore), scoreLabel(run.BaselineScore))

	table := c.newTable()
	table.Header("Leg", "Amount", "Strike", "Premium", "Cost")
	for i, kind := range domain.AllLegs {
		l := run.Legs[i]
		table.Append(
			kind.String(),
			fmtAmount(l.Amount),
			strikeLabel(l.Strike),
			fmt.Sprintf("$%.2f", l.Premium),
			fmt.Sprintf("$%.2f", l.Cost()),
		)
	}
	table.Render()

	switch {
	case !run.Acceptable():
		fmt.Fprintln(c.out, "  VERDICT: no leg combination avoids a loss in the boundary scenarios")
	case run.Improvement() > 0:
		fmt.Fprintf(c.out, "  VERDICT: options improve the worst case by $%.2f\n", run.Improvement())
	default:
		fmt.Fprintln(c.out, "  VERDICT: options do not improve the worst case")
	}
}

// History imprime las últimas optimizaciones guardadas.
func (c *Console) History(runs []domain.OptimizationRun) {
	if c.format == FormatJSON {
		c.writeJSON(runs)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "\n  No optimization runs stored.")
		return
	}

	table := c.newTable()
	table.Header("#", "Run", "Started", "BTC", "ETH spot", "Worst PnL", "Baseline", "Evaluated", "Took")
	for i, r := range runs {
		table.Append(
			fmt.Sprintf("%d", i+1),
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("$%.2f", r.BTCStartPrice),
			fmt.Sprintf("$%.2f", r.ETHSpotStartPrice),
			scoreLabel(r.BestScore),
			scoreLabel(r.BaselineScore),
			fmt.Sprintf("%d/%d", r.Evaluated, r.Candidates),
			r.Duration.Round(time.Millisecond).String(),
		)
	}
	table.Render()
}

// --- helpers ---

// newTable crea una tabla sin auto-formato de cabeceras: los precios como "100k"
// tienen que verse igual en la cabecera y en las filas.
func (c *Console) newTable() *tablewriter.Table {
	return tablewriter.NewTable(c.out, tablewriter.WithHeaderAutoFormat(tw.Off))
}

func (c *Console) writeJSON(v any) {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode report", "err", err)
	}
}

// sampleIndexes devuelve 0, step, 2·step, ... y siempre incluye el último índice.
func sampleIndexes(n, step int) []int {
	if n == 0 {
		return nil
	}
	var idx []int
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

func fmtAmount(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func fmtPrice(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}

// strikeLabel muestra "-" para los strikes por defecto de una pata vacía.
func strikeLabel(v float64) string {
	if v == 0 || v >= 1000000 {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func strikesLabel(strikes []float64, max int) string {
	if len(strikes) == 0 {
		return "-"
	}
	parts := make([]string, 0, max+1)
	for i, s := range strikes {
		if i == max {
			parts = append(parts, fmt.Sprintf("+%d", len(strikes)-max))
			break
		}
		parts = append(parts, fmt.Sprintf("%.0f", s))
	}
	return strings.Join(parts, " ")
}

func liquidationLabel(v float64) string {
	if v == domain.NeverLiquidated || math.IsInf(v, 0) {
		return "never"
	}
	return fmt.Sprintf("%.0f", v)
}

func scoreLabel(v float64) string {
	if v <= domain.RangeMinSentinel {
		return "LOSS AT BOUNDS"
	}
	return fmt.Sprintf("$%.2f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
