package exchange

import (
	"strings"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// mapOptionQuote convierte un ticker de Deribit a domain.OptionQuote.
// El ticker no trae el strike; se toma del instrumento.
func mapOptionQuote(inst deribitInstrument, t deribitTicker) domain.OptionQuote {
	name := t.InstrumentName
	if name == "" {
		name = inst.InstrumentName
	}
	return domain.OptionQuote{
		InstrumentName:  name,
		Strike:          inst.Strike,
		UnderlyingPrice: t.UnderlyingPrice,
		BestAskPrice:    t.BestAskPrice,
		BestBidPrice:    t.BestBidPrice,
		MarkPrice:       t.MarkPrice,
	}
}

// chainFilter decide qué instrumentos de la cadena se consultan:
//   - el nombre contiene la etiqueta de vencimiento;
//   - calls ("-C") con strike > start - window;
//   - puts ("-P") con strike < start + window.
type chainFilter struct {
	expiryTag string
	start     float64
	window    float64
}

// split separa los instrumentos aceptados en calls y puts, manteniendo el orden de la API.
func (f chainFilter) split(instruments []deribitInstrument) (calls, puts []deribitInstrument) {
	for _, inst := range instruments {
		name := inst.InstrumentName
		if !strings.Contains(name, f.expiryTag) {
			continue
		}
		switch {
		case strings.HasSuffix(name, "C") && inst.Strike > f.start-f.window:
			calls = append(calls, inst)
		case strings.HasSuffix(name, "P") && inst.Strike < f.start+f.window:
			puts = append(puts, inst)
		}
	}
	return calls, puts
}
