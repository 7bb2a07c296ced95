package kite

import (
	"fmt"
	"sync"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// instrumentMapper holds the symbol to instrument-token mapping needed for
// historical data calls. Loaded lazily from the exchange instrument dump on
// first use; the dump only changes overnight so one load per process is fine.
type instrumentMapper struct {
	symbolToToken map[string]int
	mu            sync.RWMutex
	loaded        bool
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		symbolToToken: make(map[string]int),
	}
}

func (im *instrumentMapper) addMapping(symbol string, token int) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.symbolToToken[symbol] = token
}

func (im *instrumentMapper) getToken(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	token, exists := im.symbolToToken[symbol]
	return token, exists
}

func (im *instrumentMapper) isLoaded() bool {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.loaded
}

func (im *instrumentMapper) markLoaded() {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.loaded = true
}

// tokenForSymbol resolves a trading symbol to its instrument token,
// downloading the exchange instrument dump on the first call.
func (g *Gateway) tokenForSymbol(symbol string) (int, error) {
	if token, ok := g.instruments.getToken(symbol); ok {
		return token, nil
	}
	if !g.instruments.isLoaded() {
		instruments, err := g.kc.GetInstrumentsByExchange(g.p.Exchange)
		if err != nil {
			return 0, fmt.Errorf("%w: instrument dump %s: %v", types.ErrBroker, g.p.Exchange, err)
		}
		for _, inst := range instruments {
			g.instruments.addMapping(inst.Tradingsymbol, inst.InstrumentToken)
		}
		g.instruments.markLoaded()
	}
	token, ok := g.instruments.getToken(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %s not in %s instrument dump", types.ErrUnknownSymbol, symbol, g.p.Exchange)
	}
	return token, nil
}
