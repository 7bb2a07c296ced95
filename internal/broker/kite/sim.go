package kite

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// simulator backs the gateway in DRY_RUN mode: every call is answered
// locally so the full order path can run without touching the exchange.
type simulator struct {
	cash   float64
	mu     sync.Mutex
	orders map[string]types.OrderLeg
}

func newSimulator() *simulator {
	return &simulator{
		cash:   100000,
		orders: make(map[string]types.OrderLeg),
	}
}

func (s *simulator) ltp(symbol string) float64 {
	return 1000 + rand.Float64()*100
}

func (s *simulator) positions() []types.Position {
	return nil
}

func (s *simulator) placeOrder(req types.OrderReq) (string, error) {
	id := fmt.Sprintf("SIM-%d", time.Now().UnixNano())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = types.OrderLeg{
		Symbol:        req.Symbol,
		Side:          req.Side,
		Quantity:      req.Quantity,
		OrderKind:     req.OrderKind,
		Price:         req.Price,
		TriggerPrice:  req.TriggerPrice,
		BrokerOrderID: id,
		Status:        "COMPLETE",
	}
	return id, nil
}

func (s *simulator) orderHistory(orderID string) (types.OrderLeg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leg, ok := s.orders[orderID]
	if !ok {
		return types.OrderLeg{}, fmt.Errorf("%w: simulated order %s not found", types.ErrBroker, orderID)
	}
	return leg, nil
}

func (s *simulator) candles(symbol string, n int) []types.Candle {
	cs := make([]types.Candle, 0, n)
	base := 1000.0
	now := time.Now().Unix()

	for i := n; i > 0; i-- {
		c := base + float64(i) + (rand.Float64()-0.5)*5
		h := c + rand.Float64()*3
		l := c - rand.Float64()*3
		cs = append(cs, types.Candle{
			Ts:    now - int64((n-i+1)*900),
			Open:  c - 0.5,
			High:  h,
			Low:   l,
			Close: c,
			Vol:   rand.Float64() * 1000,
		})
	}

	return cs
}
