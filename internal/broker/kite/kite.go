package kite

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

type Params struct {
	Mode      string // DRY_RUN simulates every call; LIVE hits Kite
	APIKey    string
	APISecret string
	Exchange  string // e.g. NSE
	Product   string // e.g. MIS
	TokenFile string // persisted access token, defaults to access_token.txt
	Interval  string // candle interval, e.g. 15minute
	Lookback  int    // historical-data lookback in days
	Timeout   time.Duration
}

// Gateway implements the broker interface over the Kite Connect REST API.
// Session state lives here and nowhere else; callers receive it by injection.
type Gateway struct {
	p           Params
	kc          *kiteconnect.Client
	instruments *instrumentMapper
	sim         *simulator
}

var _ interfaces.Broker = (*Gateway)(nil)

// New builds a gateway. In LIVE mode a previously persisted access token is
// loaded so the session survives restarts; if none exists the /login flow
// must run before any broker call succeeds.
func New(p Params) *Gateway {
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	if p.Product == "" {
		p.Product = kiteconnect.ProductMIS
	}
	if p.TokenFile == "" {
		p.TokenFile = "access_token.txt"
	}
	if p.Interval == "" {
		p.Interval = "15minute"
	}
	if p.Lookback == 0 {
		p.Lookback = 7
	}
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}

	g := &Gateway{p: p, instruments: newInstrumentMapper()}
	if p.Mode == "DRY_RUN" {
		g.sim = newSimulator()
		return g
	}

	g.kc = kiteconnect.New(p.APIKey)
	g.kc.SetTimeout(p.Timeout)
	if token, err := loadToken(p.TokenFile); err == nil && token != "" {
		g.kc.SetAccessToken(token)
	} else {
		logger.Warn(context.Background(), "No saved access token, login required", "token_file", p.TokenFile)
	}
	return g
}

// GenerateSession exchanges a request token for an access token and persists
// it for the next startup.
func (g *Gateway) GenerateSession(ctx context.Context, requestToken string) error {
	if g.sim != nil {
		return nil
	}
	if requestToken == "" {
		return fmt.Errorf("%w: request token not provided", types.ErrInvalidInput)
	}
	data, err := g.kc.GenerateSession(requestToken, g.p.APISecret)
	if err != nil {
		return fmt.Errorf("%w: generate session: %v", types.ErrBroker, err)
	}
	g.kc.SetAccessToken(data.AccessToken)
	if err := saveToken(g.p.TokenFile, data.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	logger.Info(ctx, "Kite session generated", "token_file", g.p.TokenFile)
	return nil
}

// LTP returns the last traded price for a symbol on the configured exchange.
func (g *Gateway) LTP(ctx context.Context, symbol string) (float64, error) {
	if g.sim != nil {
		return g.sim.ltp(symbol), nil
	}
	key := g.p.Exchange + ":" + symbol
	quotes, err := g.kc.GetLTP(key)
	if err != nil {
		return 0, fmt.Errorf("%w: ltp %s: %v", types.ErrBroker, symbol, err)
	}
	q, ok := quotes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}
	return q.LastPrice, nil
}

// AvailableCash returns the equity segment's live balance.
func (g *Gateway) AvailableCash(ctx context.Context) (float64, error) {
	if g.sim != nil {
		return g.sim.cash, nil
	}
	margins, err := g.kc.GetUserMargins()
	if err != nil {
		return 0, fmt.Errorf("%w: margins: %v", types.ErrBroker, err)
	}
	return margins.Equity.Available.LiveBalance, nil
}

// Positions returns the day position snapshot.
func (g *Gateway) Positions(ctx context.Context) ([]types.Position, error) {
	if g.sim != nil {
		return g.sim.positions(), nil
	}
	positions, err := g.kc.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("%w: positions: %v", types.ErrBroker, err)
	}
	out := make([]types.Position, 0, len(positions.Day))
	for _, p := range positions.Day {
		out = append(out, types.Position{
			Symbol:       p.Tradingsymbol,
			NetQuantity:  p.Quantity,
			AveragePrice: p.AveragePrice,
			LastPrice:    p.LastPrice,
			BuyValue:     p.BuyValue,
			SellValue:    p.SellValue,
			Multiplier:   p.Multiplier,
		})
	}
	return out, nil
}

// PlaceOrder submits a regular-variety day order and returns the broker id.
func (g *Gateway) PlaceOrder(ctx context.Context, req types.OrderReq) (string, error) {
	if g.sim != nil {
		return g.sim.placeOrder(req)
	}

	params := kiteconnect.OrderParams{
		Exchange:        g.p.Exchange,
		Tradingsymbol:   req.Symbol,
		TransactionType: req.Side,
		Quantity:        req.Quantity,
		Product:         g.p.Product,
		Validity:        kiteconnect.ValidityDay,
		Tag:             req.Tag,
	}
	switch req.OrderKind {
	case types.OrderKindLimit:
		params.OrderType = kiteconnect.OrderTypeLimit
		params.Price = req.Price
	case types.OrderKindSLM:
		params.OrderType = kiteconnect.OrderTypeSLM
		params.TriggerPrice = req.TriggerPrice
	default:
		params.OrderType = kiteconnect.OrderTypeMarket
	}

	resp, err := g.kc.PlaceOrder(kiteconnect.VarietyRegular, params)
	if err != nil {
		return "", fmt.Errorf("%w: place order %s %s: %v", types.ErrBroker, req.Side, req.Symbol, err)
	}
	return resp.OrderID, nil
}

// OrderHistory returns the latest status snapshot for an order.
func (g *Gateway) OrderHistory(ctx context.Context, orderID string) (types.OrderLeg, error) {
	if g.sim != nil {
		return g.sim.orderHistory(orderID)
	}
	history, err := g.kc.GetOrderHistory(orderID)
	if err != nil {
		return types.OrderLeg{}, fmt.Errorf("%w: order history %s: %v", types.ErrBroker, orderID, err)
	}
	if len(history) == 0 {
		return types.OrderLeg{}, fmt.Errorf("%w: order history %s: empty", types.ErrBroker, orderID)
	}
	o := history[len(history)-1]
	return types.OrderLeg{
		Symbol:        o.TradingSymbol,
		Side:          o.TransactionType,
		Quantity:      int(o.Quantity),
		OrderKind:     o.OrderType,
		Price:         o.Price,
		TriggerPrice:  o.TriggerPrice,
		BrokerOrderID: o.OrderID,
		Status:        o.Status,
	}, nil
}

// RecentCandles fetches the last n historical candles for a symbol over the
// configured lookback window.
func (g *Gateway) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	if g.sim != nil {
		return g.sim.candles(symbol, n), nil
	}

	token, err := g.tokenForSymbol(symbol)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -g.p.Lookback)
	data, err := g.kc.GetHistoricalData(token, g.p.Interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: historical data %s: %v", types.ErrBroker, symbol, err)
	}

	out := make([]types.Candle, 0, len(data))
	for _, d := range data {
		out = append(out, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}
