package types

// Transaction sides and outcome statuses are plain strings on the wire
// (webhook JSON, CSV ledger, Kite API) so they stay strings here too.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderKindMarket = "MARKET"
	OrderKindLimit  = "LIMIT"
	OrderKindSLM    = "SL-M"

	RoleEntry    = "ENTRY"
	RoleTarget   = "TARGET"
	RoleStopLoss = "STOPLOSS"

	StatusSubmitted = "SUBMITTED"
	StatusSkipped   = "SKIPPED"
	StatusRejected  = "REJECTED"
	StatusFailed    = "FAILED"
)

// TradeIntent is what arrives from the webhook or the scheduler.
// Price and Quantity are overrides; nil means "let the core decide".
type TradeIntent struct {
	Symbol   string   `json:"TS"`
	Side     string   `json:"TT"`
	Price    *float64 `json:"PRICE,omitempty"`
	Quantity *int     `json:"QTY,omitempty"`
}

// Position is a broker-owned snapshot, re-fetched per decision cycle.
type Position struct {
	Symbol       string
	NetQuantity  int
	AveragePrice float64
	LastPrice    float64
	BuyValue     float64
	SellValue    float64
	Multiplier   float64
}

// OrderLeg is one of the up-to-three orders issued per intent.
type OrderLeg struct {
	Role          string
	Symbol        string
	Side          string
	Quantity      int
	OrderKind     string
	Price         float64 // limit price, 0 for market
	TriggerPrice  float64 // SL-M trigger, 0 otherwise
	BrokerOrderID string
	Status        string
}

// OrderReq is what the broker gateway consumes.
type OrderReq struct {
	Symbol       string
	Side         string
	Quantity     int
	OrderKind    string
	Price        float64
	TriggerPrice float64
	Tag          string
}

// Outcome is the discriminated result of one orchestration call.
type Outcome struct {
	Status  string   `json:"status"`
	Reason  string   `json:"reason,omitempty"`
	GroupID string   `json:"group_id,omitempty"`
	LegIDs  []string `json:"leg_ids,omitempty"`
}

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// FeatureCandle is a candle annotated with the indicator set the oracle sees.
type FeatureCandle struct {
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	EMA9   float64 `json:"ema_9"`
	EMA21  float64 `json:"ema_21"`
	EMA55  float64 `json:"ema_55"`
	EMA100 float64 `json:"ema_100"`
	EMA200 float64 `json:"ema_200"`
	RSI    float64 `json:"rsi"`
	MACD   float64 `json:"macd"`
	Signal float64 `json:"macd_signal"`
}

// Recommendation is the oracle's answer. Decision is BUY, SELL or NONE.
type Recommendation struct {
	Decision       string  `json:"decision"`
	Confidence     float64 `json:"confidence_score"`
	PredictedClose float64 `json:"predicted_close"`
}

const DecisionNone = "NONE"

// StepResult summarizes one scheduler pass over a symbol.
type StepResult struct {
	Symbol         string          `json:"symbol"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Outcome        *Outcome        `json:"outcome,omitempty"`
	Price          float64         `json:"price"`
	Time           int64           `json:"time"`
}

// OppositeSide maps BUY to SELL and anything else to BUY, matching the
// target/stop-loss leg rule.
func OppositeSide(side string) string {
	if side == SideBuy {
		return SideSell
	}
	return SideBuy
}
