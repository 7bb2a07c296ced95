package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

const (
	tradesFile = "trades.csv"
	missedFile = "missed_trades.csv"

	timeLayout = "2006-01-02 15:04:05"
)

var ist = time.FixedZone("IST", 19800)

var tradeHeader = []string{"group_id", "order_id", "symbol", "transaction_type", "order_timestamp", "quantity", "status", "order_type"}
var missedHeader = []string{"symbol", "transaction_type", "order_timestamp", "price", "stop_loss", "target_price"}

// Ledger is the durable record of every submitted order leg and every intent
// that failed before submission. Rows are append-only CSV; a single mutex
// serializes writers so concurrent orchestrations never interleave rows.
type Ledger struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

var _ interfaces.Ledger = (*Ledger)(nil)

// New creates a ledger rooted at dir. BOT_DATA_DIR overrides an empty dir;
// the final fallback is ./data.
func New(dir string) *Ledger {
	if dir == "" {
		dir = os.Getenv("BOT_DATA_DIR")
	}
	if dir == "" {
		dir = "data"
	}
	return &Ledger{dir: dir, now: func() time.Time { return time.Now().In(ist) }}
}

// AppendOrderGroup writes one row per submitted leg, all sharing groupID.
func (l *Ledger) AppendOrderGroup(groupID string, legs []types.OrderLeg) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().Format(timeLayout)
	rows := make([][]string, 0, len(legs))
	for _, leg := range legs {
		rows = append(rows, []string{
			groupID,
			leg.BrokerOrderID,
			leg.Symbol,
			leg.Side,
			ts,
			strconv.Itoa(leg.Quantity),
			leg.Status,
			leg.OrderKind,
		})
	}
	return l.appendRows(tradesFile, tradeHeader, rows)
}

// AppendMissedTrade preserves a failed-before-submission intent for manual
// follow-up.
func (l *Ledger) AppendMissedTrade(intent types.TradeIntent, price, targetPrice, stopLossPrice float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	row := []string{
		intent.Symbol,
		intent.Side,
		l.now().Format(timeLayout),
		formatPrice(price),
		formatPrice(stopLossPrice),
		formatPrice(targetPrice),
	}
	return l.appendRows(missedFile, missedHeader, [][]string{row})
}

// ListOrderIDs returns every recorded broker order id in insertion order.
func (l *Ledger) ListOrderIDs() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(filepath.Join(l.dir, tradesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue // header
		}
		ids = append(ids, rec[1])
	}
	return ids, nil
}

// appendRows opens the store in append mode, writing the header first on a
// fresh file. Callers hold the mutex.
func (l *Ledger) appendRows(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.dir, name)

	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Dir returns the ledger's storage directory.
func (l *Ledger) Dir() string { return l.dir }

// SetClock overrides the timestamp source, for tests.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }
