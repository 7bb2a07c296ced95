package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// aggRow accumulates per-symbol order activity for one trading day.
type aggRow struct {
	Symbol   string
	Groups   map[string]struct{}
	BuyQty   int
	SellQty  int
	Complete int
	Rejected int
}

func (l *Ledger) reportPath(t time.Time) string {
	return filepath.Join(l.dir, "eod", t.In(ist).Format("2006-01-02")+".csv")
}

// SummarizeDay writes an end-of-day per-symbol activity report over the
// trades store: order groups, buy/sell quantities, completed and rejected leg
// counts. Returns "" without error when the day has no rows.
func (l *Ledger) SummarizeDay(t time.Time) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(filepath.Join(l.dir, tradesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	day := t.In(ist).Format("2006-01-02")
	aggs := map[string]*aggRow{}

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return "", err
	}
	for i, rec := range records {
		if i == 0 || len(rec) < len(tradeHeader) {
			continue
		}
		if !strings.HasPrefix(rec[4], day) {
			continue
		}
		row := aggs[rec[2]]
		if row == nil {
			row = &aggRow{Symbol: rec[2], Groups: map[string]struct{}{}}
			aggs[rec[2]] = row
		}
		row.Groups[rec[0]] = struct{}{}
		qty, _ := strconv.Atoi(rec[5])
		if rec[3] == "BUY" {
			row.BuyQty += qty
		} else {
			row.SellQty += qty
		}
		switch rec[6] {
		case "COMPLETE":
			row.Complete++
		case "REJECTED", "CANCELLED":
			row.Rejected++
		}
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := l.reportPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write([]string{"symbol", "order_groups", "buy_qty", "sell_qty", "complete_legs", "rejected_legs"}); err != nil {
		return "", err
	}
	for _, k := range keys {
		row := aggs[k]
		rec := []string{
			row.Symbol,
			strconv.Itoa(len(row.Groups)),
			strconv.Itoa(row.BuyQty),
			strconv.Itoa(row.SellQty),
			strconv.Itoa(row.Complete),
			strconv.Itoa(row.Rejected),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

// SummarizeToday is a convenience wrapper for the scheduler's EOD tick.
func (l *Ledger) SummarizeToday() (string, error) {
	return l.SummarizeDay(l.now())
}

// ShouldRunNow reports whether the EOD report is due: after market close
// (15:40 IST) and not yet written for today.
func (l *Ledger) ShouldRunNow() (bool, string) {
	now := l.now().In(ist)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 15, 40, 0, 0, ist)
	p := l.reportPath(now)
	if now.Before(cutoff) {
		return false, p
	}
	if _, err := os.Stat(p); err == nil {
		return false, p
	}
	return true, p
}
