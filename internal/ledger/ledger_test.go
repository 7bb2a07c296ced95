package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(t.TempDir())
	l.SetClock(func() time.Time {
		return time.Date(2025, 6, 2, 10, 30, 0, 0, ist)
	})
	return l
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestAppendOrderGroupWritesLegs(t *testing.T) {
	l := newTestLedger(t)

	legs := []types.OrderLeg{
		{Role: types.RoleEntry, Symbol: "SBIN", Side: "BUY", Quantity: 10, OrderKind: "LIMIT", BrokerOrderID: "OID-1", Status: "COMPLETE"},
		{Role: types.RoleTarget, Symbol: "SBIN", Side: "SELL", Quantity: 10, OrderKind: "LIMIT", BrokerOrderID: "OID-2", Status: "OPEN"},
		{Role: types.RoleStopLoss, Symbol: "SBIN", Side: "SELL", Quantity: 10, OrderKind: "SL-M", BrokerOrderID: "OID-3", Status: "TRIGGER PENDING"},
	}
	if err := l.AppendOrderGroup("OID-1", legs); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}

	records := readCSV(t, filepath.Join(l.Dir(), tradesFile))
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3 legs", len(records))
	}
	if records[0][0] != "group_id" || records[0][1] != "order_id" {
		t.Errorf("unexpected header: %v", records[0])
	}
	for i, rec := range records[1:] {
		if rec[0] != "OID-1" {
			t.Errorf("row %d group_id = %q, want OID-1", i, rec[0])
		}
		if rec[4] != "2025-06-02 10:30:00" {
			t.Errorf("row %d timestamp = %q", i, rec[4])
		}
	}
	if records[3][7] != "SL-M" {
		t.Errorf("stop-loss order_type = %q, want SL-M", records[3][7])
	}
}

func TestAppendOrderGroupHeaderOnce(t *testing.T) {
	l := newTestLedger(t)

	leg := []types.OrderLeg{{Symbol: "SBIN", Side: "BUY", Quantity: 1, OrderKind: "MARKET", BrokerOrderID: "OID-1", Status: "COMPLETE"}}
	if err := l.AppendOrderGroup("OID-1", leg); err != nil {
		t.Fatalf("first append: %v", err)
	}
	leg[0].BrokerOrderID = "OID-2"
	if err := l.AppendOrderGroup("OID-2", leg); err != nil {
		t.Fatalf("second append: %v", err)
	}

	records := readCSV(t, filepath.Join(l.Dir(), tradesFile))
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 legs", len(records))
	}
}

func TestListOrderIDs(t *testing.T) {
	l := newTestLedger(t)

	if ids, err := l.ListOrderIDs(); err != nil || len(ids) != 0 {
		t.Fatalf("empty ledger: ids=%v err=%v", ids, err)
	}

	legs := []types.OrderLeg{
		{Symbol: "SBIN", Side: "BUY", Quantity: 5, OrderKind: "LIMIT", BrokerOrderID: "OID-1", Status: "COMPLETE"},
		{Symbol: "SBIN", Side: "SELL", Quantity: 5, OrderKind: "LIMIT", BrokerOrderID: "OID-2", Status: "OPEN"},
	}
	if err := l.AppendOrderGroup("OID-1", legs); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}

	ids, err := l.ListOrderIDs()
	if err != nil {
		t.Fatalf("ListOrderIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "OID-1" || ids[1] != "OID-2" {
		t.Errorf("ids = %v, want [OID-1 OID-2]", ids)
	}
}

func TestAppendMissedTrade(t *testing.T) {
	l := newTestLedger(t)

	intent := types.TradeIntent{Symbol: "SBIN", Side: "BUY"}
	if err := l.AppendMissedTrade(intent, 100, 100.20, 99.00); err != nil {
		t.Fatalf("AppendMissedTrade: %v", err)
	}

	records := readCSV(t, filepath.Join(l.Dir(), missedFile))
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	row := records[1]
	if row[0] != "SBIN" || row[1] != "BUY" {
		t.Errorf("row = %v", row)
	}
	if row[3] != "100.00" || row[4] != "99.00" || row[5] != "100.20" {
		t.Errorf("prices = %v, want [100.00 99.00 100.20]", row[3:])
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := newTestLedger(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("OID-%d", i)
			leg := []types.OrderLeg{{Symbol: "SBIN", Side: "BUY", Quantity: 1, OrderKind: "MARKET", BrokerOrderID: id, Status: "COMPLETE"}}
			if err := l.AppendOrderGroup(id, leg); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	ids, err := l.ListOrderIDs()
	if err != nil {
		t.Fatalf("ListOrderIDs: %v", err)
	}
	if len(ids) != n {
		t.Errorf("got %d ids, want %d", len(ids), n)
	}

	// Every row must still parse cleanly; interleaved writes would break this.
	records := readCSV(t, filepath.Join(l.Dir(), tradesFile))
	if len(records) != n+1 {
		t.Errorf("got %d rows, want %d", len(records), n+1)
	}
}
