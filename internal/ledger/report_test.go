package ledger

import (
	"testing"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

func TestSummarizeDay(t *testing.T) {
	l := newTestLedger(t)

	legs := []types.OrderLeg{
		{Symbol: "SBIN", Side: "BUY", Quantity: 10, OrderKind: "LIMIT", BrokerOrderID: "OID-1", Status: "COMPLETE"},
		{Symbol: "SBIN", Side: "SELL", Quantity: 10, OrderKind: "LIMIT", BrokerOrderID: "OID-2", Status: "OPEN"},
		{Symbol: "SBIN", Side: "SELL", Quantity: 10, OrderKind: "SL-M", BrokerOrderID: "OID-3", Status: "CANCELLED"},
	}
	if err := l.AppendOrderGroup("OID-1", legs); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}
	if err := l.AppendOrderGroup("OID-4", []types.OrderLeg{
		{Symbol: "INFY", Side: "BUY", Quantity: 3, OrderKind: "MARKET", BrokerOrderID: "OID-4", Status: "COMPLETE"},
	}); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}

	path, err := l.SummarizeToday()
	if err != nil {
		t.Fatalf("SummarizeToday: %v", err)
	}
	if path == "" {
		t.Fatal("expected a report path")
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 symbols", len(records))
	}

	// Symbols are sorted: INFY first.
	infy, sbin := records[1], records[2]
	if infy[0] != "INFY" || infy[1] != "1" || infy[2] != "3" || infy[3] != "0" {
		t.Errorf("INFY row = %v", infy)
	}
	if sbin[0] != "SBIN" || sbin[1] != "1" || sbin[2] != "10" || sbin[3] != "20" {
		t.Errorf("SBIN row = %v", sbin)
	}
	if sbin[4] != "1" || sbin[5] != "1" {
		t.Errorf("SBIN leg counts = %v, want 1 complete, 1 rejected", sbin[4:])
	}
}

func TestSummarizeDaySkipsOtherDays(t *testing.T) {
	l := newTestLedger(t)

	if err := l.AppendOrderGroup("OID-1", []types.OrderLeg{
		{Symbol: "SBIN", Side: "BUY", Quantity: 1, OrderKind: "MARKET", BrokerOrderID: "OID-1", Status: "COMPLETE"},
	}); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}

	path, err := l.SummarizeDay(time.Date(2025, 6, 3, 16, 0, 0, 0, ist))
	if err != nil {
		t.Fatalf("SummarizeDay: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for a day with no rows, got %q", path)
	}
}

func TestShouldRunNow(t *testing.T) {
	l := newTestLedger(t)

	// 10:30 IST: before the cutoff.
	if ok, _ := l.ShouldRunNow(); ok {
		t.Error("should not run before 15:40 IST")
	}

	l.SetClock(func() time.Time {
		return time.Date(2025, 6, 2, 16, 0, 0, 0, ist)
	})
	if ok, _ := l.ShouldRunNow(); !ok {
		t.Error("should run after 15:40 IST with no report written")
	}

	if err := l.AppendOrderGroup("OID-1", []types.OrderLeg{
		{Symbol: "SBIN", Side: "BUY", Quantity: 1, OrderKind: "MARKET", BrokerOrderID: "OID-1", Status: "COMPLETE"},
	}); err != nil {
		t.Fatalf("AppendOrderGroup: %v", err)
	}
	if _, err := l.SummarizeToday(); err != nil {
		t.Fatalf("SummarizeToday: %v", err)
	}
	if ok, _ := l.ShouldRunNow(); ok {
		t.Error("should not run twice for the same day")
	}
}
