package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestDB(t *testing.T) *SQLite {
	t.Helper()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLite_TradeRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)

	rec := TradeRecord{
		TradeID:   "01JTEST000000000000000001",
		Symbol:    "BTCUSDT",
		Side:      "sell",
		Quantity:  d("0.12345678"),
		Price:     d("43210.99"),
		CostBasis: d("41333.33333333333333333333"),
		Winning:   true,
		Time:      time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade(rec.TradeID)
	require.NoError(t, err)

	assert.Equal(t, rec.TradeID, got.TradeID)
	assert.Equal(t, rec.Side, got.Side)
	assert.True(t, rec.Quantity.Equal(got.Quantity), "quantity must round-trip exactly")
	assert.True(t, rec.Price.Equal(got.Price))
	assert.True(t, rec.CostBasis.Equal(got.CostBasis), "basis must round-trip exactly, got %s", got.CostBasis)
	assert.True(t, got.Winning)
	assert.True(t, rec.Time.Equal(got.Time))
}

func TestSQLite_GetTrade_NotFound(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)

	_, err := j.GetTrade("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSQLite_ListTradesBetween(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.RecordTrade(TradeRecord{
			TradeID:   id,
			Symbol:    "BTCUSDT",
			Side:      "buy",
			Quantity:  d("1"),
			Price:     d("100"),
			CostBasis: d("0"),
			Time:      base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := j.ListTradesBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2, "window is half-open: [start, end)")
	assert.Equal(t, "a", got[0].TradeID)
	assert.Equal(t, "b", got[1].TradeID)
}

func TestSQLite_SnapshotRoundTripAndWindow(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, j.RecordSnapshot(Snapshot{
			Time:            base.Add(time.Duration(i) * 12 * time.Hour),
			StartingBalance: d("10000"),
			CurrentBalance:  d("10250.50"),
			QuantityHeld:    d("0.5"),
			AvgBuyPrice:     d("41000"),
			CurrentPrice:    d("41501"),
			RealizedPL:      d("0"),
			UnrealizedPL:    d("250.50"),
			TotalPL:         d("250.50"),
			PLPercent:       d("2.505"),
			TotalTrades:     1,
			WinningTrades:   0,
			SellTrades:      0,
			WinRate:         d("0"),
		}))
	}

	got, err := j.ListSnapshotsSince(base.Add(6 * time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Time.Before(got[1].Time), "oldest first")
	assert.True(t, d("10250.50").Equal(got[0].CurrentBalance))
	assert.True(t, d("2.505").Equal(got[0].PLPercent))
	assert.Equal(t, 1, got[0].TotalTrades)
}

func TestSQLite_Reset(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)

	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID: "x", Symbol: "BTCUSDT", Side: "buy",
		Quantity: d("1"), Price: d("100"), CostBasis: d("0"),
		Time: time.Now().UTC(),
	}))
	require.NoError(t, j.RecordSnapshot(Snapshot{
		Time:            time.Now().UTC(),
		StartingBalance: d("1000"), CurrentBalance: d("1000"),
		QuantityHeld: d("0"), AvgBuyPrice: d("0"), CurrentPrice: d("100"),
		RealizedPL: d("0"), UnrealizedPL: d("0"), TotalPL: d("0"),
		PLPercent: d("0"), WinRate: d("0"),
	}))

	require.NoError(t, j.Reset())

	trades, err := j.ListTradesBetween(time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, trades)

	snaps, err := j.ListSnapshotsSince(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, snaps)

	// Reset of an already-empty journal is a no-op, not an error.
	assert.NoError(t, j.Reset())
}
