package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, symbol, side, quantity, price, cost_basis, winning, time
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades applied within [start, end), oldest first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, side, quantity, price, cost_basis, winning, time
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListSnapshotsSince returns snapshots taken at or after since, oldest first.
func (j *SQLite) ListSnapshotsSince(since time.Time) ([]Snapshot, error) {
	rows, err := j.db.Query(`
		SELECT timestamp, starting_balance, current_balance, quantity_held, avg_buy_price,
		       current_price, realized_pl, unrealized_pl, total_pl, pl_percent,
		       total_trades, winning_trades, sell_trades, win_rate
		FROM snapshots
		WHERE timestamp >= ?
		ORDER BY timestamp ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var startBal, curBal, qty, avg, price, rpl, upl, tpl, plPct, winRate string
		if err := rows.Scan(
			&s.Time, &startBal, &curBal, &qty, &avg, &price,
			&rpl, &upl, &tpl, &plPct,
			&s.TotalTrades, &s.WinningTrades, &s.SellTrades, &winRate,
		); err != nil {
			return nil, err
		}

		if err := parseDecimals(map[*decimal.Decimal]string{
			&s.StartingBalance: startBal,
			&s.CurrentBalance:  curBal,
			&s.QuantityHeld:    qty,
			&s.AvgBuyPrice:     avg,
			&s.CurrentPrice:    price,
			&s.RealizedPL:      rpl,
			&s.UnrealizedPL:    upl,
			&s.TotalPL:         tpl,
			&s.PLPercent:       plPct,
			&s.WinRate:         winRate,
		}); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var rec TradeRecord
	var qty, price, basis string

	if err := row.Scan(
		&rec.TradeID, &rec.Symbol, &rec.Side,
		&qty, &price, &basis, &rec.Winning, &rec.Time,
	); err != nil {
		return TradeRecord{}, err
	}

	if err := parseDecimals(map[*decimal.Decimal]string{
		&rec.Quantity:  qty,
		&rec.Price:     price,
		&rec.CostBasis: basis,
	}); err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

func parseDecimals(fields map[*decimal.Decimal]string) error {
	for dst, raw := range fields {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("corrupt decimal column %q: %w", raw, err)
		}
		*dst = d
	}
	return nil
}
