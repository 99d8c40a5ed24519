package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, side, quantity, price, cost_basis, winning, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Side, t.Quantity.String(), t.Price.String(),
		t.CostBasis.String(), t.Winning, t.Time,
	)
	return err
}

func (j *SQLite) RecordSnapshot(s Snapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(timestamp, starting_balance, current_balance, quantity_held, avg_buy_price,
		 current_price, realized_pl, unrealized_pl, total_pl, pl_percent,
		 total_trades, winning_trades, sell_trades, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Time, s.StartingBalance.String(), s.CurrentBalance.String(),
		s.QuantityHeld.String(), s.AvgBuyPrice.String(), s.CurrentPrice.String(),
		s.RealizedPL.String(), s.UnrealizedPL.String(), s.TotalPL.String(),
		s.PLPercent.String(), s.TotalTrades, s.WinningTrades, s.SellTrades,
		s.WinRate.String(),
	)
	return err
}

// Reset deletes all trades and snapshots in one transaction. A failed reset
// leaves both tables untouched.
func (j *SQLite) Reset() error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear trades: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM snapshots`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear snapshots: %w", err)
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
