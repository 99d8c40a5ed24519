package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/papertradehq/papertrade/internal/id"
	"github.com/papertradehq/papertrade/journal"
	"github.com/papertradehq/papertrade/market"
)

const defaultPriceTimeout = 5 * time.Second

// Engine is the paper-trading accounting engine for a single symbol. All
// mutations (trade application, snapshot sampling, reset) are serialized
// through one mutex; price lookups happen outside the lock under a bounded
// timeout so a slow feed never stalls a writer.
type Engine struct {
	symbol  string
	source  market.PriceSource
	journal journal.Journal
	log     *zap.Logger

	priceTimeout time.Duration
	now          func() time.Time

	mu     sync.Mutex
	acct   Account
	pos    Position
	ledger []Trade
	stats  tradeStats
	last   *Performance
}

// New creates an engine with the given starting balance. The journal must
// already reflect any trades passed to Restore.
func New(symbol string, startingBalance decimal.Decimal, src market.PriceSource, j journal.Journal, log *zap.Logger) *Engine {
	e := &Engine{
		symbol:       symbol,
		source:       src,
		journal:      j,
		log:          log,
		priceTimeout: defaultPriceTimeout,
		now:          time.Now,
	}
	e.acct = NewAccount(startingBalance)
	return e
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// SetPriceTimeout bounds how long a single price lookup may take.
func (e *Engine) SetPriceTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.priceTimeout = d
}

// Symbol returns the instrument this engine tracks.
func (e *Engine) Symbol() string { return e.symbol }

// Buy applies a simulated buy of quantity at the current quoted price.
func (e *Engine) Buy(ctx context.Context, quantity decimal.Decimal) (Trade, error) {
	return e.execute(ctx, SideBuy, quantity)
}

// Sell applies a simulated sell of quantity at the current quoted price.
func (e *Engine) Sell(ctx context.Context, quantity decimal.Decimal) (Trade, error) {
	return e.execute(ctx, SideSell, quantity)
}

func (e *Engine) execute(ctx context.Context, side Side, quantity decimal.Decimal) (Trade, error) {
	price, err := e.fetchPrice(ctx)
	if err != nil {
		return Trade{}, err
	}
	return e.Apply(Trade{
		Side:     side,
		Quantity: quantity,
		Price:    price,
	})
}

// Apply validates and appends a trade at an explicit price. On success the
// returned trade carries its assigned ID, timestamp, cost basis, and (for
// sells) win classification. On any error no state changes.
func (e *Engine) Apply(t Trade) (Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t.ID == "" {
		t.ID = id.New()
	}
	if t.Time.IsZero() {
		t.Time = e.now()
	}

	if err := e.validateLocked(t); err != nil {
		return Trade{}, err
	}

	t.CostBasis = e.pos.AvgBuyPrice
	if t.Side == SideSell {
		t.Winning = t.Price.GreaterThan(t.CostBasis)
	}

	// Journal first: a persistence failure leaves the in-memory state
	// untouched, so writes fail closed.
	if err := e.journal.RecordTrade(journal.TradeRecord{
		TradeID:   t.ID,
		Symbol:    e.symbol,
		Side:      string(t.Side),
		Quantity:  t.Quantity,
		Price:     t.Price,
		CostBasis: t.CostBasis,
		Winning:   t.Winning,
		Time:      t.Time,
	}); err != nil {
		return Trade{}, fmt.Errorf("journal trade: %w", err)
	}

	e.mutateLocked(t)

	e.log.Info("trade applied",
		zap.String("trade_id", t.ID),
		zap.String("side", string(t.Side)),
		zap.String("quantity", t.Quantity.String()),
		zap.String("price", t.Price.String()),
		zap.String("quantity_held", e.pos.QuantityHeld.String()),
		zap.String("cash_balance", e.acct.CashBalance.String()),
	)
	return t, nil
}

func (e *Engine) validateLocked(t Trade) error {
	if !t.Side.Valid() {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidTrade, t.Side)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidTrade, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrInvalidTrade, t.Price)
	}

	switch t.Side {
	case SideBuy:
		cost := t.Price.Mul(t.Quantity)
		if cost.GreaterThan(e.acct.CashBalance) {
			return fmt.Errorf("%w: buy cost %s exceeds cash balance %s",
				ErrInvalidTrade, cost, e.acct.CashBalance)
		}
	case SideSell:
		if t.Quantity.GreaterThan(e.pos.QuantityHeld) {
			return fmt.Errorf("%w: sell quantity %s exceeds quantity held %s",
				ErrInvalidTrade, t.Quantity, e.pos.QuantityHeld)
		}
	}
	return nil
}

// mutateLocked applies a validated trade to account, position, counters, and
// ledger. Realized P/L is attributed here, once, against the basis in effect
// at the time of sale.
func (e *Engine) mutateLocked(t Trade) {
	switch t.Side {
	case SideBuy:
		e.acct.CashBalance = e.acct.CashBalance.Sub(t.Price.Mul(t.Quantity))
		e.pos.applyBuy(t.Quantity, t.Price)
	case SideSell:
		proceeds := t.Price.Mul(t.Quantity)
		e.acct.CashBalance = e.acct.CashBalance.Add(proceeds)
		e.acct.RealizedPL = e.acct.RealizedPL.Add(t.Price.Sub(t.CostBasis).Mul(t.Quantity))
		e.pos.applySell(t.Quantity)
		e.stats.sells++
		if t.Winning {
			e.stats.winning++
		}
	}
	e.stats.total++
	e.ledger = append(e.ledger, t)
}

// Restore replays previously journaled trades into a fresh engine, without
// re-journaling them. Basis and win classification are recomputed and must
// match what was recorded; a mismatch means the journal is corrupt.
func (e *Engine) Restore(recs []journal.TradeRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range recs {
		t := Trade{
			ID:       r.TradeID,
			Side:     Side(r.Side),
			Quantity: r.Quantity,
			Price:    r.Price,
			Time:     r.Time,
		}
		if err := e.validateLocked(t); err != nil {
			return fmt.Errorf("restore trade %s: %w", r.TradeID, err)
		}
		t.CostBasis = e.pos.AvgBuyPrice
		if t.Side == SideSell {
			t.Winning = t.Price.GreaterThan(t.CostBasis)
		}
		e.mutateLocked(t)
	}
	return nil
}

// Trades returns ledger entries in insertion order, optionally bounded by
// [from, to). Zero bounds are open.
func (e *Engine) Trades(from, to time.Time) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Trade, 0, len(e.ledger))
	for _, t := range e.ledger {
		if !from.IsZero() && t.Time.Before(from) {
			continue
		}
		if !to.IsZero() && !t.Time.Before(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Performance computes the current performance record against a live quote.
// On a feed failure the last successful reading is returned with Stale set;
// only when no reading has ever succeeded does it fail with
// ErrPriceUnavailable.
func (e *Engine) Performance(ctx context.Context) (Performance, error) {
	price, err := e.fetchPrice(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		if e.last != nil {
			p := *e.last
			p.Stale = true
			return p, nil
		}
		return Performance{}, err
	}

	p := computePerformance(e.acct, e.pos, e.stats, price, e.now())
	e.last = &p
	return p, nil
}

// Snapshots returns journaled performance snapshots within the trailing
// window of the given number of days, oldest first.
func (e *Engine) Snapshots(days int) ([]journal.Snapshot, error) {
	if days <= 0 {
		days = 7
	}

	e.mu.Lock()
	since := e.now().Add(-time.Duration(days) * 24 * time.Hour)
	e.mu.Unlock()

	return e.journal.ListSnapshotsSince(since)
}

// Sample takes one performance reading and appends it to the snapshot
// journal. It shares the engine exclusion with trade application and reset,
// so a sample never observes a partial update.
func (e *Engine) Sample(ctx context.Context) error {
	price, err := e.fetchPrice(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := computePerformance(e.acct, e.pos, e.stats, price, e.now())
	e.last = &p

	if err := e.journal.RecordSnapshot(journal.Snapshot{
		Time:            p.Time,
		StartingBalance: p.StartingBalance,
		CurrentBalance:  p.CurrentBalance,
		QuantityHeld:    p.QuantityHeld,
		AvgBuyPrice:     p.AvgBuyPrice,
		CurrentPrice:    p.CurrentPrice,
		RealizedPL:      p.RealizedPL,
		UnrealizedPL:    p.UnrealizedPL,
		TotalPL:         p.TotalPL,
		PLPercent:       p.PLPercent,
		TotalTrades:     p.TotalTrades,
		WinningTrades:   p.WinningTrades,
		SellTrades:      p.SellTrades,
		WinRate:         p.WinRate,
	}); err != nil {
		return fmt.Errorf("journal snapshot: %w", err)
	}
	return nil
}

// Reset atomically clears the ledger and snapshot store and reinitializes
// the account with newStartingBalance. It queues behind any in-flight apply
// or sample; on a journal failure the in-memory state is left untouched.
func (e *Engine) Reset(newStartingBalance decimal.Decimal) error {
	if newStartingBalance.IsNegative() {
		return fmt.Errorf("%w: starting balance must not be negative", ErrInvalidTrade)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.journal.Reset(); err != nil {
		return fmt.Errorf("reset journal: %w", err)
	}

	e.acct = NewAccount(newStartingBalance)
	e.pos = Position{}
	e.ledger = nil
	e.stats = tradeStats{}
	e.last = nil

	e.log.Info("paper trading reset",
		zap.String("starting_balance", newStartingBalance.String()))
	return nil
}

func (e *Engine) fetchPrice(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, e.priceTimeout)
	defer cancel()

	price, err := e.source.CurrentPrice(ctx, e.symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote %s", ErrPriceUnavailable, price)
	}
	return price, nil
}
