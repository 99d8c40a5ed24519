package journal

import (
	"sync"
	"time"
)

// Memory is an in-memory Journal for tests and throwaway runs.
type Memory struct {
	mu        sync.Mutex
	trades    []TradeRecord
	snapshots []Snapshot

	// FailNext forces the next mutation to fail, for exercising rollback.
	FailNext error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(t TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) RecordSnapshot(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *Memory) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []TradeRecord
	for _, t := range m.trades {
		if !t.Time.Before(start) && t.Time.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) ListSnapshotsSince(since time.Time) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Snapshot
	for _, s := range m.snapshots {
		if !s.Time.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	m.trades = nil
	m.snapshots = nil
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) takeErr() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}
