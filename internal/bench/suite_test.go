package bench

import (
	"context"
	"errors"
	"testing"

	"sma-bench/internal/market"
	"sma-bench/internal/strategy"
)

func testFactories(k int) []Factory {
	return []Factory{
		{Label: "naive", New: func(n int) (strategy.Strategy, error) {
			window := n / 2
			if window < 1 {
				window = 1
			}
			return strategy.NewNaive(window)
		}},
		{Label: "windowed", New: func(int) (strategy.Strategy, error) { return strategy.NewWindowed(k) }},
		{Label: "optimized", New: func(int) (strategy.Strategy, error) { return strategy.NewOptimized(k) }},
	}
}

func TestSuiteProducesFullGrid(t *testing.T) {
	ticks := market.GenerateSynthetic(2_000, 21)
	suite := NewSuite(Options{Sizes: []int{500, 2_000}}, nil)

	rows, err := suite.Run(context.Background(), testFactories(10), ticks)
	if err != nil {
		t.Fatalf("suite run failed: %v", err)
	}

	if len(rows) != 6 {
		t.Fatalf("expected 6 rows (3 strategies x 2 sizes), got %d", len(rows))
	}
	for _, row := range rows {
		if row.Seconds < 0 {
			t.Errorf("row %s/%d: negative runtime %v", row.Strategy, row.NTicks, row.Seconds)
		}
		if row.Signals == 0 {
			t.Errorf("row %s/%d: expected some signals", row.Strategy, row.NTicks)
		}
		if row.Ops == 0 {
			t.Errorf("row %s/%d: expected nonzero ops", row.Strategy, row.NTicks)
		}
		if row.RunAt.IsZero() {
			t.Errorf("row %s/%d: run timestamp not set", row.Strategy, row.NTicks)
		}
	}
}

// 并行与串行必须产出相同的信号与计数，只有耗时会波动。
func TestSuiteParallelMatchesSequential(t *testing.T) {
	ticks := market.GenerateSynthetic(1_000, 33)

	sequential := NewSuite(Options{Sizes: []int{1_000}}, nil)
	seqRows, err := sequential.Run(context.Background(), testFactories(10), ticks)
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}

	parallel := NewSuite(Options{Sizes: []int{1_000}, Parallel: true}, nil)
	parRows, err := parallel.Run(context.Background(), testFactories(10), ticks)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	if len(seqRows) != len(parRows) {
		t.Fatalf("row count mismatch: %d vs %d", len(seqRows), len(parRows))
	}
	for i := range seqRows {
		if seqRows[i].Strategy != parRows[i].Strategy {
			t.Errorf("row %d: strategy order mismatch: %s vs %s", i, seqRows[i].Strategy, parRows[i].Strategy)
		}
		if seqRows[i].Signals != parRows[i].Signals {
			t.Errorf("row %d: signal count mismatch: %d vs %d", i, seqRows[i].Signals, parRows[i].Signals)
		}
		if seqRows[i].Ops != parRows[i].Ops {
			t.Errorf("row %d: ops mismatch: %d vs %d", i, seqRows[i].Ops, parRows[i].Ops)
		}
	}
}

func TestSuiteRejectsEmptyFactories(t *testing.T) {
	suite := NewSuite(Options{Sizes: []int{10}}, nil)
	if _, err := suite.Run(context.Background(), nil, market.GenerateSynthetic(10, 1)); err == nil {
		t.Fatal("expected error for empty factory list")
	}
}

func TestSuitePropagatesInvalidConfig(t *testing.T) {
	broken := []Factory{{Label: "broken", New: func(int) (strategy.Strategy, error) {
		return strategy.NewWindowed(0)
	}}}

	suite := NewSuite(Options{Sizes: []int{10}}, nil)
	_, err := suite.Run(context.Background(), broken, market.GenerateSynthetic(10, 1))
	if !errors.Is(err, strategy.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
