package bench

import (
	"context"
	"testing"

	"sma-bench/internal/market"
	"sma-bench/internal/strategy"
)

func TestCrosscheckPasses(t *testing.T) {
	ticks := market.GenerateSynthetic(10_000, 17)
	for _, k := range []int{1, 10, 200} {
		if err := Crosscheck(context.Background(), ticks, k); err != nil {
			t.Errorf("k=%d: crosscheck failed: %v", k, err)
		}
	}
}

func TestCrosscheckSkipsOversizedWindow(t *testing.T) {
	ticks := market.GenerateSynthetic(10, 5)
	if err := Crosscheck(context.Background(), ticks, 100); err != nil {
		t.Errorf("oversized window should be a no-op, got %v", err)
	}
}

func TestProfileCollectsMeasurements(t *testing.T) {
	ticks := market.GenerateSynthetic(5_000, 9)
	strat, err := strategy.NewWindowed(10)
	if err != nil {
		t.Fatalf("NewWindowed returned error: %v", err)
	}

	row, err := Profile(context.Background(), "windowed_k10", strat, ticks)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}

	if row.Strategy != "windowed_k10" {
		t.Errorf("strategy label=%s want windowed_k10", row.Strategy)
	}
	if row.NTicks != len(ticks) {
		t.Errorf("n_ticks=%d want=%d", row.NTicks, len(ticks))
	}
	if row.Seconds <= 0 {
		t.Errorf("expected positive runtime, got %v", row.Seconds)
	}
	if row.Signals != len(ticks)-9 {
		t.Errorf("signals=%d want=%d", row.Signals, len(ticks)-9)
	}
	if row.PeakMiB <= 0 {
		t.Errorf("expected positive peak heap, got %v", row.PeakMiB)
	}
}
