package strategy

import (
	"math"
	"testing"

	"sma-bench/internal/market"
)

// Windowed 与 Optimized 对任意输入与任意 k 必须产出完全一致的评估序列。
func TestWindowedOptimizedIdentical(t *testing.T) {
	for _, k := range []int{1, 2, 3, 10, 50, 499} {
		windowed, err := NewWindowed(k)
		if err != nil {
			t.Fatalf("k=%d: NewWindowed returned error: %v", k, err)
		}
		optimized, err := NewOptimized(k)
		if err != nil {
			t.Fatalf("k=%d: NewOptimized returned error: %v", k, err)
		}

		for _, tick := range market.GenerateSynthetic(5_000, int64(k)) {
			evalW, errW := windowed.OnTick(tick)
			evalO, errO := optimized.OnTick(tick)
			if errW != nil || errO != nil {
				t.Fatalf("k=%d tick=%d: unexpected errors: %v %v", k, tick.Index, errW, errO)
			}

			if (evalW == nil) != (evalO == nil) {
				t.Fatalf("k=%d tick=%d: eligibility mismatch: windowed=%v optimized=%v", k, tick.Index, evalW, evalO)
			}
			if evalW == nil {
				continue
			}
			if evalW.Index != evalO.Index {
				t.Fatalf("k=%d tick=%d: index mismatch: %d vs %d", k, tick.Index, evalW.Index, evalO.Index)
			}
			if evalW.Average != evalO.Average {
				t.Fatalf("k=%d tick=%d: average mismatch: %v vs %v", k, tick.Index, evalW.Average, evalO.Average)
			}
			if evalW.Signal != evalO.Signal {
				t.Fatalf("k=%d tick=%d: signal mismatch: %s vs %s", k, tick.Index, evalW.Signal, evalO.Signal)
			}
		}
	}
}

// 同一窗口语义下，naive 的全量重算均值与 windowed 的滑动和均值必须一致。
func TestNaiveWindowedAveragesAgree(t *testing.T) {
	for _, k := range []int{1, 5, 37} {
		naive, err := NewNaive(k)
		if err != nil {
			t.Fatalf("k=%d: NewNaive returned error: %v", k, err)
		}
		windowed, err := NewWindowed(k)
		if err != nil {
			t.Fatalf("k=%d: NewWindowed returned error: %v", k, err)
		}

		for _, tick := range market.GenerateSynthetic(2_000, 99) {
			evalN, errN := naive.OnTick(tick)
			evalW, errW := windowed.OnTick(tick)
			if errN != nil || errW != nil {
				t.Fatalf("k=%d tick=%d: unexpected errors: %v %v", k, tick.Index, errN, errW)
			}

			if (evalN == nil) != (evalW == nil) {
				t.Fatalf("k=%d tick=%d: eligibility mismatch", k, tick.Index)
			}
			if evalN == nil {
				continue
			}
			if diff := math.Abs(evalN.Average - evalW.Average); diff > 1e-9 {
				t.Fatalf("k=%d tick=%d: averages diverged by %v", k, tick.Index, diff)
			}
		}
	}
}

func TestChangeFilterEmitsOnlyTransitions(t *testing.T) {
	inner, err := NewWindowed(2)
	if err != nil {
		t.Fatalf("NewWindowed returned error: %v", err)
	}
	filter := NewChangeFilter(inner)

	// k=2: 均值滞后于单调上升序列 → 连续 BUY，仅首个放行；随后下跌切换为 SELL
	prices := []float64{10, 20, 30, 40, 5, 1}
	var signals []Signal
	for _, tick := range makeTicks(prices) {
		eval, err := filter.OnTick(tick)
		if err != nil {
			t.Fatalf("OnTick returned error: %v", err)
		}
		if eval != nil {
			signals = append(signals, eval.Signal)
		}
	}

	want := []Signal{SignalBuy, SignalSell}
	if len(signals) != len(want) {
		t.Fatalf("signals=%v want=%v", signals, want)
	}
	for i := range want {
		if signals[i] != want[i] {
			t.Errorf("signal %d=%s want=%s", i, signals[i], want[i])
		}
	}
}
