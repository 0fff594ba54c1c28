package bench

import (
	"context"
	"errors"
	"fmt"
	"math"

	talib "github.com/markcheno/go-talib"

	"sma-bench/internal/market"
	"sma-bench/internal/strategy"
)

// driftTolerance 为滑动和允许的最大浮点漂移。
const driftTolerance = 1e-9

var (
	// ErrInvariantViolation 表示均值相对独立重算出现超容差偏差，属于实现缺陷。
	ErrInvariantViolation = errors.New("running sum invariant violation")
)

// Crosscheck 以 talib 的 SMA 为参照独立重算整段均值序列，
// 校验增量维护的滑动和在长序列上没有累计漂移。
func Crosscheck(ctx context.Context, ticks []market.Tick, window int) error {
	if window > len(ticks) {
		return nil
	}

	strat, err := strategy.NewWindowed(window)
	if err != nil {
		return err
	}
	stats, err := Run(ctx, strat, NewSliceTickProvider(ticks))
	if err != nil {
		return err
	}

	prices := make([]float64, len(ticks))
	for i, tick := range ticks {
		prices[i] = tick.Price
	}
	reference := talib.Sma(prices, window)

	for i, eval := range stats.Evaluations {
		refIdx := window - 1 + i
		if refIdx >= len(reference) {
			break
		}
		if math.Abs(eval.Average-reference[refIdx]) > driftTolerance {
			return fmt.Errorf("%w: index=%d got=%.12f want=%.12f",
				ErrInvariantViolation, eval.Index, eval.Average, reference[refIdx])
		}
	}

	return nil
}
