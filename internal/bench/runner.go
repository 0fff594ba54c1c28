package bench

import (
	"context"

	"sma-bench/internal/strategy"
)

// RunStats 汇总一次完整运行的输出。
type RunStats struct {
	Evaluations []strategy.Evaluation
	Signals     int
	Ops         uint64
}

// Run 驱动策略顺序消费完整行情序列。遇到非法输入立即终止，
// 返回出错前已产出的评估结果与错误本身，先前的信号保持有效。
func Run(ctx context.Context, strat strategy.Strategy, provider TickProvider) (RunStats, error) {
	var stats RunStats

	for {
		tick, ok, err := provider.Next(ctx)
		if err != nil {
			stats.Ops = strat.Ops()
			return stats, err
		}
		if !ok {
			break
		}

		eval, err := strat.OnTick(tick)
		if err != nil {
			stats.Ops = strat.Ops()
			return stats, err
		}
		if eval != nil {
			stats.Evaluations = append(stats.Evaluations, *eval)
			stats.Signals++
		}
	}

	stats.Ops = strat.Ops()
	return stats, nil
}
