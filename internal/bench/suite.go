package bench

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sma-bench/internal/market"
	"sma-bench/internal/strategy"
)

// Factory 按数据规模构造全新策略实例，保证每次运行的状态相互独立。
type Factory struct {
	Label string
	New   func(n int) (strategy.Strategy, error)
}

// Options 控制基准网格。
type Options struct {
	Sizes    []int
	Parallel bool
}

func (o *Options) normalize() Options {
	opts := *o
	if len(opts.Sizes) == 0 {
		opts.Sizes = []int{1_000, 10_000, 100_000}
	}
	return opts
}

// Suite 在策略×规模网格上执行基准测量。
type Suite struct {
	opts   Options
	logger *zap.Logger
}

// NewSuite 构建基准套件。
func NewSuite(opts Options, logger *zap.Logger) *Suite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suite{opts: opts.normalize(), logger: logger}
}

// Run 对每个规模切片逐一测量所有策略。开启 Parallel 时同一切片内的
// 各策略并发执行，每个运行实例独占自身状态，无需加锁。
func (s *Suite) Run(ctx context.Context, factories []Factory, ticks []market.Tick) ([]Row, error) {
	if len(factories) == 0 {
		return nil, fmt.Errorf("bench: 策略列表不能为空")
	}

	slices := market.Slices(ticks, s.opts.Sizes)
	rows := make([]Row, 0, len(slices)*len(factories))

	for _, slice := range slices {
		results := make([]Row, len(factories))

		if s.opts.Parallel {
			g, gctx := errgroup.WithContext(ctx)
			for i, factory := range factories {
				g.Go(func() error {
					row, err := s.runOne(gctx, factory, slice)
					if err != nil {
						return err
					}
					results[i] = row
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else {
			for i, factory := range factories {
				row, err := s.runOne(ctx, factory, slice)
				if err != nil {
					return nil, err
				}
				results[i] = row
			}
		}

		rows = append(rows, results...)
	}

	return rows, nil
}

func (s *Suite) runOne(ctx context.Context, factory Factory, slice market.Slice) (Row, error) {
	strat, err := factory.New(slice.N)
	if err != nil {
		return Row{}, fmt.Errorf("构造策略 %s 失败: %w", factory.Label, err)
	}

	row, err := Profile(ctx, factory.Label, strat, slice.Ticks)
	if err != nil {
		return Row{}, fmt.Errorf("策略 %s 在 N=%d 运行失败: %w", factory.Label, slice.N, err)
	}

	s.logger.Info("基准运行完成",
		zap.String("strategy", row.Strategy),
		zap.Int("n_ticks", row.NTicks),
		zap.Float64("seconds", row.Seconds),
		zap.Int("signals", row.Signals),
		zap.Uint64("ops", row.Ops),
		zap.Float64("peak_mib", row.PeakMiB),
	)

	return row, nil
}
