package bench

import (
	"context"

	"sma-bench/internal/market"
)

// TickProvider 按时间顺序提供行情。
type TickProvider interface {
	Next(ctx context.Context) (market.Tick, bool, error)
}

// SliceTickProvider 以固定序列提供行情。
type SliceTickProvider struct {
	ticks []market.Tick
	index int
}

func NewSliceTickProvider(ticks []market.Tick) *SliceTickProvider {
	return &SliceTickProvider{ticks: ticks}
}

func (p *SliceTickProvider) Next(ctx context.Context) (market.Tick, bool, error) {
	if err := ctx.Err(); err != nil {
		return market.Tick{}, false, err
	}
	if p.index >= len(p.ticks) {
		return market.Tick{}, false, nil
	}
	tick := p.ticks[p.index]
	p.index++
	return tick, true, nil
}
