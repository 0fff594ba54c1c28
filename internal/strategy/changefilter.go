package strategy

import "sma-bench/internal/market"

// ChangeFilter 包装任意策略，仅放行信号发生切换的评估结果，
// 用于压缩连续同向信号的日志输出。
type ChangeFilter struct {
	inner Strategy
	last  Signal
	seen  bool
}

// NewChangeFilter 包装给定策略。
func NewChangeFilter(inner Strategy) *ChangeFilter {
	return &ChangeFilter{inner: inner}
}

// Name 返回带后缀的内层策略标识。
func (f *ChangeFilter) Name() string {
	return f.inner.Name() + "_changes"
}

// OnTick 透传给内层策略，并吞掉与上一条相同的信号。
func (f *ChangeFilter) OnTick(tick market.Tick) (*Evaluation, error) {
	eval, err := f.inner.OnTick(tick)
	if err != nil || eval == nil {
		return nil, err
	}
	if f.seen && eval.Signal == f.last {
		return nil, nil
	}
	f.seen = true
	f.last = eval.Signal
	return eval, nil
}

// Ops 返回内层策略的计数。
func (f *ChangeFilter) Ops() uint64 {
	return f.inner.Ops()
}
