package strategy

import (
	"fmt"

	"sma-bench/internal/market"
)

// Naive 保留全量历史，每条行情都对窗口内价格重新求和。
// 每条成本 O(k)，空间 O(N)；窗口随规模增长时总成本为 O(N²)。
// 全量重算是整套对照实验的基线，不允许在此做增量优化。
type Naive struct {
	window  int
	history []float64
	guard   guard
	ops     uint64
}

// NewNaive 创建朴素基线策略。
func NewNaive(window int) (*Naive, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	return &Naive{window: window, guard: newGuard()}, nil
}

// Name 返回带窗口长度的策略标识。
func (s *Naive) Name() string {
	return fmt.Sprintf("naive_k%d", s.window)
}

// OnTick 追加历史并在满窗后从头累加窗口内价格。
func (s *Naive) OnTick(tick market.Tick) (*Evaluation, error) {
	if err := s.guard.check(tick); err != nil {
		return nil, err
	}

	s.history = append(s.history, tick.Price)
	if len(s.history) < s.window {
		return nil, nil
	}

	sum := 0.0
	for _, price := range s.history[len(s.history)-s.window:] {
		sum += price
		s.ops++
	}
	avg := sum / float64(s.window)

	return &Evaluation{
		Index:   tick.Index,
		Price:   tick.Price,
		Average: avg,
		Signal:  classify(tick.Price, avg),
	}, nil
}

// Ops 返回累计加法次数。
func (s *Naive) Ops() uint64 {
	return s.ops
}

// HistoryLen 返回已保留的历史长度。
func (s *Naive) HistoryLen() int {
	return len(s.history)
}
