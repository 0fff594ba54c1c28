package strategy

import (
	"fmt"

	"sma-bench/internal/market"
)

// Optimized 用定长环形缓冲实现滑动窗口，入/出队均为严格 O(1)，
// 不产生 Windowed 中的切片再分配。对任意输入与任意 k，
// 其评估序列必须与 Windowed 逐位一致，差异仅在实现手法。
type Optimized struct {
	window int
	ring   []float64
	head   int
	count  int
	sum    float64
	guard  guard
	ops    uint64
}

// NewOptimized 创建环形缓冲策略。
func NewOptimized(window int) (*Optimized, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	return &Optimized{
		window: window,
		ring:   make([]float64, window),
		guard:  newGuard(),
	}, nil
}

// Name 返回带窗口长度的策略标识。
func (s *Optimized) Name() string {
	return fmt.Sprintf("optimized_k%d", s.window)
}

// OnTick 覆写环形缓冲中最旧的槽位并增量维护滑动和。
// 与 Windowed 保持相同的求和顺序：先加新值，再减被驱逐的旧值。
func (s *Optimized) OnTick(tick market.Tick) (*Evaluation, error) {
	if err := s.guard.check(tick); err != nil {
		return nil, err
	}

	evicted := s.ring[s.head]
	full := s.count == s.window

	s.sum += tick.Price
	s.ops++
	if full {
		s.sum -= evicted
		s.ops++
	} else {
		s.count++
	}

	s.ring[s.head] = tick.Price
	s.head = (s.head + 1) % s.window

	if s.count < s.window {
		return nil, nil
	}

	avg := s.sum / float64(s.window)
	return &Evaluation{
		Index:   tick.Index,
		Price:   tick.Price,
		Average: avg,
		Signal:  classify(tick.Price, avg),
	}, nil
}

// Ops 返回累计加减次数。
func (s *Optimized) Ops() uint64 {
	return s.ops
}

// RunningSum 返回当前滑动和，供不变式校验使用。
func (s *Optimized) RunningSum() float64 {
	return s.sum
}

// Window 返回窗口内容的拷贝，从最旧到最新。
func (s *Optimized) Window() []float64 {
	out := make([]float64, 0, s.count)
	if s.count < s.window {
		// 未满窗时数据从槽位0连续填充到 head-1
		return append(out, s.ring[:s.count]...)
	}
	out = append(out, s.ring[s.head:]...)
	return append(out, s.ring[:s.head]...)
}
