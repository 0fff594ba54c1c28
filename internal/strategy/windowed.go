package strategy

import (
	"fmt"

	"sma-bench/internal/market"
)

// Windowed 维护容量为 k 的先进先出窗口与滑动和 RunningSum。
// 每条成本均摊 O(1)，空间 O(k)，任何时刻都不做全量重扫。
type Windowed struct {
	window int
	buffer []float64
	sum    float64
	guard  guard
	ops    uint64
}

// NewWindowed 创建滑动窗口策略。
func NewWindowed(window int) (*Windowed, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	return &Windowed{
		window: window,
		buffer: make([]float64, 0, window+1),
		guard:  newGuard(),
	}, nil
}

// Name 返回带窗口长度的策略标识。
func (s *Windowed) Name() string {
	return fmt.Sprintf("windowed_k%d", s.window)
}

// OnTick 入队新价格并在超窗时减去被驱逐的最旧价格。
// 求和顺序固定为先加新值再减旧值，保证与 Optimized 逐位一致。
func (s *Windowed) OnTick(tick market.Tick) (*Evaluation, error) {
	if err := s.guard.check(tick); err != nil {
		return nil, err
	}

	s.buffer = append(s.buffer, tick.Price)
	s.sum += tick.Price
	s.ops++

	if len(s.buffer) > s.window {
		s.sum -= s.buffer[0]
		s.ops++
		s.buffer = s.buffer[1:]
	}

	if len(s.buffer) < s.window {
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
func (s *Windowed) Ops() uint64 {
	return s.ops
}

// RunningSum 返回当前滑动和，供不变式校验使用。
func (s *Windowed) RunningSum() float64 {
	return s.sum
}

// Window 返回窗口内容的拷贝，从最旧到最新。
func (s *Windowed) Window() []float64 {
	return append([]float64(nil), s.buffer...)
}
