package strategy

import (
	"errors"
	"fmt"

	"sma-bench/internal/market"
)

var (
	// ErrInvalidConfig 表示窗口参数不合法，构造阶段即失败。
	ErrInvalidConfig = errors.New("invalid strategy configuration")
	// ErrInvalidInput 表示单条行情不满足入参约束，整轮计算在该条终止。
	ErrInvalidInput = errors.New("invalid strategy input")
)

// Signal 为离散交易信号。
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Evaluation 为满窗后每条行情的评估输出，即 (序号, 均值, 信号) 三元组。
type Evaluation struct {
	Index   int
	Price   float64
	Average float64
	Signal  Signal
}

// Strategy 逐条消费行情并维护自身窗口状态。窗口未满时返回 nil 评估。
// 状态为单实例独占，不支持并发调用 OnTick。
type Strategy interface {
	Name() string
	OnTick(tick market.Tick) (*Evaluation, error)
	// Ops 返回累计执行的基础加减次数，供复杂度验证使用。
	Ops() uint64
}

// classify 按当前价格与均值的比较关系产生信号，相等时输出 HOLD。
func classify(price, avg float64) Signal {
	switch {
	case price > avg:
		return SignalBuy
	case price < avg:
		return SignalSell
	default:
		return SignalHold
	}
}

// guard 校验单条输入并维护序号的严格单调性。
type guard struct {
	lastIndex int
}

func newGuard() guard {
	return guard{lastIndex: -1}
}

func (g *guard) check(tick market.Tick) error {
	if err := tick.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if tick.Index <= g.lastIndex {
		return fmt.Errorf("%w: 序号必须严格递增, got %d after %d", ErrInvalidInput, tick.Index, g.lastIndex)
	}
	g.lastIndex = tick.Index
	return nil
}

func validateWindow(window int) error {
	if window < 1 {
		return fmt.Errorf("%w: 窗口长度必须大于等于1, got %d", ErrInvalidConfig, window)
	}
	return nil
}
