package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidTick 表示行情数据不满足边界约束。
	ErrInvalidTick = errors.New("invalid market tick")
)

// Tick 代表一条不可变的行情观测，Index 由数据源按严格递增顺序分配。
type Tick struct {
	Index     int
	Timestamp time.Time
	Symbol    string
	Price     float64
}

// Validate 校验价格必须为正的有限数值。
func (t Tick) Validate() error {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return fmt.Errorf("%w: 第%d条价格不是有限数值", ErrInvalidTick, t.Index)
	}
	if t.Price <= 0 {
		return fmt.Errorf("%w: 第%d条价格必须为正, got %v", ErrInvalidTick, t.Index, t.Price)
	}
	return nil
}

// Slice 为一次基准测试使用的数据切片。
type Slice struct {
	N     int
	Ticks []Tick
}

// Slices 依照 sizes 生成 (n, 前缀) 切片序列，数据不足时取全部。
func Slices(ticks []Tick, sizes []int) []Slice {
	out := make([]Slice, 0, len(sizes))
	for _, n := range sizes {
		limit := n
		if limit > len(ticks) {
			limit = len(ticks)
		}
		out = append(out, Slice{N: n, Ticks: ticks[:limit]})
	}
	return out
}
