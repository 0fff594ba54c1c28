package exchange

import (
	"time"

	"sma-bench/internal/market"
)

// Candle 代表单根K线。
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// TicksFromCandles 用收盘价构造 tick 序列，Index 按时间顺序分配。
func TicksFromCandles(symbol string, candles []Candle) []market.Tick {
	ticks := make([]market.Tick, 0, len(candles))
	for i, candle := range candles {
		ticks = append(ticks, market.Tick{
			Index:     i,
			Timestamp: candle.Timestamp,
			Symbol:    symbol,
			Price:     candle.Close,
		})
	}
	return ticks
}
