package market

import (
	"math/rand"
	"time"
)

const syntheticSymbol = "SYN/USDT"

// GenerateSynthetic 以给定种子生成 n 条随机游走 tick，价格始终为正。
// 同一种子产出完全相同的序列，基准测试因此可复现。
func GenerateSynthetic(n int, seed int64) []Tick {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ticks := make([]Tick, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		// 步长限制在±0.5%以内，避免长序列下溢到非正值
		price *= 1 + (rng.Float64()-0.5)*0.01
		if price < 1e-6 {
			price = 1e-6
		}
		ticks = append(ticks, Tick{
			Index:     i,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Symbol:    syntheticSymbol,
			Price:     price,
		})
	}
	return ticks
}
