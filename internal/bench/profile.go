package bench

import (
	"context"
	"runtime"
	"sync"
	"time"

	"sma-bench/internal/market"
	"sma-bench/internal/strategy"
)

// Row 为单次基准运行的度量结果。
type Row struct {
	Strategy string
	NTicks   int
	Seconds  float64
	Signals  int
	Ops      uint64
	PeakMiB  float64
	RunAt    time.Time
}

// Profile 运行一次策略，测量墙钟耗时并采样峰值堆内存。
// 内存采样由独立协程完成，核心计算本身保持单线程同步。
func Profile(ctx context.Context, label string, strat strategy.Strategy, ticks []market.Tick) (Row, error) {
	runtime.GC()

	sampler := newHeapSampler(5 * time.Millisecond)
	sampler.start()

	start := time.Now()
	stats, runErr := Run(ctx, strat, NewSliceTickProvider(ticks))
	elapsed := time.Since(start)

	peak := sampler.stop()
	if runErr != nil {
		return Row{}, runErr
	}

	return Row{
		Strategy: label,
		NTicks:   len(ticks),
		Seconds:  elapsed.Seconds(),
		Signals:  stats.Signals,
		Ops:      stats.Ops,
		PeakMiB:  float64(peak) / (1 << 20),
		RunAt:    start.UTC(),
	}, nil
}

// heapSampler 周期性读取 runtime.ReadMemStats 并记录 HeapAlloc 峰值。
type heapSampler struct {
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	peak     uint64
}

func newHeapSampler(interval time.Duration) *heapSampler {
	if interval <= 0 {
		interval = 5 * time.Millisecond
	}
	return &heapSampler{
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *heapSampler) start() {
	s.sample()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.sample()
			}
		}
	}()
}

func (s *heapSampler) stop() uint64 {
	close(s.done)
	s.wg.Wait()
	s.sample()
	return s.peak
}

func (s *heapSampler) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if stats.HeapAlloc > s.peak {
		s.peak = stats.HeapAlloc
	}
}
