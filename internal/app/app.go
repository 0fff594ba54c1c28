package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"sma-bench/internal/ai"
	"sma-bench/internal/bench"
	"sma-bench/internal/config"
	"sma-bench/internal/exchange"
	"sma-bench/internal/market"
	"sma-bench/internal/report"
	"sma-bench/internal/store"
	"sma-bench/internal/strategy"
)

// App 聚合核心依赖并驱动一次完整的基准流程：
// 数据集准备 → 基准网格 → 交叉校验 → 结果落盘 → 报告生成。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 执行一次性的完整基准流程后退出。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("基准系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("dataset_source", a.cfg.Dataset.Source),
		zap.Ints("sizes", a.cfg.Bench.Sizes),
		zap.Int("window_size", a.cfg.Bench.WindowSize),
	)

	ticks, err := a.resolveDataset(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("数据集就绪", zap.Int("ticks", len(ticks)))

	suite := bench.NewSuite(bench.Options{
		Sizes:    a.cfg.Bench.Sizes,
		Parallel: a.cfg.Bench.Parallel,
	}, a.logger)

	rows, err := suite.Run(ctx, a.factories(), ticks)
	if err != nil {
		return err
	}

	if a.cfg.Bench.Verify {
		if err := a.crosscheck(ctx, ticks); err != nil {
			return err
		}
		a.logger.Info("均值交叉校验通过", zap.Int("window", a.cfg.Bench.WindowSize))
	}

	if err := a.store.SaveRows(ctx, rows); err != nil {
		return err
	}

	commentary := ""
	if a.cfg.OpenAI.Enabled {
		text, err := a.generateCommentary(ctx, rows)
		if err != nil {
			// 点评是锦上添花，失败不阻断报告产出
			a.logger.Warn("生成模型点评失败", zap.Error(err))
		} else {
			commentary = text
		}
	}

	if err := report.WriteMarkdown(a.cfg.Output.ReportPath, rows, commentary); err != nil {
		return err
	}
	if err := report.WriteCSV(a.cfg.Output.ResultsPath, rows); err != nil {
		return err
	}
	a.logger.Info("报告已生成",
		zap.String("report", a.cfg.Output.ReportPath),
		zap.String("results", a.cfg.Output.ResultsPath),
	)

	a.logSignalChanges(ticks)
	return nil
}

// resolveDataset 按配置加载、拉取或生成行情数据。
func (a *App) resolveDataset(ctx context.Context) ([]market.Tick, error) {
	cfg := a.cfg.Dataset

	switch cfg.Source {
	case config.DatasetSourceCSV:
		return market.LoadCSV(cfg.Path, cfg.Symbol)

	case config.DatasetSourceSynthetic:
		return market.GenerateSynthetic(cfg.Ticks, cfg.Seed), nil

	case config.DatasetSourceExchange:
		if _, err := os.Stat(cfg.Path); err == nil {
			a.logger.Info("复用已存在的数据集文件", zap.String("path", cfg.Path))
			return market.LoadCSV(cfg.Path, cfg.Symbol)
		}

		client, err := exchange.NewClient(a.cfg.Exchange, a.logger)
		if err != nil {
			return nil, err
		}
		candles, err := client.FetchCandles(ctx, cfg.Timeframe, int64(cfg.Limit))
		if err != nil {
			return nil, fmt.Errorf("拉取K线数据失败: %w", err)
		}
		ticks := exchange.TicksFromCandles(client.Symbol(), candles)
		if err := market.SaveCSV(cfg.Path, ticks); err != nil {
			return nil, err
		}
		a.logger.Info("数据集已拉取并落盘",
			zap.String("path", cfg.Path),
			zap.Int("ticks", len(ticks)),
		)
		return ticks, nil

	default:
		return nil, fmt.Errorf("未知的数据来源: %q", cfg.Source)
	}
}

// factories 构造基准网格使用的策略工厂。
// naive 基线的窗口随数据规模按比例增长，以呈现 O(N²) 的对照曲线；
// windowed/optimized 使用固定窗口。
func (a *App) factories() []bench.Factory {
	k := a.cfg.Bench.WindowSize
	ratio := a.cfg.Bench.NaiveWindowRatio

	return []bench.Factory{
		{
			Label: "naive",
			New: func(n int) (strategy.Strategy, error) {
				window := int(float64(n) * ratio)
				if window < 1 {
					window = 1
				}
				return strategy.NewNaive(window)
			},
		},
		{
			Label: fmt.Sprintf("windowed_k%d", k),
			New: func(int) (strategy.Strategy, error) {
				return strategy.NewWindowed(k)
			},
		},
		{
			Label: fmt.Sprintf("optimized_k%d", k),
			New: func(int) (strategy.Strategy, error) {
				return strategy.NewOptimized(k)
			},
		},
	}
}

func (a *App) crosscheck(ctx context.Context, ticks []market.Tick) error {
	maxN := 0
	for _, n := range a.cfg.Bench.Sizes {
		if n > maxN {
			maxN = n
		}
	}
	if maxN > len(ticks) {
		maxN = len(ticks)
	}
	return bench.Crosscheck(ctx, ticks[:maxN], a.cfg.Bench.WindowSize)
}

func (a *App) generateCommentary(ctx context.Context, rows []bench.Row) (string, error) {
	client, err := ai.NewClient(a.cfg.OpenAI, a.logger)
	if err != nil {
		return "", err
	}
	commentary, err := client.GenerateCommentary(ctx, rows)
	if err != nil {
		return "", err
	}
	return commentary.Markdown(), nil
}

// logSignalChanges 用信号切换过滤器重放数据集开头，输出一段可读的信号样例。
func (a *App) logSignalChanges(ticks []market.Tick) {
	const sampleLimit = 1_000

	inner, err := strategy.NewWindowed(a.cfg.Bench.WindowSize)
	if err != nil {
		return
	}
	filter := strategy.NewChangeFilter(inner)

	limit := sampleLimit
	if limit > len(ticks) {
		limit = len(ticks)
	}

	changes := 0
	for _, tick := range ticks[:limit] {
		eval, err := filter.OnTick(tick)
		if err != nil {
			a.logger.Warn("信号样例重放中断", zap.Error(err))
			return
		}
		if eval == nil {
			continue
		}
		changes++
		a.logger.Debug("信号切换",
			zap.Int("index", eval.Index),
			zap.Float64("price", eval.Price),
			zap.Float64("average", eval.Average),
			zap.String("signal", string(eval.Signal)),
		)
	}

	a.logger.Info("信号样例重放完成",
		zap.Int("ticks", limit),
		zap.Int("signal_changes", changes),
	)
}
