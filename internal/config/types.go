package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// 数据来源类型。
const (
	DatasetSourceCSV       = "csv"
	DatasetSourceExchange  = "exchange"
	DatasetSourceSynthetic = "synthetic"
)

// Config 聚合基准系统运行所需的全部配置项。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Bench    BenchConfig    `mapstructure:"bench"`
	Output   OutputConfig   `mapstructure:"output"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// DatasetConfig 决定行情数据的来源与规模。
type DatasetConfig struct {
	Source    string `mapstructure:"source"`
	Path      string `mapstructure:"path"`
	Symbol    string `mapstructure:"symbol"`
	Timeframe string `mapstructure:"timeframe"`
	Limit     int    `mapstructure:"limit"`
	Seed      int64  `mapstructure:"seed"`
	Ticks     int    `mapstructure:"ticks"`
}

// ExchangeConfig 描述交易所连接信息，仅用于一次性拉取数据集。
type ExchangeConfig struct {
	Name       string      `mapstructure:"name"`
	Market     string      `mapstructure:"market"`
	APIKey     string      `mapstructure:"api_key"`
	APISecret  string      `mapstructure:"api_secret"`
	APIPass    string      `mapstructure:"api_password"`
	UseSandbox bool        `mapstructure:"use_sandbox"`
	Retry      RetryConfig `mapstructure:"retry"`
}

// RetryConfig 统一控制重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// BenchConfig 控制基准网格。
type BenchConfig struct {
	Sizes            []int   `mapstructure:"sizes"`
	WindowSize       int     `mapstructure:"window_size"`
	NaiveWindowRatio float64 `mapstructure:"naive_window_ratio"`
	Parallel         bool    `mapstructure:"parallel"`
	Verify           bool    `mapstructure:"verify"`
}

// OutputConfig 控制结果产物的落盘位置。
type OutputConfig struct {
	ReportPath  string `mapstructure:"report_path"`
	ResultsPath string `mapstructure:"results_path"`
}

// OpenAIConfig 描述可选的模型点评参数。
type OpenAIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}

	switch c.Dataset.Source {
	case DatasetSourceCSV:
		if c.Dataset.Path == "" {
			err = multierr.Append(err, errors.New("dataset.path 在 csv 来源下不能为空"))
		}
	case DatasetSourceExchange:
		if c.Dataset.Path == "" {
			err = multierr.Append(err, errors.New("dataset.path 在 exchange 来源下不能为空"))
		}
		if c.Exchange.Market == "" {
			err = multierr.Append(err, errors.New("exchange.market 不能为空"))
		}
		if c.Dataset.Timeframe == "" {
			err = multierr.Append(err, errors.New("dataset.timeframe 不能为空"))
		}
		if c.Dataset.Limit <= 0 {
			err = multierr.Append(err, errors.New("dataset.limit 必须大于0"))
		}
	case DatasetSourceSynthetic:
		if c.Dataset.Ticks <= 0 {
			err = multierr.Append(err, errors.New("dataset.ticks 必须大于0"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("dataset.source 必须为 csv/exchange/synthetic, got %q", c.Dataset.Source))
	}

	if c.Exchange.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("exchange.retry.max_attempts 必须大于0"))
	}
	if c.Exchange.Retry.MinDelay <= 0 || c.Exchange.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("exchange.retry.delay 必须为正"))
	}
	if c.Exchange.Retry.MinDelay > c.Exchange.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("exchange.retry.min_delay 不能大于 max_delay"))
	}

	if len(c.Bench.Sizes) == 0 {
		err = multierr.Append(err, errors.New("bench.sizes 至少包含一个规模"))
	}
	for _, n := range c.Bench.Sizes {
		if n <= 0 {
			err = multierr.Append(err, fmt.Errorf("bench.sizes 的元素必须大于0, got %d", n))
			break
		}
	}
	if c.Bench.WindowSize < 1 {
		err = multierr.Append(err, errors.New("bench.window_size 必须大于等于1"))
	}
	if c.Bench.NaiveWindowRatio <= 0 || c.Bench.NaiveWindowRatio > 1 {
		err = multierr.Append(err, errors.New("bench.naive_window_ratio 必须位于(0,1]"))
	}

	if c.Output.ReportPath == "" {
		err = multierr.Append(err, errors.New("output.report_path 不能为空"))
	}
	if c.Output.ResultsPath == "" {
		err = multierr.Append(err, errors.New("output.results_path 不能为空"))
	}

	if c.OpenAI.Enabled {
		if c.OpenAI.APIKey == "" {
			err = multierr.Append(err, errors.New("openai.api_key 在启用点评时不能为空"))
		}
		if c.OpenAI.Model == "" {
			err = multierr.Append(err, errors.New("openai.model 不能为空"))
		}
		if c.OpenAI.Timeout <= 0 {
			err = multierr.Append(err, errors.New("openai.timeout 必须大于0"))
		}
	}

	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}

	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
