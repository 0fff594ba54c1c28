package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "app:\n  environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Environment != "test" {
		t.Errorf("environment=%q want=test", cfg.App.Environment)
	}
	if cfg.Dataset.Source != DatasetSourceSynthetic {
		t.Errorf("default dataset source=%q want=synthetic", cfg.Dataset.Source)
	}
	if len(cfg.Bench.Sizes) != 3 || cfg.Bench.Sizes[2] != 100_000 {
		t.Errorf("default bench sizes=%v", cfg.Bench.Sizes)
	}
	if cfg.Bench.WindowSize != 10 {
		t.Errorf("default window size=%d want=10", cfg.Bench.WindowSize)
	}
	if cfg.Bench.NaiveWindowRatio != 0.5 {
		t.Errorf("default naive window ratio=%v want=0.5", cfg.Bench.NaiveWindowRatio)
	}
	if cfg.OpenAI.Enabled {
		t.Error("openai should be disabled by default")
	}
	if cfg.Exchange.Retry.MinDelay != 500*time.Millisecond {
		t.Errorf("retry min delay=%v want=500ms", cfg.Exchange.Retry.MinDelay)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
dataset:
  source: csv
  path: data/btc.csv
  symbol: BTC/USDT
bench:
  sizes: [500, 5000]
  window_size: 20
  parallel: true
database:
  in_memory: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Dataset.Source != DatasetSourceCSV || cfg.Dataset.Path != "data/btc.csv" {
		t.Errorf("dataset override failed: %+v", cfg.Dataset)
	}
	if len(cfg.Bench.Sizes) != 2 || cfg.Bench.Sizes[0] != 500 {
		t.Errorf("bench sizes override failed: %v", cfg.Bench.Sizes)
	}
	if cfg.Bench.WindowSize != 20 || !cfg.Bench.Parallel {
		t.Errorf("bench override failed: %+v", cfg.Bench)
	}
	if !cfg.Database.InMemory {
		t.Error("database.in_memory override failed")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown source": "dataset:\n  source: ftp\n",
		"zero window":    "bench:\n  window_size: 0\n",
		"bad ratio":      "bench:\n  naive_window_ratio: 1.5\n",
		"negative size":  "bench:\n  sizes: [-1]\n",
		"openai no key":  "openai:\n  enabled: true\n  api_key: \"\"\n",
	}
	for name, content := range cases {
		path := writeTempConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("zero config should fail validation")
	}
	msg := err.Error()
	for _, want := range []string{"app.environment", "dataset.source", "bench.sizes", "logging.level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error missing %q: %s", want, msg)
		}
	}
}
