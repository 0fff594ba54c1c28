package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"timestamp,symbol,price",
		"2024-01-01 00:00:00,BTC/USDT,42000.5",
		"2024-01-01T00:01:00Z,ETH/USDT,2500",
		"2024-01-01 00:02:00,BTC/USDT,42001",
	}, "\n"))

	ticks, err := LoadCSV(path, "")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if len(ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(ticks))
	}
	if ticks[0].Price != 42000.5 {
		t.Errorf("first price=%v want=42000.5", ticks[0].Price)
	}
	if !ticks[1].Timestamp.Equal(time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)) {
		t.Errorf("ISO-8601 fallback failed: %v", ticks[1].Timestamp)
	}
	for i, tick := range ticks {
		if tick.Index != i {
			t.Errorf("tick %d: index=%d want=%d", i, tick.Index, i)
		}
	}
}

func TestLoadCSVSymbolFilter(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"timestamp,symbol,price",
		"2024-01-01 00:00:00,BTC/USDT,42000",
		"2024-01-01 00:01:00,ETH/USDT,2500",
		"2024-01-01 00:02:00,BTC/USDT,42001",
	}, "\n"))

	ticks, err := LoadCSV(path, "BTC/USDT")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("expected 2 BTC ticks, got %d", len(ticks))
	}
	// 过滤后序号必须重新分配为连续递增
	if ticks[0].Index != 0 || ticks[1].Index != 1 {
		t.Errorf("indexes after filter: %d,%d want 0,1", ticks[0].Index, ticks[1].Index)
	}
}

func TestLoadCSVRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"missing column": "timestamp,price\n2024-01-01 00:00:00,10",
		"bad timestamp":  "timestamp,symbol,price\nnot-a-time,BTC,10",
		"bad price":      "timestamp,symbol,price\n2024-01-01 00:00:00,BTC,abc",
	}
	for name, content := range cases {
		path := writeTempCSV(t, content)
		if _, err := LoadCSV(path, ""); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCSVRejectsInvalidPrice(t *testing.T) {
	path := writeTempCSV(t, "timestamp,symbol,price\n2024-01-01 00:00:00,BTC,-5")
	_, err := LoadCSV(path, "")
	if !errors.Is(err, ErrInvalidTick) {
		t.Fatalf("expected ErrInvalidTick for negative price, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ticks := GenerateSynthetic(100, 8)
	path := filepath.Join(t.TempDir(), "out", "market.csv")

	if err := SaveCSV(path, ticks); err != nil {
		t.Fatalf("SaveCSV returned error: %v", err)
	}
	loaded, err := LoadCSV(path, "")
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}

	if len(loaded) != len(ticks) {
		t.Fatalf("round trip length mismatch: %d vs %d", len(loaded), len(ticks))
	}
	for i := range ticks {
		if loaded[i].Price != ticks[i].Price {
			t.Errorf("tick %d: price mismatch %v vs %v", i, loaded[i].Price, ticks[i].Price)
		}
		if !loaded[i].Timestamp.Equal(ticks[i].Timestamp) {
			t.Errorf("tick %d: timestamp mismatch %v vs %v", i, loaded[i].Timestamp, ticks[i].Timestamp)
		}
	}
}
