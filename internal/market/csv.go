package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// LoadCSV 将整个数据文件读入内存，列组成必须为 timestamp,symbol,price。
// symbolFilter 非空时仅保留对应标的，Index 按保留顺序重新分配。
func LoadCSV(path string, symbolFilter string) ([]Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开数据文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("数据文件 %q 为空", path)
	}

	cols, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	ticks := make([]Tick, 0, len(records)-1)
	for i, record := range records[1:] {
		symbol := record[cols.symbol]
		if symbolFilter != "" && symbol != symbolFilter {
			continue
		}

		ts, err := parseTimestamp(record[cols.timestamp])
		if err != nil {
			return nil, fmt.Errorf("第%d行时间戳非法: %w", i+2, err)
		}
		price, err := strconv.ParseFloat(record[cols.price], 64)
		if err != nil {
			return nil, fmt.Errorf("第%d行价格非法: %w", i+2, err)
		}

		tick := Tick{
			Index:     len(ticks),
			Timestamp: ts,
			Symbol:    symbol,
			Price:     price,
		}
		if err := tick.Validate(); err != nil {
			return nil, err
		}

		ticks = append(ticks, tick)
	}

	return ticks, nil
}

// SaveCSV 将 tick 序列写为标准数据文件，便于后续复用同一份数据集。
func SaveCSV(path string, ticks []Tick) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建数据文件失败: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"timestamp", "symbol", "price"}); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	for _, tick := range ticks {
		record := []string{
			tick.Timestamp.UTC().Format(timestampLayout),
			tick.Symbol,
			strconv.FormatFloat(tick.Price, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写入数据行失败: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("落盘数据文件失败: %w", err)
	}
	return nil
}

type columnIndex struct {
	timestamp int
	symbol    int
	price     int
}

func resolveColumns(header []string) (columnIndex, error) {
	cols := columnIndex{timestamp: -1, symbol: -1, price: -1}
	for i, name := range header {
		switch name {
		case "timestamp":
			cols.timestamp = i
		case "symbol":
			cols.symbol = i
		case "price":
			cols.price = i
		}
	}
	if cols.timestamp == -1 || cols.symbol == -1 || cols.price == -1 {
		return columnIndex{}, fmt.Errorf("CSV表头必须包含 timestamp/symbol/price, got %v", header)
	}
	return cols, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	// 快速路径：标准 'YYYY-MM-DD HH:MM:SS'
	if ts, err := time.Parse(timestampLayout, raw); err == nil {
		return ts, nil
	}
	// 兜底：ISO-8601 变体
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法识别的时间戳格式 %q", raw)
	}
	return ts, nil
}
