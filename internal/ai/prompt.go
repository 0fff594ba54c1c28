package ai

import (
	"bytes"
	"fmt"
	"text/template"

	"sma-bench/internal/bench"
)

const commentaryTemplate = `
你是一名熟悉算法复杂度分析的量化工程师。下面是三种滑动均值策略在不同输入规模下的基准测量结果，
其中 naive 为全量重算基线（窗口随规模增长），windowed 与 optimized 为固定窗口的增量实现。

基准数据（strategy / n_ticks / seconds / ops / peak_mib / signals）：
{{ range .Rows }}- {{ .Strategy }} / {{ .NTicks }} / {{ printf "%.6f" .Seconds }} / {{ .Ops }} / {{ printf "%.2f" .PeakMiB }} / {{ .Signals }}
{{ end }}
请判断测量结果是否符合理论预期（naive 总量 O(N²)，windowed/optimized 总量 O(N)），并给出简明点评。

请严格输出唯一的 JSON 对象，格式如下：
{
  "verdict": "CONSISTENT|INCONSISTENT|INCONCLUSIVE",   // 测量与理论的总体符合程度
  "matches_theory": true,                                // 布尔值，是否符合理论复杂度
  "highlights": ["..."],                                // 2-4 条关键观察，引用具体数字
  "caveat": "..."                                       // 测量方法上的注意事项，可为空字符串
}

注意事项：
- 只依据给定数据下结论，不要虚构未提供的测量值。
- highlights 中请至少引用一次 ops 计数的增长倍率。
`

var tmpl = template.Must(template.New("commentary").Parse(commentaryTemplate))

// PromptContext 用于渲染提示词。
type PromptContext struct {
	Rows []bench.Row
}

// BuildPrompt 将基准结果渲染成提示词字符串。
func BuildPrompt(rows []bench.Row) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("基准结果为空，无法生成提示词")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PromptContext{Rows: rows}); err != nil {
		return "", fmt.Errorf("渲染提示词失败: %w", err)
	}

	return buf.String(), nil
}
