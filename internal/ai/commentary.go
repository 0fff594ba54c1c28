package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Commentary 表示大模型对基准结果的结构化点评。
type Commentary struct {
	Verdict       string   `json:"verdict"`
	MatchesTheory bool     `json:"matches_theory"`
	Highlights    []string `json:"highlights"`
	Caveat        string   `json:"caveat"`
}

var validVerdicts = map[string]struct{}{
	"CONSISTENT":   {},
	"INCONSISTENT": {},
	"INCONCLUSIVE": {},
}

// Validate 校验点评字段合法性。
func (c Commentary) Validate() error {
	verdict := strings.ToUpper(strings.TrimSpace(c.Verdict))
	if verdict == "" {
		return errors.New("verdict 不能为空")
	}
	if _, ok := validVerdicts[verdict]; !ok {
		return fmt.Errorf("verdict 字段取值非法: %s", c.Verdict)
	}
	if len(c.Highlights) == 0 {
		return errors.New("highlights 至少包含一条")
	}
	for _, h := range c.Highlights {
		if strings.TrimSpace(h) == "" {
			return errors.New("highlights 不能包含空白条目")
		}
	}
	return nil
}

// Markdown 将点评渲染为可直接拼入报告的片段。
func (c Commentary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**结论**: %s（与理论%s）\n\n", strings.ToUpper(strings.TrimSpace(c.Verdict)), matchWord(c.MatchesTheory))
	for _, h := range c.Highlights {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	if strings.TrimSpace(c.Caveat) != "" {
		fmt.Fprintf(&b, "\n> %s\n", c.Caveat)
	}
	return b.String()
}

func matchWord(matches bool) string {
	if matches {
		return "一致"
	}
	return "不一致"
}
