package calculator

import (
	"strconv"
	"strings"

	"calibreport/internal/model"
)

// RenderBudget 把预算结果渲染为写入报告的文本块
func RenderBudget(result *model.UncertaintyResult) string {
	var sb strings.Builder
	sb.WriteString("计算结果：\n\n")
	if result == nil {
		return sb.String()
	}
	for _, m := range result.Methods {
		if len(m.Tiers) == 0 {
			continue
		}
		sb.WriteString(m.Method.Label())
		sb.WriteString("：\n")
		for _, t := range m.Tiers {
			sb.WriteString("仪器")
			sb.WriteString(string(t.Tier))
			sb.WriteString(" 成本：")
			sb.WriteString(t.Cost.String())
			sb.WriteString("\n不确定度：")
			sb.WriteString(FormatFloat(t.Combined))
			sb.WriteString("\n扩展不确定度：")
			sb.WriteString(FormatFloat(t.Expanded))
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FormatFloat 最短往返表示
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
