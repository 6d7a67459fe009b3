package calculator

import (
	"fmt"

	"calibreport/internal/model"
)

// tierSpec 单个档位的方法常数与成本表
type tierSpec struct {
	tier       model.Tier
	correction float64 // 修正项（平方前）
	base       int64   // 固定成本（两项之和）
	offset     int     // 成本公式中的 x - offset
}

// 方法一：修正项叠加在 A 类 + B 类之上
var methodOneTiers = []tierSpec{
	{tier: model.TierA, correction: 0.03, base: 500 + 500, offset: 17},
	{tier: model.TierB, correction: 0.06, base: 500 + 400, offset: 16},
	{tier: model.TierC, correction: 0.29, base: 500 + 300, offset: 12},
}

// 方法二：修正项直接与 A 类合成
var methodTwoTiers = []tierSpec{
	{tier: model.TierA, correction: 0.14, base: 400 + 400, offset: 17},
	{tier: model.TierB, correction: 0.29, base: 300 + 300, offset: 16},
	{tier: model.TierC, correction: 0.57, base: 200 + 200, offset: 12},
}

// TiersForGrade 等级 → 可选档位：五至七级 A/B/C，四级 A/B，一至三级仅 A
func TiersForGrade(grade model.Grade) ([]model.Tier, error) {
	switch {
	case !grade.Valid():
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidGrade, int(grade))
	case grade >= 5:
		return []model.Tier{model.TierA, model.TierB, model.TierC}, nil
	case grade == 4:
		return []model.Tier{model.TierA, model.TierB}, nil
	default:
		return []model.Tier{model.TierA}, nil
	}
}

// ValidateInput 校验计算输入
func ValidateInput(in model.UncertaintyInput) []string {
	errs := make([]string, 0, 2)
	if in.SampleCount <= 0 {
		errs = append(errs, "测量次数必须为正整数")
	}
	if !in.Grade.Valid() {
		errs = append(errs, "请选择等级")
	}
	return errs
}
