package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"calibreport/internal/model"
)

// DefaultSampleCount 默认测量次数（运行参数，不来自界面输入）
const DefaultSampleCount = 20

// Engine 不确定度预算计算引擎
type Engine struct {
	sampleCount int
}

// NewEngine 创建计算引擎；sampleCount <= 0 时使用默认测量次数
func NewEngine(sampleCount int) *Engine {
	if sampleCount <= 0 {
		sampleCount = DefaultSampleCount
	}
	return &Engine{sampleCount: sampleCount}
}

// SampleCount 当前使用的测量次数
func (e *Engine) SampleCount() int {
	return e.sampleCount
}

// Calculate 以引擎的测量次数计算指定等级的预算
func (e *Engine) Calculate(grade model.Grade) (*model.UncertaintyResult, error) {
	return ComputeBudget(e.sampleCount, grade)
}

// ComputeBudget 计算各方法、各档位的成本、合成不确定度与扩展不确定度
func ComputeBudget(sampleCount int, grade model.Grade) (*model.UncertaintyResult, error) {
	if sampleCount <= 0 {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidSampleCount, sampleCount)
	}
	tiers, err := TiersForGrade(grade)
	if err != nil {
		return nil, err
	}

	typeA := typeAUncertainty(sampleCount)
	typeB := typeBUncertainty(sampleCount)

	result := &model.UncertaintyResult{
		SampleCount: sampleCount,
		Grade:       grade,
		Methods: []model.MethodResult{
			{Method: model.MethodOne},
			{Method: model.MethodTwo},
		},
	}

	for _, spec := range selectTiers(methodOneTiers, tiers) {
		combined := math.Sqrt(typeA + typeB + square(spec.correction))
		result.Methods[0].Tiers = append(result.Methods[0].Tiers, buildTier(spec, sampleCount, combined))
	}
	for _, spec := range selectTiers(methodTwoTiers, tiers) {
		combined := math.Sqrt(typeA + square(spec.correction))
		result.Methods[1].Tiers = append(result.Methods[1].Tiers, buildTier(spec, sampleCount, combined))
	}

	return result, nil
}

// typeAUncertainty A 类分量 (0.1/√x)²
func typeAUncertainty(x int) float64 {
	return square(0.1 / math.Sqrt(float64(x)))
}

// typeBUncertainty B 类分量 (0.17/√x)²
func typeBUncertainty(x int) float64 {
	return square(0.17 / math.Sqrt(float64(x)))
}

// expandedUncertainty 扩展不确定度 2·√u，u 为已开方的合成不确定度（沿用既有口径）
func expandedUncertainty(combined float64) float64 {
	return 2 * math.Sqrt(combined)
}

// tierCost 成本 = 固定成本 + 10·(x - offset)
func tierCost(spec tierSpec, x int) decimal.Decimal {
	return decimal.NewFromInt(spec.base).Add(decimal.NewFromInt(int64(10 * (x - spec.offset))))
}

func buildTier(spec tierSpec, x int, combined float64) model.TierResult {
	return model.TierResult{
		Tier:     spec.tier,
		Cost:     tierCost(spec, x),
		Combined: combined,
		Expanded: expandedUncertainty(combined),
	}
}

func selectTiers(specs []tierSpec, tiers []model.Tier) []tierSpec {
	out := make([]tierSpec, 0, len(tiers))
	for _, spec := range specs {
		for _, t := range tiers {
			if spec.tier == t {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

func square(v float64) float64 {
	return v * v
}
