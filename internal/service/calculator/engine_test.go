package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calibreport/internal/model"
)

// TestComputeBudgetTierPolicy 测试等级 → 档位数量
func TestComputeBudgetTierPolicy(t *testing.T) {
	tests := []struct {
		name  string
		grade model.Grade
		tiers []model.Tier
	}{
		{"一级", 1, []model.Tier{model.TierA}},
		{"二级", 2, []model.Tier{model.TierA}},
		{"三级", 3, []model.Tier{model.TierA}},
		{"四级", 4, []model.Tier{model.TierA, model.TierB}},
		{"五级", 5, []model.Tier{model.TierA, model.TierB, model.TierC}},
		{"六级", 6, []model.Tier{model.TierA, model.TierB, model.TierC}},
		{"七级", 7, []model.Tier{model.TierA, model.TierB, model.TierC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeBudget(20, tt.grade)
			require.NoError(t, err)
			require.Len(t, result.Methods, 2)
			assert.Equal(t, model.MethodOne, result.Methods[0].Method)
			assert.Equal(t, model.MethodTwo, result.Methods[1].Method)
			for _, m := range result.Methods {
				got := make([]model.Tier, 0, len(m.Tiers))
				for _, tr := range m.Tiers {
					got = append(got, tr.Tier)
				}
				assert.Equal(t, tt.tiers, got, "method %s", m.Method.Label())
			}
		})
	}
}

// TestExpandedIsTwiceSqrtCombined 扩展不确定度 = 2·√合成不确定度（对已开方的值再次开方，保留既有口径）
func TestExpandedIsTwiceSqrtCombined(t *testing.T) {
	for _, x := range []int{1, 5, 20, 100} {
		for g := model.GradeMin; g <= model.GradeMax; g++ {
			result, err := ComputeBudget(x, g)
			require.NoError(t, err)
			for _, m := range result.Methods {
				for _, tr := range m.Tiers {
					assert.GreaterOrEqual(t, tr.Combined, 0.0)
					assert.InDelta(t, 2*math.Sqrt(tr.Combined), tr.Expanded, 1e-12)
					// 注意：不是常见的 k·u（2·u），两者在 u ≠ 1 时不相等
					assert.NotEqual(t, 2*tr.Combined, tr.Expanded)
				}
			}
		}
	}
}

// TestCombinedUncertaintyFormulas 测试合成不确定度公式
func TestCombinedUncertaintyFormulas(t *testing.T) {
	x := 20.0
	typeA := math.Pow(0.1/math.Sqrt(x), 2)
	typeB := math.Pow(0.17/math.Sqrt(x), 2)

	result, err := ComputeBudget(20, 7)
	require.NoError(t, err)

	one := []float64{0.03, 0.06, 0.29}
	for i, c := range one {
		want := math.Sqrt(typeA + typeB + c*c)
		assert.InDelta(t, want, result.Methods[0].Tiers[i].Combined, 1e-15)
	}
	two := []float64{0.14, 0.29, 0.57}
	for i, c := range two {
		want := math.Sqrt(typeA + c*c)
		assert.InDelta(t, want, result.Methods[1].Tiers[i].Combined, 1e-15)
	}
}

// TestCostSchedule 测试成本表
func TestCostSchedule(t *testing.T) {
	result, err := ComputeBudget(20, 7)
	require.NoError(t, err)

	wantOne := []string{"1030", "940", "880"}
	wantTwo := []string{"830", "640", "480"}
	for i, tr := range result.Methods[0].Tiers {
		assert.Equal(t, wantOne[i], tr.Cost.String(), "方法一 仪器%s", tr.Tier)
	}
	for i, tr := range result.Methods[1].Tiers {
		assert.Equal(t, wantTwo[i], tr.Cost.String(), "方法二 仪器%s", tr.Tier)
	}

	// 测量次数少于偏移量时成本可以低于固定成本
	small, err := ComputeBudget(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "850", small.Methods[0].Tiers[0].Cost.String())
}

// TestComputeBudgetInvalidInput 测试非法输入
func TestComputeBudgetInvalidInput(t *testing.T) {
	_, err := ComputeBudget(0, 7)
	if !errors.Is(err, model.ErrInvalidSampleCount) {
		t.Fatalf("expected ErrInvalidSampleCount, got %v", err)
	}
	_, err = ComputeBudget(-3, 7)
	if !errors.Is(err, model.ErrInvalidSampleCount) {
		t.Fatalf("expected ErrInvalidSampleCount, got %v", err)
	}
	for _, g := range []model.Grade{0, 8, -1} {
		_, err = ComputeBudget(20, g)
		if !errors.Is(err, model.ErrInvalidGrade) {
			t.Fatalf("grade %d: expected ErrInvalidGrade, got %v", g, err)
		}
	}
}

func TestEngineDefaultSampleCount(t *testing.T) {
	engine := NewEngine(0)
	if engine.SampleCount() != DefaultSampleCount {
		t.Fatalf("SampleCount=%d, want %d", engine.SampleCount(), DefaultSampleCount)
	}

	result, err := engine.Calculate(4)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleCount, result.SampleCount)
	assert.Equal(t, model.Grade(4), result.Grade)
}
