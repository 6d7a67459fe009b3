package model

import "github.com/shopspring/decimal"

// Tier 仪器成本档位
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Method 计算方法
type Method int

const (
	MethodOne Method = iota + 1
	MethodTwo
)

// Label 方法标题
func (m Method) Label() string {
	switch m {
	case MethodOne:
		return "方法一"
	case MethodTwo:
		return "方法二"
	default:
		return "未知方法"
	}
}

// UncertaintyInput 计算输入，每次计算时由当前会话现场构造
type UncertaintyInput struct {
	SampleCount int    `json:"sampleCount"`
	Grade       Grade  `json:"grade"`
	Instrument  string `json:"instrument"`
}

// TierResult 单个档位的成本与不确定度
type TierResult struct {
	Tier     Tier            `json:"tier"`
	Cost     decimal.Decimal `json:"cost"`
	Combined float64         `json:"combinedUncertainty"`
	Expanded float64         `json:"expandedUncertainty"`
}

// MethodResult 单个方法下各档位结果
type MethodResult struct {
	Method Method       `json:"method"`
	Tiers  []TierResult `json:"tiers"`
}

// UncertaintyResult 不确定度预算结果（仅以文本形式写入报告）
type UncertaintyResult struct {
	SampleCount int            `json:"sampleCount"`
	Grade       Grade          `json:"grade"`
	Methods     []MethodResult `json:"methods"`
}
