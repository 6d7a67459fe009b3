package report

import (
	"context"
	"errors"
	"fmt"

	"calibreport/internal/model"
	"calibreport/internal/service/store"
)

const (
	DefaultHeadingFont = "黑体"
	DefaultTextFont    = "宋体"
	DefaultTextSize    = 12.0
	DefaultSpaceAfter  = 12.0
)

// Style 报告排版参数
type Style struct {
	HeadingFont string
	TextFont    string
	TextSize    float64
	SpaceAfter  float64
}

// DefaultStyle 默认排版：标题黑体，正文宋体 12 磅，段后 12 磅
func DefaultStyle() Style {
	return Style{
		HeadingFont: DefaultHeadingFont,
		TextFont:    DefaultTextFont,
		TextSize:    DefaultTextSize,
		SpaceAfter:  DefaultSpaceAfter,
	}
}

// TextOptions AppendText 的可选参数，零值使用默认样式
type TextOptions struct {
	Size float64
	Font string
}

// Accumulator 报告累积器：每次修改都立即整体写回存储，磁盘上的报告最多落后一次调用
type Accumulator struct {
	store store.DocumentStore
	style Style
}

// NewAccumulator 创建累积器
func NewAccumulator(st store.DocumentStore, style Style) *Accumulator {
	def := DefaultStyle()
	if style.HeadingFont == "" {
		style.HeadingFont = def.HeadingFont
	}
	if style.TextFont == "" {
		style.TextFont = def.TextFont
	}
	if style.TextSize <= 0 {
		style.TextSize = def.TextSize
	}
	if style.SpaceAfter <= 0 {
		style.SpaceAfter = def.SpaceAfter
	}
	return &Accumulator{store: st, style: style}
}

// CreateWithHeading 新建（或清空重建）报告，写入居中加粗的标题
func (a *Accumulator) CreateWithHeading(ctx context.Context, name, heading string) (*model.Document, error) {
	if name == "" {
		return nil, errors.New("report name is required")
	}
	doc := &model.Document{
		Name: name,
		Blocks: []model.Block{{
			Kind:  model.BlockHeading,
			Align: model.AlignCenter,
			Runs:  []model.Run{{Text: heading, Bold: true, Font: a.style.HeadingFont}},
		}},
	}
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save report %s: %w", name, err)
	}
	return doc, nil
}

// AppendAttributes 逐个追加 "标题：值" 属性行（标题加粗），跳过没有标题的列
func (a *Accumulator) AppendAttributes(ctx context.Context, name string, row *model.AttributeRow) (*model.Document, error) {
	doc, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if row != nil {
		for _, attr := range row.Attributes {
			if attr.Header == "" {
				continue
			}
			doc.Blocks = append(doc.Blocks, a.attributeBlock(attr))
		}
	}
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save report %s: %w", name, err)
	}
	return doc, nil
}

// AppendText 追加一个左对齐文本段落
func (a *Accumulator) AppendText(ctx context.Context, name, text string, opts TextOptions) (*model.Document, error) {
	doc, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if opts.Size <= 0 {
		opts.Size = a.style.TextSize
	}
	if opts.Font == "" {
		opts.Font = a.style.TextFont
	}
	doc.Blocks = append(doc.Blocks, model.Block{
		Kind:       model.BlockText,
		Align:      model.AlignLeft,
		SpaceAfter: a.style.SpaceAfter,
		Runs:       []model.Run{{Text: text, Font: opts.Font, Size: opts.Size}},
	})
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save report %s: %w", name, err)
	}
	return doc, nil
}

// MergeForeign 把 other 报告的全部内容块按原顺序追加到 name 报告末尾
func (a *Accumulator) MergeForeign(ctx context.Context, name, other string) (*model.Document, error) {
	doc, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	foreign, err := a.store.Load(ctx, other)
	if err != nil {
		return nil, err
	}
	doc.Blocks = append(doc.Blocks, foreign.Blocks...)
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save report %s: %w", name, err)
	}
	return doc, nil
}

// Blocks 只读获取报告内容
func (a *Accumulator) Blocks(ctx context.Context, name string) ([]model.Block, error) {
	doc, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return doc.Blocks, nil
}

// Exists 报告是否已创建
func (a *Accumulator) Exists(ctx context.Context, name string) (bool, error) {
	return a.store.Exists(ctx, name)
}

func (a *Accumulator) attributeBlock(attr model.Attribute) model.Block {
	runs := []model.Run{{Text: attr.Header + "：", Bold: true}}
	if attr.Value != "" {
		runs = append(runs, model.Run{Text: attr.Value})
	}
	return model.Block{
		Kind:       model.BlockAttribute,
		Align:      model.AlignLeft,
		SpaceAfter: a.style.SpaceAfter,
		Runs:       runs,
	}
}
