package model

import "strings"

// BlockKind 报告内容块类型
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockAttribute BlockKind = "attribute"
	BlockText      BlockKind = "text"
)

// Alignment 段落对齐
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Run 段落中的一段文字及其字形
type Run struct {
	Text string  `json:"text" yaml:"text"`
	Bold bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Font string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// Block 报告中的一个内容块（标题、属性行、文本段落）
type Block struct {
	Kind       BlockKind `json:"kind" yaml:"kind"`
	Align      Alignment `json:"align" yaml:"align"`
	SpaceAfter float64   `json:"spaceAfter,omitempty" yaml:"spaceAfter,omitempty"` // 段后间距（磅）
	Runs       []Run     `json:"runs" yaml:"runs"`
}

// Text 拼接所有 run 的文字
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Document 报告文档：按仪器（或参数）名称标识的有序内容块
type Document struct {
	Name   string  `json:"name" yaml:"name"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Clone 深拷贝，避免存储层与调用方共享切片
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Name: d.Name, Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		b.Runs = append([]Run(nil), b.Runs...)
		out.Blocks[i] = b
	}
	return out
}
