package model

// ReferenceTable 参考表：一个工作表，第一行为列标题，其余行首列为查找键
type ReferenceTable struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Attribute 列标题与取值
type Attribute struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// AttributeRow 查找结果：键 + 非键列的 (标题, 值) 序列，与列顺序一致
type AttributeRow struct {
	Key        string      `json:"key"`
	Attributes []Attribute `json:"attributes"`
}
