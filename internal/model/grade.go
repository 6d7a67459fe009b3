package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade 准确度等级：1 级精度最高，7 级最低
type Grade int

const (
	GradeUnset Grade = 0
	GradeMin   Grade = 1
	GradeMax   Grade = 7
)

var gradeLabels = []string{"一级", "二级", "三级", "四级", "五级", "六级", "七级"}

// GradeLabels 等级下拉选项（按精度从高到低）
func GradeLabels() []string {
	out := make([]string, len(gradeLabels))
	copy(out, gradeLabels)
	return out
}

// Valid 是否在 7 级枚举范围内
func (g Grade) Valid() bool {
	return g >= GradeMin && g <= GradeMax
}

// String 返回中文标签，非法值返回 "等级(n)"
func (g Grade) String() string {
	if !g.Valid() {
		return fmt.Sprintf("等级(%d)", int(g))
	}
	return gradeLabels[g-1]
}

// ParseGrade 解析 "一级".."七级" 或 "1".."7"
func ParseGrade(s string) (Grade, error) {
	s = strings.TrimSpace(s)
	for i, label := range gradeLabels {
		if s == label {
			return Grade(i + 1), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if g := Grade(n); g.Valid() {
			return g, nil
		}
	}
	return GradeUnset, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// MarshalText 以中文标签序列化（JSON/TOML/YAML 共用）
func (g Grade) MarshalText() ([]byte, error) {
	if g == GradeUnset {
		return []byte(""), nil
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText 与 MarshalText 对应，空串表示未选择
func (g *Grade) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*g = GradeUnset
		return nil
	}
	parsed, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
