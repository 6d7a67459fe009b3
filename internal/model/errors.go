package model

import "errors"

// 错误分类：各层用 fmt.Errorf("...: %w") 包装，编排层用 errors.Is 判断
var (
	ErrTableUnavailable     = errors.New("reference table unavailable")
	ErrNotFound             = errors.New("key not found")
	ErrArtifactNotFound     = errors.New("report artifact not found")
	ErrUnsupportedParameter = errors.New("unsupported parameter")
	ErrInvalidGrade         = errors.New("invalid accuracy grade")
	ErrInvalidSampleCount   = errors.New("invalid sample count")
	ErrInvalidTransition    = errors.New("invalid pipeline transition")
	ErrMissingSelection     = errors.New("missing selection")
)
