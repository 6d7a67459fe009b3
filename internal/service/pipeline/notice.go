package pipeline

import (
	"errors"
	"fmt"

	"calibreport/internal/model"
)

// 错误分类码（用于 HTTP 状态映射与阶段日志）
const (
	CodeTableUnavailable     = "table_unavailable"
	CodeNotFound             = "not_found"
	CodeArtifactNotFound     = "artifact_not_found"
	CodeUnsupportedParameter = "unsupported_parameter"
	CodeInvalidGrade         = "invalid_grade"
	CodeInvalidSampleCount   = "invalid_sample_count"
	CodeInvalidTransition    = "invalid_transition"
	CodeMissingSelection     = "missing_selection"
	CodeBadRequest           = "bad_request"
	CodeInternal             = "internal"
)

// ErrorCode 错误 → 分类码
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrTableUnavailable):
		return CodeTableUnavailable
	case errors.Is(err, model.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, model.ErrArtifactNotFound):
		return CodeArtifactNotFound
	case errors.Is(err, model.ErrUnsupportedParameter):
		return CodeUnsupportedParameter
	case errors.Is(err, model.ErrInvalidGrade):
		return CodeInvalidGrade
	case errors.Is(err, model.ErrInvalidSampleCount):
		return CodeInvalidSampleCount
	case errors.Is(err, model.ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, model.ErrMissingSelection):
		return CodeMissingSelection
	default:
		return CodeInternal
	}
}

func successNotice(msg string) Notice {
	return Notice{Level: NoticeInfo, Title: "成功", Message: msg}
}

func failureNotice(err error, msg string) Notice {
	if msg == "" {
		msg = fmt.Sprintf("发生错误: %v", err)
	}
	return Notice{Level: NoticeError, Title: "错误", Message: msg, Code: ErrorCode(err), err: err}
}

// lookupFailure 参考表查询失败的提示
func lookupFailure(err error, key, table string) Notice {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return failureNotice(err, fmt.Sprintf("找不到 %s 的信息，请检查Excel文件", key))
	case errors.Is(err, model.ErrTableUnavailable):
		return failureNotice(err, fmt.Sprintf("无法加载%s: %v", table, err))
	default:
		return failureNotice(err, "")
	}
}

// artifactFailure 报告读写失败的提示
func artifactFailure(err error, name string) Notice {
	if errors.Is(err, model.ErrArtifactNotFound) {
		return failureNotice(err, fmt.Sprintf("找不到 %s 的报告文档，请先生成该文档", name))
	}
	return failureNotice(err, "")
}

func missingSelection(msg string) Notice {
	return failureNotice(fmt.Errorf("%w: %s", model.ErrMissingSelection, msg), msg)
}

func invalidTransition(from State, msg string) Notice {
	return failureNotice(fmt.Errorf("%w: from %s", model.ErrInvalidTransition, from), msg)
}
