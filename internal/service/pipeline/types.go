package pipeline

import "calibreport/internal/model"

// State 流程状态：Idle → InstrumentChosen → ParameterChosen → ComputationDone
type State string

const (
	StateIdle             State = "idle"
	StateInstrumentChosen State = "instrument_chosen"
	StateParameterChosen  State = "parameter_chosen"
	StateComputationDone  State = "computation_done"
)

// Valid 是否为已定义状态
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateInstrumentChosen, StateParameterChosen, StateComputationDone:
		return true
	}
	return false
}

// Session 当前会话：界面上的选择统一记录在这里，是流程状态的唯一来源
type Session struct {
	ID         string      `json:"id"`
	State      State       `json:"state"`
	Instrument string      `json:"instrument"`
	Parameter  string      `json:"parameter"`
	Grade      model.Grade `json:"grade"`
}

// NoticeLevel 提示级别
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice 每次操作返回给界面的一条提示（界面以消息框展示）
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"` // 失败时的错误分类
	Session Session     `json:"session"`

	err error
}

// OK 操作是否成功
func (n Notice) OK() bool {
	return n.Level != NoticeError
}

// Err 失败时的原始错误（可用 errors.Is 判断分类）
func (n Notice) Err() error {
	return n.err
}
