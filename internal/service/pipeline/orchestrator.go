package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calibreport/internal/model"
	"calibreport/internal/service/calculator"
	"calibreport/internal/service/reference"
	"calibreport/internal/service/report"
	"calibreport/internal/store"
)

// 阶段名（写入阶段日志）
const (
	StageSelectInstrument = "select_instrument"
	StageSelectGrade      = "select_grade"
	StageSelectParameter  = "select_parameter"
	StageCompute          = "compute"
	StagePrepareParameter = "prepare_parameter"
)

// Journal 阶段日志与会话快照的持久化（可选）
type Journal interface {
	RecordStage(ctx context.Context, entry store.StageLog) (int64, error)
	SaveSession(snap store.SessionSnapshot) error
}

// ParameterSource 一个受支持的测量参数及其参考表来源
type ParameterSource struct {
	Name   string
	Source reference.Source
}

// Options 编排器依赖
type Options struct {
	Instruments reference.Source
	Parameters  []ParameterSource
	Accumulator *report.Accumulator
	Engine      *calculator.Engine
	Journal     Journal
	Logger      *zap.Logger
}

// Orchestrator 流程编排：把界面选择依次转换为查询、报告累积与不确定度计算
type Orchestrator struct {
	instruments reference.Source
	parameters  []ParameterSource
	acc         *report.Accumulator
	engine      *calculator.Engine
	journal     Journal
	logger      *zap.Logger

	mu      sync.Mutex
	session Session
}

// New 创建编排器
func New(opts Options) (*Orchestrator, error) {
	if opts.Instruments == nil {
		return nil, errors.New("instrument source is required")
	}
	if opts.Accumulator == nil {
		return nil, errors.New("report accumulator is required")
	}
	if opts.Engine == nil {
		opts.Engine = calculator.NewEngine(calculator.DefaultSampleCount)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	for _, p := range opts.Parameters {
		if err := requireNonEmptyString(p.Name, "parameter name is required"); err != nil {
			return nil, err
		}
		if p.Source == nil {
			return nil, fmt.Errorf("parameter %s has no reference source", p.Name)
		}
	}

	return &Orchestrator{
		instruments: opts.Instruments,
		parameters:  opts.Parameters,
		acc:         opts.Accumulator,
		engine:      opts.Engine,
		journal:     opts.Journal,
		logger:      opts.Logger,
		session:     newSession(),
	}, nil
}

func newSession() Session {
	return Session{
		ID:    fmt.Sprintf("s_%s", uuid.New().String()[:8]),
		State: StateIdle,
	}
}

// Session 当前会话副本
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// SupportedParameters 受支持的参数名（按配置顺序）
func (o *Orchestrator) SupportedParameters() []string {
	out := make([]string, 0, len(o.parameters))
	for _, p := range o.parameters {
		out = append(out, p.Name)
	}
	return out
}

// SampleCount 计算使用的测量次数
func (o *Orchestrator) SampleCount() int {
	return o.engine.SampleCount()
}

// Reset 开始新会话
func (o *Orchestrator) Reset() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = newSession()
	o.saveSessionLocked()
	return o.session
}

// SelectInstrument Idle（或任意状态重新开始）→ InstrumentChosen：查询仪器信息，新建报告并写入属性
func (o *Orchestrator) SelectInstrument(ctx context.Context, name string) Notice {
	o.mu.Lock()
	defer o.mu.Unlock()

	name = strings.TrimSpace(name)
	n := o.selectInstrumentLocked(ctx, name)
	o.finishLocked(ctx, StageSelectInstrument, name, "", n)
	return o.withSession(n)
}

func (o *Orchestrator) selectInstrumentLocked(ctx context.Context, name string) Notice {
	if name == "" {
		return missingSelection("请选择仪器名称")
	}

	row, err := reference.LookupIn(ctx, o.instruments, name)
	if err != nil {
		return lookupFailure(err, name, "仪器参考表")
	}

	if _, err := o.acc.CreateWithHeading(ctx, name, name); err != nil {
		return artifactFailure(err, name)
	}
	if _, err := o.acc.AppendAttributes(ctx, name, row); err != nil {
		return artifactFailure(err, name)
	}

	o.session.State = StateInstrumentChosen
	o.session.Instrument = name
	o.session.Parameter = ""
	return successNotice(fmt.Sprintf("已生成以 %s 命名的报告文档", name))
}

// SelectGrade 记录等级选择，不改变流程状态
func (o *Orchestrator) SelectGrade(ctx context.Context, label string) Notice {
	o.mu.Lock()
	defer o.mu.Unlock()

	var n Notice
	grade, err := model.ParseGrade(label)
	if err != nil {
		n = failureNotice(err, "请选择等级")
	} else {
		o.session.Grade = grade
		n = successNotice(fmt.Sprintf("已选择等级：%s", grade))
	}
	o.finishLocked(ctx, StageSelectGrade, o.session.Instrument, o.session.Parameter, n)
	return o.withSession(n)
}

// SelectParameter InstrumentChosen/ParameterChosen → ParameterChosen：把参数信息追加到仪器报告
func (o *Orchestrator) SelectParameter(ctx context.Context, name string) Notice {
	o.mu.Lock()
	defer o.mu.Unlock()

	name = strings.TrimSpace(name)
	n := o.selectParameterLocked(ctx, name)
	o.finishLocked(ctx, StageSelectParameter, o.session.Instrument, name, n)
	return o.withSession(n)
}

func (o *Orchestrator) selectParameterLocked(ctx context.Context, name string) Notice {
	if name == "" {
		return missingSelection("请选择参数名称")
	}
	switch o.session.State {
	case StateIdle:
		return invalidTransition(o.session.State, "请选择仪器名称")
	case StateComputationDone:
		return invalidTransition(o.session.State, "计算结果已写入报告，请重新选择仪器")
	}

	src, ok := o.parameterSource(name)
	if !ok {
		return failureNotice(fmt.Errorf("%w: %s", model.ErrUnsupportedParameter, name), "暂不支持此参数")
	}
	row, err := reference.LookupIn(ctx, src, name)
	if err != nil {
		return lookupFailure(err, name, "测量参数库")
	}

	if _, err := o.acc.AppendAttributes(ctx, o.session.Instrument, row); err != nil {
		return artifactFailure(err, o.session.Instrument)
	}

	o.session.State = StateParameterChosen
	o.session.Parameter = name
	return successNotice(fmt.Sprintf("已将 %s 数据保存到报告文档中", name))
}

// Compute ParameterChosen → ComputationDone：计算不确定度，合并参数报告并追加计算结果；中途失败不回滚
func (o *Orchestrator) Compute(ctx context.Context) Notice {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := o.computeLocked(ctx)
	o.finishLocked(ctx, StageCompute, o.session.Instrument, o.session.Parameter, n)
	return o.withSession(n)
}

func (o *Orchestrator) computeLocked(ctx context.Context) Notice {
	switch o.session.State {
	case StateIdle:
		return missingSelection("请选择仪器名称")
	case StateInstrumentChosen:
		return missingSelection("请选择参数名称")
	case StateComputationDone:
		return invalidTransition(o.session.State, "计算结果已写入报告，请重新选择仪器后再计算")
	}

	in := model.UncertaintyInput{
		SampleCount: o.engine.SampleCount(),
		Grade:       o.session.Grade,
		Instrument:  o.session.Instrument,
	}
	// 测量次数由 calculator.NewEngine 保证为正，这里只剩未选等级一种情况
	if errs := calculator.ValidateInput(in); len(errs) > 0 {
		return missingSelection(strings.Join(errs, "；"))
	}

	result, err := o.engine.Calculate(in.Grade)
	if err != nil {
		return failureNotice(err, "")
	}
	text := calculator.RenderBudget(result)

	if _, err := o.acc.MergeForeign(ctx, in.Instrument, o.session.Parameter); err != nil {
		if errors.Is(err, model.ErrArtifactNotFound) {
			return failureNotice(err, fmt.Sprintf("找不到 %s 或 %s 的报告文档，请先生成参数报告", in.Instrument, o.session.Parameter))
		}
		return failureNotice(err, "")
	}
	if _, err := o.acc.AppendText(ctx, in.Instrument, text, report.TextOptions{}); err != nil {
		return artifactFailure(err, in.Instrument)
	}

	o.session.State = StateComputationDone
	return successNotice("不确定度计算完成")
}

// PrepareParameterReport 生成参数报告 <参数名>.<ext>（标题 + 参数属性），供计算阶段合并；与会话状态无关
func (o *Orchestrator) PrepareParameterReport(ctx context.Context, name string) Notice {
	o.mu.Lock()
	defer o.mu.Unlock()

	name = strings.TrimSpace(name)
	n := o.prepareParameterLocked(ctx, name)
	o.recordLocked(ctx, StagePrepareParameter, "", name, n)
	return o.withSession(n)
}

func (o *Orchestrator) prepareParameterLocked(ctx context.Context, name string) Notice {
	if name == "" {
		return missingSelection("请选择参数名称")
	}
	src, ok := o.parameterSource(name)
	if !ok {
		return failureNotice(fmt.Errorf("%w: %s", model.ErrUnsupportedParameter, name), "暂不支持此参数")
	}
	row, err := reference.LookupIn(ctx, src, name)
	if err != nil {
		return lookupFailure(err, name, "测量参数库")
	}
	if _, err := o.acc.CreateWithHeading(ctx, name, name); err != nil {
		return artifactFailure(err, name)
	}
	if _, err := o.acc.AppendAttributes(ctx, name, row); err != nil {
		return artifactFailure(err, name)
	}
	return successNotice(fmt.Sprintf("已生成以 %s 命名的报告文档", name))
}

// Restore 恢复上次会话；仪器报告已不存在时退回 Idle
func (o *Orchestrator) Restore(ctx context.Context, snap store.SessionSnapshot) Session {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Session{
		ID:         snap.ID,
		State:      State(snap.State),
		Instrument: snap.Instrument,
		Parameter:  snap.Parameter,
	}
	if s.ID == "" {
		s.ID = newSession().ID
	}
	if g, err := model.ParseGrade(snap.Grade); err == nil {
		s.Grade = g
	}
	if !s.State.Valid() {
		s.State = StateIdle
	}

	if s.State != StateIdle {
		ok, err := o.acc.Exists(ctx, s.Instrument)
		if s.Instrument == "" || err != nil || !ok {
			o.logger.Warn("instrument report missing, session reset to idle",
				zap.String("session", s.ID),
				zap.String("instrument", s.Instrument),
				zap.Error(err),
			)
			s.State = StateIdle
			s.Instrument = ""
			s.Parameter = ""
		}
	}
	if s.State == StateInstrumentChosen {
		s.Parameter = ""
	}

	o.session = s
	return o.session
}

// Blocks 读取报告内容（只读）
func (o *Orchestrator) Blocks(ctx context.Context, name string) ([]model.Block, error) {
	return o.acc.Blocks(ctx, name)
}

func (o *Orchestrator) parameterSource(name string) (reference.Source, bool) {
	for _, p := range o.parameters {
		if p.Name == name {
			return p.Source, true
		}
	}
	return nil, false
}

func (o *Orchestrator) withSession(n Notice) Notice {
	n.Session = o.session
	return n
}

// finishLocked 记录阶段日志；成功时保存会话快照
func (o *Orchestrator) finishLocked(ctx context.Context, stage, instrument, parameter string, n Notice) {
	o.recordLocked(ctx, stage, instrument, parameter, n)
	if n.OK() {
		o.saveSessionLocked()
	}
}

func (o *Orchestrator) recordLocked(ctx context.Context, stage, instrument, parameter string, n Notice) {
	fields := []zap.Field{
		zap.String("session", o.session.ID),
		zap.String("stage", stage),
		zap.String("state", string(o.session.State)),
		zap.String("instrument", instrument),
		zap.String("parameter", parameter),
		zap.Stringer("grade", o.session.Grade),
	}
	status := "ok"
	if n.OK() {
		o.logger.Info("pipeline stage completed", fields...)
	} else {
		status = "failed"
		o.logger.Warn("pipeline stage failed", append(fields, zap.String("code", n.Code), zap.Error(n.err))...)
	}

	if o.journal == nil {
		return
	}
	grade := ""
	if o.session.Grade.Valid() {
		grade = o.session.Grade.String()
	}
	if _, err := o.journal.RecordStage(ctx, store.StageLog{
		SessionID:  o.session.ID,
		Stage:      stage,
		Instrument: instrument,
		Parameter:  parameter,
		Grade:      grade,
		Status:     status,
		Message:    n.Message,
	}); err != nil {
		o.logger.Error("record stage log failed", zap.Error(err))
	}
}

func (o *Orchestrator) saveSessionLocked() {
	if o.journal == nil {
		return
	}
	grade := ""
	if o.session.Grade.Valid() {
		grade = o.session.Grade.String()
	}
	if err := o.journal.SaveSession(store.SessionSnapshot{
		ID:         o.session.ID,
		State:      string(o.session.State),
		Instrument: o.session.Instrument,
		Parameter:  o.session.Parameter,
		Grade:      grade,
	}); err != nil {
		o.logger.Error("save session snapshot failed", zap.Error(err))
	}
}
