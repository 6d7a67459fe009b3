package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"calibreport/internal/api"
	"calibreport/internal/config"
	"calibreport/internal/model"
	"calibreport/internal/service/calculator"
	"calibreport/internal/service/pipeline"
	"calibreport/internal/service/reference"
	"calibreport/internal/service/report"
	docstore "calibreport/internal/service/store"
	"calibreport/internal/store"
)

// App 组装好的运行时依赖（serve 与命令行子命令共用）
type App struct {
	Config     *config.AppConfig
	DataDir    string
	ReportsDir string

	Store     *store.Store
	Documents *docstore.FileStore
	Pipeline  *pipeline.Orchestrator
	Logger    *zap.Logger
}

// New 按配置初始化数据目录、SQLite 阶段日志、报告存储与流程编排器
func New(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}
	reportsDir := config.ReportsPath(cfg, dataDir)

	st, err := store.New(config.DBPath(cfg, dataDir))
	if err != nil {
		return nil, err
	}

	docs, err := docstore.NewFileStore(reportsDir, cfg.Report.Extension)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	instruments := reference.NewWorkbookSource(
		config.ReferencePath(dataDir, cfg.Reference.InstrumentFile),
		cfg.Reference.InstrumentSheet,
	)
	paramFile := config.ReferencePath(dataDir, cfg.Reference.ParameterFile)
	params := make([]pipeline.ParameterSource, 0, len(cfg.Reference.Parameters))
	for _, p := range cfg.Reference.Parameters {
		params = append(params, pipeline.ParameterSource{
			Name:   p.Name,
			Source: reference.NewWorkbookSource(paramFile, p.Sheet),
		})
	}

	acc := report.NewAccumulator(docs, report.Style{
		HeadingFont: cfg.Report.HeadingFont,
		TextFont:    cfg.Report.TextFont,
		TextSize:    cfg.Report.TextSize,
		SpaceAfter:  cfg.Report.SpaceAfter,
	})

	orch, err := pipeline.New(pipeline.Options{
		Instruments: instruments,
		Parameters:  params,
		Accumulator: acc,
		Engine:      calculator.NewEngine(cfg.Budget.SampleCount),
		Journal:     st,
		Logger:      logger.Named("pipeline"),
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		DataDir:    dataDir,
		ReportsDir: reportsDir,
		Store:      st,
		Documents:  docs,
		Pipeline:   orch,
		Logger:     logger,
	}, nil
}

// RestoreSession 恢复上次保存的会话
func (a *App) RestoreSession(ctx context.Context) (pipeline.Session, bool) {
	snap, ok, err := a.Store.LoadSession()
	if err != nil {
		a.Logger.Warn("load session snapshot failed", zap.Error(err))
		return a.Pipeline.Session(), false
	}
	if !ok {
		return a.Pipeline.Session(), false
	}
	s := a.Pipeline.Restore(ctx, snap)
	a.Logger.Info("session restored",
		zap.String("session", s.ID),
		zap.String("state", string(s.State)),
		zap.String("instrument", s.Instrument),
	)
	return s, true
}

// Handler HTTP API 处理器
func (a *App) Handler() *api.Handler {
	return api.NewHandler(a.Pipeline, a.Store, a.Presets(), a.ReportsDir, a.Logger.Named("api"))
}

// Presets 页面下拉选项
func (a *App) Presets() api.Presets {
	return api.Presets{
		Instruments: a.Config.Presets.Instruments,
		Grades:      model.GradeLabels(),
		Parameters:  a.Config.Presets.Parameters,
	}
}

// Close 关闭数据库
func (a *App) Close() error {
	return a.Store.Close()
}
