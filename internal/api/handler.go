package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"calibreport/internal/service/pipeline"
	"calibreport/internal/store"
)

// StageLister 读取阶段日志
type StageLister interface {
	ListStageLogs(ctx context.Context, limit int) ([]store.StageLog, error)
}

// Presets 页面下拉选项
type Presets struct {
	Instruments []string `json:"instruments"`
	Grades      []string `json:"grades"`
	Parameters  []string `json:"parameters"`
}

// Handler API 处理器
type Handler struct {
	orch       *pipeline.Orchestrator
	logs       StageLister
	presets    Presets
	reportsDir string
	logger     *zap.Logger
}

// NewHandler 创建 API 处理器；logs 可以为 nil
func NewHandler(orch *pipeline.Orchestrator, logs StageLister, presets Presets, reportsDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orch:       orch,
		logs:       logs,
		presets:    presets,
		reportsDir: reportsDir,
		logger:     logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/presets", h.GetPresets)

	// 流程
	router.GET("/session", h.GetSession)
	router.POST("/session/instrument", h.SelectInstrument)
	router.POST("/session/grade", h.SelectGrade)
	router.POST("/session/parameter", h.SelectParameter)
	router.POST("/session/compute", h.Compute)
	router.POST("/session/reset", h.ResetSession)

	// 报告
	router.POST("/parameters/:name/report", h.PrepareParameterReport)
	router.GET("/reports/:name", h.GetReport)
}

// noticeStatus 提示 → HTTP 状态码
func noticeStatus(n pipeline.Notice) int {
	if n.OK() {
		return http.StatusOK
	}
	switch n.Code {
	case pipeline.CodeNotFound, pipeline.CodeArtifactNotFound:
		return http.StatusNotFound
	case pipeline.CodeTableUnavailable, pipeline.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) respondNotice(c *gin.Context, n pipeline.Notice) {
	c.JSON(noticeStatus(n), n)
}

// respondBadRequest 请求体无法解析时，以同样的提示结构返回
func (h *Handler) respondBadRequest(c *gin.Context) {
	h.respondNotice(c, pipeline.Notice{
		Level:   pipeline.NoticeError,
		Title:   "错误",
		Message: "请求格式错误",
		Code:    pipeline.CodeBadRequest,
		Session: h.orch.Session(),
	})
}
