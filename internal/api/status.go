package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"calibreport/internal/service/pipeline"
	"calibreport/internal/store"
)

const recentStageLimit = 20

// StatusResponse 系统状态响应
type StatusResponse struct {
	Session             pipeline.Session `json:"session"`
	SampleCount         int              `json:"sampleCount"`         // 测量次数
	SupportedParameters []string         `json:"supportedParameters"` // 受支持的参数
	ReportsDir          string           `json:"reportsDir"`          // 报告目录
	RecentStages        []store.StageLog `json:"recentStages"`        // 最近的阶段日志
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Session:             h.orch.Session(),
		SampleCount:         h.orch.SampleCount(),
		SupportedParameters: h.orch.SupportedParameters(),
		ReportsDir:          h.reportsDir,
		RecentStages:        []store.StageLog{},
	}
	if h.logs != nil {
		logs, err := h.logs.ListStageLogs(c.Request.Context(), recentStageLimit)
		if err != nil {
			// 日志不可用不影响状态查询
			h.logger.Warn("list stage logs failed", zap.Error(err))
		} else if logs != nil {
			resp.RecentStages = logs
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetPresets 页面下拉选项
// GET /api/presets
func (h *Handler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, h.presets)
}
