package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type selectRequest struct {
	Name string `json:"name"`
}

type gradeRequest struct {
	Grade string `json:"grade"`
}

// GetSession 当前会话
// GET /api/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Session())
}

// SelectInstrument 选择仪器
// POST /api/session/instrument
func (h *Handler) SelectInstrument(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c)
		return
	}
	h.respondNotice(c, h.orch.SelectInstrument(c.Request.Context(), req.Name))
}

// SelectGrade 选择等级
// POST /api/session/grade
func (h *Handler) SelectGrade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c)
		return
	}
	h.respondNotice(c, h.orch.SelectGrade(c.Request.Context(), req.Grade))
}

// SelectParameter 选择测量参数
// POST /api/session/parameter
func (h *Handler) SelectParameter(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c)
		return
	}
	h.respondNotice(c, h.orch.SelectParameter(c.Request.Context(), req.Name))
}

// Compute 计算不确定度并写入报告
// POST /api/session/compute
func (h *Handler) Compute(c *gin.Context) {
	h.respondNotice(c, h.orch.Compute(c.Request.Context()))
}

// ResetSession 开始新会话
// POST /api/session/reset
func (h *Handler) ResetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Reset())
}

// PrepareParameterReport 生成参数报告
// POST /api/parameters/:name/report
func (h *Handler) PrepareParameterReport(c *gin.Context) {
	h.respondNotice(c, h.orch.PrepareParameterReport(c.Request.Context(), c.Param("name")))
}
