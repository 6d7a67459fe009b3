package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"calibreport/internal/model"
	"calibreport/internal/service/excel"
)

type reportResponse struct {
	Name   string        `json:"name"`
	Blocks []model.Block `json:"blocks"`
	Text   []string      `json:"text"`
}

// GetReport 查看报告内容；format=xlsx 时下载工作簿
// GET /api/reports/:name
func (h *Handler) GetReport(c *gin.Context) {
	name := c.Param("name")
	blocks, err := h.orch.Blocks(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, model.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到 %s 的报告文档", name)})
			return
		}
		h.logger.Error("load report failed", zap.String("report", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := excel.EncodeReport(&model.Document{Name: name, Blocks: blocks})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
			return
		}
		filename := url.PathEscape(name + ".xlsx")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	text := make([]string, 0, len(blocks))
	for _, b := range blocks {
		text = append(text, b.Text())
	}
	c.JSON(http.StatusOK, reportResponse{Name: name, Blocks: blocks, Text: text})
}
