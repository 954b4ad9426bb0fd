package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) TaskStats(c *gin.Context) {
	stats, err := h.reportService.TaskStats(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToTaskStatsDTO(*stats))
}

func (h *ReportHandler) ProjectStats(c *gin.Context) {
	stats, err := h.reportService.ProjectStats(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToProjectStatsDTO(*stats))
}

// UserStats is restricted to admins by the router
func (h *ReportHandler) UserStats(c *gin.Context) {
	stats, err := h.reportService.UserStats(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToUserStatsDTO(*stats))
}

// ExportCSV returns every task as a CSV attachment
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reportService.ExportCSV(c.Request.Context(), &buf); err != nil {
		respondInternal(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", constants.CSVExportFilename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
