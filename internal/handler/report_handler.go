package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/view"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

type reportWorkspaces interface {
	Reports(ctx context.Context) (*view.ReportsView, error)
}

type reportExporter interface {
	Report(data models.ReportData, format string) (*service.ExportFile, error)
}

// ReportHandler serves the reports view and its downloads.
type ReportHandler struct {
	workspaces reportWorkspaces
	exporter   reportExporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(workspaces reportWorkspaces, exporter reportExporter) *ReportHandler {
	return &ReportHandler{workspaces: workspaces, exporter: exporter}
}

func (h *ReportHandler) reports(c *gin.Context) (*view.ReportsView, bool) {
	if h.workspaces == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workspace service not configured"))
		return nil, false
	}
	v, err := h.workspaces.Reports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return v, true
}

// Show godoc
// @Summary Reports view
// @Description Institution report summary and the student roster. q filters the roster.
// @Tags Reports
// @Produce json
// @Param q query string false "Roster search"
// @Param refresh query bool false "Reload before rendering"
// @Success 200 {object} response.Envelope
// @Router /admin/reports [get]
func (h *ReportHandler) Show(c *gin.Context) {
	v, ok := h.reports(c)
	if !ok {
		return
	}
	if refreshRequested(c) {
		v.Refresh(c.Request.Context())
	}
	response.OK(c, v.Render(strings.TrimSpace(c.Query("q"))))
}

// Export godoc
// @Summary Download the institution report
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	v, ok := h.reports(c)
	if !ok {
		return
	}
	data, loaded := v.Data()
	if !loaded {
		response.Error(c, appErrors.Clone(appErrors.ErrRemote, "report data is not available"))
		return
	}
	file, err := h.exporter.Report(data, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
