package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/view"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

type dashboardWorkspaces interface {
	AdminHome(ctx context.Context) (*view.AdminHomeView, error)
	StudentDashboard(ctx context.Context) (*view.StudentDashboardView, error)
}

// DashboardHandler serves the two role home views.
type DashboardHandler struct {
	workspaces dashboardWorkspaces
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(workspaces dashboardWorkspaces) *DashboardHandler {
	return &DashboardHandler{workspaces: workspaces}
}

// Admin godoc
// @Summary Admin home
// @Description Institution statistics for administrators
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.workspaces == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workspace service not configured"))
		return
	}
	v, err := h.workspaces.AdminHome(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if refreshRequested(c) {
		v.Refresh(c.Request.Context())
	}
	response.OK(c, v.Render())
}

// Student godoc
// @Summary Student dashboard
// @Description Profile, current grades and attendance of the signed in student
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	if h.workspaces == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workspace service not configured"))
		return
	}
	v, err := h.workspaces.StudentDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if refreshRequested(c) {
		v.Refresh(c.Request.Context())
	}
	response.OK(c, v.Render())
}

func refreshRequested(c *gin.Context) bool {
	switch c.Query("refresh") {
	case "1", "true", "yes":
		return true
	}
	return false
}
