package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/dto"
	"github.com/noah-isme/campus-console/internal/view"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

// managedView is a list view that hosts dialogs.
type managedView struct {
	host    view.DialogHost
	refresh func(ctx context.Context)
	render  func(query string) interface{}
}

// ManagementHandler serves a list view together with its dialogs. Every action
// answers with the rendered view so clients never hold their own copy of the state.
type ManagementHandler struct {
	load func(ctx context.Context) (managedView, error)
}

type studentWorkspaces interface {
	StudentManagement(ctx context.Context) (*view.StudentManagementView, error)
}

type courseWorkspaces interface {
	CourseManagement(ctx context.Context) (*view.CourseManagementView, error)
}

// NewStudentHandler serves the student management view.
func NewStudentHandler(workspaces studentWorkspaces) *ManagementHandler {
	if workspaces == nil {
		return &ManagementHandler{}
	}
	return &ManagementHandler{load: func(ctx context.Context) (managedView, error) {
		v, err := workspaces.StudentManagement(ctx)
		if err != nil {
			return managedView{}, err
		}
		return managedView{
			host:    v,
			refresh: v.Refresh,
			render:  func(q string) interface{} { return v.Render(q) },
		}, nil
	}}
}

// NewCourseHandler serves the course management view.
func NewCourseHandler(workspaces courseWorkspaces) *ManagementHandler {
	if workspaces == nil {
		return &ManagementHandler{}
	}
	return &ManagementHandler{load: func(ctx context.Context) (managedView, error) {
		v, err := workspaces.CourseManagement(ctx)
		if err != nil {
			return managedView{}, err
		}
		return managedView{
			host:    v,
			refresh: v.Refresh,
			render:  func(q string) interface{} { return v.Render(q) },
		}, nil
	}}
}

func (h *ManagementHandler) view(c *gin.Context) (managedView, bool) {
	if h.load == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workspace service not configured"))
		return managedView{}, false
	}
	v, err := h.load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return managedView{}, false
	}
	return v, true
}

// respond renders the view, attaching err when the action failed.
func (v managedView) respond(c *gin.Context, err error) {
	state := v.render(strings.TrimSpace(c.Query("q")))
	if err != nil {
		response.ErrorWith(c, err, state)
		return
	}
	response.OK(c, state)
}

// List godoc
// @Summary Management view
// @Description Renders the list, statistics and dialogs. q filters the list.
// @Tags Management
// @Produce json
// @Param resource path string true "students or courses"
// @Param q query string false "Search query"
// @Success 200 {object} response.Envelope
// @Router /admin/{resource} [get]
func (h *ManagementHandler) List(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	v.respond(c, nil)
}

// Refresh godoc
// @Summary Reload the management view
// @Tags Management
// @Produce json
// @Param resource path string true "students or courses"
// @Success 200 {object} response.Envelope
// @Router /admin/{resource}/refresh [post]
func (h *ManagementHandler) Refresh(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	v.refresh(c.Request.Context())
	v.respond(c, nil)
}

// OpenDialog godoc
// @Summary Open a dialog
// @Description Opens add, edit, delete or enroll. id names the target record.
// @Tags Management
// @Accept json
// @Produce json
// @Param resource path string true "students or courses"
// @Param dialog path string true "Dialog name"
// @Param payload body dto.OpenDialogRequest false "Target record"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/{resource}/dialogs/{dialog}/open [post]
func (h *ManagementHandler) OpenDialog(c *gin.Context) {
	var req dto.OpenDialogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dialog payload"))
			return
		}
	}
	v, ok := h.view(c)
	if !ok {
		return
	}
	err := v.host.OpenDialog(c.Request.Context(), c.Param("dialog"), req.ID)
	v.respond(c, err)
}

// PatchDialog godoc
// @Summary Edit a dialog draft
// @Description Merges the JSON object into the open draft
// @Tags Management
// @Accept json
// @Produce json
// @Param resource path string true "students or courses"
// @Param dialog path string true "Dialog name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/{resource}/dialogs/{dialog} [patch]
func (h *ManagementHandler) PatchDialog(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "draft patch body is required"))
		return
	}
	v, ok := h.view(c)
	if !ok {
		return
	}
	v.respond(c, v.host.PatchDialog(c.Param("dialog"), raw))
}

// SubmitDialog godoc
// @Summary Submit a dialog
// @Description Sends the draft to the backend. On failure the dialog stays open with its error.
// @Tags Management
// @Produce json
// @Param resource path string true "students or courses"
// @Param dialog path string true "Dialog name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/{resource}/dialogs/{dialog}/submit [post]
func (h *ManagementHandler) SubmitDialog(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	v.respond(c, v.host.SubmitDialog(c.Request.Context(), c.Param("dialog")))
}

// CancelDialog godoc
// @Summary Cancel a dialog
// @Tags Management
// @Produce json
// @Param resource path string true "students or courses"
// @Param dialog path string true "Dialog name"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/{resource}/dialogs/{dialog}/cancel [post]
func (h *ManagementHandler) CancelDialog(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	v.respond(c, v.host.CancelDialog(c.Param("dialog")))
}
