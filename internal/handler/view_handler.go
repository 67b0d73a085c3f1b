package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/dto"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

type viewCloser interface {
	Close(ctx context.Context, name string) (bool, error)
}

// ViewHandler handles back navigation between views.
type ViewHandler struct {
	workspaces viewCloser
}

// NewViewHandler constructs the handler.
func NewViewHandler(workspaces viewCloser) *ViewHandler {
	return &ViewHandler{workspaces: workspaces}
}

// Close godoc
// @Summary Leave a view
// @Description Unmounts the view. No backend call is made.
// @Tags Views
// @Produce json
// @Param view path string true "View name"
// @Success 200 {object} response.Envelope
// @Router /admin/views/{view}/close [post]
func (h *ViewHandler) Close(c *gin.Context) {
	if h.workspaces == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workspace service not configured"))
		return
	}
	name := c.Param("view")
	mounted, err := h.workspaces.Close(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ViewClosedResponse{View: name, Mounted: mounted})
}
