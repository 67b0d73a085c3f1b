package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/dto"
	"github.com/noah-isme/campus-console/internal/models"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

type auditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditHandler lists the operator audit trail.
type AuditHandler struct {
	service auditReader
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service auditReader) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent godoc
// @Summary Recent audit entries
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum rows (default 50, max 200)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "audit trail is disabled"))
		return
	}
	var query dto.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	logs, err := h.service.Recent(c.Request.Context(), query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, map[string]interface{}{"count": len(logs)})
}
