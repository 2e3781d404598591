package api

import (
	"net/http"
	"strconv"

	"salonbook/internal/handler/httperr"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingParam = errs.New("missing required query parameter")

type AuditHandler struct {
	query *queries.AuditQueryService
}

func NewAuditHandler(query *queries.AuditQueryService) *AuditHandler {
	return &AuditHandler{query: query}
}

// @Summary List audit entries
// @Description Lists the audit trail for one entity, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param entity_type query string true "Entity type"
// @Param entity_id query string true "Entity ID"
// @Param limit query int false "Max entries"
// @Success 200 {array} queries.AuditEntryView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	entityType := c.Query("entity_type")
	if entityType == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errMissingParam, "INVALID_REQUEST", "entity_type is required", nil)
		return
	}
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid entity_id format", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	views, err := h.query.ListByEntity(c.Request.Context(), entityType, entityID, int32(limit))
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
