package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/activity"
)

// ActivityHandler serves the activity log.
type ActivityHandler struct {
	*BaseHandler
	activity *activity.Service
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(base *BaseHandler, activitySvc *activity.Service) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: base,
		activity:    activitySvc,
	}
}

// Recent handles GET /activity - latest entries, newest first.
func (h *ActivityHandler) Recent(c *gin.Context) {
	ctx := c.Request.Context()

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.activity.Recent(ctx, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": entries,
	})
}
