package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/suggestions"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// CronHandler exposes the internal endpoints hit by the external scheduler.
type CronHandler struct {
	batch *suggestions.DailyBatch
}

// NewCronHandler constructs a CronHandler.
func NewCronHandler(batch *suggestions.DailyBatch) (*CronHandler, error) {
	if batch == nil {
		return nil, errors.New("CRON_HANDLER_INVALID", "daily batch is required", http.StatusInternalServerError)
	}
	return &CronHandler{batch: batch}, nil
}

// DailySuggestions runs the daily refresh across all active athletes. The
// batch is fail-soft: per-athlete errors are reported in the body, not as an
// HTTP failure.
func (h *CronHandler) DailySuggestions(c *gin.Context) {
	result, err := h.batch.Run(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
