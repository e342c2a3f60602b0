package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwatch/shelfwatch/internal/schedule"
)

type ScheduleHandler struct {
	scheduler *schedule.Service
}

func NewScheduleHandler(scheduler *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler: scheduler,
	}
}

// HandleRun triggers a full cancel-and-reschedule pass. The optional `at`
// query parameter substitutes a virtual now for dry runs and tests.
func (h *ScheduleHandler) HandleRun(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now()
	if atStr := c.Query("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid at time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	result, err := h.scheduler.RescheduleAll(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "reschedule run failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
