package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwatch/shelfwatch/internal/domain"
	"github.com/shelfwatch/shelfwatch/internal/events"
)

type SettingsHandler struct {
	repo domain.SettingsRepository
	bus  events.Publisher
}

func NewSettingsHandler(repo domain.SettingsRepository, bus events.Publisher) *SettingsHandler {
	return &SettingsHandler{
		repo: repo,
		bus:  bus,
	}
}

func (h *SettingsHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.repo.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load notification settings",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) HandleMerge(c *gin.Context) {
	ctx := c.Request.Context()

	var patch domain.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	settings, err := h.repo.Merge(ctx, &patch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to merge notification settings",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update settings")
		return
	}

	h.publishUpdated(c)

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) HandleReset(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.repo.Reset(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to reset notification settings",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to reset settings")
		return
	}

	h.publishUpdated(c)

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) publishUpdated(c *gin.Context) {
	if h.bus == nil {
		return
	}
	ctx := c.Request.Context()
	if err := h.bus.Publish(ctx, events.Event{Type: events.SettingsUpdated}); err != nil {
		slog.WarnContext(ctx, "failed to publish settings event",
			slog.String("error", err.Error()),
		)
	}
}
