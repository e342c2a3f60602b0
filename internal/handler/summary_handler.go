package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwatch/shelfwatch/internal/classify"
	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/domain"
)

type SummaryHandler struct {
	repo   domain.ProductRepository
	notify *config.NotifyConfig
}

func NewSummaryHandler(repo domain.ProductRepository, notify *config.NotifyConfig) *SummaryHandler {
	return &SummaryHandler{
		repo:   repo,
		notify: notify,
	}
}

func (h *SummaryHandler) HandleSummary(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load products for summary",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load products")
		return
	}

	windowDays := 0
	if h.notify != nil {
		windowDays = h.notify.ExpiringWindowDays
	}

	summary := classify.Summarize(products, domain.DateOf(time.Now()), windowDays)
	c.JSON(http.StatusOK, summary)
}

func (h *SummaryHandler) HandleMonths(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load products for month counts",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": classify.CountByMonth(products)})
}
