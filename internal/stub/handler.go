package stub

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler implements the reminder gateway API against in-memory storage so
// the service can run without a real push gateway. Failure injection covers
// the client's retry and terminal paths.
type Handler struct {
	storage *ReminderStorage

	denyPermission atomic.Bool
	failNext       atomic.Int32
}

func NewHandler(storage *ReminderStorage) *Handler {
	return &Handler{storage: storage}
}

type scheduleRequest struct {
	ProductCode string    `json:"product_code"`
	LeadDays    int       `json:"lead_days"`
	FireAt      time.Time `json:"fire_at"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}

func (h *Handler) HandleSchedule(c *gin.Context) {
	if h.denyPermission.Load() {
		c.JSON(http.StatusForbidden, gin.H{"error": "notification permission denied"})
		return
	}
	if h.failNext.Load() > 0 {
		h.failNext.Add(-1)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := h.storage.Add(&Reminder{
		ProductCode: req.ProductCode,
		LeadDays:    req.LeadDays,
		FireAt:      req.FireAt,
		Severity:    req.Severity,
		Title:       req.Title,
		Body:        req.Body,
	})

	slog.Debug("scheduled reminder",
		slog.String("id", id),
		slog.String("product_code", req.ProductCode),
		slog.Time("fire_at", req.FireAt),
	)

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) HandleCancel(c *gin.Context) {
	id := c.Param("id")

	if !h.storage.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
		return
	}

	slog.Debug("cancelled reminder", slog.String("id", id))

	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleCancelAll(c *gin.Context) {
	n := h.storage.RemoveAll()

	slog.Debug("cancelled all reminders", slog.Int("count", n))

	c.JSON(http.StatusOK, gin.H{"cancelled": n})
}

func (h *Handler) HandleList(c *gin.Context) {
	items := h.storage.List()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// HandleConfigure toggles failure injection.
// POST /stub/configure?deny_permission=true&fail_next=2
func (h *Handler) HandleConfigure(c *gin.Context) {
	if v := c.Query("deny_permission"); v != "" {
		h.denyPermission.Store(v == "true")
	}
	if v := c.Query("fail_next"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fail_next must be a non-negative integer"})
			return
		}
		h.failNext.Store(int32(n))
	}

	slog.Info("stub configured",
		slog.Bool("deny_permission", h.denyPermission.Load()),
		slog.Int("fail_next", int(h.failNext.Load())),
	)

	c.JSON(http.StatusOK, gin.H{
		"deny_permission": h.denyPermission.Load(),
		"fail_next":       h.failNext.Load(),
	})
}
