package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwatch/shelfwatch/internal/classify"
	"github.com/shelfwatch/shelfwatch/internal/domain"
	"github.com/shelfwatch/shelfwatch/internal/events"
)

type ProductHandler struct {
	repo domain.ProductRepository
	bus  events.Publisher
}

func NewProductHandler(repo domain.ProductRepository, bus events.Publisher) *ProductHandler {
	return &ProductHandler{
		repo: repo,
		bus:  bus,
	}
}

type productRequest struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	ExpirationDate string `json:"expiration_date"`
}

type renameRequest struct {
	NewCode string `json:"new_code"`
}

// productView is a product joined with its expiration classification as of
// today.
type productView struct {
	domain.Product
	Classification classify.Classification `json:"classification"`
}

func (h *ProductHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to list products")
		return
	}

	today := domain.DateOf(time.Now())
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			Product:        p,
			Classification: classify.Classify(p.ExpirationDate, today),
		})
	}

	c.JSON(http.StatusOK, gin.H{"products": views})
}

func (h *ProductHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	product, err := h.repo.Get(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		slog.ErrorContext(ctx, "failed to get product",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to get product")
		return
	}

	c.JSON(http.StatusOK, productView{
		Product:        *product,
		Classification: classify.Classify(product.ExpirationDate, domain.DateOf(time.Now())),
	})
}

func (h *ProductHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	product, ok := h.bindProduct(c)
	if !ok {
		return
	}

	if product.ClampQuantity() {
		slog.WarnContext(ctx, "quantity clamped to minimum",
			slog.String("product_code", product.Code),
		)
	}

	if err := h.repo.Save(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			respondError(c, http.StatusConflict, "duplicate_code", "product code already exists")
			return
		}
		slog.ErrorContext(ctx, "failed to save product",
			slog.String("product_code", product.Code),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save product")
		return
	}

	h.publish(ctx, events.ProductCreated, product.Code)

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	product, ok := h.bindProduct(c)
	if !ok {
		return
	}
	if product.Code != code {
		respondError(c, http.StatusBadRequest, "validation_error", "code in body must match path")
		return
	}

	if product.ClampQuantity() {
		slog.WarnContext(ctx, "quantity clamped to minimum",
			slog.String("product_code", product.Code),
		)
	}

	if err := h.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		slog.ErrorContext(ctx, "failed to update product",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update product")
		return
	}

	h.publish(ctx, events.ProductUpdated, code)

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) HandleRename(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.NewCode == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "new_code is required")
		return
	}

	if err := h.repo.Rename(ctx, code, req.NewCode); err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "not_found", "product not found")
		case errors.Is(err, domain.ErrDuplicateCode):
			respondError(c, http.StatusConflict, "duplicate_code", "product code already exists")
		default:
			slog.ErrorContext(ctx, "failed to rename product",
				slog.String("product_code", code),
				slog.String("new_code", req.NewCode),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "storage_error", "failed to rename product")
		}
		return
	}

	// The old code's reminders are retracted, the new code's scheduled.
	h.publish(ctx, events.ProductDeleted, code)
	h.publish(ctx, events.ProductUpdated, req.NewCode)

	c.JSON(http.StatusOK, gin.H{"code": req.NewCode})
}

func (h *ProductHandler) HandleMarkSold(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	if err := h.repo.MarkSold(ctx, code); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		slog.ErrorContext(ctx, "failed to mark product sold",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to mark product sold")
		return
	}

	h.publish(ctx, events.ProductSold, code)

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	if err := h.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "product not found")
			return
		}
		slog.ErrorContext(ctx, "failed to delete product",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to delete product")
		return
	}

	h.publish(ctx, events.ProductDeleted, code)

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) bindProduct(c *gin.Context) (*domain.Product, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return nil, false
	}

	product := &domain.Product{
		Code:        req.Code,
		Description: req.Description,
		Quantity:    req.Quantity,
	}

	if req.ExpirationDate != "" {
		date, err := domain.ParseDate(req.ExpirationDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "expiration_date must be YYYY-MM-DD")
			return nil, false
		}
		product.ExpirationDate = date
	}

	if err := product.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return nil, false
	}

	return product, true
}

// publish is best-effort: a lost event means reminders lag until the next
// full reschedule, which is preferable to failing the mutation.
func (h *ProductHandler) publish(ctx context.Context, eventType events.Type, code string) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(ctx, events.Event{Type: eventType, ProductCode: code}); err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
	}
}
