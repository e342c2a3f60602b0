package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/domain"
)

func setupSummaryRouter(h *SummaryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/summary", h.HandleSummary)
	r.GET("/api/v1/summary/months", h.HandleMonths)
	return r
}

func TestHandleSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	today := domain.DateOf(time.Now())

	repo := domain.NewMockProductRepository(ctrl)
	repo.EXPECT().GetAll(gomock.Any()).Return([]domain.Product{
		{Code: "a", ExpirationDate: today.AddDays(-3)},
		{Code: "b", ExpirationDate: today.AddDays(5)},
		{Code: "c", ExpirationDate: today.AddDays(90)},
		{Code: "d", ExpirationDate: today.AddDays(5), IsSold: true},
	}, nil)

	notify := &config.NotifyConfig{ExpiringWindowDays: 30}
	router := setupSummaryRouter(NewSummaryHandler(repo, notify))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var summary struct {
		Expired  int `json:"expired"`
		Expiring int `json:"expiring"`
		Valid    int `json:"valid"`
		Total    int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if summary.Expired != 1 || summary.Expiring != 1 || summary.Valid != 1 {
		t.Errorf("summary = %+v, want 1/1/1", summary)
	}
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3 (sold excluded)", summary.Total)
	}
}

func TestHandleMonths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockProductRepository(ctrl)
	repo.EXPECT().GetAll(gomock.Any()).Return([]domain.Product{
		{Code: "a", ExpirationDate: domain.NewDate(2026, time.March, 5)},
		{Code: "b", ExpirationDate: domain.NewDate(2026, time.March, 20)},
		{Code: "c", ExpirationDate: domain.NewDate(2026, time.April, 1)},
	}, nil)

	router := setupSummaryRouter(NewSummaryHandler(repo, &config.NotifyConfig{ExpiringWindowDays: 30}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary/months", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Months map[string]int `json:"months"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Months["Mar 2026"] != 2 {
		t.Errorf("Mar 2026 = %d, want 2", resp.Months["Mar 2026"])
	}
	if resp.Months["Apr 2026"] != 1 {
		t.Errorf("Apr 2026 = %d, want 1", resp.Months["Apr 2026"])
	}
}
