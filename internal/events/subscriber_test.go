package events

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/shelfwatch/shelfwatch/internal/domain"
	"github.com/shelfwatch/shelfwatch/internal/infra/dispatcher"
	"github.com/shelfwatch/shelfwatch/internal/plan"
	"github.com/shelfwatch/shelfwatch/internal/schedule"
)

func newTestScheduler(productRepo domain.ProductRepository, settingsRepo domain.SettingsRepository, dispatch dispatcher.Dispatcher) *schedule.Service {
	planner := plan.NewPlanner(plan.Config{
		DailyHour:     9,
		GroupHour:     8,
		SameDayHours:  []int{9, 13, 19},
		ExpiredDelay:  2 * time.Minute,
		UrgentLeadMax: 3,
		Location:      time.UTC,
	})
	svc := schedule.NewService(productRepo, settingsRepo, dispatch, planner, nil)
	svc.SetPacing(0, 0)
	return svc
}

func TestHandleProductSoldCancelsReminders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := domain.NewMockProductRepository(ctrl)
	settingsRepo := domain.NewMockSettingsRepository(ctrl)
	mockDispatch := dispatcher.NewMockDispatcher(ctrl)

	mockDispatch.EXPECT().ListScheduled(gomock.Any()).Return([]dispatcher.ScheduledItem{
		{ID: "d-1", ProductCode: "milk-01"},
		{ID: "d-2", ProductCode: "eggs-02"},
	}, nil)
	mockDispatch.EXPECT().Cancel(gomock.Any(), "d-1").Return(nil)

	sub := NewSubscriber(nil, productRepo, newTestScheduler(productRepo, settingsRepo, mockDispatch))
	sub.Handle(context.Background(), Event{Type: ProductSold, ProductCode: "milk-01"})
}

func TestHandleProductUpdatedReschedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := domain.NewMockProductRepository(ctrl)
	settingsRepo := domain.NewMockSettingsRepository(ctrl)
	mockDispatch := dispatcher.NewMockDispatcher(ctrl)

	expiration := domain.DateOf(time.Now()).AddDays(10)
	productRepo.EXPECT().Get(gomock.Any(), "milk-01").Return(&domain.Product{
		Code:           "milk-01",
		Description:    "Whole milk 1L",
		Quantity:       1,
		ExpirationDate: expiration,
	}, nil)

	settings := domain.DefaultSettings()
	settingsRepo.EXPECT().Get(gomock.Any()).Return(&settings, nil)

	mockDispatch.EXPECT().ListScheduled(gomock.Any()).Return(nil, nil)
	// Default leads 1, 3, 7 all fit a 10-day horizon.
	mockDispatch.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return("dispatch-id", nil).Times(3)

	sub := NewSubscriber(nil, productRepo, newTestScheduler(productRepo, settingsRepo, mockDispatch))
	sub.Handle(context.Background(), Event{Type: ProductUpdated, ProductCode: "milk-01"})
}

func TestHandleProductUpdatedGoneCancelsLeftovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := domain.NewMockProductRepository(ctrl)
	settingsRepo := domain.NewMockSettingsRepository(ctrl)
	mockDispatch := dispatcher.NewMockDispatcher(ctrl)

	productRepo.EXPECT().Get(gomock.Any(), "milk-01").Return(nil, domain.ErrProductNotFound)
	mockDispatch.EXPECT().ListScheduled(gomock.Any()).Return([]dispatcher.ScheduledItem{
		{ID: "d-1", ProductCode: "milk-01"},
	}, nil)
	mockDispatch.EXPECT().Cancel(gomock.Any(), "d-1").Return(nil)

	sub := NewSubscriber(nil, productRepo, newTestScheduler(productRepo, settingsRepo, mockDispatch))
	sub.Handle(context.Background(), Event{Type: ProductUpdated, ProductCode: "milk-01"})
}

func TestHandleSettingsUpdatedReschedulesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := domain.NewMockProductRepository(ctrl)
	settingsRepo := domain.NewMockSettingsRepository(ctrl)
	mockDispatch := dispatcher.NewMockDispatcher(ctrl)

	settings := domain.DefaultSettings()
	settingsRepo.EXPECT().Get(gomock.Any()).Return(&settings, nil)
	productRepo.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
	mockDispatch.EXPECT().CancelAll(gomock.Any()).Return(nil)

	sub := NewSubscriber(nil, productRepo, newTestScheduler(productRepo, settingsRepo, mockDispatch))
	sub.Handle(context.Background(), Event{Type: SettingsUpdated})
}

func TestHandleUnknownEventIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := domain.NewMockProductRepository(ctrl)
	settingsRepo := domain.NewMockSettingsRepository(ctrl)
	mockDispatch := dispatcher.NewMockDispatcher(ctrl)
	// No expectations: nothing may be called.

	sub := NewSubscriber(nil, productRepo, newTestScheduler(productRepo, settingsRepo, mockDispatch))
	sub.Handle(context.Background(), Event{Type: "SOMETHING_ELSE"})
}
