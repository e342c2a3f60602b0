package plan

import (
	"testing"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

func testConfig() Config {
	return Config{
		DailyHour:     9,
		GroupHour:     8,
		SameDayHours:  []int{9, 13, 19},
		ExpiredDelay:  2 * time.Minute,
		UrgentLeadMax: 3,
		Location:      time.UTC,
	}
}

func testSettings() *domain.NotificationSettings {
	return &domain.NotificationSettings{
		Enabled:          true,
		NotificationDays: []int{1, 3, 5, 7},
		SoundEnabled:     true,
	}
}

func testProduct(code string, expiration domain.Date) domain.Product {
	return domain.Product{
		Code:           code,
		Description:    "milk carton",
		Quantity:       2,
		ExpirationDate: expiration,
	}
}

func TestPlanRemindersDisabledReturnsEmpty(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)

	settings := testSettings()
	settings.Enabled = false

	products := []domain.Product{testProduct("p-1", domain.NewDate(2026, time.May, 15))}

	if got := planner.PlanReminders(products, settings, now); len(got) != 0 {
		t.Errorf("PlanReminders with disabled settings = %d instructions, want 0", len(got))
	}
}

func TestPlanRemindersExcludesSoldProducts(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)

	sold := testProduct("p-sold", domain.NewDate(2026, time.May, 11))
	sold.IsSold = true
	expired := testProduct("p-sold-expired", domain.NewDate(2026, time.May, 1))
	expired.IsSold = true

	got := planner.PlanReminders([]domain.Product{sold, expired}, testSettings(), now)

	for _, instr := range got {
		if instr.ProductCode == "p-sold" || instr.ProductCode == "p-sold-expired" {
			t.Errorf("sold product %q appeared in plan", instr.ProductCode)
		}
	}
	if len(got) != 0 {
		t.Errorf("plan for only-sold products = %d instructions, want 0", len(got))
	}
}

func TestPlanRemindersSkipsProductsWithoutExpiration(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)

	p := testProduct("p-nodate", domain.Date{})

	if got := planner.PlanReminders([]domain.Product{p}, testSettings(), now); len(got) != 0 {
		t.Errorf("plan for date-less product = %d instructions, want 0", len(got))
	}
}

func TestPlanRemindersLeadDaySubsetSortedDescending(t *testing.T) {
	planner := NewPlanner(testConfig())
	// 07:00 on the 10th, product expires on the 14th: daysRemaining = 4.
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)
	product := testProduct("p-1", domain.NewDate(2026, time.May, 14))

	got := planner.PlanReminders([]domain.Product{product}, testSettings(), now)

	if len(got) != 2 {
		t.Fatalf("planned %d instructions, want 2 (leads 3 and 1)", len(got))
	}
	if got[0].LeadDays != 3 || got[1].LeadDays != 1 {
		t.Errorf("lead order = [%d, %d], want [3, 1]", got[0].LeadDays, got[1].LeadDays)
	}

	wantFirst := time.Date(2026, time.May, 11, 9, 0, 0, 0, time.UTC)
	if !got[0].FireAt.Equal(wantFirst) {
		t.Errorf("first FireAt = %v, want %v", got[0].FireAt, wantFirst)
	}
	if got[0].Severity != domain.SeverityUrgent {
		t.Errorf("lead 3 severity = %v, want urgent", got[0].Severity)
	}
	if got[1].Severity != domain.SeverityUrgent {
		t.Errorf("lead 1 severity = %v, want urgent", got[1].Severity)
	}
}

func TestPlanRemindersLongLeadIsInformational(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)
	product := testProduct("p-1", domain.NewDate(2026, time.May, 20))

	got := planner.PlanReminders([]domain.Product{product}, testSettings(), now)

	if len(got) != 4 {
		t.Fatalf("planned %d instructions, want 4", len(got))
	}
	if got[0].LeadDays != 7 || got[0].Severity != domain.SeverityInfo {
		t.Errorf("lead 7 = (%d, %v), want informational", got[0].LeadDays, got[0].Severity)
	}
	if got[1].LeadDays != 5 || got[1].Severity != domain.SeverityInfo {
		t.Errorf("lead 5 = (%d, %v), want informational", got[1].LeadDays, got[1].Severity)
	}
}

func TestPlanRemindersSkipsPastFiringTimes(t *testing.T) {
	planner := NewPlanner(testConfig())
	// 10:00 is already past the 09:00 slot; a lead that would fire today at
	// 09:00 must be dropped.
	now := time.Date(2026, time.May, 10, 10, 0, 0, 0, time.UTC)
	product := testProduct("p-1", domain.NewDate(2026, time.May, 11))

	got := planner.PlanReminders([]domain.Product{product}, testSettings(), now)

	if len(got) != 0 {
		t.Errorf("planned %d instructions, want 0 (only slot already passed)", len(got))
	}
}

func TestPlanRemindersExpiredProduct(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)
	product := testProduct("p-old", domain.NewDate(2026, time.May, 9))

	got := planner.PlanReminders([]domain.Product{product}, testSettings(), now)

	if len(got) != 1 {
		t.Fatalf("planned %d instructions, want 1", len(got))
	}
	instr := got[0]
	if instr.Severity != domain.SeverityCritical {
		t.Errorf("Severity = %v, want critical", instr.Severity)
	}
	want := now.Add(2 * time.Minute)
	if !instr.FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", instr.FireAt, want)
	}
	if instr.Body != "Expired 1 day ago" {
		t.Errorf("Body = %q, want %q", instr.Body, "Expired 1 day ago")
	}
}

func TestPlanRemindersExpiresToday(t *testing.T) {
	planner := NewPlanner(testConfig())
	// 10:00: the 09:00 slot has passed, 13:00 and 19:00 remain.
	now := time.Date(2026, time.May, 10, 10, 0, 0, 0, time.UTC)
	product := testProduct("p-today", domain.NewDate(2026, time.May, 10))

	got := planner.PlanReminders([]domain.Product{product}, testSettings(), now)

	if len(got) != 2 {
		t.Fatalf("planned %d instructions, want 2", len(got))
	}
	wantHours := []int{13, 19}
	for i, instr := range got {
		if instr.FireAt.Hour() != wantHours[i] {
			t.Errorf("instruction %d fires at hour %d, want %d", i, instr.FireAt.Hour(), wantHours[i])
		}
		if instr.Severity != domain.SeverityUrgent {
			t.Errorf("instruction %d severity = %v, want urgent", i, instr.Severity)
		}
		if instr.Body != "Expires today" {
			t.Errorf("instruction %d body = %q, want %q", i, instr.Body, "Expires today")
		}
	}
}

func TestPlanRemindersQuietHoursDeferral(t *testing.T) {
	cfg := testConfig()
	cfg.SameDayHours = []int{6}
	planner := NewPlanner(cfg)

	now := time.Date(2026, time.May, 10, 1, 0, 0, 0, time.UTC)
	settings := testSettings()
	settings.QuietHours = true
	settings.QuietHoursStart = 22
	settings.QuietHoursEnd = 8

	product := testProduct("p-today", domain.NewDate(2026, time.May, 10))

	got := planner.PlanReminders([]domain.Product{product}, settings, now)

	if len(got) != 1 {
		t.Fatalf("planned %d instructions, want 1", len(got))
	}
	// 06:00 sits inside [22, 8); the deferred time is exactly 08:00 same day.
	want := time.Date(2026, time.May, 10, 8, 0, 0, 0, time.UTC)
	if !got[0].FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want deferred to %v", got[0].FireAt, want)
	}
}

func TestPlanRemindersGroupMode(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)

	settings := testSettings()
	settings.NotificationDays = []int{3}
	settings.GroupNotifications = true

	products := []domain.Product{
		testProduct("p-1", domain.NewDate(2026, time.May, 14)),
		testProduct("p-2", domain.NewDate(2026, time.May, 14)),
		testProduct("p-3", domain.NewDate(2026, time.May, 20)),
	}

	got := planner.PlanReminders(products, settings, now)

	// Three per-product instructions plus one digest for the shared bucket.
	if len(got) != 4 {
		t.Fatalf("planned %d instructions, want 4", len(got))
	}

	digest := got[len(got)-1]
	if !digest.Grouped {
		t.Fatalf("last instruction is not the grouped digest: %+v", digest)
	}
	if digest.ProductCount != 2 {
		t.Errorf("digest ProductCount = %d, want 2", digest.ProductCount)
	}
	if digest.Body != "2 products expiring in 3 days" {
		t.Errorf("digest Body = %q", digest.Body)
	}
	if digest.FireAt.Hour() != 8 {
		t.Errorf("digest fires at hour %d, want 8", digest.FireAt.Hour())
	}
	if digest.ProductCode != "" {
		t.Errorf("digest ProductCode = %q, want empty", digest.ProductCode)
	}
}

func TestPlanRemindersIdempotent(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)

	products := []domain.Product{
		testProduct("p-1", domain.NewDate(2026, time.May, 14)),
		testProduct("p-2", domain.NewDate(2026, time.May, 10)),
		testProduct("p-3", domain.NewDate(2026, time.May, 8)),
	}
	settings := testSettings()

	first := planner.PlanReminders(products, settings, now)
	second := planner.PlanReminders(products, settings, now)

	if len(first) != len(second) {
		t.Fatalf("instruction counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ProductCode != b.ProductCode || a.LeadDays != b.LeadDays ||
			!a.FireAt.Equal(b.FireAt) || a.Severity != b.Severity {
			t.Errorf("instruction %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestPlanRemindersSoundFlagFollowsSettings(t *testing.T) {
	planner := NewPlanner(testConfig())
	now := time.Date(2026, time.May, 10, 7, 0, 0, 0, time.UTC)
	product := testProduct("p-1", domain.NewDate(2026, time.May, 14))

	settings := testSettings()
	settings.SoundEnabled = false

	got := planner.PlanReminders([]domain.Product{product}, settings, now)
	if len(got) == 0 {
		t.Fatal("expected instructions")
	}
	for _, instr := range got {
		if instr.Sound {
			t.Errorf("instruction %s has sound enabled, want disabled", instr.ID)
		}
	}
}
