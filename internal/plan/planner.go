package plan

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwatch/shelfwatch/internal/classify"
	"github.com/shelfwatch/shelfwatch/internal/domain"
)

// Config holds the fixed clock times and thresholds of the day-bucket
// algorithm. Values are clock hours in Location.
type Config struct {
	// DailyHour is the firing hour for lead-time reminders.
	DailyHour int
	// GroupHour is the firing hour for grouped digest reminders.
	GroupHour int
	// SameDayHours are the firing hours for expires-today reminders.
	SameDayHours []int
	// ExpiredDelay is the near-immediate delay for already-expired reminders.
	ExpiredDelay time.Duration
	// UrgentLeadMax is the largest lead (in days) still tagged urgent.
	UrgentLeadMax int
	Location      *time.Location
}

func DefaultConfig() Config {
	return Config{
		DailyHour:     9,
		GroupHour:     8,
		SameDayHours:  []int{9, 13, 19},
		ExpiredDelay:  2 * time.Minute,
		UrgentLeadMax: 3,
		Location:      time.Local,
	}
}

// Planner computes the desired reminder set from the product list and the
// notification settings. It is a pure function of its inputs: it never touches
// stores or the dispatcher, so the caller can recompute the full set on every
// change and reconcile it downstream.
type Planner struct {
	cfg Config
}

func NewPlanner(cfg Config) *Planner {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if len(cfg.SameDayHours) == 0 {
		cfg.SameDayHours = DefaultConfig().SameDayHours
	}
	if cfg.ExpiredDelay <= 0 {
		cfg.ExpiredDelay = DefaultConfig().ExpiredDelay
	}
	return &Planner{cfg: cfg}
}

// PlanReminders produces the full desired instruction set for the given
// moment. Sold products and products without an expiration date are excluded;
// only strictly-future firing times are emitted.
func (p *Planner) PlanReminders(
	products []domain.Product,
	settings *domain.NotificationSettings,
	now time.Time,
) []domain.ReminderInstruction {
	if settings == nil || !settings.Enabled {
		return nil
	}

	now = now.In(p.cfg.Location)
	today := domain.DateOf(now)

	instructions := make([]domain.ReminderInstruction, 0, len(products))

	// Grouped digests bucket by (leadDays, firing date).
	type groupKey struct {
		leadDays int
		fireDate domain.Date
	}
	groupCounts := make(map[groupKey]int)

	for i := range products {
		product := &products[i]
		if product.IsSold || product.ExpirationDate.IsZero() {
			continue
		}

		days := product.ExpirationDate.DaysUntil(today)

		switch {
		case days < 0:
			instructions = append(instructions, p.expiredInstruction(product, settings, now))

		case days == 0:
			instructions = append(instructions, p.sameDayInstructions(product, settings, now, today)...)

		default:
			for _, lead := range leadDaysFor(settings.NotificationDays, days) {
				instr, ok := p.leadInstruction(product, settings, now, lead)
				if !ok {
					continue
				}
				instructions = append(instructions, instr)
				groupCounts[groupKey{leadDays: lead, fireDate: domain.DateOf(instr.FireAt)}]++
			}
		}
	}

	if settings.GroupNotifications {
		keys := make([]groupKey, 0, len(groupCounts))
		for key, count := range groupCounts {
			if count > 1 {
				keys = append(keys, key)
			}
		}
		// Map order is random; emit digests deterministically.
		slices.SortFunc(keys, func(a, b groupKey) int {
			if a.fireDate != b.fireDate {
				return a.fireDate.DaysUntil(b.fireDate)
			}
			return b.leadDays - a.leadDays
		})

		for _, key := range keys {
			fireAt := key.fireDate.At(p.cfg.GroupHour, 0, p.cfg.Location)
			fireAt = applyQuietHours(fireAt, settings)
			if !fireAt.After(now) {
				continue
			}
			count := groupCounts[key]
			instructions = append(instructions, domain.ReminderInstruction{
				ID:           uuid.NewString(),
				LeadDays:     key.leadDays,
				FireAt:       fireAt,
				Severity:     severityForLead(key.leadDays, p.cfg.UrgentLeadMax),
				Title:        "Expiring products",
				Body:         fmt.Sprintf("%d products expiring in %d days", count, key.leadDays),
				Sound:        settings.SoundEnabled,
				Grouped:      true,
				ProductCount: count,
			})
		}
	}

	return instructions
}

func (p *Planner) expiredInstruction(
	product *domain.Product,
	settings *domain.NotificationSettings,
	now time.Time,
) domain.ReminderInstruction {
	fireAt := applyQuietHours(now.Add(p.cfg.ExpiredDelay), settings)
	cls := classify.Classify(product.ExpirationDate, domain.DateOf(now))

	return domain.ReminderInstruction{
		ID:          uuid.NewString(),
		ProductCode: product.Code,
		LeadDays:    0,
		FireAt:      fireAt,
		Severity:    domain.SeverityCritical,
		Title:       product.Description,
		Body:        cls.Label,
		Sound:       settings.SoundEnabled,
	}
}

func (p *Planner) sameDayInstructions(
	product *domain.Product,
	settings *domain.NotificationSettings,
	now time.Time,
	today domain.Date,
) []domain.ReminderInstruction {
	instructions := make([]domain.ReminderInstruction, 0, len(p.cfg.SameDayHours))
	for _, hour := range p.cfg.SameDayHours {
		fireAt := applyQuietHours(today.At(hour, 0, p.cfg.Location), settings)
		if !fireAt.After(now) {
			continue
		}
		instructions = append(instructions, domain.ReminderInstruction{
			ID:          uuid.NewString(),
			ProductCode: product.Code,
			LeadDays:    0,
			FireAt:      fireAt,
			Severity:    domain.SeverityUrgent,
			Title:       product.Description,
			Body:        "Expires today",
			Sound:       settings.SoundEnabled,
		})
	}
	return instructions
}

func (p *Planner) leadInstruction(
	product *domain.Product,
	settings *domain.NotificationSettings,
	now time.Time,
	lead int,
) (domain.ReminderInstruction, bool) {
	fireDate := product.ExpirationDate.AddDays(-lead)
	fireAt := applyQuietHours(fireDate.At(p.cfg.DailyHour, 0, p.cfg.Location), settings)
	if !fireAt.After(now) {
		return domain.ReminderInstruction{}, false
	}

	var body string
	if lead == 1 {
		body = fmt.Sprintf("%s expires in 1 day", product.Description)
	} else {
		body = fmt.Sprintf("%s expires in %d days", product.Description, lead)
	}

	return domain.ReminderInstruction{
		ID:          uuid.NewString(),
		ProductCode: product.Code,
		LeadDays:    lead,
		FireAt:      fireAt,
		Severity:    severityForLead(lead, p.cfg.UrgentLeadMax),
		Title:       product.Description,
		Body:        body,
		Sound:       settings.SoundEnabled,
	}, true
}

// leadDaysFor selects the lead times applicable to a product and orders them
// largest first, so the earliest calendar date is planned first.
func leadDaysFor(notificationDays []int, daysRemaining int) []int {
	leads := make([]int, 0, len(notificationDays))
	for _, d := range notificationDays {
		if d > 0 && d <= daysRemaining && !slices.Contains(leads, d) {
			leads = append(leads, d)
		}
	}
	slices.SortFunc(leads, func(a, b int) int { return b - a })
	return leads
}

func severityForLead(lead, urgentMax int) domain.Severity {
	if lead <= urgentMax {
		return domain.SeverityUrgent
	}
	return domain.SeverityInfo
}
