package domain

import (
	"fmt"
	"time"
)

// Severity classifies a reminder's urgency, driving presentation and channel
// choice in the dispatcher.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityUrgent   Severity = "urgent"
	SeverityInfo     Severity = "informational"
)

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsCritical() bool {
	return s == SeverityCritical
}

// ReminderInstruction is one scheduling instruction handed to the external
// notification dispatcher. It is recomputed from scratch on every plan; the
// dispatcher owns whatever it has already accepted.
type ReminderInstruction struct {
	ID           string    `json:"id"`
	ProductCode  string    `json:"product_code"`
	LeadDays     int       `json:"lead_days"`
	FireAt       time.Time `json:"fire_at"`
	Severity     Severity  `json:"severity"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Sound        bool      `json:"sound"`
	Grouped      bool      `json:"grouped"`
	ProductCount int       `json:"product_count,omitempty"`
}

// DedupKey identifies an instruction for reconciliation purposes. Same-day
// reminders share a lead of zero, so the firing hour disambiguates them.
func (r *ReminderInstruction) DedupKey() string {
	return fmt.Sprintf("%s:%d:%02d", r.ProductCode, r.LeadDays, r.FireAt.Hour())
}
