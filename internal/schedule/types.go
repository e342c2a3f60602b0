package schedule

import (
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

type ResultItem struct {
	InstructionID string          `json:"instruction_id"`
	ProductCode   string          `json:"product_code"`
	LeadDays      int             `json:"lead_days"`
	FireAt        time.Time       `json:"fire_at"`
	Severity      domain.Severity `json:"severity"`
	DispatchID    string          `json:"dispatch_id,omitempty"`
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
}

type Response struct {
	PlannedCount     int          `json:"planned_count"`
	ScheduledCount   int          `json:"scheduled_count"`
	FailedCount      int          `json:"failed_count"`
	CancelledCount   int          `json:"cancelled_count"`
	PermissionDenied bool         `json:"permission_denied,omitempty"`
	Results          []ResultItem `json:"results"`
}
