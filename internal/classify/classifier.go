package classify

import (
	"fmt"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

const (
	// SoonWindowDays is the inclusive upper bound (in days remaining) of the
	// expiring-soon band.
	SoonWindowDays = 7
	// LaterWindowDays is the inclusive upper bound of the expiring-later band.
	// Anything beyond it is fully valid.
	LaterWindowDays = 30

	// Long-tail banding thresholds for already-expired products.
	expiredStaleDays = 30
	expiredAgingDays = 15
)

// Status is the expiration state of a product.
type Status string

const (
	StatusExpired       Status = "expired"
	StatusExpiresToday  Status = "expires_today"
	StatusExpiringSoon  Status = "expiring_soon"
	StatusExpiringLater Status = "expiring_later"
	StatusValid         Status = "valid"
)

// Tier is the color tier driving presentation.
type Tier string

const (
	TierCritical Tier = "critical" // red
	TierUrgent   Tier = "urgent"   // orange
	TierWarning  Tier = "warning"  // yellow
	TierOK       Tier = "ok"       // green

	// Long-tail tiers used only by already-expired views.
	TierCriticalAging Tier = "critical_aging" // expired more than 15 days
	TierCriticalStale Tier = "critical_stale" // expired more than 30 days
)

type Classification struct {
	DaysRemaining int    `json:"days_remaining"`
	IsExpired     bool   `json:"is_expired"`
	Status        Status `json:"status"`
	Label         string `json:"label"`
	Tier          Tier   `json:"tier"`
}

// Classify maps an expiration date and the current date to an expiration
// status. Pure and deterministic: both inputs are calendar dates, so
// time-of-day never influences the result.
func Classify(expiration, now domain.Date) Classification {
	days := expiration.DaysUntil(now)

	switch {
	case days < 0:
		return Classification{
			DaysRemaining: days,
			IsExpired:     true,
			Status:        StatusExpired,
			Label:         expiredLabel(-days),
			Tier:          TierCritical,
		}
	case days == 0:
		return Classification{
			DaysRemaining: 0,
			Status:        StatusExpiresToday,
			Label:         "Expires today",
			Tier:          TierUrgent,
		}
	case days <= SoonWindowDays:
		return Classification{
			DaysRemaining: days,
			Status:        StatusExpiringSoon,
			Label:         expiresInLabel(days),
			Tier:          TierUrgent,
		}
	case days <= LaterWindowDays:
		return Classification{
			DaysRemaining: days,
			Status:        StatusExpiringLater,
			Label:         expiresInLabel(days),
			Tier:          TierWarning,
		}
	default:
		return Classification{
			DaysRemaining: days,
			Status:        StatusValid,
			Label:         expiresInLabel(days),
			Tier:          TierOK,
		}
	}
}

// ExpiredTier applies the finer long-tail banding the expired views use for
// severity styling. daysExpired must be positive.
func ExpiredTier(daysExpired int) Tier {
	switch {
	case daysExpired > expiredStaleDays:
		return TierCriticalStale
	case daysExpired > expiredAgingDays:
		return TierCriticalAging
	default:
		return TierCritical
	}
}

func expiredLabel(daysAgo int) string {
	if daysAgo == 1 {
		return "Expired 1 day ago"
	}
	return fmt.Sprintf("Expired %d days ago", daysAgo)
}

func expiresInLabel(days int) string {
	if days == 1 {
		return "Expires in 1 day"
	}
	return fmt.Sprintf("Expires in %d days", days)
}
