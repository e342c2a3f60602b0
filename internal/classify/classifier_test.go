package classify

import (
	"testing"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

func TestClassifyBands(t *testing.T) {
	now := domain.NewDate(2026, time.March, 15)

	tests := []struct {
		name       string
		expiration domain.Date
		wantDays   int
		wantExp    bool
		wantStatus Status
		wantLabel  string
		wantTier   Tier
	}{
		{
			name:       "yesterday is expired",
			expiration: now.AddDays(-1),
			wantDays:   -1,
			wantExp:    true,
			wantStatus: StatusExpired,
			wantLabel:  "Expired 1 day ago",
			wantTier:   TierCritical,
		},
		{
			name:       "ten days ago uses plural label",
			expiration: now.AddDays(-10),
			wantDays:   -10,
			wantExp:    true,
			wantStatus: StatusExpired,
			wantLabel:  "Expired 10 days ago",
			wantTier:   TierCritical,
		},
		{
			name:       "today expires today",
			expiration: now,
			wantDays:   0,
			wantExp:    false,
			wantStatus: StatusExpiresToday,
			wantLabel:  "Expires today",
			wantTier:   TierUrgent,
		},
		{
			name:       "tomorrow uses singular label",
			expiration: now.AddDays(1),
			wantDays:   1,
			wantStatus: StatusExpiringSoon,
			wantLabel:  "Expires in 1 day",
			wantTier:   TierUrgent,
		},
		{
			name:       "seven days is still urgent",
			expiration: now.AddDays(7),
			wantDays:   7,
			wantStatus: StatusExpiringSoon,
			wantLabel:  "Expires in 7 days",
			wantTier:   TierUrgent,
		},
		{
			name:       "eight days drops to warning",
			expiration: now.AddDays(8),
			wantDays:   8,
			wantStatus: StatusExpiringLater,
			wantLabel:  "Expires in 8 days",
			wantTier:   TierWarning,
		},
		{
			name:       "thirty days is warning",
			expiration: now.AddDays(30),
			wantDays:   30,
			wantStatus: StatusExpiringLater,
			wantLabel:  "Expires in 30 days",
			wantTier:   TierWarning,
		},
		{
			name:       "sixty days is ok",
			expiration: now.AddDays(60),
			wantDays:   60,
			wantStatus: StatusValid,
			wantLabel:  "Expires in 60 days",
			wantTier:   TierOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.expiration, now)

			if got.DaysRemaining != tt.wantDays {
				t.Errorf("DaysRemaining = %d, want %d", got.DaysRemaining, tt.wantDays)
			}
			if got.IsExpired != tt.wantExp {
				t.Errorf("IsExpired = %v, want %v", got.IsExpired, tt.wantExp)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %v, want %v", got.Tier, tt.wantTier)
			}
		})
	}
}

func TestClassifyIsExpiredMatchesDayArithmetic(t *testing.T) {
	now := domain.NewDate(2026, time.January, 31)

	for offset := -40; offset <= 40; offset++ {
		expiration := now.AddDays(offset)
		got := Classify(expiration, now)

		wantExpired := expiration.DaysUntil(now) < 0
		if got.IsExpired != wantExpired {
			t.Errorf("offset %d: IsExpired = %v, want %v", offset, got.IsExpired, wantExpired)
		}
	}
}

func TestClassifyMonthBoundary(t *testing.T) {
	// Day arithmetic must stay exact across month and year rollovers.
	now := domain.NewDate(2026, time.December, 31)
	got := Classify(domain.NewDate(2027, time.January, 1), now)

	if got.DaysRemaining != 1 {
		t.Errorf("DaysRemaining across year boundary = %d, want 1", got.DaysRemaining)
	}
	if got.Status != StatusExpiringSoon {
		t.Errorf("Status = %v, want %v", got.Status, StatusExpiringSoon)
	}
}

func TestExpiredTier(t *testing.T) {
	tests := []struct {
		name        string
		daysExpired int
		want        Tier
	}{
		{name: "one day expired is base critical", daysExpired: 1, want: TierCritical},
		{name: "fifteen days is still base critical", daysExpired: 15, want: TierCritical},
		{name: "sixteen days is aging", daysExpired: 16, want: TierCriticalAging},
		{name: "thirty days is aging", daysExpired: 30, want: TierCriticalAging},
		{name: "thirty-one days is stale", daysExpired: 31, want: TierCriticalStale},
		{name: "ninety days is stale", daysExpired: 90, want: TierCriticalStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiredTier(tt.daysExpired); got != tt.want {
				t.Errorf("ExpiredTier(%d) = %v, want %v", tt.daysExpired, got, tt.want)
			}
		})
	}
}
