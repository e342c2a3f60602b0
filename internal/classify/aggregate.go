package classify

import (
	"github.com/shelfwatch/shelfwatch/internal/domain"
)

// Summary buckets a product collection by expiration state. Sold products are
// excluded from every bucket.
type Summary struct {
	Expired  int `json:"expired"`
	Expiring int `json:"expiring"`
	Valid    int `json:"valid"`
	Total    int `json:"total"`
}

// Summarize counts products per bucket. The expiring bucket covers
// daysRemaining in [0, windowDays]; windowDays is configurable because the
// original screens disagreed on the lookahead (6 vs 30 days). A windowDays of
// LaterWindowDays keeps the counts consistent with the per-product tiers.
func Summarize(products []domain.Product, now domain.Date, windowDays int) Summary {
	if windowDays <= 0 {
		windowDays = LaterWindowDays
	}

	var s Summary
	for i := range products {
		p := &products[i]
		if p.IsSold || p.ExpirationDate.IsZero() {
			continue
		}
		s.Total++

		days := p.ExpirationDate.DaysUntil(now)
		switch {
		case days < 0:
			s.Expired++
		case days <= windowDays:
			s.Expiring++
		default:
			s.Valid++
		}
	}
	return s
}

// CountByMonth groups active products by calendar month of expiration, keyed
// "Jan 2006" so months disambiguate across years.
func CountByMonth(products []domain.Product) map[string]int {
	counts := make(map[string]int)
	for i := range products {
		p := &products[i]
		if p.IsSold || p.ExpirationDate.IsZero() {
			continue
		}
		counts[p.ExpirationDate.MonthKey()]++
	}
	return counts
}
