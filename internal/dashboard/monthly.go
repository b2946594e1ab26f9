package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"marketplace-backend/internal/models"
)

const monthLayout = "2006-01"

// MonthlyStat is the admin rollup, split by listing type.
type MonthlyStat struct {
	Month   string `json:"month"`
	Total   int64  `json:"total"`
	Sales   int64  `json:"sales"`
	Rentals int64  `json:"rentals"`
}

// PerformanceStat is the agent rollup, split by status.
type PerformanceStat struct {
	Month  string `json:"month"`
	Total  int64  `json:"total"`
	Sold   int64  `json:"sold"`
	Rented int64  `json:"rented"`
}

type monthRow struct {
	CreatedAt   time.Time
	ListingType models.ListingType
	Status      models.PropertyStatus
}

// windowStart is the oldest creation time counted in the rollups.
func windowStart(now time.Time) time.Time {
	return now.AddDate(0, -windowMonths, 0)
}

// monthRows loads the scoped rows created inside the trailing window.
func (s scoped) monthRows(ctx context.Context, now time.Time) ([]monthRow, error) {
	start := windowStart(now)

	var rows []monthRow
	err := s.query(ctx).
		Select("properties.created_at, properties.listing_type, properties.status").
		Where("properties.created_at >= ?", start.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load monthly rows: %w", err)
	}

	kept := rows[:0]
	for _, r := range rows {
		if !r.CreatedAt.Before(start) {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// byMonth groups rows by calendar month in loc. Keys come back ascending and
// months without rows are absent.
func byMonth(rows []monthRow, loc *time.Location) ([]string, map[string][]monthRow) {
	buckets := make(map[string][]monthRow)
	for _, r := range rows {
		key := r.CreatedAt.In(loc).Format(monthLayout)
		buckets[key] = append(buckets[key], r)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, buckets
}

func monthlyStats(rows []monthRow, loc *time.Location) []MonthlyStat {
	keys, buckets := byMonth(rows, loc)
	out := make([]MonthlyStat, 0, len(keys))
	for _, k := range keys {
		stat := MonthlyStat{Month: k}
		for _, r := range buckets[k] {
			stat.Total++
			switch r.ListingType {
			case models.ListingSale:
				stat.Sales++
			case models.ListingRent:
				stat.Rentals++
			}
		}
		out = append(out, stat)
	}
	return out
}

func performanceStats(rows []monthRow, loc *time.Location) []PerformanceStat {
	keys, buckets := byMonth(rows, loc)
	out := make([]PerformanceStat, 0, len(keys))
	for _, k := range keys {
		stat := PerformanceStat{Month: k}
		for _, r := range buckets[k] {
			stat.Total++
			switch r.Status {
			case models.StatusSold:
				stat.Sold++
			case models.StatusRented:
				stat.Rented++
			}
		}
		out = append(out, stat)
	}
	return out
}
