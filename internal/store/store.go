// Package store holds the normalized in-memory inventory record set and
// serves filtered views of it. The store is swap-on-load: uploads replace
// the whole snapshot, readers always see a consistent slice.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

const dateKeyLayout = "2006-01-02"

type Store struct {
	mu      sync.RWMutex
	records []domain.InventoryRecord
}

func New() *Store {
	return &Store{}
}

// Replace swaps in a new record snapshot. Metric names are trimmed here so
// downstream joins never see whitespace variants.
func (s *Store) Replace(records []domain.InventoryRecord) {
	normalized := make([]domain.InventoryRecord, len(records))
	copy(normalized, records)
	for i := range normalized {
		normalized[i].Metric = strings.TrimSpace(normalized[i].Metric)
	}

	s.mu.Lock()
	s.records = normalized
	s.mu.Unlock()
}

// All returns the full snapshot, including records with invalid dates.
func (s *Store) All() []domain.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InventoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the snapshot size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Filtered returns records matching the categorical filters and date range.
func (s *Store) Filtered(f domain.RecordFilter) []domain.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.InventoryRecord, 0)
	for _, r := range s.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Bounds returns the min and max valid dates in the snapshot. ok is false
// when no record carries a valid date.
func (s *Store) Bounds() (min, max time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if !r.DateValid {
			continue
		}
		if !ok {
			min, max, ok = r.Date, r.Date, true
			continue
		}
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, ok
}

// Options lists the distinct values per filter dimension. Each dimension is
// computed with every *other* dimension's filter plus the date range
// applied, so narrowing one dropdown narrows the rest without emptying
// itself.
func (s *Store) Options(f domain.RecordFilter) domain.FilterOptions {
	return domain.FilterOptions{
		ItemCodes:   s.distinct(f, "itemCode"),
		InvOrgs:     s.distinct(f, "invOrg"),
		ItemClasses: s.distinct(f, "itemClass"),
		UOMs:        s.distinct(f, "uom"),
		Strategies:  s.distinct(f, "strategy"),
		Metrics:     s.distinct(f, "metric"),
	}
}

func (s *Store) distinct(f domain.RecordFilter, dimension string) []string {
	relaxed := f
	switch dimension {
	case "itemCode":
		relaxed.ItemCode = ""
	case "invOrg":
		relaxed.InvOrg = ""
	case "itemClass":
		relaxed.ItemClass = ""
	case "uom":
		relaxed.UOM = ""
	case "strategy":
		relaxed.Strategy = ""
	case "metric":
		relaxed.Metrics = nil
	}

	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, r := range s.records {
		if !relaxed.Match(r) {
			continue
		}
		var v string
		switch dimension {
		case "itemCode":
			v = r.ItemCode
		case "invOrg":
			v = r.InvOrg
		case "itemClass":
			v = r.ItemClass
		case "uom":
			v = r.UOM
		case "strategy":
			v = r.Strategy
		case "metric":
			v = r.Metric
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	s.mu.RUnlock()

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Pivot builds the metric-by-date detail table for one (item, org) within
// the filter's date range. Duplicate rows sum into the same cell.
func (s *Store) Pivot(itemCode, invOrg string, f domain.RecordFilter) domain.PivotTable {
	scoped := f
	scoped.ItemCode = itemCode
	scoped.InvOrg = invOrg
	scoped.Metrics = nil

	values := make(map[string]map[string]float64)
	dateSet := make(map[string]struct{})

	s.mu.RLock()
	for _, r := range s.records {
		if !scoped.Match(r) || !r.DateValid {
			continue
		}
		dateKey := r.Date.Format(dateKeyLayout)
		dateSet[dateKey] = struct{}{}
		if values[r.Metric] == nil {
			values[r.Metric] = make(map[string]float64)
		}
		values[r.Metric][dateKey] += r.Value
	}
	s.mu.RUnlock()

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	metrics := make([]string, 0, len(values))
	for m := range values {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	return domain.PivotTable{
		ItemCode: itemCode,
		InvOrg:   invOrg,
		Dates:    dates,
		Metrics:  metrics,
		Values:   values,
	}
}

// Trend aggregates per-date metric values over the filtered set, restricted
// to the filter's enabled metric set. Points come back in date order.
func (s *Store) Trend(f domain.RecordFilter) []domain.TrendPoint {
	buckets := make(map[string]map[string]float64)

	s.mu.RLock()
	for _, r := range s.records {
		if !f.Match(r) || !f.MatchMetric(r) || !r.DateValid {
			continue
		}
		dateKey := r.Date.Format(dateKeyLayout)
		if buckets[dateKey] == nil {
			buckets[dateKey] = make(map[string]float64)
		}
		buckets[dateKey][r.Metric] += r.Value
	}
	s.mu.RUnlock()

	dates := make([]string, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]domain.TrendPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, domain.TrendPoint{Date: d, Values: buckets[d]})
	}
	return points
}
