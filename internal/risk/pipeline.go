package risk

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
	"github.com/andresuchdata/supplyview/backend-go/internal/leadtime"
)

// Timeline runs the full risk pipeline over an already-filtered record set:
// group by (item, org), bucket metrics per day, classify, merge into
// shortage blocks, apply the risk filter, and order the surviving groups.
//
// reference anchors the lead-time horizon; production callers pass
// time.Now(), tests pin a fixed date. Groups are independent, so the merge
// fans out across goroutines.
func Timeline(ctx context.Context, records []domain.InventoryRecord, filter domain.RiskFilter, mode domain.SortMode, policy leadtime.Policy, reference time.Time) ([]domain.ItemRiskGroup, error) {
	type dayBuckets struct {
		itemCode string
		invOrg   string
		days     map[time.Time]domain.MetricBucket
	}

	grouped := make(map[string]*dayBuckets)
	for _, r := range records {
		if !r.DateValid {
			continue
		}
		key := r.Key()
		g, ok := grouped[key]
		if !ok {
			g = &dayBuckets{
				itemCode: r.ItemCode,
				invOrg:   r.InvOrg,
				days:     make(map[time.Time]domain.MetricBucket),
			}
			grouped[key] = g
		}
		bucket, ok := g.days[r.Date]
		if !ok {
			bucket = make(domain.MetricBucket)
			g.days[r.Date] = bucket
		}
		bucket.Add(r.Metric, r.Value)
	}

	// Fix discovery order before fanning out so ties in the final sort are
	// deterministic regardless of map iteration order.
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]*domain.ItemRiskGroup, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, key := range keys {
		i := i
		g := grouped[key]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			days := make([]DayState, 0, len(g.days))
			for date, bucket := range g.days {
				days = append(days, DayState{Date: date, State: Classify(bucket)})
			}
			sort.Slice(days, func(a, b int) bool {
				return days[a].Date.Before(days[b].Date)
			})

			merged := Merge(days, policy.Boundary(reference, g.invOrg))
			group := domain.ItemRiskGroup{
				ItemCode:                 g.itemCode,
				InvOrg:                   g.invOrg,
				Blocks:                   merged.Blocks,
				HasInsideLeadTimeRisk:    merged.HasInsideLeadTimeRisk,
				FirstOutsideLeadTimeRisk: merged.FirstOutsideLeadTimeRisk,
			}
			if ApplyFilter(&group, filter) {
				results[i] = &group
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	groups := make([]domain.ItemRiskGroup, 0, len(results))
	for _, g := range results {
		if g != nil {
			groups = append(groups, *g)
		}
	}
	SortGroups(groups, mode)
	return groups, nil
}
