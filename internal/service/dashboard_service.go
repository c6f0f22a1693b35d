package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/cache"
	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
	"github.com/andresuchdata/supplyview/backend-go/internal/graph"
	"github.com/andresuchdata/supplyview/backend-go/internal/ingest"
	"github.com/andresuchdata/supplyview/backend-go/internal/leadtime"
	"github.com/andresuchdata/supplyview/backend-go/internal/risk"
	"github.com/andresuchdata/supplyview/backend-go/internal/store"
)

// DashboardService ties the record store, BOM table and analytic pipelines
// together behind one surface for the HTTP handlers and the CLI.
type DashboardService struct {
	store     *store.Store
	bom       *bom.Table
	policy    leadtime.Policy
	cache     cache.TimelineCache
	refClock  func() time.Time
	refPinned bool
}

func NewDashboardService(recordStore *store.Store, bomTable *bom.Table, policy leadtime.Policy, cacheImpl cache.TimelineCache) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopTimelineCache()
	}
	return &DashboardService{
		store:    recordStore,
		bom:      bomTable,
		policy:   policy,
		cache:    cacheImpl,
		refClock: func() time.Time { return time.Now().UTC() },
	}
}

// SetReferenceClock pins the lead-time reference date source. A pinned
// clock always wins over the data window, so tests and the CLI get
// reproducible results regardless of what is loaded.
func (s *DashboardService) SetReferenceClock(clock func() time.Time) {
	if clock != nil {
		s.refClock = clock
		s.refPinned = true
	}
}

// referenceDate anchors the lead-time horizon. A pinned clock takes
// precedence; otherwise the loaded data's minimum date is preferred over
// the wall clock, so historical exports evaluate against their own
// planning window rather than today.
func (s *DashboardService) referenceDate() time.Time {
	if s.refPinned {
		return s.refClock().Truncate(24 * time.Hour)
	}
	if min, _, ok := s.store.Bounds(); ok {
		return min
	}
	return s.refClock().Truncate(24 * time.Hour)
}

// Timeline computes the risk timeline for the given query, serving from
// cache when possible. Cache failures degrade to recomputation.
func (s *DashboardService) Timeline(ctx context.Context, filter domain.RecordFilter, riskFilter domain.RiskFilter, mode domain.SortMode) ([]domain.ItemRiskGroup, error) {
	return s.TimelineAt(ctx, filter, riskFilter, mode, s.referenceDate())
}

// TimelineAt is Timeline with an explicit lead-time reference date, for
// callers that pin the horizon themselves.
func (s *DashboardService) TimelineAt(ctx context.Context, filter domain.RecordFilter, riskFilter domain.RiskFilter, mode domain.SortMode, reference time.Time) ([]domain.ItemRiskGroup, error) {
	query := cache.TimelineQuery{Filter: filter, Risk: riskFilter, Sort: mode, Reference: reference}

	if groups, ok, err := s.cache.GetTimeline(ctx, query); err == nil && ok {
		return groups, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("risk timeline: cache get failed")
	}

	records := s.store.Filtered(filter)
	groups, err := risk.Timeline(ctx, records, riskFilter, mode, s.policy, reference)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTimeline(ctx, query, groups); err != nil {
		log.Warn().Err(err).Msg("risk timeline: cache set failed")
	}

	return groups, nil
}

// Options lists the distinct filter values still reachable under the
// current selection.
func (s *DashboardService) Options(filter domain.RecordFilter) domain.FilterOptions {
	return s.store.Options(filter)
}

// Pivot returns the metric-by-date table for one (item, org).
func (s *DashboardService) Pivot(itemCode, invOrg string, filter domain.RecordFilter) domain.PivotTable {
	return s.store.Pivot(itemCode, invOrg, filter)
}

// Trend returns date-bucketed metric sums across the filtered records.
func (s *DashboardService) Trend(filter domain.RecordFilter) []domain.TrendPoint {
	return s.store.Trend(filter)
}

// Bounds reports the min/max valid dates in the loaded record set.
func (s *DashboardService) Bounds() (min, max time.Time, ok bool) {
	return s.store.Bounds()
}

// Feasibility projects how many units of itemCode the BOM's component
// inventories can support at invOrg.
func (s *DashboardService) Feasibility(itemCode, invOrg string, filter domain.RecordFilter) domain.FeasibilityResult {
	return bom.Project(s.store.All(), s.bom, itemCode, invOrg, filter)
}

// Graph derives the relationship graph over the filtered records.
func (s *DashboardService) Graph(filter domain.RecordFilter, cfg domain.GraphConfig) domain.Graph {
	return graph.Build(s.store.Filtered(filter), s.bom, cfg)
}

// LoadInventory replaces the record set from a CSV stream and invalidates
// every cached timeline.
func (s *DashboardService) LoadInventory(ctx context.Context, r io.Reader) (int, error) {
	records, err := ingest.ReadInventoryCSV(r)
	if err != nil {
		return 0, err
	}

	s.store.Replace(records)
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("risk timeline: cache invalidate failed")
	}

	log.Info().Int("records", len(records)).Msg("inventory data loaded")
	return len(records), nil
}

// LoadBOM replaces the BOM table from a CSV stream and invalidates every
// cached timeline.
func (s *DashboardService) LoadBOM(ctx context.Context, r io.Reader) (int, error) {
	edges, err := ingest.ReadBomCSV(r)
	if err != nil {
		return 0, err
	}

	s.bom.Replace(edges)
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("risk timeline: cache invalidate failed")
	}

	log.Info().Int("edges", len(edges)).Msg("bom data loaded")
	return len(edges), nil
}
