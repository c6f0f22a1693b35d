package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

func baseQuery() TimelineQuery {
	return TimelineQuery{
		Filter:    domain.RecordFilter{ItemCode: "FG-1"},
		Risk:      domain.DefaultRiskFilter(),
		Sort:      domain.SortByItemCode,
		Reference: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTimelineQueryHashStable(t *testing.T) {
	assert.Equal(t, timelineQueryHash(baseQuery()), timelineQueryHash(baseQuery()))
}

func TestTimelineQueryHashSensitivity(t *testing.T) {
	base := timelineQueryHash(baseQuery())

	mutations := []func(*TimelineQuery){
		func(q *TimelineQuery) { q.Filter.ItemCode = "FG-2" },
		func(q *TimelineQuery) { q.Filter.InvOrg = "THRYPM" },
		func(q *TimelineQuery) { q.Risk.IncludeWatchOut = false },
		func(q *TimelineQuery) { q.Risk.MinConsecutiveDays = 3 },
		func(q *TimelineQuery) { q.Sort = domain.SortByDuration },
		func(q *TimelineQuery) { q.Reference = q.Reference.AddDate(0, 0, 1) },
		func(q *TimelineQuery) {
			start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
			q.Filter.Start = &start
		},
		func(q *TimelineQuery) { q.Filter.Metrics = []string{domain.MetricTotalRequirement} },
	}

	for i, mutate := range mutations {
		q := baseQuery()
		mutate(&q)
		assert.NotEqual(t, base, timelineQueryHash(q), "mutation %d should change the key", i)
	}
}

func TestTimelineQueryHashMetricOrderInsensitive(t *testing.T) {
	a := baseQuery()
	a.Filter.Metrics = []string{domain.MetricTotalRequirement, domain.MetricTargetInventory}
	b := baseQuery()
	b.Filter.Metrics = []string{domain.MetricTargetInventory, domain.MetricTotalRequirement}

	assert.Equal(t, timelineQueryHash(a), timelineQueryHash(b))
}

func TestNoopCacheNeverHits(t *testing.T) {
	c := NewNoopTimelineCache()
	ctx := context.Background()

	require.NoError(t, c.SetTimeline(ctx, baseQuery(), []domain.ItemRiskGroup{{ItemCode: "FG-1"}}))

	_, ok, err := c.GetTimeline(ctx, baseQuery())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.InvalidateAll(ctx))
}
