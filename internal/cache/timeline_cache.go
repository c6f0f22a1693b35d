package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/config"
	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	timelineKeyPrefix     = "risk:timeline"
	timelineScanBatchSize = 100
	defaultCacheTTL       = time.Minute
	dialTimeout           = 5 * time.Second
)

// TimelineQuery is the full cache identity of one timeline computation.
// Any field that changes the result must be part of the hash.
type TimelineQuery struct {
	Filter    domain.RecordFilter
	Risk      domain.RiskFilter
	Sort      domain.SortMode
	Reference time.Time
}

// TimelineCache fronts the risk timeline pipeline. Uploads invalidate the
// whole namespace since every cached result derives from the record set.
type TimelineCache interface {
	GetTimeline(ctx context.Context, query TimelineQuery) ([]domain.ItemRiskGroup, bool, error)
	SetTimeline(ctx context.Context, query TimelineQuery, groups []domain.ItemRiskGroup) error
	InvalidateAll(ctx context.Context) error
}

type redisTimelineCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopTimelineCache struct{}

func NewTimelineCache(cfg config.CacheConfig) (TimelineCache, error) {
	if !cfg.Enabled {
		return &noopTimelineCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.TimelineTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &redisTimelineCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// dialRedis connects using either a full redis URL or host/port fields and
// verifies the connection with a ping before handing the client out.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host := cfg.RedisHost
		if host == "" {
			host = "127.0.0.1"
		}
		port := cfg.RedisPort
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func NewNoopTimelineCache() TimelineCache {
	return &noopTimelineCache{}
}

func (c *redisTimelineCache) GetTimeline(ctx context.Context, query TimelineQuery) ([]domain.ItemRiskGroup, bool, error) {
	key := buildTimelineKey(query)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var groups []domain.ItemRiskGroup
	if err := json.Unmarshal(payload, &groups); err != nil {
		return nil, false, fmt.Errorf("decode timeline cache: %w", err)
	}

	return groups, true, nil
}

func (c *redisTimelineCache) SetTimeline(ctx context.Context, query TimelineQuery, groups []domain.ItemRiskGroup) error {
	key := buildTimelineKey(query)
	payload, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode timeline cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisTimelineCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, timelineKeyPrefix+"*", timelineScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (n *noopTimelineCache) GetTimeline(ctx context.Context, query TimelineQuery) ([]domain.ItemRiskGroup, bool, error) {
	return nil, false, nil
}

func (n *noopTimelineCache) SetTimeline(ctx context.Context, query TimelineQuery, groups []domain.ItemRiskGroup) error {
	return nil
}

func (n *noopTimelineCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildTimelineKey(query TimelineQuery) string {
	return fmt.Sprintf("%s:%s", timelineKeyPrefix, timelineQueryHash(query))
}

func timelineQueryHash(query TimelineQuery) string {
	parts := []string{
		fmt.Sprintf("critical=%t", query.Risk.IncludeCritical),
		fmt.Sprintf("watch_out=%t", query.Risk.IncludeWatchOut),
		fmt.Sprintf("min_days=%d", query.Risk.MinConsecutiveDays),
		"sort=" + string(query.Sort),
		"reference=" + query.Reference.UTC().Format("2006-01-02"),
	}

	f := query.Filter
	if f.ItemCode != "" {
		parts = append(parts, "item_code="+strings.TrimSpace(f.ItemCode))
	}
	if f.InvOrg != "" {
		parts = append(parts, "inv_org="+strings.TrimSpace(f.InvOrg))
	}
	if f.ItemClass != "" {
		parts = append(parts, "item_class="+strings.TrimSpace(f.ItemClass))
	}
	if f.UOM != "" {
		parts = append(parts, "uom="+strings.TrimSpace(f.UOM))
	}
	if f.Strategy != "" {
		parts = append(parts, "strategy="+strings.TrimSpace(f.Strategy))
	}
	if f.Start != nil {
		parts = append(parts, "start="+f.Start.UTC().Format("2006-01-02"))
	}
	if f.End != nil {
		parts = append(parts, "end="+f.End.UTC().Format("2006-01-02"))
	}
	if len(f.Metrics) > 0 {
		metrics := append([]string(nil), f.Metrics...)
		sort.Strings(metrics)
		parts = append(parts, "metrics="+strings.Join(metrics, ","))
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
