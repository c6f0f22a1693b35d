package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
	"github.com/andresuchdata/supplyview/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// parseRecordFilter reads the shared dimension/date filters from the query
// string. Dates use YYYY-MM-DD; malformed bounds are ignored rather than
// rejected so a broken date picker never blanks the dashboard.
func (h *DashboardHandler) parseRecordFilter(c *gin.Context) domain.RecordFilter {
	filter := domain.RecordFilter{
		ItemCode:  strings.TrimSpace(c.Query("item_code")),
		InvOrg:    strings.TrimSpace(c.Query("inv_org")),
		ItemClass: strings.TrimSpace(c.Query("item_class")),
		UOM:       strings.TrimSpace(c.Query("uom")),
		Strategy:  strings.TrimSpace(c.Query("strategy")),
	}

	// Metrics can come as repeated params or one comma-separated value.
	rawMetrics := c.QueryArray("metrics")
	if len(rawMetrics) == 0 {
		if single := strings.TrimSpace(c.Query("metrics")); single != "" {
			rawMetrics = strings.Split(single, ",")
		}
	}
	for _, m := range rawMetrics {
		for _, part := range strings.Split(m, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				filter.Metrics = append(filter.Metrics, part)
			}
		}
	}

	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Start = &t
		}
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.End = &t
		}
	}

	return filter
}

func (h *DashboardHandler) parseRiskFilter(c *gin.Context) domain.RiskFilter {
	filter := domain.DefaultRiskFilter()

	if raw := strings.TrimSpace(c.Query("critical")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IncludeCritical = v
		}
	}
	if raw := strings.TrimSpace(c.Query("watch_out")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IncludeWatchOut = v
		}
	}
	if v, err := strconv.Atoi(c.DefaultQuery("min_days", "1")); err == nil && v > 0 {
		filter.MinConsecutiveDays = v
	}

	return filter
}

// GetTimeline returns the shortage timeline rows for the current filters.
func (h *DashboardHandler) GetTimeline(c *gin.Context) {
	filter := h.parseRecordFilter(c)
	riskFilter := h.parseRiskFilter(c)
	mode := domain.ParseSortMode(c.DefaultQuery("sort", string(domain.SortByItemCode)))

	var groups []domain.ItemRiskGroup
	var err error
	if raw := strings.TrimSpace(c.Query("reference")); raw != "" {
		if reference, perr := time.Parse("2006-01-02", raw); perr == nil {
			groups, err = h.service.TimelineAt(c.Request.Context(), filter, riskFilter, mode, reference)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference must be YYYY-MM-DD"})
			return
		}
	} else {
		groups, err = h.service.Timeline(c.Request.Context(), filter, riskFilter, mode)
	}
	if err != nil {
		log.Error().Err(err).Msg("risk timeline computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute risk timeline"})
		return
	}
	if groups == nil {
		groups = make([]domain.ItemRiskGroup, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"count":  len(groups),
	})
}

// GetOptions returns the distinct filter values reachable under the current
// selection.
func (h *DashboardHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Options(h.parseRecordFilter(c)))
}

// GetPivot returns the metric-by-date table for one (item, org).
func (h *DashboardHandler) GetPivot(c *gin.Context) {
	itemCode := strings.TrimSpace(c.Query("item_code"))
	invOrg := strings.TrimSpace(c.Query("inv_org"))
	if itemCode == "" || invOrg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_code and inv_org are required"})
		return
	}

	c.JSON(http.StatusOK, h.service.Pivot(itemCode, invOrg, h.parseRecordFilter(c)))
}

// GetTrend returns date-bucketed metric sums for the trend chart.
func (h *DashboardHandler) GetTrend(c *gin.Context) {
	points := h.service.Trend(h.parseRecordFilter(c))
	if points == nil {
		points = make([]domain.TrendPoint, 0)
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetFeasibility returns the component-limited production projection for
// one (item, org).
func (h *DashboardHandler) GetFeasibility(c *gin.Context) {
	itemCode := strings.TrimSpace(c.Query("item_code"))
	invOrg := strings.TrimSpace(c.Query("inv_org"))
	if itemCode == "" || invOrg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_code and inv_org are required"})
		return
	}

	c.JSON(http.StatusOK, h.service.Feasibility(itemCode, invOrg, h.parseRecordFilter(c)))
}

// GetGraph returns the item/location relationship graph.
func (h *DashboardHandler) GetGraph(c *gin.Context) {
	cfg := domain.GraphConfig{
		LinkDimension: domain.ParseLinkDimension(c.DefaultQuery("link_dimension", string(domain.LinkByItemClass))),
		Metric:        strings.TrimSpace(c.Query("metric")),
	}
	if raw := strings.TrimSpace(c.Query("hide_orphans")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.HideOrphans = v
		}
	}

	c.JSON(http.StatusOK, h.service.Graph(h.parseRecordFilter(c), cfg))
}

// GetBounds reports the date window of the loaded record set.
func (h *DashboardHandler) GetBounds(c *gin.Context) {
	min, max, ok := h.service.Bounds()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"loaded": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loaded": true,
		"start":  min.Format("2006-01-02"),
		"end":    max.Format("2006-01-02"),
	})
}

// UploadInventory replaces the inventory record set from an uploaded CSV.
func (h *DashboardHandler) UploadInventory(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer src.Close()

	count, err := h.service.LoadInventory(c.Request.Context(), src)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to parse inventory csv")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "inventory data loaded",
		"records": count,
	})
}

// UploadBOM replaces the bill-of-materials table from an uploaded CSV.
func (h *DashboardHandler) UploadBOM(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer src.Close()

	count, err := h.service.LoadBOM(c.Request.Context(), src)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to parse bom csv")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "bom data loaded",
		"edges":   count,
	})
}
