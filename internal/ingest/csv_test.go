package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

func TestReadInventoryCSV(t *testing.T) {
	input := strings.Join([]string{
		"Factory,Type,Item Code,Inv Org,Item Class,UOM,Strategy,Metric,Date,Value",
		"F1,FG,FG-100,THRYPM,Finished,EA,MTS,Tot.Req.,1/5/2026,\"1,250.5\"",
		"F1,rm,RM-200,VNHCDM,Raw,KG,MTO,Tot.Inventory (Forecast),2026-01-06,300",
	}, "\n")

	records, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "F1", first.Factory)
	assert.Equal(t, domain.RecordTypeFG, first.Type)
	assert.Equal(t, "FG-100", first.ItemCode)
	assert.Equal(t, "THRYPM", first.InvOrg)
	assert.Equal(t, "Finished", first.ItemClass)
	assert.Equal(t, "EA", first.UOM)
	assert.Equal(t, "MTS", first.Strategy)
	assert.Equal(t, domain.MetricTotalRequirement, first.Metric)
	assert.True(t, first.DateValid)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 1250.5, first.Value, 1e-9)

	// Type is uppercased on the way in.
	assert.Equal(t, domain.RecordTypeRM, records[1].Type)
}

func TestReadInventoryCSVHeaderVariants(t *testing.T) {
	input := strings.Join([]string{
		"factory,type,item_code,inv_org,item_class,uom,strategy,metric,date,value",
		"F1,FG,FG-100,THRYPM,Finished,EA,MTS,Tot.Req.,2026-01-05,10",
	}, "\n")

	records, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FG-100", records[0].ItemCode)
}

func TestReadInventoryCSVSkipsRowsMissingKeys(t *testing.T) {
	input := strings.Join([]string{
		"Item Code,Inv Org,Metric,Date,Value",
		",THRYPM,Tot.Req.,2026-01-05,10",
		"FG-100,,Tot.Req.,2026-01-05,10",
		"FG-100,THRYPM,Tot.Req.,2026-01-05,10",
	}, "\n")

	records, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadInventoryCSVInvalidDateFlagged(t *testing.T) {
	input := strings.Join([]string{
		"Item Code,Inv Org,Metric,Date,Value",
		"FG-100,THRYPM,Tot.Req.,not-a-date,10",
	}, "\n")

	records, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].DateValid)
}

func TestReadInventoryCSVBadValueDefaultsZero(t *testing.T) {
	input := strings.Join([]string{
		"Item Code,Inv Org,Metric,Date,Value",
		"FG-100,THRYPM,Tot.Req.,2026-01-05,n/a",
	}, "\n")

	records, err := ReadInventoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].Value)
}

func TestReadInventoryCSVEmptyInput(t *testing.T) {
	_, err := ReadInventoryCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadBomCSV(t *testing.T) {
	input := strings.Join([]string{
		"Plant,Parent Item,Child Item,Quantity Per",
		"THRYPM,FG-100,RM-200,0.5",
		",FG-100,RM-300,2",
	}, "\n")

	edges, err := ReadBomCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, domain.BomEdge{Parent: "FG-100", Child: "RM-200", Ratio: 0.5, Plant: "THRYPM"}, edges[0])
	assert.Equal(t, domain.BomEdge{Parent: "FG-100", Child: "RM-300", Ratio: 2}, edges[1])
}

func TestReadBomCSVSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"Parent,Child,Ratio",
		",RM-200,0.5",
		"FG-100,,0.5",
		"FG-100,RM-200,0.5",
	}, "\n")

	edges, err := ReadBomCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestNormalizeColumnName(t *testing.T) {
	assert.Equal(t, "itemcode", normalizeColumnName("Item Code"))
	assert.Equal(t, "itemcode", normalizeColumnName("item_code"))
	assert.Equal(t, "itemcode", normalizeColumnName("  ITEM-CODE "))
	assert.Equal(t, "totreq", normalizeColumnName("Tot.Req."))
}

func TestParseDateLayouts(t *testing.T) {
	expected := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"1/5/2026", "01/05/2026", "2026-01-05", "2026/01/05", "5-Jan-2026"} {
		got, ok := parseDate(raw)
		require.True(t, ok, "layout %q", raw)
		assert.Equal(t, expected, got, "layout %q", raw)
	}

	_, ok := parseDate("")
	assert.False(t, ok)
}
