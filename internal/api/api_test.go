package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/cache"
	"github.com/andresuchdata/supplyview/backend-go/internal/leadtime"
	"github.com/andresuchdata/supplyview/backend-go/internal/service"
	"github.com/andresuchdata/supplyview/backend-go/internal/store"
)

const inventoryCSV = `Factory,Type,Item Code,Inv Org,Item Class,UOM,Strategy,Metric,Date,Value
F1,FG,FG-100,THRYPM,Finished,EA,MTS,Tot.Req.,2026-01-05,600
F1,FG,FG-100,THRYPM,Finished,EA,MTS,Tot.Inventory (Forecast),2026-01-05,400
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewDashboardService(store.New(), bom.NewTable(), leadtime.DefaultPolicy(), cache.NewNoopTimelineCache())
	_, err := svc.LoadInventory(context.Background(), strings.NewReader(inventoryCSV))
	require.NoError(t, err)

	return NewRouter(svc, nil)
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimelineEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/risk/timeline?sort=duration", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count  int `json:"count"`
		Groups []struct {
			ItemCode string `json:"item_code"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "FG-100", resp.Groups[0].ItemCode)
}

func TestTimelineEndpointFiltersOut(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/risk/timeline?critical=false", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

func TestTimelineEndpointReferenceParam(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/risk/timeline?reference=2026-01-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/risk/timeline?reference=01/05/2026", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptionsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/risk/options", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ItemCodes []string `json:"item_codes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"FG-100"}, resp.ItemCodes)
}

func TestPivotEndpointRequiresSelection(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/risk/pivot", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/risk/pivot?item_code=FG-100&inv_org=THRYPM", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeasibilityEndpointNoBOM(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/bom/feasibility?item_code=FG-100&inv_org=THRYPM", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		HasBOM bool `json:"has_bom"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.HasBOM)
}

func TestGraphEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/graph?link_dimension=strategy", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Nodes)
}

func TestUploadInventoryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "inventory.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(inventoryCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := doRequest(t, router, http.MethodPost, "/api/v1/upload/inventory", body, writer.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records int `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Records)
}

func TestUploadInventoryEndpointNoFile(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/upload/inventory", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
