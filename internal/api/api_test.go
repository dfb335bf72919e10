package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/clusterscope/internal/chart"
	"github.com/starford/clusterscope/internal/models"
	"github.com/starford/clusterscope/internal/testutil"
)

// testEnv loads the sample dataset and returns the API router.
func testEnv(t *testing.T) (*Service, http.Handler) {
	t.Helper()
	holder, db := testutil.TestHolder(t, testutil.SampleDataset)
	svc := NewService(holder, db)
	return svc, NewRouter(svc, nil)
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeFigure(t *testing.T, w *httptest.ResponseRecorder) chart.Figure {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var fig chart.Figure
	if err := json.Unmarshal(w.Body.Bytes(), &fig); err != nil {
		t.Fatalf("decode figure: %v", err)
	}
	return fig
}

func markerCount(fig chart.Figure) int {
	n := 0
	for _, tr := range fig.Data {
		n += len(tr.X)
	}
	return n
}

func TestOptionsEndpoint(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/options")
	if w.Code != http.StatusOK {
		t.Fatalf("options = %d", w.Code)
	}
	var opts models.FilterOptionSet
	_ = json.Unmarshal(w.Body.Bytes(), &opts)
	want := []string{"All", "a", "b", "unknown"}
	if strings.Join(opts.Categories, ",") != strings.Join(want, ",") {
		t.Errorf("categories = %v, want %v", opts.Categories, want)
	}
	if !opts.DateFilterEnabled {
		t.Error("date filter should be enabled")
	}
	if opts.MinDate.Time.Unix() != 1000 || opts.MaxDate.Time.Unix() != 2000 {
		t.Errorf("bounds = %v..%v", opts.MinDate.Time, opts.MaxDate.Time)
	}
}

func TestStatsEndpoint(t *testing.T) {
	svc, router := testEnv(t)

	w := get(t, router, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var resp StatsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Records != 4 || resp.Clusters != 3 || resp.Categories != 3 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Checksum != svc.Snapshot().Table.Checksum() {
		t.Errorf("checksum = %q", resp.Checksum)
	}
}

func TestFigure_AllCategories(t *testing.T) {
	_, router := testEnv(t)

	fig := decodeFigure(t, get(t, router, "/figure"))
	if len(fig.Data) != 3 {
		t.Fatalf("traces = %d, want 3", len(fig.Data))
	}
	if markerCount(fig) != 4 {
		t.Errorf("markers = %d, want 4", markerCount(fig))
	}
	names := []string{fig.Data[0].Name, fig.Data[1].Name, fig.Data[2].Name}
	if strings.Join(names, ",") != "Cluster 0,Cluster 1,Cluster 7" {
		t.Errorf("trace order = %v", names)
	}
}

func TestFigure_CategoryFilter(t *testing.T) {
	_, router := testEnv(t)

	fig := decodeFigure(t, get(t, router, "/figure?category=a"))
	if markerCount(fig) != 2 {
		t.Fatalf("markers = %d, want 2", markerCount(fig))
	}
	if fig.Data[0].Marker.Size[0] != 3 {
		t.Errorf("zero-engagement marker size = %v, want 3", fig.Data[0].Marker.Size[0])
	}
}

func TestFigure_DateRangeExcludesNullTimestamps(t *testing.T) {
	_, router := testEnv(t)

	// 1970-01-01 covers epochs 1000, 1500 and 2000; the null row is dropped.
	fig := decodeFigure(t, get(t, router, "/figure?start_date=1970-01-01&end_date=1970-01-01"))
	if markerCount(fig) != 3 {
		t.Errorf("markers = %d, want 3", markerCount(fig))
	}

	// Only one bound: no date filtering at all.
	fig = decodeFigure(t, get(t, router, "/figure?start_date=1970-01-01"))
	if markerCount(fig) != 4 {
		t.Errorf("markers with one bound = %d, want 4", markerCount(fig))
	}
}

func TestFigure_EmptyResultIsNotAnError(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/figure?category=nosuch")
	fig := decodeFigure(t, w)
	if len(fig.Data) != 0 {
		t.Errorf("traces = %d, want 0", len(fig.Data))
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, body = %s", w.Body.String())
	}
}

func TestFigure_InvalidDate(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/figure?start_date=garbage&end_date=2024-01-01")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid date = %d, want 400", w.Code)
	}
}

func TestFigure_ETag(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/figure?category=b")
	tag := w.Header().Get("ETag")
	if tag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/figure?category=b", nil)
	req.Header.Set("If-None-Match", tag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("conditional get = %d, want 304", w.Code)
	}

	other := get(t, router, "/figure?category=a")
	if other.Header().Get("ETag") == tag {
		t.Error("different filters should produce different ETags")
	}
}

func TestListRecords(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/records?category=a&limit=1")
	if w.Code != http.StatusOK {
		t.Fatalf("records = %d", w.Code)
	}
	var resp RecordsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Records[0].ID != 0 {
		t.Errorf("records = %+v", resp)
	}

	w = get(t, router, "/records?limit=abc")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", w.Code)
	}
	w = get(t, router, "/records?limit=100000")
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized limit = %d, want 400", w.Code)
	}
}

func TestGetRecord(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/records/3")
	if w.Code != http.StatusOK {
		t.Fatalf("get record = %d", w.Code)
	}
	var rec models.Record
	_ = json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.Title != "No title" || rec.Category != "unknown" {
		t.Errorf("defaults not applied: %+v", rec)
	}

	if w := get(t, router, "/records/99"); w.Code != http.StatusNotFound {
		t.Errorf("missing record = %d, want 404", w.Code)
	}
	if w := get(t, router, "/records/x"); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/search?q=gophers")
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != 0 {
		t.Errorf("search results = %+v", resp.Results)
	}

	if w := get(t, router, "/search"); w.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", w.Code)
	}
}

func TestClustersEndpoint(t *testing.T) {
	_, router := testEnv(t)

	w := get(t, router, "/clusters")
	if w.Code != http.StatusOK {
		t.Fatalf("clusters = %d", w.Code)
	}
	var resp ClustersResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Clusters) != 3 {
		t.Fatalf("clusters = %d, want 3", len(resp.Clusters))
	}
	if resp.Clusters[0].Color != resp.Clusters[2].Color {
		t.Errorf("clusters 0 and 7 should share a color: %q vs %q", resp.Clusters[0].Color, resp.Clusters[2].Color)
	}
	if resp.Clusters[1].Records != 2 {
		t.Errorf("cluster 1 records = %d, want 2", resp.Clusters[1].Records)
	}
}

func TestPage(t *testing.T) {
	svc, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	NewHandler(svc).Page(true).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("page = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Cluster Explorer", "All Subreddits", "r/a", `value="1970-01-01"`, "EventSource"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPage_ThousandsSeparator(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1200; i++ {
		b.WriteString(`{"tsne_x":0,"tsne_y":0,"cluster_id":0,"interaction_amount":1}` + "\n")
	}
	holder, db := testutil.TestHolder(t, b.String())
	svc := NewService(holder, db)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	NewHandler(svc).Page(false).ServeHTTP(w, req)
	body := w.Body.String()
	if !strings.Contains(body, "1,200") {
		t.Error("expected formatted record count 1,200")
	}
	if strings.Contains(body, "EventSource") {
		t.Error("live reload script should be omitted when not live")
	}
	if !strings.Contains(body, "disabled") {
		t.Error("date inputs should be disabled without timestamps")
	}
}
