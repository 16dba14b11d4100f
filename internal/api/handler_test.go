package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/noshowboard/internal/api"
	"github.com/KaramelBytes/noshowboard/internal/dataset"
	"github.com/KaramelBytes/noshowboard/internal/pipeline"
	"github.com/KaramelBytes/noshowboard/internal/query"
)

func testTable() *dataset.Table {
	t := dataset.NewTable("fixture.csv")
	t.Rows = []dataset.Appointment{
		{Age: 25, Gender: "F", Neighbourhood: "JARDIM DA PENHA", NoShow: "No", Weekday: "Monday"},
		{Age: 30, Gender: "F", Neighbourhood: "JARDIM DA PENHA", NoShow: "Yes", NoShowFlag: 1, Weekday: "Monday", DaysDiff: 10},
		{Age: 70, Gender: "M", Neighbourhood: "CENTRO", NoShow: "No", Weekday: "Friday", DaysDiff: 3},
	}
	return t
}

func newTestRouter(t *dataset.Table) http.Handler {
	r := chi.NewRouter()
	api.NewHandler(t, pipeline.Stats{RowsIn: 3, RowsOut: 3}).RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(testTable()), "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestGetNeighbourhoods(t *testing.T) {
	rec := get(t, newTestRouter(testTable()), "/api/neighbourhoods")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp struct {
		Neighbourhoods []string `json:"neighbourhoods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"CENTRO", "JARDIM DA PENHA"}
	if !reflect.DeepEqual(resp.Neighbourhoods, want) {
		t.Fatalf("neighbourhoods: got %v want %v", resp.Neighbourhoods, want)
	}
}

func TestGetAggregatesDefaultsToFullSpan(t *testing.T) {
	tbl := testTable()
	rec := get(t, newTestRouter(tbl), "/api/aggregates")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var got query.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := query.Run(tbl, query.Filters{AgeMin: 0, AgeMax: 100})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("aggregates mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetAggregatesFiltered(t *testing.T) {
	rec := get(t, newTestRouter(testTable()),
		"/api/aggregates?neighbourhood=JARDIM+DA+PENHA&age_min=18&age_max=65")
	var got query.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RowCount != 2 {
		t.Fatalf("row count: got %d want 2", got.RowCount)
	}
}

func TestGetAggregatesUnknownNeighbourhood(t *testing.T) {
	rec := get(t, newTestRouter(testTable()), "/api/aggregates?neighbourhood=NOWHERE")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown neighbourhood must not error: %d", rec.Code)
	}
	var got query.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RowCount != 0 {
		t.Fatalf("row count: got %d want 0", got.RowCount)
	}
}

func TestGetAggregatesBadParams(t *testing.T) {
	h := newTestRouter(testTable())
	for _, url := range []string{
		"/api/aggregates?age_min=abc",
		"/api/aggregates?age_max=-1",
		"/api/aggregates?age_min=50&age_max=20",
	} {
		rec := get(t, h, url)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", url, rec.Code)
		}
	}
}

func TestGetStatus(t *testing.T) {
	tbl := testTable()
	rec := get(t, newTestRouter(tbl), "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp struct {
		SnapshotID string `json:"snapshot_id"`
		Overview   struct {
			Rows int `json:"rows"`
		} `json:"overview"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SnapshotID != tbl.SnapshotID {
		t.Fatalf("snapshot id: got %q want %q", resp.SnapshotID, tbl.SnapshotID)
	}
	if resp.Overview.Rows != 3 {
		t.Fatalf("overview rows: got %d want 3", resp.Overview.Rows)
	}
}
