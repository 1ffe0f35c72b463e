package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/networth-forecast/internal/records"
	"github.com/iwvelando/networth-forecast/internal/settings"
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (http.Handler, *records.Service) {
	t.Helper()
	backend := storage.NewMemory()
	recordSvc := records.NewService(backend, zap.NewNop())
	settingsSvc := settings.NewService(backend, zap.NewNop())
	return NewHandler(zap.NewNop(), recordSvc, settingsSvc, constants.DefaultMaxBodySizeBytes, "v1.2.3"), recordSvc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestRecordsLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/records", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %q", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/records", `{"year":2020,"age":30,"netWorth":200000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first idResponse
	decode(t, rr, &first)
	if first.ID == "" {
		t.Fatal("expected an id")
	}

	rr = do(t, h, http.MethodPost, "/api/records", `{"year":2021,"age":31,"netWorth":300000,"derive":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/records", "")
	var list []storage.Record
	decode(t, rr, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[1].GrowthAmount == nil || *list[1].GrowthAmount != 100000 {
		t.Errorf("expected derived growth amount 100000, got %v", list[1].GrowthAmount)
	}
	if list[1].GrowthPercentage == nil || *list[1].GrowthPercentage != 50 {
		t.Errorf("expected derived growth percentage 50, got %v", list[1].GrowthPercentage)
	}

	rr = do(t, h, http.MethodPut, "/api/records/"+first.ID, `{"year":2020,"age":30,"netWorth":250000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 on update, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/records/rederive", "")
	var rederived map[string]int
	decode(t, rr, &rederived)
	if rederived["changed"] != 1 {
		t.Errorf("expected 1 record rederived, got %v", rederived)
	}

	rr = do(t, h, http.MethodDelete, "/api/records/"+first.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	h, recordSvc := newTestHandler(t)

	idA, err := recordSvc.Add(t.Context(), records.Entry{Year: 2020, NetWorth: 1})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := recordSvc.Add(t.Context(), records.Entry{Year: 2021, NetWorth: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Update unknown id", http.MethodPut, "/api/records/missing", `{"year":2030,"netWorth":1}`, http.StatusNotFound},
		{"Delete unknown id", http.MethodDelete, "/api/records/missing", "", http.StatusNotFound},
		{"Update into taken year", http.MethodPut, "/api/records/" + idA, `{"year":2021,"netWorth":1}`, http.StatusConflict},
		{"Missing net worth", http.MethodPost, "/api/records", `{"year":2022}`, http.StatusBadRequest},
		{"Malformed JSON", http.MethodPost, "/api/records", `{"year":`, http.StatusBadRequest},
		{"Unknown field", http.MethodPost, "/api/records", `{"year":2022,"netWorth":1,"bogus":true}`, http.StatusBadRequest},
		{"Invalid settings", http.MethodPut, "/api/settings", `{"projectionYears":0}`, http.StatusBadRequest},
		{"Projection years too large", http.MethodPut, "/api/settings", `{"projectionYears":1125899906842624}`, http.StatusBadRequest},
		{"Wrong method", http.MethodPatch, "/api/records", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			if tt.status == http.StatusMethodNotAllowed {
				return
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if resp["error"] == "" {
				t.Errorf("expected error message, got %v", resp)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	backend := storage.NewMemory()
	h := NewHandler(zap.NewNop(), records.NewService(backend, nil), settings.NewService(backend, nil), 16, "")

	rr := do(t, h, http.MethodPost, "/api/records", `{"year":2020,"age":30,"netWorth":200000}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSettingsEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/settings", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "null" {
		t.Fatalf("expected null settings before first write, got %d %q", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPut, "/api/settings", `{"projectionYears":5,"customGrowthPercentage":8}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/settings", "")
	var got storage.Settings
	decode(t, rr, &got)
	if got.ProjectionYears != 5 || got.CustomGrowthPercentage == nil || *got.CustomGrowthPercentage != 8 {
		t.Errorf("unexpected settings %+v", got)
	}
	if got.AnnualContribution != nil {
		t.Errorf("expected no contribution, got %v", *got.AnnualContribution)
	}
}

func TestDashboardAfterSeed(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/api/records/seed", "")
	var seeded map[string]string
	decode(t, rr, &seeded)
	if seeded["status"] != "Data seeded successfully" {
		t.Fatalf("unexpected seed status %v", seeded)
	}

	rr = do(t, h, http.MethodPost, "/api/records/seed", "")
	decode(t, rr, &seeded)
	if seeded["status"] != "Data already seeded" {
		t.Fatalf("unexpected second seed status %v", seeded)
	}

	rr = do(t, h, http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var dash struct {
		Records  []storage.Record `json:"records"`
		Settings storage.Settings `json:"settings"`
		Series   []struct {
			Year      int  `json:"year"`
			Projected bool `json:"isProjected"`
		} `json:"series"`
		Milestones []struct {
			Status string `json:"status"`
			Year   int    `json:"year"`
		} `json:"milestones"`
	}
	decode(t, rr, &dash)

	if len(dash.Records) != 10 {
		t.Errorf("expected 10 records, got %d", len(dash.Records))
	}
	if dash.Settings.ProjectionYears != 10 {
		t.Errorf("expected default projection years, got %d", dash.Settings.ProjectionYears)
	}
	if len(dash.Series) != 12 || dash.Series[0].Year != 2025 || !dash.Series[2].Projected {
		t.Errorf("unexpected series %+v", dash.Series)
	}
	if len(dash.Milestones) != 2 || dash.Milestones[0].Year != 2027 || dash.Milestones[1].Year != 2029 {
		t.Errorf("unexpected milestones %+v", dash.Milestones)
	}
}

func TestHandleVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["version"] != "v1.2.3" {
		t.Errorf("expected version v1.2.3, got %q", resp["version"])
	}

	backend := storage.NewMemory()
	dev := NewHandler(nil, records.NewService(backend, nil), settings.NewService(backend, nil), 0, "  ")
	rr = do(t, dev, http.MethodGet, "/api/version", "")
	decode(t, rr, &resp)
	if resp["version"] != "dev" {
		t.Errorf("expected dev version fallback, got %q", resp["version"])
	}
}

func TestDashboardRejectsOverflowingGrowth(t *testing.T) {
	h, recordSvc := newTestHandler(t)
	if _, err := recordSvc.Seed(t.Context()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	rr := do(t, h, http.MethodPut, "/api/settings", `{"projectionYears":10,"customGrowthPercentage":1e308}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %q", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if !strings.Contains(resp["error"], "finite") {
		t.Errorf("expected a finiteness error, got %v", resp)
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()

	h.writeJSON(rr, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] == "" {
		t.Errorf("expected an error body, got %q", rr.Body.String())
	}
}
