//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fss-lab/collapse-core/internal/collapsed"
	"github.com/fss-lab/collapse-core/pkg/config"
)

const testJobJSON = `{
  "search": {
    "mode": "one_param",
    "v1": {"from": 5, "to": 7, "samples": 21},
    "degree": 4
  },
  "scaling": {
    "x": {"form": "shift_power", "exponent": 1},
    "y": {"form": "power", "exponent": -1.75}
  },
  "datasets": [
    {"size": 4, "x": [5.5, 5.7, 5.9, 6.1, 6.3, 6.5],
     "y": [20.2742, 21.2372, 22.1712, 23.0763, 23.9525, 24.7996]},
    {"size": 8, "x": [5.5, 5.7, 5.9, 6.1, 6.3, 6.5],
     "y": [59.6697, 66.5378, 73.0162, 79.1049, 84.8040, 90.1134]},
    {"size": 12, "x": [5.5, 5.7, 5.9, 6.1, 6.3, 6.5],
     "y": [102.7461, 124.8798, 145.2310, 163.7995, 180.5855, 195.5889]}
  ]
}`

func newTestHandler(t *testing.T) (http.Handler, *collapsed.Executor) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "integration.db")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := collapsed.OpenDB(ctx, collapsed.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("OpenDB error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := collapsed.NewStore(db)
	executor := collapsed.NewExecutor(store)
	return collapsed.NewServer(store, executor).Handler(), executor
}

// TestIntegration_SubmitAndFetchCollapse drives the full HTTP lifecycle:
// submit a job, wait for it, then fetch the record and its residual curve.
func TestIntegration_SubmitAndFetchCollapse(t *testing.T) {
	h, executor := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/collapses", bytes.NewReader([]byte(testJobJSON)))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	executor.Wait()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/collapses/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var record collapsed.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Status != collapsed.StatusCompleted {
		t.Fatalf("expected completed search, got %s (%s)", record.Status, record.Error)
	}
	if record.Outcome == nil {
		t.Fatal("completed record missing outcome")
	}
	if record.Outcome.BestV1 < 5.9 || record.Outcome.BestV1 > 6.1 {
		t.Errorf("expected best_v1 near 6, got %g", record.Outcome.BestV1)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/collapses/"+created.ID+"/surface", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from surface endpoint, got %d", rec.Code)
	}
	var surface struct {
		Mode      string    `json:"mode"`
		V1        []float64 `json:"v1"`
		Residuals []float64 `json:"residuals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &surface); err != nil {
		t.Fatalf("decode surface: %v", err)
	}
	if surface.Mode != config.ModeOneParam {
		t.Errorf("expected one_param mode, got %s", surface.Mode)
	}
	if len(surface.V1) != 21 || len(surface.Residuals) != 21 {
		t.Errorf("unexpected residual curve lengths: %d/%d", len(surface.V1), len(surface.Residuals))
	}
}

// TestIntegration_FailedCollapsePersisted submits a job that passes
// validation but fails during the search, and checks the failure is
// recorded and surfaced.
func TestIntegration_FailedCollapsePersisted(t *testing.T) {
	h, executor := newTestHandler(t)

	var job config.Job
	if err := json.Unmarshal([]byte(testJobJSON), &job); err != nil {
		t.Fatalf("decode test job: %v", err)
	}
	// Degree 20 exceeds the pooled point count, so every grid point fails.
	job.Search.Degree = 20
	body, err := json.Marshal(&job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/collapses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	executor.Wait()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/collapses/"+created.ID, nil))
	var record collapsed.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Status != collapsed.StatusFailed {
		t.Fatalf("expected failed search, got %s", record.Status)
	}
	if record.Error == "" {
		t.Error("failed record missing error message")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/collapses/"+created.ID+"/surface", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for failed search surface, got %d", rec.Code)
	}
}
