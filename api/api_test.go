package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/knowledge"
	"github.com/travelie/recommend/recset"
	"github.com/travelie/recommend/score"
	"github.com/travelie/recommend/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })

	mgr := recset.NewManager(ms, score.NewScorer(knowledge.Default()))
	srv := httptest.NewServer(NewServer(mgr, zerolog.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func generateBody() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"userId":            "u1",
			"budgetRange":       map[string]any{"min": 1000, "max": 3000},
			"favoriteCountries": []string{"Japan"},
		},
		"candidates": []map[string]any{
			{"id": "jp-1", "name": "Kyoto Culture", "country": "Japan", "cost": 2000, "rating": 4.8},
			{"id": "fr-1", "name": "Paris Weekend", "country": "France", "cost": 1500, "rating": 4.2},
		},
	}
}

func TestGenerateAndGet(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/v1/recommendations/u1/generate", generateBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var set core.RecommendationSet
	decode(t, resp, &set)
	if len(set.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(set.Entries))
	}
	if set.Entries[0].TourID != "jp-1" {
		t.Errorf("top entry = %s, want jp-1", set.Entries[0].TourID)
	}

	getResp, err := http.Get(srv.URL + "/v1/recommendations/u1/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getResp.StatusCode)
	}
	var loaded core.RecommendationSet
	decode(t, getResp, &loaded)
	if loaded.ID != set.ID {
		t.Error("loaded set ID differs from generated")
	}
}

func TestGetUnknownUser(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/v1/recommendations/nobody/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGenerateInvalidBudget(t *testing.T) {
	srv := testServer(t)

	body := generateBody()
	body["profile"].(map[string]any)["budgetRange"] = map[string]any{"min": 3000, "max": 1000}
	resp := postJSON(t, srv.URL+"/v1/recommendations/u1/generate", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventFlow(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/v1/recommendations/u1/generate", generateBody())
	var set core.RecommendationSet
	decode(t, resp, &set)
	entryID := set.Entries[0].ID

	base := srv.URL + "/v1/recommendations/u1/events/"
	clickResp := postJSON(t, base+"click", map[string]any{"entryId": entryID, "position": 0})
	clickResp.Body.Close()
	if clickResp.StatusCode != http.StatusAccepted {
		t.Errorf("click status = %d, want 202", clickResp.StatusCode)
	}
	bookResp := postJSON(t, base+"booking", map[string]any{"entryId": entryID, "value": 2000})
	bookResp.Body.Close()
	if bookResp.StatusCode != http.StatusAccepted {
		t.Errorf("booking status = %d, want 202", bookResp.StatusCode)
	}
	fbResp := postJSON(t, base+"feedback", map[string]any{"entryId": entryID, "sentiment": "positive"})
	fbResp.Body.Close()
	if fbResp.StatusCode != http.StatusAccepted {
		t.Errorf("feedback status = %d, want 202", fbResp.StatusCode)
	}

	metricsResp, err := http.Get(srv.URL + "/v1/recommendations/u1/metrics")
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	var metrics core.Metrics
	decode(t, metricsResp, &metrics)
	if metrics.ClickThroughRate != 0.5 {
		t.Errorf("ClickThroughRate = %v, want 0.5", metrics.ClickThroughRate)
	}
	if metrics.AverageRating != 5 {
		t.Errorf("AverageRating = %v, want 5", metrics.AverageRating)
	}
}

func TestEventMissingEntryID(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/v1/recommendations/u1/events/click", map[string]any{"position": 1})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventUnknownEntry(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/v1/recommendations/u1/generate", generateBody())
	resp.Body.Close()

	clickResp := postJSON(t, srv.URL+"/v1/recommendations/u1/events/click",
		map[string]any{"entryId": "no-such-entry"})
	defer clickResp.Body.Close()
	if clickResp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", clickResp.StatusCode)
	}
}
