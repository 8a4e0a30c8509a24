package recset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/knowledge"
	"github.com/travelie/recommend/score"
	"github.com/travelie/recommend/store"
)

func testScorer(t *testing.T) *score.Scorer {
	t.Helper()
	return score.NewScorer(knowledge.Default())
}

func testManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	return NewManager(ms, testScorer(t), opts...)
}

func testProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile("u1")
	p.BudgetRange = &core.BudgetRange{Min: 1000, Max: 3000}
	p.FavoriteCountries = []string{"Japan"}
	return p
}

func testCandidates() []*core.Tour {
	return []*core.Tour{
		{ID: "jp-1", Name: "Kyoto Culture", Country: "Japan", Cost: 2000, Rating: 4.8},
		{ID: "fr-1", Name: "Paris Weekend", Country: "France", Cost: 1500, Rating: 4.2},
		{ID: "is-1", Name: "Iceland Trek", Country: "Iceland", Cost: 5000, Rating: 4.9},
	}
}

func TestGenerate(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	set, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if set.UserID != "u1" {
		t.Errorf("UserID = %s, want u1", set.UserID)
	}
	if len(set.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(set.Entries))
	}
	if set.Entries[0].TourID != "jp-1" {
		t.Errorf("top entry = %s, want jp-1 (favorite country, in budget)", set.Entries[0].TourID)
	}
	for i, e := range set.Entries {
		if e.Score < 0 || e.Score > 1 {
			t.Errorf("entry %d score = %v, out of [0,1]", i, e.Score)
		}
		if e.MatchPercent < 0 || e.MatchPercent > 100 {
			t.Errorf("entry %d match percent = %d", i, e.MatchPercent)
		}
		if len(e.Reasons) == 0 {
			t.Errorf("entry %d has no reasons", i)
		}
		if e.Category == "" {
			t.Errorf("entry %d has no category", i)
		}
		if !e.ExpiresAt.After(e.GeneratedAt) {
			t.Errorf("entry %d expiry not after generation", i)
		}
	}
	if set.Metrics.TotalRecommendations != 3 {
		t.Errorf("TotalRecommendations = %d, want 3", set.Metrics.TotalRecommendations)
	}

	loaded, err := mgr.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.ID != set.ID || len(loaded.Entries) != len(set.Entries) {
		t.Error("loaded set differs from generated set")
	}
}

func TestGenerateDeterministicIDs(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mgr := testManager(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("set IDs differ across identical runs: %s vs %s", first.ID, second.ID)
	}
	if len(first.Entries) != len(second.Entries) {
		t.Fatal("entry counts differ across identical runs")
	}
	for i := range first.Entries {
		a, b := first.Entries[i], second.Entries[i]
		if a.ID != b.ID || a.TourID != b.TourID || a.Score != b.Score {
			t.Errorf("entry %d differs across identical runs: %+v vs %+v", i, a, b)
		}
	}

	other, err := mgr.Generate(ctx, "u2", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if other.Entries[0].ID == first.Entries[0].ID {
		t.Error("different users must not share entry IDs")
	}
}

func TestGenerateReplacesWholeSet(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	replaced, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates()[:1], GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(replaced.Entries) != 1 {
		t.Errorf("got %d entries after replacement, want 1", len(replaced.Entries))
	}
	loaded, err := mgr.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(loaded.Entries) != 1 {
		t.Errorf("stored set has %d entries, want 1", len(loaded.Entries))
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	mgr := testManager(t)
	set, err := mgr.Generate(context.Background(), "u1", testProfile(), nil, GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(set.Entries))
	}
	if set.Metrics.TotalRecommendations != 0 {
		t.Error("metrics should be zeroed for an empty set")
	}
}

func TestGenerateInvalidProfile(t *testing.T) {
	mgr := testManager(t)
	bad := testProfile()
	bad.BudgetRange = &core.BudgetRange{Min: 3000, Max: 1000}

	_, err := mgr.Generate(context.Background(), "u1", bad, testCandidates(), GenerateOptions{})
	if !errors.Is(err, core.ErrInvalidBudgetRange) {
		t.Errorf("err = %v, want ErrInvalidBudgetRange", err)
	}
}

func TestGenerateHonorsSettings(t *testing.T) {
	mgr := testManager(t)
	settings := core.DefaultSettings()
	settings.MaxRecommendations = 2

	set, err := mgr.Generate(context.Background(), "u1", testProfile(), testCandidates(),
		GenerateOptions{Settings: &settings})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(set.Entries))
	}
}

func TestGenerateExcludesBehaviorHistory(t *testing.T) {
	mgr := testManager(t)
	profile := testProfile()
	profile.ViewHistory = []core.ViewRecord{{TourID: "jp-1", DurationSeconds: 120}}
	settings := core.DefaultSettings()
	settings.ExcludeViewed = true

	set, err := mgr.Generate(context.Background(), "u1", profile, testCandidates(),
		GenerateOptions{Settings: &settings})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, e := range set.Entries {
		if e.TourID == "jp-1" {
			t.Error("viewed tour should be excluded")
		}
	}
}

func TestGetNoSet(t *testing.T) {
	mgr := testManager(t)
	if _, err := mgr.Get(context.Background(), "nobody"); !errors.Is(err, core.ErrSetNotFound) {
		t.Errorf("err = %v, want ErrSetNotFound", err)
	}
}

func TestExpiredEntriesPrunedOnLoad(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := now
	mgr := testManager(t, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	set, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(),
		GenerateOptions{TTL: time.Hour})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(set.Entries))
	}

	current = now.Add(2 * time.Hour)

	loaded, err := mgr.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(loaded.Entries) != 0 {
		t.Errorf("got %d entries after expiry, want 0", len(loaded.Entries))
	}
	if loaded.Metrics.TotalRecommendations != 0 {
		t.Error("metrics should be recomputed after pruning")
	}
}

func TestRecordEvents(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	set, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entryID := set.Entries[0].ID

	if err := mgr.RecordClick(ctx, "u1", entryID, 0); err != nil {
		t.Fatalf("RecordClick() error = %v", err)
	}
	if err := mgr.RecordBooking(ctx, "u1", entryID, 2000); err != nil {
		t.Fatalf("RecordBooking() error = %v", err)
	}
	if err := mgr.RecordFeedback(ctx, "u1", entryID, "positive", "great match"); err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}

	metrics, err := mgr.Metrics(ctx, "u1")
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if got, want := metrics.ClickThroughRate, 1.0/3.0; got != want {
		t.Errorf("ClickThroughRate = %v, want %v", got, want)
	}
	if got, want := metrics.ConversionRate, 1.0/3.0; got != want {
		t.Errorf("ConversionRate = %v, want %v", got, want)
	}
	if metrics.AverageRating != 5 {
		t.Errorf("AverageRating = %v, want 5", metrics.AverageRating)
	}

	loaded, err := mgr.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(loaded.Performance.Clicked) != 1 ||
		len(loaded.Performance.Booked) != 1 ||
		len(loaded.Performance.Feedback) != 1 {
		t.Errorf("performance log = %+v, want one event of each kind", loaded.Performance)
	}
}

func TestAverageRatingFromMixedFeedback(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	set, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entryID := set.Entries[0].ID

	for _, sentiment := range []string{"positive", "neutral", "negative"} {
		if err := mgr.RecordFeedback(ctx, "u1", entryID, sentiment, ""); err != nil {
			t.Fatalf("RecordFeedback(%s) error = %v", sentiment, err)
		}
	}
	metrics, err := mgr.Metrics(ctx, "u1")
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if metrics.AverageRating != 3 {
		t.Errorf("AverageRating = %v, want 3 ((5+3+1)/3)", metrics.AverageRating)
	}
}

func TestRecordUnknownEntry(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := mgr.RecordClick(ctx, "u1", "no-such-entry", 0); !errors.Is(err, core.ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestRecordNoSet(t *testing.T) {
	mgr := testManager(t)
	if err := mgr.RecordClick(context.Background(), "nobody", "e1", 0); !errors.Is(err, core.ErrSetNotFound) {
		t.Errorf("err = %v, want ErrSetNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	mgr := testManager(t)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "u1", testProfile(), testCandidates(), GenerateOptions{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := mgr.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := mgr.Get(ctx, "u1"); !errors.Is(err, core.ErrSetNotFound) {
		t.Errorf("err after delete = %v, want ErrSetNotFound", err)
	}
}
