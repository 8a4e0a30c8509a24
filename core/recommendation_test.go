package core

import (
	"testing"
	"time"
)

func entryExpiring(id string, expiresAt time.Time) RecommendationEntry {
	return RecommendationEntry{
		ID:          id,
		TourID:      "tour-" + id,
		GeneratedAt: expiresAt.Add(-DefaultEntryTTL),
		ExpiresAt:   expiresAt,
	}
}

func TestPrune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	set := &RecommendationSet{
		Entries: []RecommendationEntry{
			entryExpiring("e1", now.Add(-time.Minute)),
			entryExpiring("e2", now.Add(time.Hour)),
			entryExpiring("e3", now), // boundary: expires exactly now
		},
	}

	if dropped := set.Prune(now); dropped != 2 {
		t.Errorf("Prune() dropped = %d, want 2", dropped)
	}
	if len(set.Entries) != 1 || set.Entries[0].ID != "e2" {
		t.Errorf("remaining entries = %v, want only e2", set.Entries)
	}
	if set.Metrics.TotalRecommendations != 1 {
		t.Errorf("TotalRecommendations = %d, want 1 after prune", set.Metrics.TotalRecommendations)
	}
}

func TestPruneNothingExpired(t *testing.T) {
	now := time.Now()
	set := &RecommendationSet{
		Entries: []RecommendationEntry{entryExpiring("e1", now.Add(time.Hour))},
		Metrics: Metrics{TotalRecommendations: 99},
	}
	if dropped := set.Prune(now); dropped != 0 {
		t.Errorf("Prune() dropped = %d, want 0", dropped)
	}
	// no drop means no metric recompute
	if set.Metrics.TotalRecommendations != 99 {
		t.Error("metrics should be untouched when nothing is pruned")
	}
}

func TestRecomputeMetrics(t *testing.T) {
	set := &RecommendationSet{
		Entries: []RecommendationEntry{
			entryExpiring("e1", time.Now().Add(time.Hour)),
			entryExpiring("e2", time.Now().Add(time.Hour)),
			entryExpiring("e3", time.Now().Add(time.Hour)),
			entryExpiring("e4", time.Now().Add(time.Hour)),
		},
		Performance: Performance{
			Clicked: []ClickEvent{{EntryID: "e1"}, {EntryID: "e2"}},
			Booked:  []BookingEvent{{EntryID: "e1"}},
			Feedback: []FeedbackEvent{
				{EntryID: "e1", Sentiment: "positive"},
				{EntryID: "e2", Sentiment: "negative"},
			},
		},
	}
	set.RecomputeMetrics()

	if set.Metrics.TotalRecommendations != 4 {
		t.Errorf("TotalRecommendations = %d, want 4", set.Metrics.TotalRecommendations)
	}
	if set.Metrics.ClickThroughRate != 0.5 {
		t.Errorf("ClickThroughRate = %v, want 0.5", set.Metrics.ClickThroughRate)
	}
	if set.Metrics.ConversionRate != 0.25 {
		t.Errorf("ConversionRate = %v, want 0.25", set.Metrics.ConversionRate)
	}
	if set.Metrics.AverageRating != 3 {
		t.Errorf("AverageRating = %v, want 3 ((5+1)/2)", set.Metrics.AverageRating)
	}
}

func TestRecomputeMetricsEmptySet(t *testing.T) {
	set := &RecommendationSet{
		Performance: Performance{Clicked: []ClickEvent{{EntryID: "stale"}}},
	}
	set.RecomputeMetrics()
	if set.Metrics.ClickThroughRate != 0 || set.Metrics.ConversionRate != 0 {
		t.Errorf("rates on empty set = %+v, want zeros", set.Metrics)
	}
}

func TestEntryLookup(t *testing.T) {
	set := &RecommendationSet{
		Entries: []RecommendationEntry{
			entryExpiring("e1", time.Now().Add(time.Hour)),
		},
	}
	if set.Entry("e1") == nil {
		t.Error("Entry(e1) should be found")
	}
	if set.Entry("missing") != nil {
		t.Error("Entry(missing) should be nil")
	}
}

func TestTopFactor(t *testing.T) {
	b := NewScoreBreakdown(DefaultWeights())
	b.Put(FactorBudget, 0.4)  // 0.4 * 0.25 = 0.10
	b.Put(FactorCountry, 1.0) // 1.0 * 0.15 = 0.15
	b.Put(FactorRating, 1.0)  // 1.0 * 0.03 = 0.03
	if got := b.TopFactor(); got != FactorCountry {
		t.Errorf("TopFactor() = %s, want %s", got, FactorCountry)
	}
}

func TestTopFactorTieIsLexicographic(t *testing.T) {
	w := Weights{Budget: 0.2, Country: 0.2}
	b := NewScoreBreakdown(w)
	b.Put(FactorBudget, 0.5)
	b.Put(FactorCountry, 0.5)
	if got := b.TopFactor(); got != FactorBudget {
		t.Errorf("TopFactor() = %s, want lexicographically first on tie", got)
	}
}

func TestCompositeCap(t *testing.T) {
	w := Weights{Budget: 0.8, Country: 0.8}
	b := NewScoreBreakdown(w)
	b.Put(FactorBudget, 1.0)
	b.Put(FactorCountry, 1.0)
	if got := b.Composite(); got != 1.0 {
		t.Errorf("Composite() = %v, want capped at 1.0", got)
	}
}

func TestDefaultWeightsSum(t *testing.T) {
	if sum := DefaultWeights().Sum(); sum > 1.0+1e-9 {
		t.Errorf("default weights sum %v exceeds 1.0", sum)
	}
}
