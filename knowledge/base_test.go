package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLookups(t *testing.T) {
	kb := Default()

	t.Run("style lookup", func(t *testing.T) {
		rule, ok := kb.Style("luxury")
		if !ok {
			t.Fatal("Style(luxury) not found")
		}
		if !rule.HasCostRange() {
			t.Error("luxury should carry a cost range")
		}
		if !rule.CostInRange(5000) {
			t.Error("5000 should be in the luxury cost range")
		}
		if rule.CostInRange(100) {
			t.Error("100 should be below the luxury cost range")
		}
	})

	t.Run("style without cost range", func(t *testing.T) {
		rule, ok := kb.Style("adventure")
		if !ok {
			t.Fatal("Style(adventure) not found")
		}
		if rule.HasCostRange() {
			t.Error("adventure should not carry a cost range")
		}
		if rule.CostInRange(1000) {
			t.Error("CostInRange must be false without a range")
		}
	})

	t.Run("keys are case-insensitive", func(t *testing.T) {
		if _, ok := kb.Style("  Luxury "); !ok {
			t.Error("Style lookup should normalize case and whitespace")
		}
	})

	t.Run("unknown keys return not-found, never error", func(t *testing.T) {
		if _, ok := kb.Style("extravagant"); ok {
			t.Error("unknown style should be a miss")
		}
		if _, ok := kb.ActivityKeywords("spelunking"); ok {
			t.Error("unknown activity should be a miss")
		}
		if _, ok := kb.Climate("martian"); ok {
			t.Error("unknown climate should be a miss")
		}
	})

	t.Run("activity keywords", func(t *testing.T) {
		kw, ok := kb.ActivityKeywords("beach")
		if !ok || len(kw) == 0 {
			t.Fatal("ActivityKeywords(beach) missing")
		}
	})

	t.Run("seasons map to months", func(t *testing.T) {
		months, ok := kb.SeasonMonths("winter")
		if !ok {
			t.Fatal("SeasonMonths(winter) missing")
		}
		want := []int{12, 1, 2}
		if len(months) != len(want) {
			t.Fatalf("winter months = %v, want %v", months, want)
		}
		for i := range want {
			if months[i] != want[i] {
				t.Errorf("winter months = %v, want %v", months, want)
				break
			}
		}
	})
}

func TestGenericLookup(t *testing.T) {
	kb := Default()

	tests := []struct {
		category string
		key      string
		wantOK   bool
	}{
		{CategoryTravelStyle, "budget", true},
		{CategoryActivity, "hiking", true},
		{CategoryClimate, "cold", true},
		{CategoryAccommodation, "resort", true},
		{CategoryGroupSize, "couple", true},
		{CategoryDuration, "weekend", true},
		{CategorySeason, "summer", true},
		{CategoryTravelStyle, "nope", false},
		{"bogus-category", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.key, func(t *testing.T) {
			_, ok := kb.Lookup(tt.category, tt.key)
			if ok != tt.wantOK {
				t.Errorf("Lookup(%s, %s) ok = %v, want %v", tt.category, tt.key, ok, tt.wantOK)
			}
		})
	}
}

func TestClimateRuleMatches(t *testing.T) {
	kb := Default()
	rule, ok := kb.Climate("tropical")
	if !ok {
		t.Fatal("Climate(tropical) missing")
	}

	if !rule.Matches("Vietnam", nil) {
		t.Error("country in the mapped set should match")
	}
	if !rule.Matches("Iceland", []string{"beach"}) {
		t.Error("tag in the mapped set should match")
	}
	if rule.Matches("Iceland", []string{"snow"}) {
		t.Error("neither country nor tags should match")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	yamlDoc := `
travelStyles:
  Workation:
    tags: [coworking, wifi]
    difficulty: [easy]
seasons:
  monsoon: [6, 7, 8, 9]
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	kb, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	// Overridden categories replace the builtin table wholesale.
	if _, ok := kb.Style("workation"); !ok {
		t.Error("overridden style table should contain workation (normalized key)")
	}
	if _, ok := kb.Style("luxury"); ok {
		t.Error("override replaces the whole category; luxury should be gone")
	}
	if _, ok := kb.SeasonMonths("monsoon"); !ok {
		t.Error("overridden seasons should contain monsoon")
	}

	// Untouched categories keep builtin defaults.
	if _, ok := kb.Climate("tropical"); !ok {
		t.Error("climates were not overridden and should keep defaults")
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("travelStyles: [not, a, map]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("malformed yaml should error")
	}
}
