package knowledge

import "strings"

// normalize 统一查询 key 的口径：小写 + 去首尾空白。
func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func f(v float64) *float64 { return &v }

// 内置映射表。随部署版本化，线上可通过 YAML 覆盖（见 loader.go）。

func builtinStyles() map[string]*StyleRule {
	return map[string]*StyleRule{
		"luxury": {
			MinCost:    f(4000),
			MaxCost:    f(999999),
			Tags:       []string{"luxury", "premium", "5-star", "resort", "exclusive"},
			Difficulty: []string{"easy"},
		},
		"budget": {
			MinCost:    f(0),
			MaxCost:    f(2000),
			Tags:       []string{"budget", "backpacking", "hostel", "cheap", "economical"},
			Difficulty: []string{"easy", "moderate"},
		},
		"adventure": {
			Tags:       []string{"adventure", "hiking", "trekking", "extreme", "mountain", "climbing", "outdoor"},
			Difficulty: []string{"moderate", "challenging"},
		},
		"cultural": {
			Tags:       []string{"culture", "history", "museum", "heritage", "temple", "ancient", "traditional"},
			Difficulty: []string{"easy", "moderate"},
		},
		"relaxation": {
			Tags:       []string{"beach", "spa", "resort", "relaxation", "wellness", "peaceful"},
			Difficulty: []string{"easy"},
		},
		"romance": {
			Tags:       []string{"romantic", "honeymoon", "couple", "luxury", "beach", "sunset"},
			Difficulty: []string{"easy"},
		},
	}
}

func builtinActivities() map[string][]string {
	return map[string][]string{
		"sightseeing": {"attractions", "landmarks", "tour", "sightseeing", "scenic", "viewpoint"},
		"shopping":    {"shopping", "market", "mall", "boutique", "bazaar"},
		"food":        {"food", "culinary", "restaurant", "cuisine", "dining", "gastronomy", "local food"},
		"adventure":   {"adventure", "extreme", "outdoor", "sports"},
		"culture":     {"culture", "cultural", "museum", "history", "heritage", "temple"},
		"nightlife":   {"nightlife", "club", "bar", "entertainment", "party"},
		"hiking":      {"hiking", "trekking", "mountain", "trail", "walking"},
		"beach":       {"beach", "island", "sea", "ocean", "coast", "water"},
		"diving":      {"diving", "snorkeling", "underwater", "marine"},
		"photography": {"photography", "scenic", "landscape", "viewpoint"},
	}
}

func builtinClimates() map[string]*ClimateRule {
	return map[string]*ClimateRule{
		"tropical": {
			Countries: []string{"Thailand", "Maldives", "Bali", "Indonesia", "Vietnam", "Philippines", "Malaysia", "Singapore"},
			Tags:      []string{"beach", "island", "hot", "humid"},
		},
		"temperate": {
			Countries: []string{"Japan", "Korea", "South Korea", "China", "France", "Italy", "Spain", "UK", "Germany"},
			Tags:      []string{"mild", "four-seasons", "spring", "autumn"},
		},
		"cold": {
			Countries: []string{"Iceland", "Norway", "Sweden", "Finland", "Canada", "Switzerland", "Russia", "Alaska"},
			Tags:      []string{"snow", "winter", "ice", "skiing", "cold"},
		},
		"desert": {
			Countries: []string{"UAE", "Dubai", "Egypt", "Morocco", "Jordan", "Arizona"},
			Tags:      []string{"desert", "hot", "dry", "sand"},
		},
	}
}

func builtinAccommodations() map[string]*AccommodationRule {
	return map[string]*AccommodationRule{
		"hotel":     {MinRating: 3, Types: []string{"hotel", "business hotel"}},
		"resort":    {MinRating: 4, Types: []string{"resort", "beach resort", "spa resort"}},
		"hostel":    {MinRating: 2, Types: []string{"hostel", "backpacker"}},
		"apartment": {MinRating: 3, Types: []string{"apartment", "serviced apartment", "airbnb"}},
	}
}

func builtinGroupSizes() map[string]*GroupSizeRule {
	return map[string]*GroupSizeRule{
		"solo":   {MinSize: 1, MaxSize: 1, Tags: []string{"solo", "independent"}},
		"couple": {MinSize: 2, MaxSize: 2, Tags: []string{"couple", "romantic", "honeymoon"}},
		"small":  {MinSize: 3, MaxSize: 5, Tags: []string{"small group", "intimate"}},
		"medium": {MinSize: 6, MaxSize: 15, Tags: []string{"group", "social"}},
		"large":  {MinSize: 16, MaxSize: 50, Tags: []string{"large group", "bus tour"}},
	}
}

func builtinDurations() map[string]*DurationRule {
	return map[string]*DurationRule{
		"weekend":  {MinDays: 2, MaxDays: 3},
		"short":    {MinDays: 4, MaxDays: 5},
		"week":     {MinDays: 6, MaxDays: 8},
		"long":     {MinDays: 9, MaxDays: 14},
		"extended": {MinDays: 15, MaxDays: 999},
	}
}

func builtinSeasons() map[string][]int {
	return map[string][]int{
		"spring": {3, 4, 5},
		"summer": {6, 7, 8},
		"autumn": {9, 10, 11},
		"winter": {12, 1, 2},
	}
}
