package core

import "time"

// DefaultEntryTTL 是推荐条目的默认存活时长，超过后条目被懒惰剔除。
const DefaultEntryTTL = 7 * 24 * time.Hour

// RecommendationEntry 是推荐集合中的一条结果。
// 不变量：ExpiresAt 恒晚于 GeneratedAt。
type RecommendationEntry struct {
	ID           string    `json:"id"`
	TourID       string    `json:"tourId"`
	Score        float64   `json:"score"` // 综合得分 [0,1]
	MatchPercent int       `json:"matchPercentage"`
	Reasons      []string  `json:"reasons"`
	Category     string    `json:"category"`   // 贡献最大的因子名
	Confidence   float64   `json:"confidence"` // 冷启动时向 0.5 衰减
	GeneratedAt  time.Time `json:"generatedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired 判断条目在 now 时刻是否已过期。
func (e *RecommendationEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// ClickEvent 是一次推荐位点击。
type ClickEvent struct {
	EntryID  string    `json:"entryId"`
	Position int       `json:"position"`
	At       time.Time `json:"at"`
}

// BookingEvent 是一次由推荐转化的预订。
type BookingEvent struct {
	EntryID string    `json:"entryId"`
	Value   float64   `json:"value"`
	At      time.Time `json:"at"`
}

// FeedbackEvent 是一次用户显式反馈。
type FeedbackEvent struct {
	EntryID   string    `json:"entryId"`
	Sentiment string    `json:"sentiment"` // positive / neutral / negative
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Performance 是推荐集合的表现日志，三类事件都只追加不修改。
type Performance struct {
	Clicked  []ClickEvent    `json:"clicked"`
	Booked   []BookingEvent  `json:"booked"`
	Feedback []FeedbackEvent `json:"feedback"`
}

// Metrics 是从 Performance 重算得到的聚合指标。
type Metrics struct {
	TotalRecommendations int     `json:"totalRecommendations"`
	ClickThroughRate     float64 `json:"clickThroughRate"`
	ConversionRate       float64 `json:"conversionRate"`
	AverageRating        float64 `json:"averageRating"`
}

// Settings 是一次生成的可调参数。
type Settings struct {
	MaxRecommendations int     `json:"maxRecommendations"`
	DiversityFactor    float64 `json:"diversityFactor"`
	NoveltyFactor      float64 `json:"noveltyFactor"`
	ExcludeViewed      bool    `json:"excludeViewed"`
	ExcludeBooked      bool    `json:"excludeBooked"`
}

// TopN 的取值边界。
const (
	DefaultTopN = 10
	MinTopN     = 1
	MaxTopN     = 50
)

// DefaultSettings 返回默认生成参数。
func DefaultSettings() Settings {
	return Settings{
		MaxRecommendations: DefaultTopN,
		DiversityFactor:    0.5,
		NoveltyFactor:      0.5,
		ExcludeViewed:      false,
		ExcludeBooked:      false,
	}
}

// RecommendationSet 是一个用户的当前推荐集合。
// 每次生成整体替换，绝不部分合并；条目在任意 load/save 时懒惰剔除过期项。
type RecommendationSet struct {
	ID          string                `json:"id"`
	UserID      string                `json:"userId"`
	Entries     []RecommendationEntry `json:"entries"`
	Performance Performance           `json:"performance"`
	Metrics     Metrics               `json:"metrics"`
	Settings    Settings              `json:"settings"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// Entry 按条目 ID 查找，不存在返回 nil。
func (s *RecommendationSet) Entry(entryID string) *RecommendationEntry {
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			return &s.Entries[i]
		}
	}
	return nil
}

// Prune 剔除 now 时刻已过期的条目，返回剔除数量。
// 剔除后指标随条目数变化重算。
func (s *RecommendationSet) Prune(now time.Time) int {
	kept := s.Entries[:0]
	dropped := 0
	for i := range s.Entries {
		if s.Entries[i].Expired(now) {
			dropped++
			continue
		}
		kept = append(kept, s.Entries[i])
	}
	s.Entries = kept
	if dropped > 0 {
		s.RecomputeMetrics()
	}
	return dropped
}

// sentimentRating 把反馈情绪映射为五分制评分，用于 AverageRating。
func sentimentRating(sentiment string) float64 {
	switch sentiment {
	case "positive":
		return 5
	case "negative":
		return 1
	default:
		return 3
	}
}

// RecomputeMetrics 依据当前条目与事件日志重算聚合指标。
// CTR = 点击数 / 推荐条数；转化率 = 预订数 / 推荐条数。
func (s *RecommendationSet) RecomputeMetrics() {
	total := len(s.Entries)
	s.Metrics.TotalRecommendations = total
	if total == 0 {
		s.Metrics.ClickThroughRate = 0
		s.Metrics.ConversionRate = 0
	} else {
		s.Metrics.ClickThroughRate = float64(len(s.Performance.Clicked)) / float64(total)
		s.Metrics.ConversionRate = float64(len(s.Performance.Booked)) / float64(total)
	}

	if n := len(s.Performance.Feedback); n > 0 {
		sum := 0.0
		for _, f := range s.Performance.Feedback {
			sum += sentimentRating(f.Sentiment)
		}
		s.Metrics.AverageRating = sum / float64(n)
	} else {
		s.Metrics.AverageRating = 0
	}
}
