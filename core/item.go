package core

import "github.com/travelie/recommend/pkg/utils"

// Tour 是候选物品的统一承载结构：成本、标签、难度、评分与人气计数。
// 由外部目录服务提供，引擎只读不写。
type Tour struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	Attractions []string `json:"attractions"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty"` // easy / moderate / challenging
	Cost        float64  `json:"cost"`
	Rating      float64  `json:"rating"` // [0, 5]

	// 人气计数（由外部统计服务维护）
	BookingCount  int `json:"bookingCount"`
	ViewCount     int `json:"viewCount"`
	WishlistCount int `json:"wishlistCount"`
}

// Item 是推荐链路中的统一承载结构：候选 + 分数 + 解释信息。
// Labels 用于解释与策略驱动；Score 用于排序决策；Breakdown 保留
// 各因子得分，供理由生成与诊断使用，不直接暴露给终端用户。
type Item struct {
	Tour         *Tour
	Score        float64
	MatchPercent int
	Breakdown    *ScoreBreakdown
	Reasons      []string
	Labels       map[string]utils.Label
}

func NewItem(tour *Tour) *Item {
	return &Item{
		Tour:   tour,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
