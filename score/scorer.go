// Package score 实现多因子加权打分。
//
// 打分是 (画像, 候选) 的纯函数：无共享可变状态，无 I/O，不自带超时。
// 画像与候选必须由调用方在进线前解析完成；候选列表上的打分可以安全并行。
package score

import (
	"math"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/knowledge"
	"github.com/travelie/recommend/pkg/match"
)

// DiversityFn 计算多样性因子，返回值必须落在 [0,1]。
// 列表内多样化算法尚未上线，默认实现返回固定 0.5 占位；
// 权重槽位保留，替换实现不影响权重契约。
type DiversityFn func(profile *core.PreferenceProfile, tour *core.Tour) float64

// Scorer 对单个候选计算各因子得分与综合得分。
type Scorer struct {
	kb        *knowledge.Base
	weights   core.Weights
	diversity DiversityFn
}

// Option 配置 Scorer。
type Option func(*Scorer)

// WithWeights 覆盖默认权重表。
func WithWeights(w core.Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithDiversityFn 替换多样性因子实现。
func WithDiversityFn(fn DiversityFn) Option {
	return func(s *Scorer) { s.diversity = fn }
}

func NewScorer(kb *knowledge.Base, opts ...Option) *Scorer {
	s := &Scorer{
		kb:      kb,
		weights: core.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights 返回当前权重表。
func (s *Scorer) Weights() core.Weights { return s.weights }

// Score 计算 (画像, 候选) 的综合得分与因子明细。
// 画像为 nil 或字段缺失时，相应因子取中性默认值，不报错。
func (s *Scorer) Score(profile *core.PreferenceProfile, tour *core.Tour) (float64, *core.ScoreBreakdown) {
	b := core.NewScoreBreakdown(s.weights)
	b.Put(core.FactorBudget, s.budgetScore(profile, tour))
	b.Put(core.FactorTravelStyle, s.styleScore(profile, tour))
	b.Put(core.FactorActivities, s.activityScore(profile, tour))
	b.Put(core.FactorCountry, s.countryScore(profile, tour))
	b.Put(core.FactorClimate, s.climateScore(profile, tour))
	b.Put(core.FactorBehavior, s.behaviorScore(profile, tour))
	b.Put(core.FactorPopularity, s.popularityScore(tour))
	b.Put(core.FactorRating, s.ratingScore(tour))
	b.Put(core.FactorDiversity, s.diversityScore(profile, tour))
	return b.Composite(), b
}

// budgetScore 计算预算匹配度：
//   - 区间内 → 1.0（闭区间，恰好等于 min/max 也记满分）
//   - 低于下限 → max(0.7 − 0.5·(min−cost)/min, 0)，轻罚：便宜不是坏事
//   - 高于上限 → max(0.5 − (cost−max)/max, 0)，超支按比例重罚
func (s *Scorer) budgetScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil || profile.BudgetRange == nil {
		return core.NeutralScore
	}
	min, max := profile.BudgetRange.Min, profile.BudgetRange.Max
	cost := tour.Cost
	switch {
	case cost >= min && cost <= max:
		return 1.0
	case cost < min:
		if min <= 0 {
			return 0
		}
		return math.Max(0.7-0.5*(min-cost)/min, 0)
	default:
		if max <= 0 {
			return 0
		}
		return math.Max(0.5-(cost-max)/max, 0)
	}
}

// styleScore 计算旅行风格匹配度：对每个声明风格取规则并做至多 3 项子检查
// （成本区间、标签重合率、难度隶属），按实际适用的子检查数取平均，
// 分母下限为 1；最终取所有声明风格的最大子分，上限 1.0。
// 未声明风格 → 中性 0.5；未识别的风格 key 子分记 0（查询侧已记录日志）。
func (s *Scorer) styleScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil || len(profile.TravelStyles) == 0 {
		return core.NeutralScore
	}

	best := 0.0
	for _, style := range profile.TravelStyles {
		rule, ok := s.kb.Style(style)
		if !ok {
			continue
		}

		sum := 0.0
		applicable := 0
		if rule.HasCostRange() {
			applicable++
			if rule.CostInRange(tour.Cost) {
				sum++
			}
		}
		if len(rule.Tags) > 0 {
			applicable++
			sum += match.OverlapRatio(rule.Tags, tour.Tags)
		}
		if len(rule.Difficulty) > 0 {
			applicable++
			for _, d := range rule.Difficulty {
				if match.EqualFold(d, tour.Difficulty) {
					sum++
					break
				}
			}
		}

		if applicable < 1 {
			applicable = 1
		}
		if sub := sum / float64(applicable); sub > best {
			best = sub
		}
	}
	return math.Min(best, 1.0)
}

// activityScore 计算活动匹配度：命中活动数 / 声明活动数。
// 一个活动只要其关键词集合在 (标签 + 景点名 + 描述) 中有任一子串命中即算命中。
func (s *Scorer) activityScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil || len(profile.Activities) == 0 {
		return core.NeutralScore
	}

	haystack := make([]string, 0, len(tour.Tags)+len(tour.Attractions)+1)
	haystack = append(haystack, tour.Tags...)
	haystack = append(haystack, tour.Attractions...)
	if tour.Description != "" {
		haystack = append(haystack, tour.Description)
	}

	hit := 0
	for _, activity := range profile.Activities {
		keywords, ok := s.kb.ActivityKeywords(activity)
		if !ok {
			continue
		}
		for _, kw := range keywords {
			if match.AnyFold(kw, haystack) {
				hit++
				break
			}
		}
	}
	return float64(hit) / float64(len(profile.Activities))
}

// countryScore 计算目的地匹配度：命中任一喜爱国家 → 1.0，否则 0.2。
func (s *Scorer) countryScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil || len(profile.FavoriteCountries) == 0 {
		return core.NeutralScore
	}
	if match.AnyFold(tour.Country, profile.FavoriteCountries) {
		return 1.0
	}
	return 0.2
}

// climateScore 计算气候匹配度：候选国家命中规则国家集，或任一候选标签
// 命中规则标签集 → 1.0，否则 0.3。未声明或未识别的气候 → 中性 0.5。
func (s *Scorer) climateScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil || profile.ClimatePreference == "" {
		return core.NeutralScore
	}
	rule, ok := s.kb.Climate(profile.ClimatePreference)
	if !ok {
		return core.NeutralScore
	}
	if rule.Matches(tour.Country, tour.Tags) {
		return 1.0
	}
	return 0.3
}

// behaviorScore 从行为信号累加，上限 1.0：
//   - 心愿单命中 +0.5
//   - 浏览过 + min(浏览秒数/300, 0.3)
//   - 预订过同国家 +0.2
//
// 无任何行为数据 → 0（行为缺失不取中性值，新用户行为分就是 0）。
func (s *Scorer) behaviorScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if profile == nil {
		return 0
	}
	sum := 0.0
	if profile.InWishlist(tour.ID) {
		sum += 0.5
	}
	if dur, ok := profile.ViewDuration(tour.ID); ok {
		sum += math.Min(dur/300, 0.3)
	}
	if profile.HasBookedCountry(tour.Country) {
		sum += 0.2
	}
	return math.Min(sum, 1.0)
}

// popularityScore 按预订/浏览/心愿单计数计算人气分，各计数分段饱和。
func (s *Scorer) popularityScore(tour *core.Tour) float64 {
	return 0.5*math.Min(float64(tour.BookingCount)/100, 1) +
		0.3*math.Min(float64(tour.ViewCount)/1000, 1) +
		0.2*math.Min(float64(tour.WishlistCount)/50, 1)
}

// ratingScore 把 [0,5] 的评分线性归一到 [0,1]。
func (s *Scorer) ratingScore(tour *core.Tour) float64 {
	r := tour.Rating / 5
	return math.Max(0, math.Min(r, 1))
}

func (s *Scorer) diversityScore(profile *core.PreferenceProfile, tour *core.Tour) float64 {
	if s.diversity != nil {
		v := s.diversity(profile, tour)
		return math.Max(0, math.Min(v, 1))
	}
	return core.NeutralScore
}

// ConfidenceOf 计算条目置信度：画像带声明偏好时即综合得分本身；
// 冷启动（无任何声明偏好）时向 0.5 衰减一半，提示得分主要来自人气与评分。
func ConfidenceOf(profile *core.PreferenceProfile, composite float64) float64 {
	if profile.Declared() {
		return composite
	}
	return core.NeutralScore + (composite-core.NeutralScore)/2
}
