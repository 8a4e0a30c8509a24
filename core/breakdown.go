package core

import "sort"

// 因子名称常量。所有因子得分都归一化到 [0, 1]。
const (
	FactorBudget      = "budget"
	FactorTravelStyle = "travelStyle"
	FactorActivities  = "activities"
	FactorCountry     = "country"
	FactorClimate     = "climate"
	FactorBehavior    = "behavior"
	FactorPopularity  = "popularity"
	FactorRating      = "rating"
	FactorDiversity   = "diversity"
)

// NeutralScore 是因子输入缺失时的中性默认值。
// 缺失偏好按正常输入处理，不视为错误。
const NeutralScore = 0.5

// Weights 是各因子的固定权重表。权重之和不超过 1.0（预留余量），
// 综合得分 = min(Σ factor*weight, 1.0)。
type Weights struct {
	Budget      float64 `json:"budget" yaml:"budget"`
	TravelStyle float64 `json:"travelStyle" yaml:"travelStyle"`
	Activities  float64 `json:"activities" yaml:"activities"`
	Country     float64 `json:"country" yaml:"country"`
	Climate     float64 `json:"climate" yaml:"climate"`
	Behavior    float64 `json:"behavior" yaml:"behavior"`
	Popularity  float64 `json:"popularity" yaml:"popularity"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Diversity   float64 `json:"diversity" yaml:"diversity"`
}

// DefaultWeights 返回线上默认权重。
func DefaultWeights() Weights {
	return Weights{
		Budget:      0.25,
		TravelStyle: 0.20,
		Activities:  0.15,
		Country:     0.15,
		Climate:     0.10,
		Behavior:    0.05,
		Popularity:  0.05,
		Rating:      0.03,
		Diversity:   0.02,
	}
}

// Of 按因子名取权重，未知因子返回 0。
func (w Weights) Of(factor string) float64 {
	switch factor {
	case FactorBudget:
		return w.Budget
	case FactorTravelStyle:
		return w.TravelStyle
	case FactorActivities:
		return w.Activities
	case FactorCountry:
		return w.Country
	case FactorClimate:
		return w.Climate
	case FactorBehavior:
		return w.Behavior
	case FactorPopularity:
		return w.Popularity
	case FactorRating:
		return w.Rating
	case FactorDiversity:
		return w.Diversity
	default:
		return 0
	}
}

// Sum 返回权重之和，用于配置校验（必须 <= 1.0）。
func (w Weights) Sum() float64 {
	return w.Budget + w.TravelStyle + w.Activities + w.Country + w.Climate +
		w.Behavior + w.Popularity + w.Rating + w.Diversity
}

// ScoreBreakdown 是一次打分调用的明细：因子名 -> [0,1] 得分，外加权重表。
// 供理由生成与诊断使用；原始权重不面向终端用户展示。
type ScoreBreakdown struct {
	Factors map[string]float64 `json:"factors"`
	Weights Weights            `json:"weights"`
}

func NewScoreBreakdown(w Weights) *ScoreBreakdown {
	return &ScoreBreakdown{
		Factors: make(map[string]float64, 9),
		Weights: w,
	}
}

// Put 记录一个因子得分。
func (b *ScoreBreakdown) Put(factor string, score float64) {
	if b.Factors == nil {
		b.Factors = make(map[string]float64, 9)
	}
	b.Factors[factor] = score
}

// Factor 取某因子得分，未记录返回 0。
func (b *ScoreBreakdown) Factor(name string) float64 {
	if b == nil || b.Factors == nil {
		return 0
	}
	return b.Factors[name]
}

// Composite 计算综合得分：Σ factor*weight，上限 1.0。
// 按因子名排序后求和：浮点加法不满足结合律，固定求和顺序
// 才能保证同样输入跨调用得到完全一致的分数。
func (b *ScoreBreakdown) Composite() float64 {
	if b == nil {
		return 0
	}
	names := make([]string, 0, len(b.Factors))
	for name := range b.Factors {
		names = append(names, name)
	}
	sort.Strings(names)

	sum := 0.0
	for _, name := range names {
		sum += b.Factors[name] * b.Weights.Of(name)
	}
	if sum > 1.0 {
		return 1.0
	}
	return sum
}

// TopFactor 返回加权贡献最大的因子名，用于推荐条目的分类标签。
// 贡献相同时按因子名字典序取先者，保证确定性。
func (b *ScoreBreakdown) TopFactor() string {
	if b == nil || len(b.Factors) == 0 {
		return ""
	}
	names := make([]string, 0, len(b.Factors))
	for name := range b.Factors {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestContrib := -1.0
	for _, name := range names {
		contrib := b.Factors[name] * b.Weights.Of(name)
		if contrib > bestContrib {
			best = name
			bestContrib = contrib
		}
	}
	return best
}
