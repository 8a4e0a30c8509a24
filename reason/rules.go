// Package reason 从打分明细派生人类可读的推荐理由。
//
// 规则表按优先级固定排列，确定性求值：因子得分达到阈值即产出一条
// 固定模板短语，最多 MaxReasons 条，高优先级在前；全部未达标时给出
// 一条兜底理由。理由只来自明细，绝不编造明细不支持的说法。
package reason

import (
	"fmt"

	"github.com/travelie/recommend/core"
)

// MaxReasons 是单个条目理由数量上限。
const MaxReasons = 3

// FallbackReason 是无规则达标时的兜底理由。
const FallbackReason = "Recommended based on your travel profile"

// Rule 是一条理由规则：因子达到阈值时产出短语。
// Phrase 接收整个 Item，模板可以引用候选字段（如实际评分）。
// When 设置时优先于阈值判定，用于 CEL 等自定义规则（见 cel.go）。
type Rule struct {
	Name      string
	Factor    string
	Threshold float64
	When      func(it *core.Item) bool
	Phrase    func(it *core.Item) string
}

// Qualifies 判断规则对该条目是否达标。
func (r *Rule) Qualifies(it *core.Item) bool {
	if it.Breakdown == nil {
		return false
	}
	if r.When != nil {
		return r.When(it)
	}
	return it.Breakdown.Factor(r.Factor) >= r.Threshold
}

// 静态短语的便捷构造。
func static(phrase string) func(*core.Item) string {
	return func(*core.Item) string { return phrase }
}

// DefaultRules 返回内置规则表，顺序即优先级。
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:      "budget",
			Factor:    core.FactorBudget,
			Threshold: 0.8,
			Phrase:    static("Matches your budget"),
		},
		{
			Name:      "country",
			Factor:    core.FactorCountry,
			Threshold: 0.9,
			Phrase:    static("One of your favorite destinations"),
		},
		{
			Name:      "rating",
			Factor:    core.FactorRating,
			Threshold: 0.8,
			Phrase: func(it *core.Item) string {
				return fmt.Sprintf("Highly rated (%.1f/5)", it.Tour.Rating)
			},
		},
		{
			Name:      "popularity",
			Factor:    core.FactorPopularity,
			Threshold: 0.7,
			Phrase:    static("Popular among travelers"),
		},
		{
			Name:      "behavior",
			Factor:    core.FactorBehavior,
			Threshold: 0.5,
			Phrase:    static("Based on your browsing history"),
		},
		{
			Name:      "style",
			Factor:    core.FactorTravelStyle,
			Threshold: 0.7,
			Phrase:    static("Matches your travel style"),
		},
		{
			Name:      "climate",
			Factor:    core.FactorClimate,
			Threshold: 0.8,
			Phrase:    static("Favorable climate for you"),
		},
	}
}

// Generator 按规则表为条目生成理由。
type Generator struct {
	rules []Rule
	max   int
}

// GenOption 配置 Generator。
type GenOption func(*Generator)

// WithRules 整体替换规则表（顺序即优先级）。
func WithRules(rules []Rule) GenOption {
	return func(g *Generator) { g.rules = rules }
}

// WithExtraRules 在内置规则之后追加规则（如 CEL 自定义规则）。
func WithExtraRules(rules ...Rule) GenOption {
	return func(g *Generator) { g.rules = append(g.rules, rules...) }
}

// WithMaxReasons 覆盖理由数量上限。
func WithMaxReasons(max int) GenOption {
	return func(g *Generator) {
		if max > 0 {
			g.max = max
		}
	}
}

func NewGenerator(opts ...GenOption) *Generator {
	g := &Generator{
		rules: DefaultRules(),
		max:   MaxReasons,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 为条目生成至多 max 条理由，高优先级在前；
// 无规则达标时返回单条兜底理由。
func (g *Generator) Generate(it *core.Item) []string {
	reasons := make([]string, 0, g.max)
	for i := range g.rules {
		if len(reasons) >= g.max {
			break
		}
		if g.rules[i].Qualifies(it) {
			reasons = append(reasons, g.rules[i].Phrase(it))
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, FallbackReason)
	}
	return reasons
}
