// Package config 提供配置驱动的 Pipeline 组装：按 type 名注册 Node 构建器，
// 再由 YAML/JSON 配置实例化整条流水线。
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/filter"
	"github.com/travelie/recommend/knowledge"
	"github.com/travelie/recommend/pipeline"
	"github.com/travelie/recommend/pkg/conv"
	"github.com/travelie/recommend/rank"
	"github.com/travelie/recommend/reason"
	"github.com/travelie/recommend/score"
)

var (
	extraBuilders   = make(map[string]pipeline.NodeBuilder)
	extraBuildersMu sync.RWMutex
)

// Register 注册一种自定义 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在组件的 init 中调用，例如：func init() { config.Register("rerank.custom", Build) }
func Register(typeName string, builder pipeline.NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	extraBuildersMu.Lock()
	defer extraBuildersMu.Unlock()
	extraBuilders[typeName] = builder
}

// SupportedTypes 返回当前可用的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	extraBuildersMu.RLock()
	defer extraBuildersMu.RUnlock()
	types := []string{"filter.behavior", "score.weighted", "rank.topn", "reason.rules"}
	for t := range extraBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回包含所有内置 Node 与已注册自定义 Node 的工厂。
// 打分 Node 需要知识库引用，由调用方在进程启动时传入。
func DefaultFactory(kb *knowledge.Base) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("filter.behavior", buildBehaviorFilterNode)
	f.Register("score.weighted", buildScoreNode(kb))
	f.Register("rank.topn", buildTopNNode)
	f.Register("reason.rules", buildReasonNode)

	extraBuildersMu.RLock()
	defer extraBuildersMu.RUnlock()
	for typeName, builder := range extraBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均受支持；
// 若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	idx := make(map[string]bool, len(supported))
	for _, t := range supported {
		idx[t] = true
	}
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		if !idx[nc.Type] {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}

func buildBehaviorFilterNode(_ map[string]any) (pipeline.Node, error) {
	return filter.NewBehaviorNode(), nil
}

// buildScoreNode 构建打分 Node。config 支持：
//
//	weights:         # 可选，逐因子覆盖默认权重
//	  budget: 0.25
//	  rating: 0.05
//	max_concurrent: 8 # 可选，打分并发上限
func buildScoreNode(kb *knowledge.Base) pipeline.NodeBuilder {
	return func(config map[string]any) (pipeline.Node, error) {
		opts := []score.Option{}
		if raw, ok := config["weights"].(map[string]any); ok {
			w := parseWeights(raw)
			if w.Sum() > 1.0 {
				return nil, fmt.Errorf("weights sum %.3f exceeds 1.0", w.Sum())
			}
			opts = append(opts, score.WithWeights(w))
		}
		return &score.Node{
			Scorer:        score.NewScorer(kb, opts...),
			MaxConcurrent: conv.ConfigGetInt(config, "max_concurrent", 0),
		}, nil
	}
}

func parseWeights(raw map[string]any) core.Weights {
	def := core.DefaultWeights()
	return core.Weights{
		Budget:      conv.ConfigGetFloat64(raw, core.FactorBudget, def.Budget),
		TravelStyle: conv.ConfigGetFloat64(raw, core.FactorTravelStyle, def.TravelStyle),
		Activities:  conv.ConfigGetFloat64(raw, core.FactorActivities, def.Activities),
		Country:     conv.ConfigGetFloat64(raw, core.FactorCountry, def.Country),
		Climate:     conv.ConfigGetFloat64(raw, core.FactorClimate, def.Climate),
		Behavior:    conv.ConfigGetFloat64(raw, core.FactorBehavior, def.Behavior),
		Popularity:  conv.ConfigGetFloat64(raw, core.FactorPopularity, def.Popularity),
		Rating:      conv.ConfigGetFloat64(raw, core.FactorRating, def.Rating),
		Diversity:   conv.ConfigGetFloat64(raw, core.FactorDiversity, def.Diversity),
	}
}

func buildTopNNode(config map[string]any) (pipeline.Node, error) {
	return &rank.TopNNode{N: conv.ConfigGetInt(config, "n", 0)}, nil
}

// buildReasonNode 构建理由 Node。config 支持：
//
//	max_reasons: 3
//	rules:            # 可选，CEL 自定义规则，追加在内置规则之后
//	  - name: value_pick
//	    expr: factors.budget >= 0.8 && factors.rating >= 0.8
//	    phrase: Great value for the price
func buildReasonNode(config map[string]any) (pipeline.Node, error) {
	genOpts := []reason.GenOption{}
	if n := conv.ConfigGetInt(config, "max_reasons", 0); n > 0 {
		genOpts = append(genOpts, reason.WithMaxReasons(n))
	}

	if rawRules, ok := config["rules"].([]any); ok {
		for _, rr := range rawRules {
			rm, ok := rr.(map[string]any)
			if !ok {
				continue
			}
			name := conv.ConfigGet[string](rm, "name", "")
			expr := conv.ConfigGet[string](rm, "expr", "")
			phrase := conv.ConfigGet[string](rm, "phrase", "")
			if expr == "" || phrase == "" {
				return nil, fmt.Errorf("reason rule %q: expr and phrase are required", name)
			}
			rule, err := reason.NewCELRule(name, expr, phrase)
			if err != nil {
				return nil, fmt.Errorf("reason rule %q: %w", name, err)
			}
			genOpts = append(genOpts, reason.WithExtraRules(rule))
		}
	}

	return &reason.Node{Generator: reason.NewGenerator(genOpts...)}, nil
}
