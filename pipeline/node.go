package pipeline

import (
	"context"

	"github.com/travelie/recommend/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：按设置剔除已浏览/已预订候选
	KindScore       Kind = "score"       // 打分阶段：多因子加权打分，写入 Breakdown
	KindRank        Kind = "rank"        // 排序阶段：确定性排序 + TopN 截断
	KindReason      Kind = "reason"      // 理由阶段：从 Breakdown 派生可读理由
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充标签或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便过滤截断、打分排序、理由附加等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node，供配置驱动的工厂使用。
type NodeBuilder func(config map[string]any) (Node, error)
