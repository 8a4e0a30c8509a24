// Package recommend 是 Travelie 的个性化推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Filter → Score → Rank → Reason）
// - 规则打分: 显式权重 + 静态知识映射表的确定性多因子打分，不依赖训练模型
// - 可解释: 每条推荐携带因子明细派生的可读理由与 explain 标签
// - 生命周期: 推荐集合按用户整体生成与替换，条目带 TTL 懒惰剔除，
//   点击/预订/反馈事件驱动聚合指标重算
package recommend

import "github.com/travelie/recommend/pipeline"

// 轻量 facade：便于用户直接 import "recommend" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindScore       = pipeline.KindScore
	KindRank        = pipeline.KindRank
	KindReason      = pipeline.KindReason
	KindPostProcess = pipeline.KindPostProcess
)
