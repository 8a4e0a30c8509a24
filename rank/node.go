// Package rank 实现确定性排序与 TopN 截断。
package rank

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/pipeline"
	"github.com/travelie/recommend/pkg/utils"
)

// TopNNode 是排序 + 截断 Node：
//   - 先按候选 ID 排序，固定输入顺序，保证同样输入跨调用可复现
//   - 稳定排序：综合得分降序，平分时评分（Rating）降序，再平时保持输入顺序
//   - 截取前 N 个（N=0 时取默认值，并钳制到合法区间）
//   - 写入 MatchPercent = round(score × 100) 与 rank_position 标签
type TopNNode struct {
	// N 要保留的候选数量；0 表示用默认值，越界会被钳制到 [MinTopN, MaxTopN]。
	N int
}

func (n *TopNNode) Name() string        { return "rank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindRank }

// clampN 把 N 归一到合法区间。
func clampN(n int) int {
	if n == 0 {
		return core.DefaultTopN
	}
	if n < core.MinTopN {
		return core.MinTopN
	}
	if n > core.MaxTopN {
		return core.MaxTopN
	}
	return n
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	// 固定输入顺序：按 ID 排序后，后续稳定排序的"原始顺序"才是确定的
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Tour.ID < items[j].Tour.ID
	})

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Tour.Rating > items[j].Tour.Rating
	})

	topN := clampN(n.N)
	if len(items) > topN {
		items = items[:topN]
	}

	for pos, it := range items {
		it.MatchPercent = int(math.Round(it.Score * 100))
		it.PutLabel("rank_position", utils.Label{
			Value:  strconv.Itoa(pos + 1),
			Source: "rank",
		})
	}
	return items, nil
}
