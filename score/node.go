package score

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/pipeline"
	"github.com/travelie/recommend/pkg/utils"
)

// Node 是打分 Node：对候选列表并发执行多因子打分。
// 打分是纯函数，候选之间无共享可变状态，可以安全并行；
// context 取消时中止并丢弃部分结果（无副作用，丢弃即可）。
type Node struct {
	Scorer *Scorer

	// MaxConcurrent 最大并发数（<=0 表示每个候选一个 goroutine）
	MaxConcurrent int
}

func (n *Node) Name() string        { return "score.weighted" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil {
		return nil, fmt.Errorf("score: nil scorer")
	}
	if len(items) == 0 {
		return items, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for _, it := range items {
		item := it
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			composite, breakdown := n.Scorer.Score(rctx.Profile, item.Tour)
			item.Score = composite
			item.Breakdown = breakdown
			item.PutLabel("score_top_factor", utils.Label{
				Value:  breakdown.TopFactor(),
				Source: "score",
			})
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
