package reason

import (
	"context"
	"strings"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/pipeline"
	"github.com/travelie/recommend/pkg/utils"
)

// Node 是理由 Node：为每个条目附加可读理由，并写入 reasons 标签便于观测。
type Node struct {
	Generator *Generator
}

func (n *Node) Name() string        { return "reason.rules" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindReason }

func (n *Node) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	gen := n.Generator
	if gen == nil {
		gen = NewGenerator()
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		it.Reasons = gen.Generate(it)
		it.PutLabel("reasons", utils.Label{
			Value:  strings.Join(it.Reasons, "|"),
			Source: "reason",
		})
	}
	return items, nil
}
