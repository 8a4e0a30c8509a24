// Package filter 实现打分前的候选排除。
package filter

import (
	"context"

	"github.com/travelie/recommend/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// ViewedFilter 在 ExcludeViewed 开启时剔除浏览过的候选。
type ViewedFilter struct{}

func (f *ViewedFilter) Name() string { return "filter.viewed" }

func (f *ViewedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if !rctx.Settings.ExcludeViewed || rctx.Profile == nil {
		return false, nil
	}
	return rctx.Profile.HasViewed(item.Tour.ID), nil
}

// BookedFilter 在 ExcludeBooked 开启时剔除预订过的候选。
type BookedFilter struct{}

func (f *BookedFilter) Name() string { return "filter.booked" }

func (f *BookedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if !rctx.Settings.ExcludeBooked || rctx.Profile == nil {
		return false, nil
	}
	return rctx.Profile.HasBooked(item.Tour.ID), nil
}
