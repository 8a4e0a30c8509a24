// Package knowledge 是只读的知识库：把抽象偏好类别翻译为具体匹配规则的
// 静态映射表。随部署版本化，进程启动时加载一次，运行期不可变；
// 所有模块共享同一只读引用，请求期绝不修改。
//
// 查询约定：未知 key 返回 (nil, false) 并记录 debug 日志，绝不报错；
// 未识别的偏好值对相应子检查贡献 0 分，不中断打分。
package knowledge

import (
	"github.com/rs/zerolog"

	"github.com/travelie/recommend/pkg/match"
)

// Base 是不可变的知识库实例。字段在构造后只读。
type Base struct {
	styles         map[string]*StyleRule
	activities     map[string][]string
	climates       map[string]*ClimateRule
	accommodations map[string]*AccommodationRule
	groupSizes     map[string]*GroupSizeRule
	durations      map[string]*DurationRule
	seasons        map[string][]int

	log zerolog.Logger
}

// Option 配置 Base 的构造参数。
type Option func(*Base)

// WithLogger 注入日志器（默认 no-op）。
func WithLogger(log zerolog.Logger) Option {
	return func(b *Base) { b.log = log }
}

// Default 返回内置的默认知识库。
func Default(opts ...Option) *Base {
	b := &Base{
		styles:         builtinStyles(),
		activities:     builtinActivities(),
		climates:       builtinClimates(),
		accommodations: builtinAccommodations(),
		groupSizes:     builtinGroupSizes(),
		durations:      builtinDurations(),
		seasons:        builtinSeasons(),
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// miss 记录一次未知 key 查询。只打日志，不返回错误。
func (b *Base) miss(category, key string) {
	b.log.Debug().
		Str("category", category).
		Str("key", key).
		Msg("knowledge lookup miss")
}

// Style 查询旅行风格规则。
func (b *Base) Style(key string) (*StyleRule, bool) {
	r, ok := b.styles[normalize(key)]
	if !ok {
		b.miss(CategoryTravelStyle, key)
	}
	return r, ok
}

// ActivityKeywords 查询活动关键词集合。
func (b *Base) ActivityKeywords(key string) ([]string, bool) {
	kw, ok := b.activities[normalize(key)]
	if !ok {
		b.miss(CategoryActivity, key)
	}
	return kw, ok
}

// Climate 查询气候规则。
func (b *Base) Climate(key string) (*ClimateRule, bool) {
	r, ok := b.climates[normalize(key)]
	if !ok {
		b.miss(CategoryClimate, key)
	}
	return r, ok
}

// Accommodation 查询住宿规则。
func (b *Base) Accommodation(key string) (*AccommodationRule, bool) {
	r, ok := b.accommodations[normalize(key)]
	if !ok {
		b.miss(CategoryAccommodation, key)
	}
	return r, ok
}

// GroupSize 查询出行人数规则。
func (b *Base) GroupSize(key string) (*GroupSizeRule, bool) {
	r, ok := b.groupSizes[normalize(key)]
	if !ok {
		b.miss(CategoryGroupSize, key)
	}
	return r, ok
}

// Duration 查询行程时长规则。
func (b *Base) Duration(key string) (*DurationRule, bool) {
	r, ok := b.durations[normalize(key)]
	if !ok {
		b.miss(CategoryDuration, key)
	}
	return r, ok
}

// SeasonMonths 查询季节对应的月份集合。
func (b *Base) SeasonMonths(key string) ([]int, bool) {
	m, ok := b.seasons[normalize(key)]
	if !ok {
		b.miss(CategorySeason, key)
	}
	return m, ok
}

// Lookup 是通用查询入口：按 (category, key) 返回映射，未知返回 (nil, false)。
// 强类型查询（Style / Climate 等）是首选；Lookup 用于配置驱动或诊断场景。
func (b *Base) Lookup(category, key string) (any, bool) {
	switch category {
	case CategoryTravelStyle:
		if r, ok := b.Style(key); ok {
			return r, true
		}
	case CategoryActivity:
		if kw, ok := b.ActivityKeywords(key); ok {
			return kw, true
		}
	case CategoryClimate:
		if r, ok := b.Climate(key); ok {
			return r, true
		}
	case CategoryAccommodation:
		if r, ok := b.Accommodation(key); ok {
			return r, true
		}
	case CategoryGroupSize:
		if r, ok := b.GroupSize(key); ok {
			return r, true
		}
	case CategoryDuration:
		if r, ok := b.Duration(key); ok {
			return r, true
		}
	case CategorySeason:
		if m, ok := b.SeasonMonths(key); ok {
			return m, true
		}
	default:
		b.miss(category, key)
	}
	return nil, false
}

// Matches 判断候选国家或标签是否命中气候规则。
func (r *ClimateRule) Matches(country string, tags []string) bool {
	if match.AnyFold(country, r.Countries) {
		return true
	}
	for _, t := range tags {
		if match.AnyFold(t, r.Tags) {
			return true
		}
	}
	return false
}
