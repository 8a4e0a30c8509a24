package core

import "github.com/travelie/recommend/pkg/utils"

// RecommendContext 承载用户画像与本次生成的参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// Profile 是只读的用户偏好画像，允许为 nil（冷启动）。
	Profile *PreferenceProfile

	// Settings 是本次生成的可调参数。
	Settings Settings

	// Labels 是用户级标签，可驱动整个 Pipeline 行为，
	// 例如：新用户、价格敏感、实验桶。
	Labels map[string]utils.Label

	// Params 请求级上下文参数，例如 scene、device_type。
	Params map[string]any
}

// NewRecommendContext 创建一个带默认参数的上下文。
func NewRecommendContext(userID string, profile *PreferenceProfile) *RecommendContext {
	return &RecommendContext{
		UserID:   userID,
		Profile:  profile,
		Settings: DefaultSettings(),
	}
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
