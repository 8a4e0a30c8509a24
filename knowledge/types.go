package knowledge

// 映射类别常量，供通用 Lookup 与日志使用。
const (
	CategoryTravelStyle   = "travelStyle"
	CategoryActivity      = "activity"
	CategoryClimate       = "climate"
	CategoryAccommodation = "accommodation"
	CategoryGroupSize     = "groupSize"
	CategoryDuration      = "duration"
	CategorySeason        = "season"
)

// StyleRule 把抽象的旅行风格翻译为具体匹配规则。
// MinCost/MaxCost 为 nil 表示该风格不限定成本区间（如 adventure），
// 此时成本子检查不参与风格子分的平均。
type StyleRule struct {
	MinCost    *float64 `yaml:"minCost"`
	MaxCost    *float64 `yaml:"maxCost"`
	Tags       []string `yaml:"tags"`
	Difficulty []string `yaml:"difficulty"`
}

// HasCostRange 判断风格是否限定成本区间。
func (r *StyleRule) HasCostRange() bool {
	return r.MinCost != nil && r.MaxCost != nil
}

// CostInRange 判断成本是否落在风格区间内；未限定区间时返回 false。
func (r *StyleRule) CostInRange(cost float64) bool {
	if !r.HasCostRange() {
		return false
	}
	return cost >= *r.MinCost && cost <= *r.MaxCost
}

// ClimateRule 把气候偏好翻译为国家集合与标签集合。
type ClimateRule struct {
	Countries []string `yaml:"countries"`
	Tags      []string `yaml:"tags"`
}

// AccommodationRule 把住宿偏好翻译为最低评分与类型集合。
type AccommodationRule struct {
	MinRating float64  `yaml:"minRating"`
	Types     []string `yaml:"types"`
}

// GroupSizeRule 把出行人数偏好翻译为容量区间与标签集合。
type GroupSizeRule struct {
	MinSize int      `yaml:"minSize"`
	MaxSize int      `yaml:"maxSize"`
	Tags    []string `yaml:"tags"`
}

// DurationRule 把行程时长偏好翻译为天数区间。
type DurationRule struct {
	MinDays int `yaml:"minDays"`
	MaxDays int `yaml:"maxDays"`
}
