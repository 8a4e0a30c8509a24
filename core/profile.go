package core

import (
	"strings"
	"time"
)

// BudgetRange 是用户声明的预算区间。
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ViewRecord 是一条浏览行为记录。
type ViewRecord struct {
	TourID          string  `json:"tourId"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// BookingRecord 是一条历史预订记录。
type BookingRecord struct {
	TourID  string `json:"tourId"`
	Country string `json:"country"`
}

// PreferenceProfile 是用户偏好画像的核心抽象。
//
// 一句话定义：偏好画像 = 推荐引擎的"全局上下文 + 匹配信号源"
//
// 维度划分：
//  维度          作用
//  声明偏好      预算/风格/活动/国家/气候，各匹配因子的直接输入
//  行为信号      心愿单/浏览/预订，行为因子与排除过滤的输入
//
// 画像由外部用户服务解析后传入，引擎只读；缺失字段按各因子的
// 中性默认值处理，不视为错误。
type PreferenceProfile struct {
	UserID string `json:"userId"`

	// 声明偏好
	BudgetRange       *BudgetRange `json:"budgetRange,omitempty"`
	TravelStyles      []string     `json:"travelStyles,omitempty"`
	Activities        []string     `json:"activities,omitempty"`
	FavoriteCountries []string     `json:"favoriteCountries,omitempty"`
	ClimatePreference string       `json:"climatePreference,omitempty"` // tropical / temperate / cold / desert

	// 行为信号
	Wishlist       []string        `json:"wishlist,omitempty"`
	ViewHistory    []ViewRecord    `json:"viewHistory,omitempty"`
	BookingHistory []BookingRecord `json:"bookingHistory,omitempty"`

	// 元数据
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// NewPreferenceProfile 创建一个空画像（全部因子走中性默认值）。
func NewPreferenceProfile(userID string) *PreferenceProfile {
	return &PreferenceProfile{UserID: userID}
}

// Validate 在系统边界校验画像形状；引擎内部不再重复校验。
func (p *PreferenceProfile) Validate() error {
	if p == nil {
		return nil
	}
	if p.BudgetRange != nil {
		if p.BudgetRange.Min < 0 || p.BudgetRange.Max <= p.BudgetRange.Min {
			return ErrInvalidBudgetRange
		}
	}
	return nil
}

// InWishlist 判断 tourID 是否在心愿单内。
func (p *PreferenceProfile) InWishlist(tourID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.Wishlist {
		if id == tourID {
			return true
		}
	}
	return false
}

// ViewDuration 返回对 tourID 的累计浏览时长（秒）。未浏览过返回 (0, false)。
func (p *PreferenceProfile) ViewDuration(tourID string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	total := 0.0
	found := false
	for _, v := range p.ViewHistory {
		if v.TourID == tourID {
			total += v.DurationSeconds
			found = true
		}
	}
	return total, found
}

// HasViewed 判断是否浏览过 tourID。
func (p *PreferenceProfile) HasViewed(tourID string) bool {
	_, ok := p.ViewDuration(tourID)
	return ok
}

// HasBooked 判断是否预订过 tourID。
func (p *PreferenceProfile) HasBooked(tourID string) bool {
	if p == nil {
		return false
	}
	for _, b := range p.BookingHistory {
		if b.TourID == tourID {
			return true
		}
	}
	return false
}

// HasBookedCountry 判断历史预订中是否包含某国家（大小写不敏感）。
func (p *PreferenceProfile) HasBookedCountry(country string) bool {
	if p == nil || country == "" {
		return false
	}
	for _, b := range p.BookingHistory {
		if strings.EqualFold(b.Country, country) {
			return true
		}
	}
	return false
}

// Declared 判断画像是否携带任一声明偏好。
// 全部缺失时引擎进入冷启动：各因子取中性值，排序退化为人气 + 评分。
func (p *PreferenceProfile) Declared() bool {
	if p == nil {
		return false
	}
	return p.BudgetRange != nil ||
		len(p.TravelStyles) > 0 ||
		len(p.Activities) > 0 ||
		len(p.FavoriteCountries) > 0 ||
		p.ClimatePreference != ""
}
