// Package recset 管理每个用户的当前推荐集合：生成、持久化、过期剔除、
// 表现事件记录与聚合指标维护。
//
// 并发契约：同一用户集合的变更操作（Generate / Record*）互斥串行
// （分段用户锁，单写者）；不同用户之间完全独立，无跨用户协调。
// 持久化失败以可重试的领域错误返回，引擎自身绝不重试。
package recset

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/filter"
	"github.com/travelie/recommend/pipeline"
	"github.com/travelie/recommend/rank"
	"github.com/travelie/recommend/reason"
	"github.com/travelie/recommend/score"
)

const (
	defaultKeyPrefix = "recset:"
	lockStripes      = 64
)

// entryNamespace 用于派生确定性的条目/集合 ID：
// 同样的 (userID, tourID) 输入总是得到同样的 ID，保证生成的幂等性。
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("travelie/recommend"))

// Manager 是推荐集合的编排者。
type Manager struct {
	store  core.Store
	scorer *score.Scorer
	gen    *reason.Generator
	log    zerolog.Logger
	prefix string
	now    func() time.Time

	locks [lockStripes]sync.Mutex
}

// ManagerOption 配置 Manager。
type ManagerOption func(*Manager)

// WithLogger 注入日志器（默认 no-op）。
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// WithKeyPrefix 覆盖存储 key 前缀。
func WithKeyPrefix(prefix string) ManagerOption {
	return func(m *Manager) { m.prefix = prefix }
}

// WithClock 注入时钟（测试用）。
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithReasonGenerator 替换理由生成器（如追加 CEL 自定义规则）。
func WithReasonGenerator(gen *reason.Generator) ManagerOption {
	return func(m *Manager) { m.gen = gen }
}

func NewManager(store core.Store, scorer *score.Scorer, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		scorer: scorer,
		gen:    reason.NewGenerator(),
		log:    zerolog.Nop(),
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lock 返回 userID 对应的分段锁。
func (m *Manager) lock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &m.locks[h.Sum32()%lockStripes]
}

func (m *Manager) key(userID string) string {
	return m.prefix + userID
}

// GenerateOptions 是一次生成的可选参数。
type GenerateOptions struct {
	// Settings 本次生成的参数；nil 时取默认值。
	Settings *core.Settings

	// TTL 条目存活时长；0 时取默认 7 天。
	TTL time.Duration

	// MaxConcurrent 打分最大并发数；<=0 表示每个候选一个 goroutine。
	MaxConcurrent int
}

// Generate 对候选列表执行 过滤 → 打分 → 排序 → 理由 的完整流水线，
// 并整体替换该用户的当前推荐集合。
//
// 画像与候选必须由调用方预先解析；空候选列表得到空集合，不是错误。
// 对调用方而言这是一次阻塞调用：内部并行打分、收拢、排序、附加理由后才返回。
func (m *Manager) Generate(
	ctx context.Context,
	userID string,
	profile *core.PreferenceProfile,
	candidates []*core.Tour,
	opts GenerateOptions,
) (*core.RecommendationSet, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	settings := core.DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = core.DefaultEntryTTL
	}

	mu := m.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	rctx := core.NewRecommendContext(userID, profile)
	rctx.Settings = settings

	items := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		items = append(items, core.NewItem(c))
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			filter.NewBehaviorNode(),
			&score.Node{Scorer: m.scorer, MaxConcurrent: opts.MaxConcurrent},
			&rank.TopNNode{N: settings.MaxRecommendations},
			&reason.Node{Generator: m.gen},
		},
	}
	ranked, err := p.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	now := m.now()
	set := &core.RecommendationSet{
		ID:          uuid.NewSHA1(entryNamespace, []byte(userID)).String(),
		UserID:      userID,
		Entries:     make([]core.RecommendationEntry, 0, len(ranked)),
		Settings:    settings,
		GeneratedAt: now,
	}
	for _, it := range ranked {
		set.Entries = append(set.Entries, core.RecommendationEntry{
			ID:           uuid.NewSHA1(entryNamespace, []byte(userID+":"+it.Tour.ID)).String(),
			TourID:       it.Tour.ID,
			Score:        it.Score,
			MatchPercent: it.MatchPercent,
			Reasons:      it.Reasons,
			Category:     it.Breakdown.TopFactor(),
			Confidence:   score.ConfidenceOf(profile, it.Score),
			GeneratedAt:  now,
			ExpiresAt:    now.Add(ttl),
		})
	}
	set.RecomputeMetrics()

	if err := m.save(ctx, set); err != nil {
		return nil, err
	}

	m.log.Info().
		Str("user", userID).
		Int("candidates", len(candidates)).
		Int("entries", len(set.Entries)).
		Msg("recommendation set generated")
	return set, nil
}

// Get 加载用户的当前推荐集合，加载时懒惰剔除过期条目。
// 没有集合时返回 ErrSetNotFound。
func (m *Manager) Get(ctx context.Context, userID string) (*core.RecommendationSet, error) {
	mu := m.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	return m.load(ctx, userID)
}

// Metrics 返回用户当前集合的聚合指标。
func (m *Manager) Metrics(ctx context.Context, userID string) (core.Metrics, error) {
	set, err := m.Get(ctx, userID)
	if err != nil {
		return core.Metrics{}, err
	}
	return set.Metrics, nil
}

// Delete 删除用户的当前推荐集合。
func (m *Manager) Delete(ctx context.Context, userID string) error {
	mu := m.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	return m.store.Delete(ctx, m.key(userID))
}

// RecordClick 记录一次推荐位点击，追加事件日志并重算指标。
func (m *Manager) RecordClick(ctx context.Context, userID, entryID string, position int) error {
	return m.record(ctx, userID, entryID, func(set *core.RecommendationSet, at time.Time) {
		set.Performance.Clicked = append(set.Performance.Clicked, core.ClickEvent{
			EntryID:  entryID,
			Position: position,
			At:       at,
		})
	})
}

// RecordBooking 记录一次由推荐转化的预订。
func (m *Manager) RecordBooking(ctx context.Context, userID, entryID string, value float64) error {
	return m.record(ctx, userID, entryID, func(set *core.RecommendationSet, at time.Time) {
		set.Performance.Booked = append(set.Performance.Booked, core.BookingEvent{
			EntryID: entryID,
			Value:   value,
			At:      at,
		})
	})
}

// RecordFeedback 记录一次用户显式反馈。
func (m *Manager) RecordFeedback(ctx context.Context, userID, entryID, sentiment, feedbackReason string) error {
	return m.record(ctx, userID, entryID, func(set *core.RecommendationSet, at time.Time) {
		set.Performance.Feedback = append(set.Performance.Feedback, core.FeedbackEvent{
			EntryID:   entryID,
			Sentiment: sentiment,
			Reason:    feedbackReason,
			At:        at,
		})
	})
}

// record 是三类事件的公共路径：加锁 → 加载（剔除过期）→ 校验条目 →
// 追加事件 → 重算指标 → 回写。
func (m *Manager) record(
	ctx context.Context,
	userID, entryID string,
	appendEvent func(set *core.RecommendationSet, at time.Time),
) error {
	mu := m.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	set, err := m.load(ctx, userID)
	if err != nil {
		return err
	}
	if set.Entry(entryID) == nil {
		return core.ErrEntryNotFound
	}

	appendEvent(set, m.now())
	set.RecomputeMetrics()
	return m.save(ctx, set)
}

// load 读取并反序列化集合，随后剔除过期条目；有剔除则立即回写。
func (m *Manager) load(ctx context.Context, userID string) (*core.RecommendationSet, error) {
	data, err := m.store.Get(ctx, m.key(userID))
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.ErrSetNotFound
		}
		return nil, err
	}

	var set core.RecommendationSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, core.NewDomainError(core.ModuleRecSet, core.ErrorCodeInternalError,
			"recset: corrupt stored set: "+err.Error())
	}

	if dropped := set.Prune(m.now()); dropped > 0 {
		m.log.Debug().
			Str("user", userID).
			Int("dropped", dropped).
			Msg("expired entries pruned on load")
		if err := m.save(ctx, &set); err != nil {
			return nil, err
		}
	}
	return &set, nil
}

// save 序列化并写入集合，写入前剔除过期条目。
// 存储层 TTL 取最晚条目过期点，集合最终自行消亡；无条目时不设 TTL，
// 保留表现日志与指标供分析侧读取。
func (m *Manager) save(ctx context.Context, set *core.RecommendationSet) error {
	set.Prune(m.now())

	data, err := json.Marshal(set)
	if err != nil {
		return core.NewDomainError(core.ModuleRecSet, core.ErrorCodeInternalError,
			"recset: marshal set: "+err.Error())
	}

	if ttl := m.storeTTL(set); ttl > 0 {
		return m.store.Set(ctx, m.key(set.UserID), data, ttl)
	}
	return m.store.Set(ctx, m.key(set.UserID), data)
}

// storeTTL 计算集合在存储层的存活秒数（最晚条目过期点）。
func (m *Manager) storeTTL(set *core.RecommendationSet) int {
	var latest time.Time
	for i := range set.Entries {
		if set.Entries[i].ExpiresAt.After(latest) {
			latest = set.Entries[i].ExpiresAt
		}
	}
	if latest.IsZero() {
		return 0
	}
	remain := latest.Sub(m.now())
	if remain <= 0 {
		return 0
	}
	return int(remain.Seconds()) + 1
}
