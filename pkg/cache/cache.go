// Package cache 按物品 id 缓存有效配置
package cache

import (
	"github.com/gonewx/expandedstorage/pkg/profile"
	"go.uber.org/zap"
)

// Source 缓存未命中时的数据来源
type Source interface {
	// Eligible 物品是否参与（元数据带启用标记）
	Eligible(id string) bool
	// Resolve 生成物品的有效配置
	Resolve(id string) *profile.Profile
}

// Cache 有效配置缓存
//
// 维护两张互斥的表：已解析的配置（正缓存）和确认不参与的 id（负缓存）。
// 返回的配置由缓存持有，调用方只读，不能修改。
// 不是并发安全的，调用方需要在同一个线程（游戏更新循环）中使用。
type Cache struct {
	source     Source
	positive   map[string]*profile.Profile
	negative   map[string]struct{}
	generation uint64
	logger     *zap.Logger
}

// New 创建缓存
func New(source Source, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		source:   source,
		positive: make(map[string]*profile.Profile),
		negative: make(map[string]struct{}),
		logger:   logger.Named("Cache"),
	}
}

// TryResolve 获取物品的有效配置
//
// 顺序：正缓存命中直接返回；负缓存命中直接返回未找到；
// 否则检查是否参与，不参与则加入负缓存，参与则解析并加入正缓存。
//
// 返回：
//   - *profile.Profile: 有效配置（只读）
//   - bool: 物品是否有有效配置
func (c *Cache) TryResolve(id string) (*profile.Profile, bool) {
	if p, ok := c.positive[id]; ok {
		return p, true
	}
	if _, ok := c.negative[id]; ok {
		return nil, false
	}

	if !c.source.Eligible(id) {
		c.negative[id] = struct{}{}
		c.logger.Debug("物品不参与，加入负缓存", zap.String("id", id))
		return nil, false
	}

	p := c.source.Resolve(id)
	c.positive[id] = p
	c.logger.Debug("已解析物品配置", zap.String("id", id), zap.Uint64("generation", c.generation))
	return p, true
}

// InvalidateAll 清空正负缓存，开始新的一代
// 用于整个元数据源被重新加载或替换时
func (c *Cache) InvalidateAll() {
	c.positive = make(map[string]*profile.Profile)
	c.negative = make(map[string]struct{})
	c.generation++
	c.logger.Debug("缓存已全部失效", zap.Uint64("generation", c.generation))
}

// Invalidate 从正负缓存中移除单个物品
func (c *Cache) Invalidate(id string) {
	delete(c.positive, id)
	delete(c.negative, id)
	c.generation++
}

// Len 正缓存条目数
func (c *Cache) Len() int {
	return len(c.positive)
}

// Excluded 负缓存条目数
func (c *Cache) Excluded() int {
	return len(c.negative)
}

// Generation 当前缓存代数，每次失效加一
func (c *Cache) Generation() uint64 {
	return c.generation
}
