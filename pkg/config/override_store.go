package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/expandedstorage/pkg/attrs"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	overridesObject   = "config"
	overridesProperty = "overrides"
)

// OverrideStore 用户覆盖配置表（物品 id → 属性表）
//
// 由宿主整体加载和保存，通过 gdata 持久化为一份 YAML 文档。
// gdataManager 为 nil 时降级为纯内存模式。
// 物品 id 大小写不敏感。
type OverrideStore struct {
	gdataManager *gdata.Manager
	logger       *zap.Logger
	entries      map[string]*overrideEntry
}

type overrideEntry struct {
	id    string
	attrs *attrs.Map
}

// NewOverrideStore 创建覆盖配置表并尝试加载已保存的数据
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，仅内存）
//   - logger: 日志，可为 nil
//
// 返回：
//   - *OverrideStore: 覆盖配置表
//   - error: 始终为 nil，加载失败只记录警告
func NewOverrideStore(gdataManager *gdata.Manager, logger *zap.Logger) (*OverrideStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OverrideStore{
		gdataManager: gdataManager,
		logger:       logger.Named("OverrideStore"),
		entries:      make(map[string]*overrideEntry),
	}

	// 加载失败不是致命错误，使用空表
	if err := s.Load(); err != nil {
		s.logger.Warn("加载覆盖配置失败，使用空配置", zap.Error(err))
	}
	return s, nil
}

// Has 检查物品是否已有覆盖条目
func (s *OverrideStore) Has(id string) bool {
	_, ok := s.entries[attrs.FoldKey(id)]
	return ok
}

// Entry 返回物品覆盖条目的访问函数
// 条目不存在时访问函数返回 nil；Load 替换条目后访问函数立即看到新表
func (s *OverrideStore) Entry(id string) attrs.Accessor {
	key := attrs.FoldKey(id)
	return func() *attrs.Map {
		e, ok := s.entries[key]
		if !ok {
			return nil
		}
		return e.attrs
	}
}

// GetOrCreate 获取或创建物品覆盖条目
//
// 返回：
//   - *attrs.Map: 条目属性表
//   - bool: 是否为新建条目
func (s *OverrideStore) GetOrCreate(id string) (*attrs.Map, bool) {
	key := attrs.FoldKey(id)
	if e, ok := s.entries[key]; ok {
		return e.attrs, false
	}
	e := &overrideEntry{id: id, attrs: attrs.NewMap()}
	s.entries[key] = e
	return e.attrs, true
}

// IDs 返回排序后的物品 id（保留原始拼写）
func (s *OverrideStore) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		ids = append(ids, e.id)
	}
	sort.Strings(ids)
	return ids
}

// Len 条目数量
func (s *OverrideStore) Len() int {
	return len(s.entries)
}

// Reset 清空所有条目的内容，但保留条目本身
// 注意：仅修改内存中的数据，需调用 Save() 持久化
func (s *OverrideStore) Reset() {
	for _, e := range s.entries {
		e.attrs.Clear()
	}
	s.logger.Debug("覆盖配置已重置", zap.Int("entries", len(s.entries)))
}

// Load 从 gdata 加载覆盖配置
//
// gdataManager 为 nil 或数据不存在时保持空表
//
// 返回：
//   - error: 读取或反序列化失败
func (s *OverrideStore) Load() error {
	if s.gdataManager == nil {
		return nil
	}
	if !s.gdataManager.ObjectPropExists(overridesObject, overridesProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(overridesObject, overridesProperty)
	if err != nil {
		return fmt.Errorf("failed to load overrides: %w", err)
	}

	var doc map[string]*attrs.Map
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal overrides: %w", err)
	}

	entries := make(map[string]*overrideEntry, len(doc))
	for id, m := range doc {
		if m == nil {
			m = attrs.NewMap()
		}
		entries[attrs.FoldKey(id)] = &overrideEntry{id: id, attrs: m}
	}
	s.entries = entries

	s.logger.Info("覆盖配置加载成功", zap.Int("entries", len(entries)))
	return nil
}

// Save 保存覆盖配置到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 序列化或写入失败
func (s *OverrideStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}

	doc := make(map[string]*attrs.Map, len(s.entries))
	for _, e := range s.entries {
		doc[e.id] = e.attrs
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}

	if err := s.gdataManager.SaveObjectProp(overridesObject, overridesProperty, data); err != nil {
		return fmt.Errorf("failed to save overrides: %w", err)
	}

	s.logger.Info("覆盖配置保存成功", zap.Int("entries", len(doc)))
	return nil
}
