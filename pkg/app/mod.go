// Package app 组装模组运行所需的全部组件
//
// Mod 在进程启动时创建一次，持有解析器、缓存和钩子分发器，
// 并把宿主的重新加载信号转换为缓存失效。
// 所有方法都应在宿主的更新线程中调用。
package app

import (
	"fmt"
	"path"
	"strings"

	"github.com/gonewx/expandedstorage/pkg/attrs"
	"github.com/gonewx/expandedstorage/pkg/cache"
	"github.com/gonewx/expandedstorage/pkg/config"
	"github.com/gonewx/expandedstorage/pkg/hooks"
	"github.com/gonewx/expandedstorage/pkg/profile"
	"github.com/gonewx/expandedstorage/pkg/resolver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ReloadFunc 请求宿主重新构建指定的元数据资源
type ReloadFunc func(asset string)

// Mod 模组上下文
type Mod struct {
	cfg        *config.ModConfig
	logger     *zap.Logger
	metadata   config.MetadataSource
	overrides  *config.OverrideStore
	resolver   *resolver.Resolver
	cache      *cache.Cache
	dispatcher *hooks.Dispatcher
	reload     ReloadFunc
}

// NewLogger 按日志详细程度创建日志
// LogAmountMore 输出 debug 级别，其余输出 info 级别
func NewLogger(amount config.LogAmount) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if amount == config.LogAmountMore {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("创建日志失败: %w", err)
	}
	return logger, nil
}

// New 创建模组上下文
//
// 参数：
//   - cfg: 模组配置，为 nil 时使用默认配置
//   - metadata: 游戏元数据来源
//   - overrides: 用户覆盖配置表
//   - logger: 日志，可为 nil
//   - reload: 宿主重建资源的回调，可为 nil
func New(cfg *config.ModConfig, metadata config.MetadataSource, overrides *config.OverrideStore, logger *zap.Logger, reload ReloadFunc) *Mod {
	if cfg == nil {
		cfg = config.DefaultModConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := resolver.New(metadata, overrides, resolver.OptionsFromConfig(cfg), logger)
	c := cache.New(r, logger)

	return &Mod{
		cfg:        cfg,
		logger:     logger.Named("Mod"),
		metadata:   metadata,
		overrides:  overrides,
		resolver:   r,
		cache:      c,
		dispatcher: hooks.NewDispatcher(c, logger),
		reload:     reload,
	}
}

// Config 返回模组配置
func (m *Mod) Config() *config.ModConfig { return m.cfg }

// Resolver 返回解析器
func (m *Mod) Resolver() *resolver.Resolver { return m.resolver }

// Cache 返回有效配置缓存
func (m *Mod) Cache() *cache.Cache { return m.cache }

// Hooks 返回钩子分发器
func (m *Mod) Hooks() *hooks.Dispatcher { return m.dispatcher }

// Overrides 返回用户覆盖配置表
func (m *Mod) Overrides() *config.OverrideStore { return m.overrides }

// TryResolve 查询物品的有效配置
func (m *Mod) TryResolve(id string) (*profile.Profile, bool) {
	return m.cache.TryResolve(id)
}

// EditOverride 返回物品用户覆盖层的可写视图
// 条目不存在时第一次写入会创建它；编辑完成后应调用 OnConfigChanged
func (m *Mod) EditOverride(id string) *profile.Profile {
	factory := func() *attrs.Map {
		entry, _ := m.overrides.GetOrCreate(id)
		return entry
	}
	return profile.New(attrs.NewStore(m.overrides.Entry(id), factory, ""))
}

// OnMetadataReloaded 元数据被整体重新加载或替换
func (m *Mod) OnMetadataReloaded() {
	m.logger.Debug("元数据已重新加载")
	m.cache.InvalidateAll()
}

// OnAssetsInvalidated 宿主通知一批资源失效
// 任意一个名称与元数据资源相同（大小写不敏感，统一路径分隔符）时全部失效
//
// 返回：
//   - bool: 是否触发了缓存失效
func (m *Mod) OnAssetsInvalidated(names ...string) bool {
	target := normalizeAssetName(m.cfg.MetadataAsset)
	for _, name := range names {
		if normalizeAssetName(name) == target {
			m.OnMetadataReloaded()
			return true
		}
	}
	return false
}

// OnConfigChanged 用户保存了配置
// 持久化覆盖配置，清空缓存，并请求宿主重建元数据资源
//
// 返回：
//   - error: 覆盖配置保存失败（缓存仍会失效）
func (m *Mod) OnConfigChanged() error {
	err := m.overrides.Save()
	if err != nil {
		m.logger.Error("保存覆盖配置失败", zap.Error(err))
	}

	m.cache.InvalidateAll()
	if m.reload != nil {
		m.reload(m.cfg.MetadataAsset)
	}
	return err
}

// ResetConfig 清空所有用户覆盖条目的内容
// 只修改内存，需调用 OnConfigChanged 持久化
func (m *Mod) ResetConfig() {
	m.overrides.Reset()
	m.cache.InvalidateAll()
}

// EditMetadata 宿主重建元数据资源时调用，把用户覆盖写回元数据
//
// 返回：
//   - int: 写回的物品数量
func (m *Mod) EditMetadata() int {
	n := m.resolver.CopyDown()
	m.cache.InvalidateAll()
	return n
}

// Close 刷新日志
func (m *Mod) Close() error {
	// stderr/stdout 不支持 Sync 时会返回错误，忽略
	_ = m.logger.Sync()
	return nil
}

func normalizeAssetName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	return strings.ToLower(path.Clean(name))
}
