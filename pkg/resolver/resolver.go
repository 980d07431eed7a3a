// Package resolver 按优先级合并各层属性，生成物品的有效配置
//
// 优先级（低 → 高）：编译期默认值 < 游戏元数据 < 用户覆盖。
// 合并只使用 profile.CopyTo，因此每一层只覆盖它显式设置的字段。
package resolver

import (
	"github.com/gonewx/expandedstorage/pkg/attrs"
	"github.com/gonewx/expandedstorage/pkg/config"
	"github.com/gonewx/expandedstorage/pkg/profile"
	"go.uber.org/zap"
)

// Options 解析器选项
type Options struct {
	// EnabledKey 元数据中标记物品参与的属性键
	EnabledKey string
	// AttributePrefix 元数据层的字段前缀
	AttributePrefix string
	// SeedAttributes 首次为物品创建覆盖条目时额外写入的属性
	SeedAttributes map[string]string
}

// OptionsFromConfig 从模组配置构建选项
func OptionsFromConfig(cfg *config.ModConfig) Options {
	return Options{
		EnabledKey:      cfg.EnabledKey,
		AttributePrefix: cfg.AttributePrefix,
		SeedAttributes:  cfg.SeedAttributes(),
	}
}

// Resolver 有效配置解析器
type Resolver struct {
	metadata  config.MetadataSource
	overrides *config.OverrideStore
	opts      Options
	logger    *zap.Logger
	seeded    int
}

// New 创建解析器
func New(metadata config.MetadataSource, overrides *config.OverrideStore, opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		metadata:  metadata,
		overrides: overrides,
		opts:      opts,
		logger:    logger.Named("Resolver"),
	}
}

// Eligible 检查元数据是否带有启用标记
// 没有字段表（包括来源返回 nil 访问器）、没有标记或标记无法解析都视为不参与
func (r *Resolver) Eligible(id string) bool {
	raw, ok := attrs.NewStore(r.metadata.Attributes(id), nil, "").Raw(r.opts.EnabledKey)
	if !ok {
		return false
	}
	enabled, ok := attrs.ParseBool(raw)
	return ok && enabled
}

// MetadataProfile 返回元数据层的配置视图
func (r *Resolver) MetadataProfile(id string) *profile.Profile {
	return profile.New(attrs.NewStore(r.metadata.Attributes(id), nil, r.opts.AttributePrefix))
}

// OverrideProfile 返回用户覆盖层的配置视图，条目不存在时读取全部为默认值
func (r *Resolver) OverrideProfile(id string) *profile.Profile {
	return profile.New(attrs.NewStore(r.overrides.Entry(id), nil, ""))
}

// Resolve 生成物品的有效配置
//
// 调用方负责先确认 Eligible。结果是一个新的内存配置，与各层数据不共享存储。
// 若用户覆盖层还没有该物品的条目，会把默认值 + 元数据的合并结果复制进新建条目，
// 为之后的编辑提供一份完整的副本（只发生一次，由条目是否存在来保证）。
func (r *Resolver) Resolve(id string) *profile.Profile {
	merged := profile.NewMemory()
	profile.Defaults().CopyTo(merged)
	r.MetadataProfile(id).CopyTo(merged)

	if !r.overrides.Has(id) {
		r.seed(id, merged)
	}

	r.OverrideProfile(id).CopyTo(merged)
	return merged
}

// seed 用合并结果初始化用户覆盖条目
func (r *Resolver) seed(id string, merged *profile.Profile) {
	entry, created := r.overrides.GetOrCreate(id)
	if !created {
		return
	}
	for k, v := range r.opts.SeedAttributes {
		entry.Set(k, v)
	}
	merged.CopyTo(profile.New(attrs.NewStore(attrs.Fixed(entry), nil, "")))

	r.seeded++
	r.logger.Debug("已初始化用户覆盖条目", zap.String("id", id))
}

// Seeded 返回本进程内初始化的覆盖条目数量
func (r *Resolver) Seeded() int {
	return r.seeded
}

// CopyDown 将用户覆盖写回元数据层
//
// 对每个参与的、已有覆盖条目的物品，把覆盖层复制到元数据字段表中，
// 使宿主重建后的元数据资源包含用户的选择。这会修改元数据，调用后应使缓存失效。
//
// 返回：
//   - int: 写回的物品数量
func (r *Resolver) CopyDown() int {
	count := 0
	for _, id := range r.metadata.IDs() {
		if !r.Eligible(id) || !r.overrides.Has(id) {
			continue
		}
		r.OverrideProfile(id).CopyTo(r.MetadataProfile(id))
		count++
	}
	r.logger.Debug("用户覆盖已写回元数据", zap.Int("items", count))
	return count
}
