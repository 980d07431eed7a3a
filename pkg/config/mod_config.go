package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gonewx/expandedstorage/pkg/embedded"
	"github.com/spf13/viper"
)

// 默认值
const (
	DefaultNamespace     = "furyx639.ExpandedStorage"
	DefaultMetadataAsset = "Data/BigCraftables"
	DefaultTicksPerFrame = 5
	DefaultAppName       = "expandedstorage"
)

// LogAmount 日志详细程度
type LogAmount string

const (
	LogAmountLess LogAmount = "less"
	LogAmountMore LogAmount = "more"
)

// ModConfig 模组配置
type ModConfig struct {
	// Namespace 属性命名空间
	Namespace string `mapstructure:"namespace"`
	// EnabledKey 标记物品参与的属性键，为空时为 Namespace + "/Enabled"
	EnabledKey string `mapstructure:"enabled_key"`
	// AttributePrefix 元数据层字段前缀，为空时为 Namespace + "/"
	AttributePrefix string `mapstructure:"attribute_prefix"`
	// MetadataAsset 元数据资源标识
	MetadataAsset string `mapstructure:"metadata_asset"`
	// TicksPerFrame 每个动画帧持续的 tick 数
	TicksPerFrame int `mapstructure:"ticks_per_frame"`
	// LogAmount 日志详细程度
	LogAmount LogAmount `mapstructure:"log_amount"`
	// AppName gdata 应用名（决定存储目录）
	AppName string `mapstructure:"app_name"`
	// CatalogPath 物品目录文件，为空时使用内置示例目录
	CatalogPath string `mapstructure:"catalog_path"`
	// SeedFlags 新建覆盖条目时额外写入的属性，格式 "key=value"
	SeedFlags []string `mapstructure:"seed_flags"`
}

// DefaultModConfig 返回默认配置
func DefaultModConfig() *ModConfig {
	cfg := &ModConfig{
		Namespace:     DefaultNamespace,
		MetadataAsset: DefaultMetadataAsset,
		TicksPerFrame: DefaultTicksPerFrame,
		LogAmount:     LogAmountLess,
		AppName:       DefaultAppName,
		SeedFlags: []string{
			"furyx639.ColorfulChests/Enabled=true",
			"furyx639.UnlimitedStorage/Enabled=true",
		},
	}
	cfg.normalize()
	return cfg
}

// LoadModConfig 从文件和环境变量加载配置
//
// 优先级从低到高：默认值、内置 data/config.yaml（embedded 已初始化时）、
// cfgFile、环境变量（EXPANDEDSTORAGE_*）。
//
// 参数：
//   - cfgFile: 配置文件路径，为空时只使用内置配置
//
// 返回：
//   - *ModConfig: 配置
//   - error: 读取或解析失败
func LoadModConfig(cfgFile string) (*ModConfig, error) {
	def := DefaultModConfig()

	v := viper.New()
	v.SetDefault("namespace", def.Namespace)
	v.SetDefault("enabled_key", "")
	v.SetDefault("attribute_prefix", "")
	v.SetDefault("metadata_asset", def.MetadataAsset)
	v.SetDefault("ticks_per_frame", def.TicksPerFrame)
	v.SetDefault("log_amount", string(def.LogAmount))
	v.SetDefault("app_name", def.AppName)
	v.SetDefault("catalog_path", "")
	v.SetDefault("seed_flags", def.SeedFlags)

	v.SetEnvPrefix("EXPANDEDSTORAGE")
	v.AutomaticEnv()

	if embedded.Exists(embedded.ConfigPath) {
		data, err := embedded.ReadFile(embedded.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("读取内置配置失败: %w", err)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("解析内置配置失败: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", cfgFile, err)
		}
	}

	cfg := &ModConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize 补全派生字段
func (c *ModConfig) normalize() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.EnabledKey == "" {
		c.EnabledKey = c.Namespace + "/Enabled"
	}
	if c.AttributePrefix == "" {
		c.AttributePrefix = c.Namespace + "/"
	}
	if c.MetadataAsset == "" {
		c.MetadataAsset = DefaultMetadataAsset
	}
	if c.TicksPerFrame < 1 {
		c.TicksPerFrame = DefaultTicksPerFrame
	}
	switch LogAmount(strings.ToLower(string(c.LogAmount))) {
	case LogAmountMore:
		c.LogAmount = LogAmountMore
	default:
		c.LogAmount = LogAmountLess
	}
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
}

// SeedAttributes 解析 SeedFlags，忽略格式错误的项
func (c *ModConfig) SeedAttributes() map[string]string {
	out := make(map[string]string, len(c.SeedFlags))
	for _, flag := range c.SeedFlags {
		key, value, found := strings.Cut(flag, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}
