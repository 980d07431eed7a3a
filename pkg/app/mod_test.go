package app

import (
	"path/filepath"
	"testing"

	"github.com/gonewx/expandedstorage/pkg/config"
	"github.com/gonewx/expandedstorage/pkg/hooks"
	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
items:
  "216":
    name: Mini-Fridge
    custom_fields:
      furyx639.ExpandedStorage/Enabled: "true"
      furyx639.ExpandedStorage/Frames: "5"
      furyx639.ExpandedStorage/OpenSound: doorClose
  "130":
    name: Chest
`

const testCatalogReloaded = `
items:
  "130":
    name: Chest
    custom_fields:
      furyx639.ExpandedStorage/Enabled: "true"
`

func newTestMod(t *testing.T, manager *gdata.Manager, reload ReloadFunc) (*Mod, *config.Catalog) {
	t.Helper()
	catalog, err := config.ParseCatalog(config.DefaultMetadataAsset, []byte(testCatalog))
	require.NoError(t, err)
	overrides, err := config.NewOverrideStore(manager, nil)
	require.NoError(t, err)
	return New(nil, catalog, overrides, nil, reload), catalog
}

// TestModResolve 测试默认值和元数据合并，并在首次解析时初始化覆盖条目
func TestModResolve(t *testing.T) {
	mod, _ := newTestMod(t, nil, nil)

	p, ok := mod.TryResolve("216")
	require.True(t, ok)
	assert.Equal(t, 5, p.Frames())
	assert.Equal(t, "doorClose", mod.Hooks().ResolveSound(hooks.SoundChestOpen, "216"))

	_, ok = mod.TryResolve("130")
	assert.False(t, ok)

	// 初始化的覆盖条目包含合并结果和附加标记
	assert.True(t, mod.Overrides().Has("216"))
	entry := mod.Overrides().Entry("216")()
	require.NotNil(t, entry)
	v, _ := entry.Get("Frames")
	assert.Equal(t, "5", v)
	v, _ = entry.Get("furyx639.ColorfulChests/Enabled")
	assert.Equal(t, "true", v)
}

// TestModConfigChanged 测试保存配置后缓存失效、持久化并请求重建资源
func TestModConfigChanged(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, ".config"))
	manager, err := gdata.Open(gdata.Config{AppName: "expandedstorage_app_test"})
	require.NoError(t, err)

	var reloaded []string
	mod, _ := newTestMod(t, manager, func(asset string) { reloaded = append(reloaded, asset) })

	p, ok := mod.TryResolve("216")
	require.True(t, ok)
	assert.Equal(t, 5, p.Frames())

	mod.EditOverride("216").SetFrames(2)
	require.NoError(t, mod.OnConfigChanged())
	assert.Equal(t, []string{config.DefaultMetadataAsset}, reloaded)

	p, ok = mod.TryResolve("216")
	require.True(t, ok)
	assert.Equal(t, 2, p.Frames())

	// 新进程从 gdata 读回覆盖配置
	again, _ := newTestMod(t, manager, nil)
	p, ok = again.TryResolve("216")
	require.True(t, ok)
	assert.Equal(t, 2, p.Frames())
}

// TestModAssetsInvalidated 测试只有元数据资源失效时才清空缓存
func TestModAssetsInvalidated(t *testing.T) {
	mod, catalog := newTestMod(t, nil, nil)
	mod.TryResolve("216")
	mod.TryResolve("130")
	gen := mod.Cache().Generation()

	assert.False(t, mod.OnAssetsInvalidated("Data/Objects", "Maps/Farm"))
	assert.Equal(t, gen, mod.Cache().Generation())

	reloaded, err := config.ParseCatalog(config.DefaultMetadataAsset, []byte(testCatalogReloaded))
	require.NoError(t, err)
	catalog.Replace(reloaded)

	assert.True(t, mod.OnAssetsInvalidated("Data/Objects", `data\bigcraftables`))
	assert.Equal(t, 0, mod.Cache().Len())

	_, ok := mod.TryResolve("216")
	assert.False(t, ok)
	_, ok = mod.TryResolve("130")
	assert.True(t, ok)
}

// TestModResetConfig 测试重置后恢复到默认值 + 元数据
func TestModResetConfig(t *testing.T) {
	mod, _ := newTestMod(t, nil, nil)
	mod.TryResolve("216")
	mod.EditOverride("216").SetFrames(3)
	mod.OnMetadataReloaded()

	p, _ := mod.TryResolve("216")
	assert.Equal(t, 3, p.Frames())

	mod.ResetConfig()
	p, ok := mod.TryResolve("216")
	require.True(t, ok)
	assert.Equal(t, 5, p.Frames())
	assert.Equal(t, 1, mod.Overrides().Len())
}

// TestModEditMetadata 测试用户覆盖写回元数据
func TestModEditMetadata(t *testing.T) {
	mod, catalog := newTestMod(t, nil, nil)
	mod.TryResolve("216")
	mod.EditOverride("216").SetIsFridge(true)

	assert.Equal(t, 1, mod.EditMetadata())

	fields := catalog.Attributes("216")()
	require.NotNil(t, fields)
	v, ok := fields.Get("furyx639.ExpandedStorage/IsFridge")
	require.True(t, ok)
	assert.Equal(t, "true", v)
	assert.True(t, mod.Hooks().ResolveFridge("216"))
	assert.NoError(t, mod.Close())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LogAmountMore)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(config.LogAmountLess)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
