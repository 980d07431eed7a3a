// Package hooks 将宿主引擎的扩展点转发到物品的有效配置
//
// 每个钩子接收宿主的规范值，物品没有有效配置时原样返回规范值。
package hooks

import (
	"image/color"
	"strings"

	"github.com/gonewx/expandedstorage/pkg/profile"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// 宿主使用的规范音效键
const (
	SoundChestOpen        = "openChest"
	SoundMiniShippingOpen = "shwip"
	SoundLidOpen          = "doorCreak"
	SoundLidClose         = "doorCreakReverse"
)

// Lookup 按物品 id 查询有效配置（由 cache.Cache 实现）
type Lookup interface {
	TryResolve(id string) (*profile.Profile, bool)
}

// Dispatcher 钩子分发器
type Dispatcher struct {
	lookup Lookup
	logger *zap.Logger
}

// NewDispatcher 创建钩子分发器
func NewDispatcher(lookup Lookup, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{lookup: lookup, logger: logger.Named("Hooks")}
}

// ResolveSound 将宿主的规范音效替换为物品配置的音效
//
// 参数：
//   - canonical: 宿主原本要播放的音效键
//   - id: 物品 id
//
// 返回：
//   - string: 应播放的音效键；自定义值为空白或音效键未知时返回 canonical
func (d *Dispatcher) ResolveSound(canonical, id string) string {
	p, ok := d.lookup.TryResolve(id)
	if !ok {
		return canonical
	}

	var custom string
	switch canonical {
	case SoundChestOpen, SoundMiniShippingOpen:
		custom = p.OpenSound()
	case SoundLidOpen:
		custom = p.OpenNearbySound()
	case SoundLidClose:
		custom = p.CloseNearbySound()
	default:
		return canonical
	}

	if strings.TrimSpace(custom) == "" {
		return canonical
	}
	if custom != canonical {
		d.logger.Debug("替换音效", zap.String("id", id), zap.String("from", canonical), zap.String("to", custom))
	}
	return custom
}

// ResolveSpecialBehaviorFlag 物品是否启用近距离开盖行为（迷你出货箱行为）
func (d *Dispatcher) ResolveSpecialBehaviorFlag(id string) bool {
	p, ok := d.lookup.TryResolve(id)
	return ok && p.OpenNearby()
}

// ResolveFridge 物品是否作为冰箱使用
func (d *Dispatcher) ResolveFridge(id string) bool {
	p, ok := d.lookup.TryResolve(id)
	return ok && p.IsFridge()
}

// ResolveFrameCount 返回物品的盖子帧数，没有有效配置时返回 1
func (d *Dispatcher) ResolveFrameCount(id string) int {
	p, ok := d.lookup.TryResolve(id)
	if !ok {
		return profile.DefaultFrames
	}
	return p.Frames()
}

// ResolveLastLidFrame 返回盖子动画最后一帧的绝对帧号
// 有效配置存在时为 starting + Frames - 1，否则返回 canonical
func (d *Dispatcher) ResolveLastLidFrame(id string, starting, canonical int) int {
	p, ok := d.lookup.TryResolve(id)
	if !ok {
		return canonical
	}
	return starting + p.Frames() - 1
}

// ResolveDrawParameters 返回绘制物品所需的参数
func (d *Dispatcher) ResolveDrawParameters(id string) (DrawParameters, bool) {
	p, ok := d.lookup.TryResolve(id)
	if !ok {
		return DrawParameters{}, false
	}
	return DrawParameters{
		TextureOverride: p.TextureOverride(),
		Tint:            p.TintOverride(),
		Colored:         p.PlayerColor(),
	}, true
}

// ResolvePlacement 返回物品放置到世界中时使用的参数
func (d *Dispatcher) ResolvePlacement(id string) (Placement, bool) {
	p, ok := d.lookup.TryResolve(id)
	if !ok {
		return Placement{}, false
	}
	return Placement{
		GlobalInventoryID: p.GlobalInventoryID(),
		Fridge:            p.IsFridge(),
		ModData:           p.ModData(),
		Sound:             p.PlaceSound(),
	}, true
}

// Placement 放置参数
type Placement struct {
	GlobalInventoryID string
	Fridge            bool
	ModData           map[string]string
	Sound             string
}

// DrawParameters 绘制参数
type DrawParameters struct {
	TextureOverride string
	Tint            []color.RGBA
	// Colored 是否允许玩家选择颜色
	Colored bool
}

// PaletteColor 将颜色选择器的选项映射为调色板颜色
//
// 参数：
//   - selection: 选择器序号，0 表示未选择，1 对应调色板第一个颜色
//   - canonical: 宿主自己的颜色
//
// 返回：
//   - color.RGBA: 应使用的颜色
//   - bool: 是否为七彩色（调色板中的黑色），由宿主按时间计算实际颜色
func (dp DrawParameters) PaletteColor(selection int, canonical color.RGBA) (color.RGBA, bool) {
	if !dp.Colored || selection <= 0 || selection > len(dp.Tint) {
		return canonical, false
	}
	c := dp.Tint[selection-1]
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return canonical, true
	}
	return c, false
}

// ColorScale 返回绘制着色层时使用的颜色缩放
// 七彩色时使用 canonical，宿主应先把 canonical 替换为当前的七彩色
func (dp DrawParameters) ColorScale(selection int, canonical color.RGBA) ebiten.ColorScale {
	c, _ := dp.PaletteColor(selection, canonical)
	var cs ebiten.ColorScale
	cs.ScaleWithColor(c)
	return cs
}

// LidColumn 返回贴图中盖子帧所在的列
// 结果限制在 [0, last-starting+1]
func LidColumn(current, starting, last int) int {
	return min(last-starting+1, max(0, current-starting))
}
