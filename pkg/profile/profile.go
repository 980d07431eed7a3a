// Package profile 定义存储物品的行为配置（StorageData）
//
// Profile 是一个固定字段集合的类型化视图，底层是一个 attrs.Store。
// 同一套字段同时用于游戏自定义字段、用户覆盖配置和编译期默认值，
// 各层之间通过 CopyTo 按"有值才复制"的规则合并。
package profile

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gonewx/expandedstorage/pkg/attrs"
)

// Profile 存储物品行为配置
// 所有读取都是全函数：缺失或格式错误的值返回字段默认值
type Profile struct {
	store *attrs.Store
}

// New 基于属性存储创建配置视图
func New(store *attrs.Store) *Profile {
	return &Profile{store: store}
}

// NewMemory 创建由一张新的内存属性表支撑的空配置
func NewMemory() *Profile {
	return New(attrs.NewStore(attrs.Fixed(attrs.NewMap()), nil, ""))
}

// Store 返回底层属性存储
func (p *Profile) Store() *attrs.Store {
	return p.store
}

// OpenSound 打开箱子时播放的音效
func (p *Profile) OpenSound() string {
	return attrs.Get(p.store, KeyOpenSound, attrs.ParseString, DefaultOpenSound)
}

// SetOpenSound 设置打开音效
func (p *Profile) SetOpenSound(v string) {
	attrs.Set(p.store, KeyOpenSound, v, attrs.FormatString)
}

// OpenNearbySound 玩家靠近、盖子打开动画开始时播放的音效
func (p *Profile) OpenNearbySound() string {
	return attrs.Get(p.store, KeyOpenNearbySound, attrs.ParseString, DefaultOpenNearbySound)
}

// SetOpenNearbySound 设置靠近开盖音效
func (p *Profile) SetOpenNearbySound(v string) {
	attrs.Set(p.store, KeyOpenNearbySound, v, attrs.FormatString)
}

// CloseNearbySound 盖子关闭动画开始时播放的音效
func (p *Profile) CloseNearbySound() string {
	return attrs.Get(p.store, KeyCloseNearbySound, attrs.ParseString, DefaultCloseNearbySound)
}

// SetCloseNearbySound 设置关盖音效
func (p *Profile) SetCloseNearbySound(v string) {
	attrs.Set(p.store, KeyCloseNearbySound, v, attrs.FormatString)
}

// PlaceSound 放置时播放的音效
func (p *Profile) PlaceSound() string {
	return attrs.Get(p.store, KeyPlaceSound, attrs.ParseString, DefaultPlaceSound)
}

// SetPlaceSound 设置放置音效
func (p *Profile) SetPlaceSound(v string) {
	attrs.Set(p.store, KeyPlaceSound, v, attrs.FormatString)
}

// Frames 盖子动画帧数，至少为 1
func (p *Profile) Frames() int {
	return attrs.Get(p.store, KeyFrames, parseFrames, DefaultFrames)
}

// SetFrames 设置盖子动画帧数
func (p *Profile) SetFrames(v int) {
	attrs.Set(p.store, KeyFrames, v, attrs.FormatInt)
}

// IsFridge 是否作为冰箱
func (p *Profile) IsFridge() bool {
	return attrs.Get(p.store, KeyIsFridge, attrs.ParseBool, false)
}

// SetIsFridge 设置是否作为冰箱
func (p *Profile) SetIsFridge(v bool) {
	attrs.Set(p.store, KeyIsFridge, v, attrs.FormatBool)
}

// PlayerColor 是否允许玩家染色
func (p *Profile) PlayerColor() bool {
	return attrs.Get(p.store, KeyPlayerColor, attrs.ParseBool, false)
}

// SetPlayerColor 设置是否允许玩家染色
func (p *Profile) SetPlayerColor(v bool) {
	attrs.Set(p.store, KeyPlayerColor, v, attrs.FormatBool)
}

// TintOverride 替换调色板的颜色序列，可为空
func (p *Profile) TintOverride() []color.RGBA {
	return attrs.Get(p.store, KeyTintOverride, attrs.ParseColors, []color.RGBA{})
}

// SetTintOverride 设置调色板颜色序列
func (p *Profile) SetTintOverride(v []color.RGBA) {
	attrs.Set(p.store, KeyTintOverride, v, attrs.FormatColors)
}

// TextureOverride 替换贴图路径，空字符串表示不替换
func (p *Profile) TextureOverride() string {
	return attrs.Get(p.store, KeyTextureOverride, attrs.ParseString, "")
}

// SetTextureOverride 设置替换贴图路径
func (p *Profile) SetTextureOverride(v string) {
	attrs.Set(p.store, KeyTextureOverride, v, attrs.FormatString)
}

// GlobalInventoryID 全局库存 id，空字符串表示不共享
func (p *Profile) GlobalInventoryID() string {
	return attrs.Get(p.store, KeyGlobalInventoryID, attrs.ParseString, "")
}

// SetGlobalInventoryID 设置全局库存 id
func (p *Profile) SetGlobalInventoryID(v string) {
	attrs.Set(p.store, KeyGlobalInventoryID, v, attrs.FormatString)
}

// ModData 放置时写入箱子实例的附加数据
func (p *Profile) ModData() map[string]string {
	return attrs.Get(p.store, KeyModData, attrs.ParseDict, map[string]string{})
}

// SetModData 设置放置时写入的附加数据
func (p *Profile) SetModData(v map[string]string) {
	attrs.Set(p.store, KeyModData, v, attrs.FormatDict)
}

// OpenNearby 玩家靠近时是否播放开盖动画
func (p *Profile) OpenNearby() bool {
	return attrs.Get(p.store, KeyOpenNearby, attrs.ParseBool, false)
}

// SetOpenNearby 设置靠近时是否开盖
func (p *Profile) SetOpenNearby(v bool) {
	attrs.Set(p.store, KeyOpenNearby, v, attrs.FormatBool)
}

// Animation 盖子动画模式
func (p *Profile) Animation() AnimationMode {
	return attrs.Get(p.store, KeyAnimation, ParseAnimationMode, AnimationStatic)
}

// SetAnimation 设置盖子动画模式
func (p *Profile) SetAnimation(v AnimationMode) {
	attrs.Set(p.store, KeyAnimation, v, FormatAnimationMode)
}

// CopyTo 将本配置中已设置的字段原样复制到 target
//
// 逐字段读取原始字符串，存在则原样写入 target（不经过解析/序列化，保留原始表示）；
// 不存在则不触碰 target。这是各层合并的基本操作：
// 把稀疏的覆盖层复制到完整的基础层上，只改变覆盖层显式设置的字段。
func (p *Profile) CopyTo(target *Profile) {
	for _, f := range fieldTable {
		if raw, ok := p.store.Raw(f.Key); ok {
			target.store.SetRaw(f.Key, raw)
		}
	}
}

// Summary 返回所有已设置字段的对齐文本，每行一个字段
// 仅用于诊断和导出
func (p *Profile) Summary() string {
	width := 0
	for _, f := range fieldTable {
		width = max(width, len(f.Key))
	}

	var sb strings.Builder
	for _, f := range fieldTable {
		raw, ok := p.store.Raw(f.Key)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%-*s : %s\n", width, f.Key, raw)
	}
	return sb.String()
}

// Values 配置的类型化快照，便于比较和传递
type Values struct {
	OpenSound         string
	OpenNearbySound   string
	CloseNearbySound  string
	PlaceSound        string
	Frames            int
	IsFridge          bool
	PlayerColor       bool
	TintOverride      []color.RGBA
	TextureOverride   string
	GlobalInventoryID string
	ModData           map[string]string
	OpenNearby        bool
	Animation         AnimationMode
}

// Snapshot 读取所有字段
func (p *Profile) Snapshot() Values {
	return Values{
		OpenSound:         p.OpenSound(),
		OpenNearbySound:   p.OpenNearbySound(),
		CloseNearbySound:  p.CloseNearbySound(),
		PlaceSound:        p.PlaceSound(),
		Frames:            p.Frames(),
		IsFridge:          p.IsFridge(),
		PlayerColor:       p.PlayerColor(),
		TintOverride:      p.TintOverride(),
		TextureOverride:   p.TextureOverride(),
		GlobalInventoryID: p.GlobalInventoryID(),
		ModData:           p.ModData(),
		OpenNearby:        p.OpenNearby(),
		Animation:         p.Animation(),
	}
}

// buildDefaults 创建编译期默认配置，所有字段都写入默认值
func buildDefaults() *Profile {
	p := NewMemory()
	for _, f := range fieldTable {
		p.store.SetRaw(f.Key, f.Default)
	}
	return p
}

// Defaults 返回一份新的默认配置
// 每次调用都重新构建，修改返回值不影响其他调用方
func Defaults() *Profile {
	return buildDefaults()
}

// Invalid 返回已设置但无法解析的字段键名（按键名排序）
// 这些字段读取时会回退到默认值
func (p *Profile) Invalid() []string {
	var out []string
	for _, f := range fieldTable {
		valid, ok := validators[f.Key]
		if !ok {
			continue
		}
		if raw, set := p.store.Raw(f.Key); set && !valid(raw) {
			out = append(out, f.Key)
		}
	}
	return out
}
