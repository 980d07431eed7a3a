package profile

import (
	"strings"

	"github.com/gonewx/expandedstorage/pkg/attrs"
)

// 字段键名（不含命名空间前缀）
const (
	KeyOpenSound         = "OpenSound"
	KeyOpenNearbySound   = "OpenNearbySound"
	KeyCloseNearbySound  = "CloseNearbySound"
	KeyPlaceSound        = "PlaceSound"
	KeyFrames            = "Frames"
	KeyIsFridge          = "IsFridge"
	KeyPlayerColor       = "PlayerColor"
	KeyTintOverride      = "TintOverride"
	KeyTextureOverride   = "TextureOverride"
	KeyGlobalInventoryID = "GlobalInventoryId"
	KeyModData           = "ModData"
	KeyOpenNearby        = "OpenNearby"
	KeyAnimation         = "Animation"
)

// 默认音效（与游戏内置箱子一致）
const (
	DefaultOpenSound        = "openChest"
	DefaultOpenNearbySound  = "doorCreak"
	DefaultCloseNearbySound = "doorCreakReverse"
	DefaultPlaceSound       = "axe"
	DefaultFrames           = 1
)

// AnimationMode 盖子动画模式
type AnimationMode int

const (
	// AnimationStatic 仅在玩家靠近/离开时开合
	AnimationStatic AnimationMode = iota
	// AnimationLoop 持续循环播放
	AnimationLoop
)

// String 返回持久化使用的名称
func (m AnimationMode) String() string {
	switch m {
	case AnimationLoop:
		return "Loop"
	default:
		return "Static"
	}
}

// ParseAnimationMode 解析动画模式（大小写不敏感）
func ParseAnimationMode(raw string) (AnimationMode, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(raw, "Static"), strings.EqualFold(raw, "None"):
		return AnimationStatic, true
	case strings.EqualFold(raw, "Loop"):
		return AnimationLoop, true
	}
	return AnimationStatic, false
}

// FormatAnimationMode 序列化动画模式
func FormatAnimationMode(m AnimationMode) string {
	return m.String()
}

// parseFrames 帧数必须 ≥ 1
func parseFrames(raw string) (int, bool) {
	n, ok := attrs.ParseInt(raw)
	if !ok || n < 1 {
		return 0, false
	}
	return n, true
}

// Field 字段表中的一项
type Field struct {
	Key     string // 字段键名
	Default string // 默认值的原始字符串
}

// fieldTable 所有字段，按键名排序
// CopyTo 与 Summary 都遍历这张表
var fieldTable = []Field{
	{Key: KeyAnimation, Default: FormatAnimationMode(AnimationStatic)},
	{Key: KeyCloseNearbySound, Default: DefaultCloseNearbySound},
	{Key: KeyFrames, Default: attrs.FormatInt(DefaultFrames)},
	{Key: KeyGlobalInventoryID, Default: ""},
	{Key: KeyIsFridge, Default: attrs.FormatBool(false)},
	{Key: KeyModData, Default: ""},
	{Key: KeyOpenNearby, Default: attrs.FormatBool(false)},
	{Key: KeyOpenNearbySound, Default: DefaultOpenNearbySound},
	{Key: KeyOpenSound, Default: DefaultOpenSound},
	{Key: KeyPlaceSound, Default: DefaultPlaceSound},
	{Key: KeyPlayerColor, Default: attrs.FormatBool(false)},
	{Key: KeyTextureOverride, Default: ""},
	{Key: KeyTintOverride, Default: ""},
}

// Fields 返回字段表的副本
func Fields() []Field {
	out := make([]Field, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// validators 有格式要求的字段，字符串字段不在其中
var validators = map[string]func(string) bool{
	KeyAnimation:    func(raw string) bool { _, ok := ParseAnimationMode(raw); return ok },
	KeyFrames:       func(raw string) bool { _, ok := parseFrames(raw); return ok },
	KeyIsFridge:     func(raw string) bool { _, ok := attrs.ParseBool(raw); return ok },
	KeyModData:      func(raw string) bool { _, ok := attrs.ParseDict(raw); return ok },
	KeyOpenNearby:   func(raw string) bool { _, ok := attrs.ParseBool(raw); return ok },
	KeyPlayerColor:  func(raw string) bool { _, ok := attrs.ParseBool(raw); return ok },
	KeyTintOverride: func(raw string) bool { _, ok := attrs.ParseColors(raw); return ok },
}
