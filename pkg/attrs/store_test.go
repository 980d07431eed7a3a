package attrs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestMapCaseInsensitive 测试键大小写不敏感且保留原始拼写
func TestMapCaseInsensitive(t *testing.T) {
	m := NewMap()
	m.Set("Mod/OpenSound", "a")
	m.Set("mod/opensound", "b")

	v, ok := m.Get("MOD/OPENSOUND")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"Mod/OpenSound"}, m.Keys())

	m.Delete("MOD/opensound")
	assert.False(t, m.Has("Mod/OpenSound"))
}

// TestMapNilSafe 测试 nil 表的读取
func TestMapNilSafe(t *testing.T) {
	var m *Map
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	assert.NotNil(t, m.Clone())
}

// TestMapYAML 测试 YAML 往返保留键名
func TestMapYAML(t *testing.T) {
	m := MapOf(map[string]string{"Frames": "3", "IsFridge": "true"})
	data, err := yaml.Marshal(m)
	require.NoError(t, err)

	var back Map
	require.NoError(t, yaml.Unmarshal(data, &back))
	v, ok := back.Get("frames")
	require.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, []string{"Frames", "IsFridge"}, back.Keys())
}

// TestStorePrefix 测试字段名加前缀后再查找
func TestStorePrefix(t *testing.T) {
	m := MapOf(map[string]string{"ns/Frames": "4", "Frames": "9"})
	s := NewStore(Fixed(m), nil, "ns/")

	assert.Equal(t, 4, Get(s, "Frames", ParseInt, 1))
	assert.Equal(t, "ns/Frames", s.Key("Frames"))

	Set(s, "Frames", 6, FormatInt)
	raw, ok := m.Get("ns/Frames")
	require.True(t, ok)
	assert.Equal(t, "6", raw)
}

// TestStoreGetDefaults 测试缺失和格式错误都回退到默认值
func TestStoreGetDefaults(t *testing.T) {
	m := MapOf(map[string]string{"Frames": "many", "IsFridge": "yes"})
	s := NewStore(Fixed(m), nil, "")

	assert.Equal(t, 1, Get(s, "Frames", ParseInt, 1))
	assert.False(t, Get(s, "IsFridge", ParseBool, false))
	assert.Equal(t, "openChest", Get(s, "OpenSound", ParseString, "openChest"))
}

// TestStoreAbsentMap 测试没有后备表时读取返回默认值、写入被忽略
func TestStoreAbsentMap(t *testing.T) {
	s := NewStore(func() *Map { return nil }, nil, "ns/")
	assert.False(t, s.Available())
	assert.Equal(t, 7, Get(s, "Frames", ParseInt, 7))

	Set(s, "Frames", 3, FormatInt)
	_, ok := s.Raw("Frames")
	assert.False(t, ok)

	nilAccessor := NewStore(nil, nil, "")
	assert.Equal(t, "x", Get(nilAccessor, "A", ParseString, "x"))
}

// TestStoreLazyFactory 测试写入时通过 Factory 创建后备表
func TestStoreLazyFactory(t *testing.T) {
	var backing *Map
	created := 0
	s := NewStore(
		func() *Map { return backing },
		func() *Map {
			created++
			backing = NewMap()
			return backing
		},
		"",
	)

	Set(s, "IsFridge", true, FormatBool)
	Set(s, "Frames", 2, FormatInt)

	assert.Equal(t, 1, created)
	assert.True(t, Get(s, "IsFridge", ParseBool, false))
	assert.Equal(t, 2, backing.Len())
}

// TestStoreObservesReplacement 测试后备表被整体替换后读取新表
func TestStoreObservesReplacement(t *testing.T) {
	current := MapOf(map[string]string{"Frames": "2"})
	s := NewStore(func() *Map { return current }, nil, "")
	assert.Equal(t, 2, Get(s, "Frames", ParseInt, 1))

	current = MapOf(map[string]string{"Frames": "5"})
	assert.Equal(t, 5, Get(s, "Frames", ParseInt, 1))
}

func TestParseBool(t *testing.T) {
	v, ok := ParseBool(" TRUE ")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBool("False")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBool("1")
	assert.False(t, ok)
}

func TestColorsCodec(t *testing.T) {
	colors, ok := ParseColors("255,0,0; 0,255,0,128 ;")
	require.True(t, ok)
	assert.Equal(t, []color.RGBA{{R: 255, A: 255}, {G: 255, A: 128}}, colors)
	assert.Equal(t, "255,0,0;0,255,0,128", FormatColors(colors))

	empty, ok := ParseColors("")
	assert.True(t, ok)
	assert.Empty(t, empty)

	_, ok = ParseColors("255,0")
	assert.False(t, ok)
	_, ok = ParseColors("256,0,0")
	assert.False(t, ok)
}

func TestDictCodec(t *testing.T) {
	dict, ok := ParseDict("b=2, a = 1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, dict)
	assert.Equal(t, "a=1,b=2", FormatDict(dict))

	_, ok = ParseDict("novalue")
	assert.False(t, ok)
	_, ok = ParseDict("=x")
	assert.False(t, ok)
}

// TestDictCodecEscapesSeparators 测试键值中含分隔符时序列化后仍能原样读回
func TestDictCodecEscapesSeparators(t *testing.T) {
	dict := map[string]string{
		"owner":    "a,b",
		"tag":      "x=y",
		`path\dir`: `c:\chests`,
	}
	raw := FormatDict(dict)
	assert.Equal(t, `owner=a\,b,path\\dir=c:\\chests,tag=x\=y`, raw)

	parsed, ok := ParseDict(raw)
	require.True(t, ok)
	assert.Equal(t, dict, parsed)

	// 手写的值中未转义的 "=" 属于值
	parsed, ok = ParseDict("k=v=w")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"k": "v=w"}, parsed)
}
