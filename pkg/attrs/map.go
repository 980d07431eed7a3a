// Package attrs 提供基于字符串键值表的类型化属性访问
//
// 游戏数据（自定义字段）、用户覆盖配置都以 string → string 的形式存储，
// 本包负责在这些松散的表之上提供带前缀、可解析、带默认值的读写接口。
// 所有读取都是全函数：缺失或格式错误的值一律回退到默认值，不返回错误。
package attrs

import (
	"sort"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Map 键大小写不敏感的属性表
//
// 键按 Unicode case folding 比较，但保留首次写入时的原始拼写，
// 这样保存后再加载不会改变用户文件里的键名。
// 不是并发安全的。
type Map struct {
	entries map[string]mapEntry
}

type mapEntry struct {
	key   string
	value string
}

// NewMap 创建空属性表
func NewMap() *Map {
	return &Map{entries: make(map[string]mapEntry)}
}

// MapOf 从普通 map 创建属性表
// 若 src 中存在仅大小写不同的重复键，结果取决于遍历顺序
func MapOf(src map[string]string) *Map {
	m := NewMap()
	for k, v := range src {
		m.Set(k, v)
	}
	return m
}

// FoldKey 返回用于大小写不敏感比较的键
func FoldKey(key string) string {
	return cases.Fold().String(key)
}

// Get 读取键值，键不存在时返回 false
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	e, ok := m.entries[FoldKey(key)]
	return e.value, ok
}

// Has 检查键是否存在
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set 写入键值
// 已存在的键保留原始拼写，只替换值
func (m *Map) Set(key, value string) {
	if m.entries == nil {
		m.entries = make(map[string]mapEntry)
	}
	folded := FoldKey(key)
	if e, ok := m.entries[folded]; ok {
		e.value = value
		m.entries[folded] = e
		return
	}
	m.entries[folded] = mapEntry{key: key, value: value}
}

// Delete 删除键
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	delete(m.entries, FoldKey(key))
}

// Len 返回键数量
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys 返回按原始拼写排序的键列表
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.key)
	}
	sort.Strings(keys)
	return keys
}

// Clear 清空属性表（保留表本身）
func (m *Map) Clear() {
	if m == nil {
		return
	}
	clear(m.entries)
}

// Clone 深拷贝
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for k, e := range m.entries {
		out.entries[k] = e
	}
	return out
}

// ToPlain 转换为普通 map（使用原始键名）
func (m *Map) ToPlain() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for _, e := range m.entries {
		out[e.key] = e.value
	}
	return out
}

// MarshalYAML 以普通映射形式序列化
func (m *Map) MarshalYAML() (interface{}, error) {
	return m.ToPlain(), nil
}

// UnmarshalYAML 从普通映射反序列化
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	var plain map[string]string
	if err := value.Decode(&plain); err != nil {
		return err
	}
	m.entries = make(map[string]mapEntry, len(plain))
	for k, v := range plain {
		m.Set(k, v)
	}
	return nil
}
