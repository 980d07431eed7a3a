package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/gonewx/expandedstorage/pkg/attrs"
	"gopkg.in/yaml.v3"
)

// ErrCatalogNotFound 物品目录文件不存在
var ErrCatalogNotFound = errors.New("catalog not found")

// MetadataSource 游戏提供的物品元数据（只读为主）
//
// 每个物品 id 对应一张自定义字段表，表可能不存在。
// 实现方可以随时整体替换表，因此 Attributes 返回访问函数而不是表本身。
type MetadataSource interface {
	// Name 资源标识，用于匹配失效通知（如 "Data/BigCraftables"）
	Name() string
	// IDs 枚举所有物品 id
	IDs() []string
	// Attributes 返回物品自定义字段表的访问函数
	Attributes(id string) attrs.Accessor
}

// ItemData 目录中的单个物品
type ItemData struct {
	Name         string     `yaml:"name"`
	DisplayName  string     `yaml:"display_name,omitempty"`
	Description  string     `yaml:"description,omitempty"`
	CustomFields *attrs.Map `yaml:"custom_fields,omitempty"`
}

// catalogFile 目录文件的顶层结构
type catalogFile struct {
	Items map[string]*ItemData `yaml:"items"`
}

// Catalog 基于 YAML 的物品目录，实现 MetadataSource
type Catalog struct {
	name  string
	items map[string]*ItemData
}

// NewCatalog 创建空目录
func NewCatalog(name string) *Catalog {
	return &Catalog{name: name, items: make(map[string]*ItemData)}
}

// LoadCatalog 从磁盘加载物品目录
//
// 参数：
//   - name: 资源标识
//   - path: YAML 文件路径
//
// 返回：
//   - *Catalog: 物品目录
//   - error: 文件不存在时包装 ErrCatalogNotFound；解析失败返回解析错误
func LoadCatalog(name, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("无法读取物品目录 %s: %w", path, err)
	}

	catalog, err := ParseCatalog(name, data)
	if err != nil {
		return nil, fmt.Errorf("无法解析物品目录 %s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog 从 YAML 数据解析物品目录
func ParseCatalog(name string, data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	catalog := NewCatalog(name)
	for id, item := range file.Items {
		if id == "" {
			return nil, fmt.Errorf("物品缺少 id")
		}
		if item == nil {
			item = &ItemData{}
		}
		catalog.items[id] = item
	}
	return catalog, nil
}

// Name 资源标识
func (c *Catalog) Name() string {
	return c.name
}

// IDs 返回排序后的物品 id
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Attributes 返回物品自定义字段表的访问函数
// 每次调用访问函数都重新查找，目录被 Replace 后立即可见
func (c *Catalog) Attributes(id string) attrs.Accessor {
	return func() *attrs.Map {
		item, ok := c.items[id]
		if !ok {
			return nil
		}
		return item.CustomFields
	}
}

// Item 返回物品数据
func (c *Catalog) Item(id string) (*ItemData, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Put 添加或替换物品
func (c *Catalog) Put(id string, item *ItemData) {
	c.items[id] = item
}

// Replace 用另一个目录的内容整体替换本目录（模拟资源重新加载）
func (c *Catalog) Replace(other *Catalog) {
	c.items = other.items
}

// Len 物品数量
func (c *Catalog) Len() int {
	return len(c.items)
}
