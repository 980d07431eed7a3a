package attrs

// Accessor 在调用时解析当前的后备属性表
//
// 外部持有者可能随时整体替换属性表，因此存储层只保存访问函数，不保存表的引用。
// 返回 nil 表示"没有表"：所有读取返回默认值，写入视 Factory 而定。
type Accessor func() *Map

// Factory 在后备表不存在时创建并登记一张新表
// 返回的表必须在之后被同一个 Accessor 返回
type Factory func() *Map

// Parser 将原始字符串解析为 T，第二个返回值为 false 表示格式错误
type Parser[T any] func(raw string) (T, bool)

// Formatter 将 T 序列化为原始字符串
type Formatter[T any] func(value T) string

// Store 带命名空间前缀的属性存储
// 自身不缓存任何值，每次读写都经由 Accessor 访问当前表
type Store struct {
	accessor Accessor
	factory  Factory
	prefix   string
}

// Fixed 返回始终指向同一张表的 Accessor
func Fixed(m *Map) Accessor {
	return func() *Map { return m }
}

// NewStore 创建属性存储
//
// 参数：
//   - accessor: 后备表访问函数，为 nil 时等价于始终没有表
//   - factory: 后备表不存在时的创建函数，为 nil 时对缺失表的写入被忽略
//   - prefix: 字段名前缀，实际键为 prefix + name
func NewStore(accessor Accessor, factory Factory, prefix string) *Store {
	return &Store{accessor: accessor, factory: factory, prefix: prefix}
}

// Prefix 返回命名空间前缀
func (s *Store) Prefix() string {
	return s.prefix
}

// Key 返回字段在后备表中的完整键名
func (s *Store) Key(name string) string {
	return s.prefix + name
}

func (s *Store) current() *Map {
	if s.accessor == nil {
		return nil
	}
	return s.accessor()
}

// Available 报告后备表当前是否存在
func (s *Store) Available() bool {
	return s.current() != nil
}

// Raw 读取原始字符串，未设置时返回 false
func (s *Store) Raw(name string) (string, bool) {
	return s.current().Get(s.Key(name))
}

// SetRaw 写入原始字符串
// 后备表不存在时通过 Factory 创建；没有 Factory 则忽略写入
func (s *Store) SetRaw(name, raw string) {
	m := s.current()
	if m == nil {
		if s.factory == nil {
			return
		}
		m = s.factory()
		if m == nil {
			return
		}
	}
	m.Set(s.Key(name), raw)
}

// Clear 删除字段
func (s *Store) Clear(name string) {
	s.current().Delete(s.Key(name))
}

// Get 读取并解析字段，缺失或无法解析时返回 def
func Get[T any](s *Store, name string, parse Parser[T], def T) T {
	raw, ok := s.Raw(name)
	if !ok {
		return def
	}
	value, ok := parse(raw)
	if !ok {
		return def
	}
	return value
}

// Set 序列化并写入字段
func Set[T any](s *Store, name string, value T, format Formatter[T]) {
	s.SetRaw(name, format(value))
}
