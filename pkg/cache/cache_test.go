package cache

import (
	"testing"

	"github.com/gonewx/expandedstorage/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource 记录调用次数的数据来源
type countingSource struct {
	eligible      map[string]bool
	frames        map[string]int
	eligibleCalls map[string]int
	resolveCalls  map[string]int
}

func newCountingSource() *countingSource {
	return &countingSource{
		eligible:      make(map[string]bool),
		frames:        make(map[string]int),
		eligibleCalls: make(map[string]int),
		resolveCalls:  make(map[string]int),
	}
}

func (s *countingSource) Eligible(id string) bool {
	s.eligibleCalls[id]++
	return s.eligible[id]
}

func (s *countingSource) Resolve(id string) *profile.Profile {
	s.resolveCalls[id]++
	p := profile.NewMemory()
	profile.Defaults().CopyTo(p)
	if n, ok := s.frames[id]; ok {
		p.SetFrames(n)
	}
	return p
}

// TestTryResolvePositive 测试解析结果被缓存，只解析一次
func TestTryResolvePositive(t *testing.T) {
	src := newCountingSource()
	src.eligible["216"] = true
	src.frames["216"] = 3
	c := New(src, nil)

	p1, ok := c.TryResolve("216")
	require.True(t, ok)
	p2, ok := c.TryResolve("216")
	require.True(t, ok)

	assert.Equal(t, p1.Snapshot(), p2.Snapshot())
	assert.Equal(t, 3, p2.Frames())
	assert.Equal(t, 1, src.resolveCalls["216"])
	assert.Equal(t, 1, src.eligibleCalls["216"])
	assert.Equal(t, 1, c.Len())
}

// TestTryResolveNegative 测试不参与的物品进入负缓存，不再查询元数据
func TestTryResolveNegative(t *testing.T) {
	src := newCountingSource()
	c := New(src, nil)

	for i := 0; i < 5; i++ {
		p, ok := c.TryResolve("130")
		assert.False(t, ok)
		assert.Nil(t, p)
	}

	assert.Equal(t, 1, src.eligibleCalls["130"])
	assert.Equal(t, 0, src.resolveCalls["130"])
	assert.Equal(t, 1, c.Excluded())
	assert.Equal(t, 0, c.Len())
}

// TestInvalidateAllClearsBoth 测试全部失效后正负缓存都重新评估
func TestInvalidateAllClearsBoth(t *testing.T) {
	src := newCountingSource()
	src.eligible["216"] = true
	c := New(src, nil)

	c.TryResolve("216")
	c.TryResolve("130")
	gen := c.Generation()

	// 元数据源变化：216 不再参与，130 开始参与
	src.eligible["216"] = false
	src.eligible["130"] = true
	c.InvalidateAll()
	assert.Equal(t, gen+1, c.Generation())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Excluded())

	_, ok := c.TryResolve("216")
	assert.False(t, ok)
	_, ok = c.TryResolve("130")
	assert.True(t, ok)

	assert.Equal(t, 2, src.eligibleCalls["216"])
	assert.Equal(t, 2, src.eligibleCalls["130"])
}

// TestInvalidateSingle 测试单个物品失效不影响其他物品
func TestInvalidateSingle(t *testing.T) {
	src := newCountingSource()
	src.eligible["a"] = true
	src.eligible["b"] = true
	src.frames["a"] = 2
	c := New(src, nil)

	c.TryResolve("a")
	c.TryResolve("b")
	c.TryResolve("x")

	src.frames["a"] = 4
	c.Invalidate("a")
	c.Invalidate("x")

	p, ok := c.TryResolve("a")
	require.True(t, ok)
	assert.Equal(t, 4, p.Frames())
	c.TryResolve("b")
	c.TryResolve("x")

	assert.Equal(t, 2, src.resolveCalls["a"])
	assert.Equal(t, 1, src.resolveCalls["b"])
	assert.Equal(t, 2, src.eligibleCalls["x"])
}

// TestPositiveAndNegativeExclusive 测试同一个 id 不会同时出现在两张表中
func TestPositiveAndNegativeExclusive(t *testing.T) {
	src := newCountingSource()
	c := New(src, nil)

	c.TryResolve("a")
	assert.Equal(t, 1, c.Excluded())

	src.eligible["a"] = true
	c.Invalidate("a")
	c.TryResolve("a")
	assert.Equal(t, 0, c.Excluded())
	assert.Equal(t, 1, c.Len())
}
