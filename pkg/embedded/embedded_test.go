package embedded

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/catalogs/sample.yaml": {Data: []byte("items: {}\n")},
		"data/catalogs/extra.yaml":  {Data: []byte("items: {}\n")},
		"data/config.yaml":          {Data: []byte("log_amount: more\n")},
	}
}

// TestNotInitialized 测试未初始化时的行为
func TestNotInitialized(t *testing.T) {
	Init(nil)

	_, err := ReadFile(SampleCatalogPath)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, Exists(SampleCatalogPath))
}

// TestReadFile 测试读取和路径标准化
func TestReadFile(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	data, err := ReadFile("./data/catalogs/sample.yaml")
	require.NoError(t, err)
	assert.Equal(t, "items: {}\n", string(data))

	_, err = ReadFile("data/catalogs/missing.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = ReadFile("assets/foo.png")
	assert.Error(t, err)
}

// TestExists 测试文件存在检查
func TestExists(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	assert.True(t, Exists(SampleCatalogPath))
	assert.True(t, Exists(ConfigPath))
	assert.False(t, Exists("data/nope.yaml"))
	assert.False(t, Exists("config.yaml"))
}
