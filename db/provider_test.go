package db

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv struct {
	key   string
	value string
}

func collectRange(t *testing.T, p IterableProvider, start, limit []byte) []kv {
	t.Helper()
	var out []kv
	err := p.IterateRange(start, limit, func(key, value []byte) bool {
		out = append(out, kv{string(key), string(value)})
		return true
	})
	require.NoError(t, err)
	return out
}

func collectPrefix(t *testing.T, p IterableProvider, prefix string) []kv {
	t.Helper()
	var out []kv
	err := p.IteratePrefix([]byte(prefix), func(key, value []byte) bool {
		out = append(out, kv{string(key), string(value)})
		return true
	})
	require.NoError(t, err)
	return out
}

// runProviderSuite checks the behaviour every backend must share.
func runProviderSuite(t *testing.T, p IterableProvider) {
	t.Run("get missing returns nil", func(t *testing.T) {
		v, err := p.Get([]byte("missing"))
		require.NoError(t, err)
		assert.Nil(t, v)

		ok, err := p.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put get delete", func(t *testing.T) {
		require.NoError(t, p.Put([]byte("k:1"), []byte("one")))
		v, err := p.Get([]byte("k:1"))
		require.NoError(t, err)
		assert.Equal(t, "one", string(v))

		ok, err := p.Has([]byte("k:1"))
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, p.Delete([]byte("k:1")))
		v, err = p.Get([]byte("k:1"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("batch is applied on write", func(t *testing.T) {
		batch := p.Batch()
		defer batch.Close()
		batch.Put([]byte("b:1"), []byte("x"))
		batch.Put([]byte("b:2"), []byte("y"))

		v, err := p.Get([]byte("b:1"))
		require.NoError(t, err)
		assert.Nil(t, v, "batch must not be visible before Write")

		require.NoError(t, batch.Write())
		got, err := p.GetBatch([][]byte{[]byte("b:1"), []byte("b:2"), []byte("b:3")})
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"b:1": []byte("x"), "b:2": []byte("y")}, got)
	})

	t.Run("iteration is ordered and bounded", func(t *testing.T) {
		for _, k := range []string{"r:03", "r:01", "r:02", "r:10", "s:00", "q:99"} {
			require.NoError(t, p.Put([]byte(k), []byte("v"+k)))
		}

		assert.Equal(t, []kv{
			{"r:01", "vr:01"}, {"r:02", "vr:02"}, {"r:03", "vr:03"}, {"r:10", "vr:10"},
		}, collectPrefix(t, p, "r:"))

		assert.Equal(t, []kv{
			{"r:02", "vr:02"}, {"r:03", "vr:03"},
		}, collectRange(t, p, []byte("r:02"), []byte("r:10")))

		var first []string
		require.NoError(t, p.IteratePrefix([]byte("r:"), func(key, _ []byte) bool {
			first = append(first, string(key))
			return len(first) < 2
		}))
		assert.Equal(t, []string{"r:01", "r:02"}, first)
	})
}

func TestLevelDBProvider(t *testing.T) {
	p, err := NewMemLevelDBProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	runProviderSuite(t, p)
}

func TestLevelDBProvider_OnDisk(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLevelDBProvider(dir)
	require.NoError(t, err)
	require.NoError(t, p.Put([]byte("persist"), []byte("yes")))
	require.NoError(t, p.Close())

	reopened, err := NewLevelDBProvider(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	v, err := reopened.Get([]byte("persist"))
	require.NoError(t, err)
	assert.Equal(t, "yes", string(v))
}

func TestBoltProvider(t *testing.T) {
	p, err := NewBoltProvider(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	runProviderSuite(t, p)
}

func TestRedisProvider(t *testing.T) {
	mr := miniredis.RunT(t)
	p, err := NewRedisProviderWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	runProviderSuite(t, p)
}

func TestRedisProvider_RangeUsesKeyIndex(t *testing.T) {
	mr := miniredis.RunT(t)
	p, err := NewRedisProviderWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	p.pageSize = 2

	for _, k := range []string{"txt:a:05", "txt:a:01", "txt:a:03", "txt:b:01", "txt:a:02", "txt:a:04"} {
		require.NoError(t, p.Put([]byte(k), []byte("v")))
	}
	batch := p.Batch()
	batch.Put([]byte("txt:a:06"), []byte("v"))
	batch.Delete([]byte("txt:a:01"))
	require.NoError(t, batch.Write())

	// keys outside the index are never visited
	require.NoError(t, mr.Set("txt:a:00", "foreign"))

	var keys []string
	require.NoError(t, p.IteratePrefix([]byte("txt:a:"), func(key, _ []byte) bool {
		keys = append(keys, string(key))
		return true
	}))
	assert.Equal(t, []string{"txt:a:02", "txt:a:03", "txt:a:04", "txt:a:05", "txt:a:06"}, keys)

	assert.Equal(t, []kv{{"txt:a:03", "v"}, {"txt:a:04", "v"}},
		collectRange(t, p, []byte("txt:a:03"), []byte("txt:a:05")))

	members, err := mr.ZMembers(redisKeyIndex)
	require.NoError(t, err)
	assert.Len(t, members, 6)
	assert.NotContains(t, members, "txt:a:01")
}

func TestRedisProvider_ConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisProvider(addr, 0)
	assert.Error(t, err)
}

func TestPrefixLimit(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   []byte
	}{
		{"simple", []byte("bal:"), []byte("bal;")},
		{"trailing ff", []byte{'a', 0xff}, []byte{'b'}},
		{"all ff", []byte{0xff, 0xff}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefixLimit(tt.prefix))
		})
	}
}
