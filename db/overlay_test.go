package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemBase(t *testing.T) *LevelDBProvider {
	t.Helper()
	p, err := NewMemLevelDBProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestOverlay_ProviderContract(t *testing.T) {
	base := newMemBase(t)
	runProviderSuite(t, NewOverlay(base))
}

func TestOverlay_ReadThroughAndShadow(t *testing.T) {
	base := newMemBase(t)
	require.NoError(t, base.Put([]byte("a"), []byte("base-a")))
	require.NoError(t, base.Put([]byte("b"), []byte("base-b")))

	view := NewOverlay(base)
	require.NoError(t, view.Put([]byte("a"), []byte("view-a")))
	require.NoError(t, view.Delete([]byte("b")))

	v, err := view.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "view-a", string(v))

	v, err = view.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, v)

	ok, err := view.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, ok)

	// base untouched until commit
	v, err = base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "base-a", string(v))
}

func TestOverlay_MergedIteration(t *testing.T) {
	base := newMemBase(t)
	for _, k := range []string{"p:1", "p:3", "p:5"} {
		require.NoError(t, base.Put([]byte(k), []byte("base")))
	}

	view := NewOverlay(base)
	require.NoError(t, view.Put([]byte("p:0"), []byte("view")))
	require.NoError(t, view.Put([]byte("p:3"), []byte("view")))
	require.NoError(t, view.Put([]byte("p:4"), []byte("view")))
	require.NoError(t, view.Delete([]byte("p:5")))
	require.NoError(t, view.Put([]byte("p:9"), []byte("view")))
	require.NoError(t, view.Put([]byte("q:0"), []byte("view")))

	assert.Equal(t, []kv{
		{"p:0", "view"}, {"p:1", "base"}, {"p:3", "view"}, {"p:4", "view"}, {"p:9", "view"},
	}, collectPrefix(t, view, "p:"))

	assert.Equal(t, []kv{
		{"p:1", "base"}, {"p:3", "view"},
	}, collectRange(t, view, []byte("p:1"), []byte("p:4")))
}

func TestOverlay_CommitAndDiscard(t *testing.T) {
	base := newMemBase(t)
	require.NoError(t, base.Put([]byte("gone"), []byte("x")))

	view := NewOverlay(base)
	require.NoError(t, view.Put([]byte("new"), []byte("y")))
	require.NoError(t, view.Delete([]byte("gone")))
	assert.Equal(t, 2, view.Len())

	require.NoError(t, view.Commit())
	assert.Equal(t, 0, view.Len())

	v, err := base.Get([]byte("new"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(v))
	v, err = base.Get([]byte("gone"))
	require.NoError(t, err)
	assert.Nil(t, v)

	discarded := NewOverlay(base)
	require.NoError(t, discarded.Put([]byte("never"), []byte("z")))
	discarded.Discard()
	require.NoError(t, discarded.Commit())
	v, err = base.Get([]byte("never"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDBTxManager_WithOverlay(t *testing.T) {
	base := newMemBase(t)
	tm := NewDBTxManager(base)

	require.NoError(t, tm.WithOverlay(func(view *Overlay) error {
		return view.Put([]byte("committed"), []byte("1"))
	}))
	v, err := base.Get([]byte("committed"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))

	failure := errors.New("rejected")
	err = tm.WithOverlay(func(view *Overlay) error {
		require.NoError(t, view.Put([]byte("rolled-back"), []byte("1")))
		return failure
	})
	assert.Same(t, failure, err)
	v, err = base.Get([]byte("rolled-back"))
	require.NoError(t, err)
	assert.Nil(t, v)
}
