package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxnWriteSetGet(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	// get from ops before write()
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// parent is untouched before write()
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	require.NoError(t, test.Write())
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// reads fall through after write()
	val, err = test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
}

func TestTxnWriteDelete(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	require.NoError(t, test.Write())
	require.NoError(t, test.Delete([]byte("1/a")))
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	require.NoError(t, test.Write())
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnDiscard(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("a"), []byte("a")))
	test.Discard()
	require.NoError(t, test.Write())
	val, err := parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnIterateMixed(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	bulkSetKV(t, parent, "p/", "a", "c", "e", "g")
	bulkSetKV(t, parent, "q/", "a")
	test := NewTxn(parent)
	bulkSetKV(t, test, "p/", "b", "d", "e", "h")
	require.NoError(t, test.Delete([]byte("p/c")))
	require.NoError(t, test.Delete([]byte("p/z"))) // delete of a key that never existed
	tests := []struct {
		name     string
		reverse  bool
		expected []string
	}{
		{
			name:     "forward",
			expected: []string{"p/a", "p/b", "p/d", "p/e", "p/g", "p/h"},
		},
		{
			name:     "reverse",
			reverse:  true,
			expected: []string{"p/h", "p/g", "p/e", "p/d", "p/b", "p/a"},
		},
	}
	for _, test2 := range tests {
		t.Run(test2.name, func(t *testing.T) {
			it, err := test.Iterator([]byte("p/"))
			if test2.reverse {
				it, err = test.RevIterator([]byte("p/"))
			}
			require.NoError(t, err)
			defer it.Close()
			validateIterators(t, test2.expected, it)
		})
	}
}

func TestTxnIterateShadowsParentValue(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	require.NoError(t, parent.Set([]byte("k"), []byte("old")))
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("k"), []byte("new")))
	it, err := test.Iterator(nil)
	require.NoError(t, err)
	defer it.Close()
	require.True(t, it.Valid())
	require.Equal(t, []byte("new"), it.Value())
	it.Next()
	require.False(t, it.Valid())
}
