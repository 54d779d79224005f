package store

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/stretchr/testify/require"
)

// TestFuzzTxn applies random operations to a txn and a plain map, then compares reads and iteration
func TestFuzzTxn(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	r := rand.New(rand.NewSource(1))
	reference := make(map[string]string)
	// seed the parent
	for i := 0; i < 50; i++ {
		k, v := randomKey(r), randomKey(r)
		require.NoError(t, parent.Set([]byte(k), []byte(v)))
		reference[k] = v
	}
	txn := NewTxn(parent)
	for i := 0; i < 500; i++ {
		k := randomKey(r)
		switch r.Intn(3) {
		case 0:
			v := randomKey(r)
			require.NoError(t, txn.Set([]byte(k), []byte(v)))
			reference[k] = v
		case 1:
			require.NoError(t, txn.Delete([]byte(k)))
			delete(reference, k)
		default:
			got, err := txn.Get([]byte(k))
			require.NoError(t, err)
			if v, ok := reference[k]; ok {
				require.Equal(t, v, string(got))
			} else {
				require.Nil(t, got)
			}
		}
		if i%50 == 0 {
			compareIteration(t, txn, reference, string(rune('a'+r.Intn(4))))
		}
	}
	require.NoError(t, txn.Write())
	compareIteration(t, parent, reference, "")
}

func compareIteration(t *testing.T, db lib.RStoreI, reference map[string]string, prefix string) {
	t.Helper()
	for _, reverse := range []bool{false, true} {
		it, err := db.Iterator([]byte(prefix))
		if reverse {
			it, err = db.RevIterator([]byte(prefix))
		}
		require.NoError(t, err)
		got := make([]string, 0)
		for ; it.Valid(); it.Next() {
			require.Equal(t, reference[string(it.Key())], string(it.Value()))
			got = append(got, string(it.Key()))
		}
		it.Close()
		require.Equal(t, expectedKeys(reference, prefix, reverse), got)
	}
}

func randomKey(r *rand.Rand) string {
	const letters = "abcd"
	b := make([]byte, 1+r.Intn(3))
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}

func expectedKeys(reference map[string]string, prefix string, reverse bool) []string {
	keys := make([]string, 0, len(reference))
	for k := range reference {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	}
	return keys
}
