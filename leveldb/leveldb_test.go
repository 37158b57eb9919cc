package leveldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	db, err := New(t.TempDir(), 0, 0)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("cred-alice"), []byte("1")))
	require.NoError(t, db.Put([]byte("cred-bob"), []byte("2")))
	require.NoError(t, db.Put([]byte("meta"), []byte("3")))

	has, err := db.Has([]byte("cred-alice"))
	require.NoError(t, err)
	assert.True(t, has)

	val, err := db.Get([]byte("cred-bob"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	keys, err := db.Keys([]byte("cred-"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, keys)

	require.NoError(t, db.Delete([]byte("cred-alice")))
	_, err = db.Get([]byte("cred-alice"))
	assert.True(t, IsNotFoundErr(err))
}
