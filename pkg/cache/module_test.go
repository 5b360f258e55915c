package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key([]byte("first replay"))
	b := Key([]byte("second replay"))

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key([]byte("first replay")))
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "absent")
	assert.Equal(t, Missing, err)

	require.NoError(t, store.Set(ctx, "present", []byte("data")))
	data, err := store.Get(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)
}

func TestFSStore(t *testing.T) {
	testStore(t, FSStore(t.TempDir()))
}

func TestMemoryStore(t *testing.T) {
	store, err := NewMemoryStore(2)
	require.NoError(t, err)
	testStore(t, store)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a", []byte("a")))
	require.NoError(t, store.Set(ctx, "b", []byte("b")))
	assert.Equal(t, 2, store.Len())

	// "present" was least recently used
	_, err = store.Get(ctx, "present")
	assert.Equal(t, Missing, err)
}

func TestLayered(t *testing.T) {
	ctx := context.Background()

	memory, err := NewMemoryStore(8)
	require.NoError(t, err)
	disk := FSStore(t.TempDir())
	layered := Layered{memory, disk}

	testStore(t, layered)

	require.NoError(t, disk.Set(ctx, "cold", []byte("cold")))
	_, err = memory.Get(ctx, "cold")
	assert.Equal(t, Missing, err)

	data, err := layered.Get(ctx, "cold")
	require.NoError(t, err)
	assert.Equal(t, []byte("cold"), data)

	// Promoted to the front
	data, err = memory.Get(ctx, "cold")
	require.NoError(t, err)
	assert.Equal(t, []byte("cold"), data)
}
