package library

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cfoust/brparser/pkg/cache"
	"github.com/cfoust/brparser/pkg/index"
	"github.com/cfoust/brparser/pkg/replay"

	"github.com/icza/bitio"
	"github.com/klauspost/compress/zlib"
	"github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeReplay writes a replay with only match metadata to dir.
func writeReplay(t *testing.T, dir string, name string, seed uint32) string {
	var stream bytes.Buffer
	w := bitio.NewWriter(&stream)
	require.NoError(t, w.WriteBits(209, 32))
	require.NoError(t, w.WriteBits(uint64(replay.CHUNK_METADATA), replay.TAG_BITS))
	require.NoError(t, w.WriteBits(uint64(seed), 32))
	require.NoError(t, w.WriteBits(1, 32))
	require.NoError(t, w.WriteBits(uint64(len(name)), 16))
	_, err := w.Write([]byte(name))
	require.NoError(t, err)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteBits(uint64(replay.CHUNK_END), replay.TAG_BITS))
	require.NoError(t, w.Close())

	data := stream.Bytes()
	replay.Decipher(data)

	var compressed bytes.Buffer
	z := zlib.NewWriter(&compressed)
	_, err = z.Write(data)
	require.NoError(t, err)
	require.NoError(t, z.Close())

	path := filepath.Join(dir, name+".replay")
	require.NoError(t, os.WriteFile(path, compressed.Bytes(), 0644))
	return path
}

func TestDecodeAll(t *testing.T) {
	dir := t.TempDir()

	paths := []string{
		writeReplay(t, dir, "first", 1),
		writeReplay(t, dir, "second", 2),
		filepath.Join(dir, "missing.replay"),
		writeReplay(t, dir, "third", 3),
	}

	broken := filepath.Join(dir, "broken.replay")
	require.NoError(t, os.WriteFile(broken, []byte("not a replay"), 0644))
	paths = append(paths, broken)

	library := New(nil, nil, 3)
	results := library.DecodeAll(context.Background(), paths)
	require.Len(t, results, len(paths))

	for i, seed := range []uint32{1, 2} {
		require.NoError(t, results[i].Err)
		assert.Equal(t, seed, results[i].Replay.RandomSeed)
	}
	require.NoError(t, results[3].Err)
	assert.Equal(t, "third", results[3].Replay.PlaylistName)

	assert.ErrorIs(t, results[2].Err, replay.ErrIO)
	assert.ErrorIs(t, results[4].Err, replay.ErrDecompression)

	assert.Len(t, library.Entries(), 3)

	entry := library.Lookup(paths[1])
	require.True(t, opt.IsSome(entry))
	assert.Equal(t, "second", entry.Value.Summary.PlaylistName)
	assert.True(t, opt.IsNone(library.Lookup(broken)))
}

func TestCached(t *testing.T) {
	dir := t.TempDir()
	path := writeReplay(t, dir, "cached", 7)

	store, err := cache.NewMemoryStore(4)
	require.NoError(t, err)

	db, err := index.InitDB(filepath.Join(dir, "index.db"))
	require.NoError(t, err)

	library := New(store, db, 1)

	first, entry, err := library.DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, entry.Cached)
	assert.Equal(t, 1, store.Len())

	second, entry, err := library.DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, entry.Cached)
	assert.Equal(t, first.RandomSeed, second.RandomSeed)
	assert.Equal(t, first.Summarize(), second.Summarize())

	match, err := index.Find(db, entry.Hash)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "cached", match.PlaylistName)
	assert.Equal(t, path, match.Path)
}

func TestEvents(t *testing.T) {
	dir := t.TempDir()
	library := New(nil, nil, 2)

	subscriber := library.Subscribe()

	var events []Event
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for event := range subscriber.Recv() {
			events = append(events, event)
		}
	}()

	library.DecodeAll(context.Background(), []string{
		writeReplay(t, dir, "a", 1),
		filepath.Join(dir, "b.replay"),
	})

	subscriber.Done()
	wg.Wait()

	kinds := make(map[string]EventKind)
	for _, event := range events {
		kinds[filepath.Base(event.Path)] = event.Kind
	}

	assert.Equal(t, map[string]EventKind{
		"a.replay": EventDecoded,
		"b.replay": EventFailed,
	}, kinds)
}

func TestCancelled(t *testing.T) {
	dir := t.TempDir()
	library := New(nil, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := library.DecodeAll(ctx, []string{writeReplay(t, dir, "a", 1)})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestZeroValue(t *testing.T) {
	dir := t.TempDir()
	path := writeReplay(t, dir, "literal", 5)

	library := &Library{}

	var results []Result
	assert.NotPanics(t, func() {
		results = library.DecodeAll(context.Background(), []string{
			path,
			filepath.Join(dir, "missing.replay"),
		})
	})
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.Equal(t, uint32(5), results[0].Replay.RandomSeed)
	assert.ErrorIs(t, results[1].Err, replay.ErrIO)

	entry := library.Lookup(path)
	require.True(t, opt.IsSome(entry))
	assert.Equal(t, "literal", entry.Value.Summary.PlaylistName)

	single := &Library{Workers: 1}
	assert.NotPanics(t, func() {
		_, _, err := single.DecodeFile(context.Background(), path)
		assert.NoError(t, err)
	})
	assert.Len(t, single.Entries(), 1)
}
