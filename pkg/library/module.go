package library

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/cfoust/brparser/pkg/cache"
	"github.com/cfoust/brparser/pkg/index"
	"github.com/cfoust/brparser/pkg/output"
	"github.com/cfoust/brparser/pkg/replay"

	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"gorm.io/gorm"
)

type Entry struct {
	Path    string
	Hash    string
	Cached  bool
	Summary replay.Summary
}

type Result struct {
	Path   string
	Replay *replay.Replay
	Entry  *Entry
	Err    error
}

// Library decodes replay files, remembering what it has seen. Store and DB
// are optional. The zero value decodes on a single worker.
type Library struct {
	Store   cache.Store
	DB      *gorm.DB
	Workers int
	Events  *Topic[Event]

	entries map[string]*Entry
	mutex   deadlock.RWMutex
}

func New(store cache.Store, db *gorm.DB, workers int) *Library {
	return &Library{
		Store:   store,
		DB:      db,
		Workers: max(workers, 1),
		Events:  NewTopic[Event](),
		entries: make(map[string]*Entry),
	}
}

// events returns Events, creating it for libraries built without New.
func (l *Library) events() *Topic[Event] {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.Events == nil {
		l.Events = NewTopic[Event]()
	}
	return l.Events
}

// Subscribe follows the progress of every decode.
func (l *Library) Subscribe() *Subscriber[Event] {
	return l.events().Subscribe()
}

func (l *Library) fromCache(ctx context.Context, key string) *replay.Replay {
	if l.Store == nil {
		return nil
	}

	logger := log.With().Str("key", key).Logger()

	data, err := l.Store.Get(ctx, key)
	if err == cache.Missing {
		return nil
	}

	if err != nil {
		logger.Warn().Err(err).Msg("cache lookup failed")
		return nil
	}

	decoded, err := output.DecodeReplay(data, output.FormatCBOR)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable cache entry")
		return nil
	}

	return decoded
}

func (l *Library) toCache(ctx context.Context, key string, decoded *replay.Replay) {
	if l.Store == nil {
		return
	}

	data, err := output.EncodeReplay(decoded, output.FormatCBOR, false)
	if err == nil {
		err = l.Store.Set(ctx, key, data)
	}

	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache replay")
	}
}

// DecodeFile decodes the replay at path, or fetches the decoded form from
// the store if the same file was decoded before.
func (l *Library) DecodeFile(ctx context.Context, path string) (*replay.Replay, *Entry, error) {
	logger := log.With().Str("replay", path).Logger()

	raw, err := replay.ReadRaw(path)
	if err != nil {
		l.events().Publish(Event{Kind: EventFailed, Path: path, Err: err})
		return nil, nil, err
	}

	key := cache.Key(raw)

	decoded := l.fromCache(ctx, key)
	cached := decoded != nil
	if !cached {
		decoded, err = replay.Parse(bytes.NewReader(raw))
		if err != nil {
			l.events().Publish(Event{Kind: EventFailed, Path: path, Err: err})
			return nil, nil, err
		}

		l.toCache(ctx, key, decoded)
	}

	entry := &Entry{
		Path:    path,
		Hash:    key,
		Cached:  cached,
		Summary: decoded.Summarize(),
	}

	if l.DB != nil {
		if _, err := index.Record(l.DB, key, path, entry.Summary); err != nil {
			logger.Warn().Err(err).Msg("failed to index replay")
		}
	}

	l.mutex.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*Entry)
	}
	l.entries[path] = entry
	l.mutex.Unlock()

	kind := EventDecoded
	if cached {
		kind = EventCached
	}
	l.events().Publish(Event{Kind: kind, Path: path})

	logger.Debug().
		Str("hash", key).
		Bool("cached", cached).
		Int("entities", len(decoded.Entities)).
		Msg("decoded replay")

	return decoded, entry, nil
}

// DecodeAll decodes paths on Workers goroutines. Results are in the same
// order as paths; one failure does not stop the others.
func (l *Library) DecodeAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < max(l.Workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				path := paths[job]
				result := Result{Path: path}

				if err := ctx.Err(); err != nil {
					result.Err = err
				} else {
					result.Replay, result.Entry, result.Err = l.DecodeFile(ctx, path)
				}

				results[job] = result
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (l *Library) Lookup(path string) opt.Option[Entry] {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	entry, ok := l.entries[path]
	if !ok {
		return opt.None[Entry]()
	}

	return opt.Some(*entry)
}

func (l *Library) Entries() []Entry {
	l.mutex.RLock()
	entries := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, *entry)
	}
	l.mutex.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}
