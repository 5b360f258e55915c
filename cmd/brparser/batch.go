package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cfoust/brparser/pkg/cache"
	"github.com/cfoust/brparser/pkg/config"
	"github.com/cfoust/brparser/pkg/index"
	"github.com/cfoust/brparser/pkg/library"
	"github.com/cfoust/brparser/pkg/output"

	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const REPLAY_EXTENSION = ".replay"

type BatchCmd struct {
	Paths  []string `arg:"" name:"paths" help:"Replay files, or directories to search for them." type:"existingpath"`
	OutDir string   `help:"Directory to write decoded replays to. Nothing is written when empty." type:"path"`
	Format string   `help:"Output format: json, yaml or cbor. Defaults to the configured format."`
	Force  bool     `help:"Overwrite outputs that already exist."`
}

// openStore stacks every store the configuration enables, fastest first.
func openStore(ctx context.Context, settings config.CacheSettings) (cache.Store, error) {
	var stores cache.Layered

	if settings.Memory > 0 {
		memory, err := cache.NewMemoryStore(settings.Memory)
		if err != nil {
			return nil, err
		}
		stores = append(stores, memory)
	}

	if settings.Redis != "" {
		client := redis.NewClient(&redis.Options{
			Addr: settings.Redis,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("could not reach redis at %s: %w", settings.Redis, err)
		}
		stores = append(stores, cache.NewRedisStore(client, settings.Expiry()))
	}

	if settings.Directory != "" {
		stores = append(stores, cache.FSStore(settings.Directory))
	}

	switch len(stores) {
	case 0:
		return nil, nil
	case 1:
		return stores[0], nil
	}

	return stores, nil
}

func openIndex(settings config.IndexSettings) (*gorm.DB, error) {
	if settings.Database == "" {
		return nil, nil
	}

	db, err := index.InitDB(settings.Database)
	if err != nil {
		return nil, fmt.Errorf("could not open index %s: %w", settings.Database, err)
	}

	return db, nil
}

// findReplays expands directories into the replay files beneath them.
func findReplays(paths []string) ([]string, error) {
	var replays []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			replays = append(replays, path)
			continue
		}

		err = filepath.WalkDir(path, func(file string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !entry.IsDir() && strings.EqualFold(filepath.Ext(file), REPLAY_EXTENSION) {
				replays = append(replays, file)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return replays, nil
}

func outputPath(dir string, path string, format output.Format) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, fmt.Sprintf("%s.%s", name, format))
}

func (c *BatchCmd) Run(settings *config.Config) error {
	format := settings.Output.Format
	if c.Format != "" {
		parsed, err := output.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = parsed
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	paths, err := findReplays(c.Paths)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("no replays found")
	}

	store, err := openStore(ctx, settings.Cache)
	if err != nil {
		return err
	}

	db, err := openIndex(settings.Index)
	if err != nil {
		return err
	}

	lib := library.New(store, db, settings.Library.Workers)

	subscriber := lib.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for event := range subscriber.Recv() {
			logger := log.With().Str("replay", event.Path).Logger()
			if event.Kind == library.EventFailed {
				logger.Error().Err(event.Err).Msg("failed to decode replay")
				continue
			}
			logger.Debug().Msgf("%s", event.Kind)
		}
	}()

	log.Info().Msgf("decoding %d replays with %d workers", len(paths), lib.Workers)
	results := lib.DecodeAll(ctx, paths)

	subscriber.Done()
	wg.Wait()

	var cached, failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}

		if result.Entry.Cached {
			cached++
		}

		if c.OutDir == "" {
			continue
		}

		target := outputPath(c.OutDir, result.Path, format)
		if !c.Force && output.FileExists(target) {
			log.Warn().Str("output", target).Msg("output exists, skipping")
			continue
		}

		data, err := output.EncodeReplay(result.Replay, format, settings.Output.Pretty)
		if err == nil {
			err = output.WriteBytes(data, target)
		}
		if err != nil {
			log.Error().Err(err).Str("output", target).Msg("failed to write replay")
			failed++
		}
	}

	log.Info().
		Int("cached", cached).
		Int("failed", failed).
		Msgf("processed %d replays", len(results))

	if failed > 0 {
		return fmt.Errorf("%d of %d replays failed", failed, len(results))
	}

	return nil
}
