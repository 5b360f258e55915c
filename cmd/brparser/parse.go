package main

import (
	"fmt"

	"github.com/cfoust/brparser/pkg/config"
	"github.com/cfoust/brparser/pkg/output"
	"github.com/cfoust/brparser/pkg/replay"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ParseCmd struct {
	Replay  string `help:"Replay file to decode." short:"r" required:"" type:"path"`
	Output  string `help:"Where to write the decoded replay." short:"o" default:"output.json" type:"path"`
	Format  string `help:"Output format: json, yaml or cbor. Inferred from the output path when omitted."`
	Compact bool   `help:"Never indent the output, whatever the configuration says."`
	Trace   bool   `help:"Log every chunk the decoder reads."`
}

// resolveFormat prefers an explicit --format, then the output extension,
// then the configured format.
func resolveFormat(explicit string, path string, fallback output.Format) (output.Format, error) {
	if explicit != "" {
		return output.ParseFormat(explicit)
	}

	return output.FormatFor(path, fallback), nil
}

// traceLevel hides unknown tags unless debugging. A stream without an end
// chunk finishes with zero padding that reads as tag 0.
func traceLevel(tag replay.ChunkTag) zerolog.Level {
	if tag < replay.CHUNK_INPUTS || tag > replay.CHUNK_RESULTS {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (c *ParseCmd) Run(settings *config.Config) error {
	format, err := resolveFormat(c.Format, c.Output, settings.Output.Format)
	if err != nil {
		return err
	}

	pretty := settings.Output.Pretty && !c.Compact

	data, err := replay.ReadFile(c.Replay)
	if err != nil {
		return fmt.Errorf("failed to read replay: %w", err)
	}

	var observe replay.Observer
	if c.Trace {
		observe = func(tag replay.ChunkTag, from, to int) {
			log.WithLevel(traceLevel(tag)).
				Str("chunk", tag.String()).
				Int("from", from).
				Int("to", to).
				Msgf("%d bits", to-from)
		}
	}

	decoded, err := replay.DecodeWith(data, observe)
	if err != nil {
		return fmt.Errorf("failed to parse replay: %w", err)
	}

	encoded, err := output.EncodeReplay(decoded, format, pretty)
	if err != nil {
		return err
	}

	if err := output.WriteBytes(encoded, c.Output); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}

	fmt.Printf("Replay written to %s\n", c.Output)
	return nil
}
