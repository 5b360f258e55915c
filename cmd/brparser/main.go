package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cfoust/brparser/pkg/config"
	"github.com/cfoust/brparser/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version kong.VersionFlag `help:"Print version information and exit." short:"v"`
	Debug   bool             `help:"Whether to enable debug logging."`
	Configs []string         `help:"Configuration files, merged in order." name:"config" short:"c" type:"existingfile"`

	Parse ParseCmd `cmd:"" help:"Decode a single replay file."`
	Batch BatchCmd `cmd:"" help:"Decode many replay files concurrently."`

	Config struct {
	} `cmd:"" help:"Write brparser's default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("brparser"),
		kong.Description("a decoder for Brawlhalla replay files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf(
				"brparser %s (commit %s)\nbuilt %s",
				version.Version,
				version.GitCommit,
				version.BuildTime,
			),
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if ctx.Command() == "config" {
		os.Stdout.Write(config.DEFAULT)
		return
	}

	settings, err := config.Process(CLI.Configs)
	if err != nil {
		writeError(fmt.Errorf("failed to load configuration: %w", err))
	}

	if err := ctx.Run(settings); err != nil {
		writeError(err)
	}
}
