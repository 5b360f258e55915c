package config

import (
	"time"

	"github.com/cfoust/brparser/pkg/output"
)

type OutputSettings struct {
	Format output.Format `json:"format"`
	Pretty bool          `json:"pretty"`
}

type CacheSettings struct {
	Directory string `json:"directory"`
	Redis     string `json:"redis"`
	Memory    int    `json:"memory"`
	// Seconds
	TTL int `json:"ttl"`
}

// Expiry is zero when redis entries never expire.
func (c CacheSettings) Expiry() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type IndexSettings struct {
	Database string `json:"database"`
}

type LibrarySettings struct {
	Workers int `json:"workers"`
}

type Config struct {
	Output  OutputSettings  `json:"output"`
	Cache   CacheSettings   `json:"cache"`
	Index   IndexSettings   `json:"index"`
	Library LibrarySettings `json:"library"`
}
