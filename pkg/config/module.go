package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	J "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaFile string

//go:embed default.yaml
var DEFAULT []byte

// build turns the contents of a config file into a cue value. The file
// extension picks the decoder.
func build(ctx *cue.Context, name string, data []byte) (cue.Value, error) {
	switch filepath.Ext(name) {
	case ".json":
		expr, err := J.Extract(name, data)
		if err != nil {
			return cue.Value{}, err
		}

		value := ctx.BuildExpr(expr)
		return value, value.Err()
	case ".yaml", ".yml":
		file, err := yaml.Extract(name, data)
		if err != nil {
			return cue.Value{}, err
		}

		value := ctx.BuildFile(file)
		return value, value.Err()
	}

	return cue.Value{}, fmt.Errorf("not in a valid format")
}

func readFile(ctx *cue.Context, path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, err
	}

	return build(ctx, path, data)
}

// Process unifies the given config files, in order, with the schema.
// Without any files the embedded default is used. Fields a file leaves
// out take their schema defaults.
func Process(configPaths []string) (*Config, error) {
	ctx := cuecontext.New()

	config := ctx.CompileString(schemaFile)
	if err := config.Err(); err != nil {
		return nil, err
	}

	if len(configPaths) == 0 {
		value, err := build(ctx, "<default>.yaml", DEFAULT)
		if err != nil {
			return nil, err
		}

		config = config.Unify(value)
		if err := config.Err(); err != nil {
			return nil, fmt.Errorf(
				"invalid default config file: %v",
				err,
			)
		}
	}

	for _, path := range configPaths {
		value, err := readFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %w",
				path,
				err,
			)
		}

		config = config.Unify(value)
		if err := config.Err(); err != nil {
			return nil, fmt.Errorf(
				"could not merge config file %s: %v",
				path,
				err,
			)
		}

		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf(
				"config file %s is not valid: %v",
				path,
				err,
			)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	data, err := config.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf(
			"could not aggregate config: %v",
			err,
		)
	}

	result := Config{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
