package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cfoust/brparser/pkg/replay"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatCBOR:
		return FormatCBOR, nil
	}

	return "", fmt.Errorf("unknown output format '%s'", name)
}

// FormatFor infers the format from path's extension, falling back to
// fallback when the extension is not one we write.
func FormatFor(path string, fallback Format) Format {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fallback
	}
	return format
}

// cbor's canonical mode sorts map keys, so the same replay always encodes
// to the same bytes.
var cborMode, _ = cbor.CanonicalEncOptions().EncMode()

func Encode(value interface{}, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		if pretty {
			return json.MarshalIndent(value, "", "  ")
		}
		return json.Marshal(value)
	case FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	case FormatCBOR:
		return cborMode.Marshal(value)
	}

	return nil, fmt.Errorf("unknown output format '%s'", format)
}

func EncodeReplay(r *replay.Replay, format Format, pretty bool) ([]byte, error) {
	return Encode(r, format, pretty)
}

// DecodeReplay reverses EncodeReplay for the formats that can be read back.
func DecodeReplay(data []byte, format Format) (*replay.Replay, error) {
	r := replay.Replay{}

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &r)
	default:
		err = fmt.Errorf("unknown output format '%s'", format)
	}

	if err != nil {
		return nil, err
	}

	return &r, nil
}

func FileExists(path string) bool {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return true
	}
	return false
}

// WriteBytes reports a failure to flush the file on close as well as on
// write.
func WriteBytes(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
