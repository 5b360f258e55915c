package replay

import (
	"fmt"
	"io"

	"github.com/cfoust/brparser/pkg/bits"
)

var (
	ErrUnexpectedEnd = bits.ErrUnexpectedEnd
	ErrInvalidText   = bits.ErrInvalidText
)

const (
	VERSION_BITS = 32
	TAG_BITS     = 4
)

type ChunkTag uint32

const (
	CHUNK_INPUTS   ChunkTag = 1
	CHUNK_END      ChunkTag = 2
	CHUNK_METADATA ChunkTag = 3
	CHUNK_SETTINGS ChunkTag = 4
	CHUNK_DEATHS   ChunkTag = 5
	CHUNK_RESULTS  ChunkTag = 6
)

func (t ChunkTag) String() string {
	switch t {
	case CHUNK_INPUTS:
		return "inputs"
	case CHUNK_END:
		return "end"
	case CHUNK_METADATA:
		return "metadata"
	case CHUNK_SETTINGS:
		return "settings"
	case CHUNK_DEATHS:
		return "deaths"
	case CHUNK_RESULTS:
		return "results"
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

// Observer is called after each chunk is decoded with the bit offsets the
// chunk's tag started at and its payload ended at.
type Observer func(tag ChunkTag, from, to int)

// decoder owns the replay while it is being built. Chunks mutate it in the
// order they appear in the stream.
type decoder struct {
	cursor *bits.Cursor
	replay *Replay
}

func newDecoder(data []byte) *decoder {
	return &decoder{
		cursor: bits.NewCursor(data),
		replay: &Replay{
			Entities: make([]Entity, 0),
			Inputs:   make(map[uint32][]Input),
			Deaths:   make([]Death, 0),
			Results:  make(map[uint32]uint16),
		},
	}
}

func (d *decoder) metadata() (err error) {
	c := d.cursor
	r := d.replay

	if err := readUint32s(c, &r.RandomSeed, &r.PlaylistID); err != nil {
		return err
	}

	if r.PlaylistName, err = c.ReadString(); err != nil {
		return err
	}

	r.OnlineGame, err = c.ReadBool()
	return err
}

func (d *decoder) settings() (err error) {
	c := d.cursor
	r := d.replay

	if r.GameSettings, err = readSettings(c); err != nil {
		return err
	}

	if err := readUint32s(c, &r.LevelID); err != nil {
		return err
	}

	// Every entity in this chunk has exactly this many heroes
	if r.HeroCount, err = c.ReadUint16(); err != nil {
		return err
	}

	heroCount := r.HeroCount
	r.Entities, err = collect(c, func(c *bits.Cursor) (Entity, error) {
		return readEntity(c, heroCount)
	})
	if err != nil {
		return err
	}

	r.Checksum, err = c.ReadUint32()
	return err
}

func (d *decoder) results() (err error) {
	c := d.cursor
	r := d.replay

	if r.Length, err = c.ReadUint32(); err != nil {
		return err
	}

	if r.Results, err = readResults(c); err != nil {
		return err
	}

	r.EndOfMatchFanfareID, err = c.ReadUint32()
	return err
}

// chunk decodes the payload that follows tag and reports whether the stream
// is finished. Unknown tags have no payload.
func (d *decoder) chunk(tag ChunkTag) (bool, error) {
	switch tag {
	case CHUNK_INPUTS:
		inputs, err := readInputs(d.cursor)
		if err != nil {
			return false, err
		}
		d.replay.Inputs = inputs
		return false, nil
	case CHUNK_END:
		return true, nil
	case CHUNK_METADATA:
		return false, d.metadata()
	case CHUNK_SETTINGS:
		return false, d.settings()
	case CHUNK_DEATHS:
		deaths, err := readDeaths(d.cursor)
		if err != nil {
			return false, err
		}
		d.replay.Deaths = deaths
		return false, nil
	case CHUNK_RESULTS:
		return false, d.results()
	default:
		return false, nil
	}
}

func (d *decoder) run(observe Observer) error {
	version, err := d.cursor.ReadUint(VERSION_BITS)
	if err != nil {
		return fmt.Errorf("could not read version: %w", err)
	}
	d.replay.Version = version

	for d.cursor.Remaining() >= TAG_BITS {
		from := d.cursor.Offset()

		value, err := d.cursor.ReadUint(TAG_BITS)
		if err != nil {
			return err
		}
		tag := ChunkTag(value)

		done, err := d.chunk(tag)
		if err != nil {
			return fmt.Errorf("could not decode %s chunk at bit %d: %w", tag, from, err)
		}

		if observe != nil {
			observe(tag, from, d.cursor.Offset())
		}

		if done {
			break
		}
	}

	return nil
}

// DecodeWith decodes a deciphered bitstream, calling observe (if non-nil)
// after every chunk.
func DecodeWith(data []byte, observe Observer) (*Replay, error) {
	d := newDecoder(data)
	if err := d.run(observe); err != nil {
		return nil, err
	}

	return d.replay, nil
}

// Decode decodes a bitstream that has already been inflated and deciphered.
func Decode(data []byte) (*Replay, error) {
	return DecodeWith(data, nil)
}

// Parse decodes a replay from its raw, compressed form.
func Parse(r io.Reader) (*Replay, error) {
	data, err := Transform(r)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

func ParseFile(path string) (*Replay, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}
