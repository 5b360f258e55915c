package replay

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// stream writes fields in the same layout the decoder reads them.
type stream struct {
	t      *testing.T
	buffer bytes.Buffer
	writer *bitio.Writer
}

func newStream(t *testing.T, version uint32) *stream {
	s := &stream{t: t}
	s.writer = bitio.NewWriter(&s.buffer)
	return s.bits(uint64(version), VERSION_BITS)
}

func (s *stream) bits(value uint64, n uint8) *stream {
	require.NoError(s.t, s.writer.WriteBits(value, n))
	return s
}

func (s *stream) u32(value uint32) *stream {
	return s.bits(uint64(value), 32)
}

func (s *stream) u16(value uint16) *stream {
	return s.bits(uint64(value), 16)
}

func (s *stream) flag(value bool) *stream {
	require.NoError(s.t, s.writer.WriteBool(value))
	return s
}

func (s *stream) id(value uint32) *stream {
	return s.bits(uint64(value), ENTITY_ID_BITS)
}

func (s *stream) str(value string) *stream {
	s.u16(uint16(len(value)))
	_, err := s.writer.Write([]byte(value))
	require.NoError(s.t, err)
	return s
}

func (s *stream) tag(tag ChunkTag) *stream {
	return s.bits(uint64(tag), TAG_BITS)
}

func (s *stream) bytes() []byte {
	require.NoError(s.t, s.writer.Close())
	return s.buffer.Bytes()
}

type testEntity struct {
	id        uint32
	name      string
	team      uint32
	taunts    []uint32
	bot       bool
	handicaps []uint32 // wire order
}

func (s *stream) entity(e testEntity, heroCount uint16) *stream {
	s.u32(e.id).str(e.name)

	// color scheme, spawn bot, companion, emitter, trail effect, theme
	for i := uint32(0); i < 6; i++ {
		s.u32(100 + i)
	}

	for i := uint32(0); i < NUM_TAUNTS; i++ {
		s.u32(200 + i)
	}
	s.u16(301).u16(302)

	for _, taunt := range e.taunts {
		s.flag(true).u32(taunt)
	}
	s.flag(false)

	s.u16(400).u32(e.team).u32(500)

	for i := uint16(0); i < heroCount; i++ {
		s.u32(uint32(i) + 1).u32(600).u32(1).u16(700).u16(701)
	}

	s.flag(e.bot)
	s.flag(len(e.handicaps) > 0)
	for _, value := range e.handicaps {
		s.u32(value)
	}

	return s
}

func (s *stream) settings(level uint32, heroCount uint16, entities ...testEntity) *stream {
	s.tag(CHUNK_SETTINGS)
	for i := uint32(1); i <= 15; i++ {
		s.u32(i)
	}
	s.u32(level).u16(heroCount)

	for _, e := range entities {
		s.flag(true)
		s.entity(e, heroCount)
	}
	s.flag(false)

	return s.u32(0xC0FFEE)
}

// compress produces the on-disk form of a bitstream.
func compress(t *testing.T, data []byte) []byte {
	enciphered := append([]byte{}, data...)
	Decipher(enciphered)

	var buffer bytes.Buffer
	w := zlib.NewWriter(&buffer)
	_, err := w.Write(enciphered)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buffer.Bytes()
}
