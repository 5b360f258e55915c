package bits

import (
	"bytes"
	"errors"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUint(t *testing.T) {
	// 101 then 20 bits of 0xABCDE, straddling byte boundaries
	var buffer bytes.Buffer
	w := bitio.NewWriter(&buffer)
	require.NoError(t, w.WriteBits(0b101, 3))
	require.NoError(t, w.WriteBits(0xABCDE, 20))
	require.NoError(t, w.WriteBits(0xDEADBEEF, 32))
	require.NoError(t, w.Close())

	c := NewCursor(buffer.Bytes())

	value, err := c.ReadUint(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b101), value)

	value, err = c.ReadUint(20)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDE), value)

	value, err = c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), value)

	assert.Equal(t, 55, c.Offset())
	assert.Equal(t, 1, c.Remaining())
}

func TestMostSignificantFirst(t *testing.T) {
	c := NewCursor([]byte{0x80, 0x01})

	set, err := c.ReadBool()
	require.NoError(t, err)
	assert.True(t, set)

	value, err := c.ReadUint(15)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), value)
}

func TestUnexpectedEnd(t *testing.T) {
	// 16 bits available, 6 consumed, 10 remain
	c := NewCursor([]byte{0xFF, 0xFF})
	_, err := c.ReadUint(6)
	require.NoError(t, err)

	_, err = c.ReadUint32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedEnd))

	// A failed read consumes nothing
	assert.Equal(t, 10, c.Remaining())

	_, err = NewCursor(nil).ReadBool()
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
}

func TestInvalidWidth(t *testing.T) {
	c := NewCursor([]byte{0, 0, 0, 0, 0})
	_, err := c.ReadUint(0)
	assert.Error(t, err)
	_, err = c.ReadUint(33)
	assert.Error(t, err)
}

func TestReadString(t *testing.T) {
	var buffer bytes.Buffer
	w := bitio.NewWriter(&buffer)
	// Misalign on purpose
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteBits(uint64(len("Ranked ✓")), 16))
	_, err := w.Write([]byte("Ranked ✓"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c := NewCursor(buffer.Bytes())
	_, err = c.ReadBool()
	require.NoError(t, err)

	text, err := c.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "Ranked ✓", text)
}

func TestReadStringInvalid(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x02, 0xC3, 0x28})
	_, err := c.ReadString()
	assert.ErrorIs(t, err, ErrInvalidText)
}

func TestReadStringTruncated(t *testing.T) {
	c := NewCursor([]byte{0x00, 0x05, 'a', 'b'})
	_, err := c.ReadString()
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
}
