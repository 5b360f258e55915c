package bits

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/icza/bitio"
)

var (
	ErrUnexpectedEnd = fmt.Errorf("unexpected end of stream")
	ErrInvalidText   = fmt.Errorf("invalid text")
)

// Cursor reads unaligned, most-significant-bit-first fields from a byte
// buffer. It only moves forward.
type Cursor struct {
	reader *bitio.Reader
	total  int
	offset int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{
		reader: bitio.NewReader(bytes.NewReader(data)),
		total:  len(data) * 8,
	}
}

// Offset is the number of bits consumed so far.
func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) Remaining() int {
	return c.total - c.offset
}

func (c *Cursor) ensure(n int) error {
	if remaining := c.Remaining(); remaining < n {
		return fmt.Errorf(
			"%w: wanted %d bits at offset %d, %d remain",
			ErrUnexpectedEnd,
			n,
			c.offset,
			remaining,
		)
	}
	return nil
}

func (c *Cursor) ReadUint(n uint8) (uint32, error) {
	if n == 0 || n > 32 {
		return 0, fmt.Errorf("cannot read %d bits into uint32", n)
	}

	if err := c.ensure(int(n)); err != nil {
		return 0, err
	}

	value, err := c.reader.ReadBits(n)
	if err != nil {
		return 0, err
	}
	c.offset += int(n)

	return uint32(value), nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	value, err := c.ReadUint(16)
	return uint16(value), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	return c.ReadUint(32)
}

func (c *Cursor) ReadBool() (bool, error) {
	if err := c.ensure(1); err != nil {
		return false, err
	}

	value, err := c.reader.ReadBool()
	if err != nil {
		return false, err
	}
	c.offset++

	return value, nil
}

// ReadString reads a 16-bit byte length followed by that many bytes of
// UTF-8 text.
func (c *Cursor) ReadString() (string, error) {
	length, err := c.ReadUint16()
	if err != nil {
		return "", err
	}

	if err := c.ensure(int(length) * 8); err != nil {
		return "", err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		return "", err
	}
	c.offset += int(length) * 8

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %q is not utf-8", ErrInvalidText, data)
	}

	return string(data), nil
}
