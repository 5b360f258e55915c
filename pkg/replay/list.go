package replay

import (
	"github.com/cfoust/brparser/pkg/bits"
)

// readList decodes elements for as long as the bit preceding each one is
// set. A clear bit ends the list; there is never an explicit count.
func readList(c *bits.Cursor, element func() error) error {
	for {
		more, err := c.ReadBool()
		if err != nil {
			return err
		}

		if !more {
			return nil
		}

		if err := element(); err != nil {
			return err
		}
	}
}

func collect[T any](c *bits.Cursor, read func(c *bits.Cursor) (T, error)) ([]T, error) {
	items := make([]T, 0)
	err := readList(c, func() error {
		item, err := read(c)
		if err != nil {
			return err
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func readUint32s(c *bits.Cursor, targets ...*uint32) error {
	for _, target := range targets {
		value, err := c.ReadUint32()
		if err != nil {
			return err
		}
		*target = value
	}

	return nil
}

func readUint16s(c *bits.Cursor, targets ...*uint16) error {
	for _, target := range targets {
		value, err := c.ReadUint16()
		if err != nil {
			return err
		}
		*target = value
	}

	return nil
}
