package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrIO            = fmt.Errorf("could not read replay")
	ErrDecompression = fmt.Errorf("could not decompress replay")
)

// KEY is XORed over the inflated stream, repeating every 64 bytes.
var KEY = [64]byte{
	0x6B, 0x10, 0xDE, 0x3C, 0x44, 0x4B, 0xD1, 0x46,
	0xA0, 0x10, 0x52, 0xC1, 0xB2, 0x31, 0xD3, 0x6A,
	0xFB, 0xAC, 0x11, 0xDE, 0x06, 0x68, 0x08, 0x78,
	0x8C, 0xD5, 0xB3, 0xF9, 0x6A, 0x40, 0xD6, 0x13,
	0x0C, 0xAE, 0x9D, 0xC5, 0xD4, 0x6B, 0x54, 0x72,
	0xFC, 0x57, 0x5D, 0x1A, 0x06, 0x73, 0xC2, 0x51,
	0x4B, 0xB0, 0xC9, 0x8C, 0x78, 0x04, 0x11, 0x7A,
	0xEF, 0x74, 0x3E, 0x46, 0x39, 0xA0, 0xC7, 0xA6,
}

// Decipher XORs data with KEY in place. Calling it twice restores the
// original bytes.
func Decipher(data []byte) {
	for i := range data {
		data[i] ^= KEY[i%len(KEY)]
	}
}

// Inflate reads the whole zlib stream from r into memory.
func Inflate(r io.Reader) ([]byte, error) {
	z, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer z.Close()

	data, err := io.ReadAll(z)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}

	return data, nil
}

// Transform turns the raw bytes of a replay file into the bitstream the
// chunk decoder reads.
func Transform(r io.Reader) ([]byte, error) {
	data, err := Inflate(r)
	if err != nil {
		return nil, err
	}

	Decipher(data)
	return data, nil
}

// ReadRaw returns the still compressed contents of the replay at path.
func ReadRaw(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrIO, path, err)
	}

	return raw, nil
}

// ReadFile drains the replay at path into memory and returns its
// deciphered bitstream.
func ReadFile(path string) ([]byte, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}

	return Transform(bytes.NewReader(raw))
}
