package io

import (
	"encoding/binary"
	"io"
)

// ReadImage reads a flat image of little endian 16-bit words. Images of
// more than limit words are rejected.
func ReadImage(input io.Reader, limit int) (image []uint16, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	if len(data)%2 != 0 {
		err = ErrImageOdd
		return
	}

	if len(data)/2 > limit {
		err = ErrImageTooLarge
		return
	}

	image = make([]uint16, len(data)/2)
	for n := range image {
		image[n] = binary.LittleEndian.Uint16(data[n*2:])
	}

	return
}

// WriteImage writes a flat image of little endian 16-bit words.
func WriteImage(output io.Writer, image []uint16) (err error) {
	data := make([]byte, 0, len(image)*2)
	for _, word := range image {
		data = binary.LittleEndian.AppendUint16(data, word)
	}

	_, err = output.Write(data)
	return
}
