package convert

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"fixed-format/descriptor"
)

// DefaultBitmapChunk is the hex width of one bitmap chunk when the field
// declares no width: 16 characters, 64 bits.
const DefaultBitmapChunk = 16

// Bitmap is an ISO 8583 style presence bitmap. Bits are numbered from 1; bit
// 1 of every chunk is the continuation flag announcing the next chunk.
type Bitmap []byte

// Set turns bit n on, growing the bitmap as needed.
func (b *Bitmap) Set(n int) {
	if n < 1 {
		return
	}

	i := (n - 1) / 8
	for len(*b) <= i {
		*b = append(*b, 0)
	}

	(*b)[i] |= 0x80 >> ((n - 1) % 8)
}

// Has reports whether bit n is on.
func (b Bitmap) Has(n int) bool {
	i := (n - 1) / 8
	if n < 1 || i >= len(b) {
		return false
	}

	return b[i]&(0x80>>((n-1)%8)) != 0
}

// Fields returns the set data bits in ascending order, skipping the
// continuation flags of chunks of chunkBytes bytes.
func (b Bitmap) Fields(chunkBytes int) []int {
	bits := chunkBytes * 8

	var out []int

	for n := 1; n <= len(b)*8; n++ {
		if (n-1)%bits == 0 {
			continue
		}

		if b.Has(n) {
			out = append(out, n)
		}
	}

	return out
}

// normalize returns the chunks needed to hold every data bit, at least one,
// with continuation flags set on all but the last.
func (b Bitmap) normalize(chunkBytes int) []byte {
	chunks := 1

	for i, v := range b {
		mask := byte(0xFF)
		if i%chunkBytes == 0 {
			mask = 0x7F
		}

		if v&mask != 0 {
			chunks = i/chunkBytes + 1
		}
	}

	out := make([]byte, chunks*chunkBytes)
	copy(out, b)

	for c := range chunks {
		if c < chunks-1 {
			out[c*chunkBytes] |= 0x80
		} else {
			out[c*chunkBytes] &^= 0x80
		}
	}

	return out
}

func chunkWidth(d descriptor.Descriptor) (int, error) {
	w := d.Width
	if w == 0 {
		w = DefaultBitmapChunk
	}

	if w%2 != 0 {
		return 0, fmt.Errorf("bitmap chunk width %d is not a whole number of bytes", w)
	}

	return w, nil
}

// bitmapConverter writes and reads as many chunks as the continuation flags
// call for, so its width is only known from the data.
type bitmapConverter struct{}

func (bitmapConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	w, err := chunkWidth(d)
	if err != nil {
		return "", err
	}

	b := Bitmap(v.Bytes())

	return strings.ToUpper(hex.EncodeToString(b.normalize(w / 2))), nil
}

func (c bitmapConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	v, _, err := c.ParseSpan(d, text)
	return v, err
}

func (bitmapConverter) ParseSpan(d descriptor.Descriptor, input string) (reflect.Value, int, error) {
	w, err := chunkWidth(d)
	if err != nil {
		return reflect.Value{}, 0, err
	}

	var (
		out      Bitmap
		consumed int
	)

	for {
		if len(input)-consumed < w {
			return reflect.Value{}, consumed, fmt.Errorf("bitmap chunk %d needs %d characters, %d left",
				consumed/w+1, w, len(input)-consumed)
		}

		chunk, err := hex.DecodeString(input[consumed : consumed+w])
		if err != nil {
			return reflect.Value{}, consumed, err
		}

		out = append(out, chunk...)
		consumed += w

		if chunk[0]&0x80 == 0 {
			break
		}
	}

	return reflect.ValueOf(out).Convert(targetOr(d, reflect.TypeFor[Bitmap]())), consumed, nil
}
