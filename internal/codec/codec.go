// Package codec implements the PlantUML text encoding: source text is
// DEFLATE-compressed and then written in a base64 variant using the PlantUML
// alphabet, producing a compact URL-safe string suitable for a request path
// segment. The transform is deterministic and lossless; Decode inverts
// Encode exactly.
package codec

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"strings"
)

// Name identifies the transform in diagnostics.
const Name = "deflate"

// The PlantUML base64 alphabet. Note the order differs from standard
// base64: digits first, then upper, lower, '-', '_'.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Encode transforms text into its PlantUML path encoding.
func Encode(text string) (string, error) {
	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("init deflate: %w", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish deflate: %w", err)
	}
	return encode64(compressed.Bytes()), nil
}

// Decode inverts Encode. It exists so round-trip fidelity is verifiable
// locally; the renderer runs its own decoder server-side.
func Decode(encoded string) (string, error) {
	if len(encoded)%4 != 0 {
		return "", fmt.Errorf("invalid encoded length %d: must be a multiple of 4", len(encoded))
	}
	compressed, err := decode64(encoded)
	if err != nil {
		return "", err
	}

	// Groups of 3 bytes are zero-padded during encoding; the padding sits
	// past the end of the DEFLATE stream and is ignored by the reader.
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("inflate: %w", err)
	}
	return string(text), nil
}

// encode64 packs each group of 3 bytes into 4 alphabet characters. Short
// trailing groups are padded with zero bytes, always yielding full groups.
func encode64(data []byte) string {
	var sb strings.Builder
	sb.Grow((len(data) + 2) / 3 * 4)
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		sb.WriteByte(alphabet[b1>>2])
		sb.WriteByte(alphabet[((b1&0x03)<<4)|(b2>>4)])
		sb.WriteByte(alphabet[((b2&0x0F)<<2)|(b3>>6)])
		sb.WriteByte(alphabet[b3&0x3F])
	}
	return sb.String()
}

func decode64(encoded string) ([]byte, error) {
	out := make([]byte, 0, len(encoded)/4*3)
	for i := 0; i < len(encoded); i += 4 {
		var vals [4]byte
		for j := 0; j < 4; j++ {
			v := decodeTable[encoded[i+j]]
			if v < 0 {
				return nil, fmt.Errorf("invalid character %q at position %d", encoded[i+j], i+j)
			}
			vals[j] = byte(v)
		}
		out = append(out,
			(vals[0]<<2)|(vals[1]>>4),
			(vals[1]<<4)|(vals[2]>>2),
			(vals[2]<<6)|vals[3],
		)
	}
	return out, nil
}
