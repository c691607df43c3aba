// Package id generates sortable string identifiers.
package id

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, which drops I, L, O, and U so identifiers
// survive being read aloud or retyped.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character Crockford base32 identifier. It is built
// on UUIDv7, which shares the ULID layout of 48 timestamp bits followed by
// random bits, so values sort by creation time wherever their string form
// sorts lexicographically.
func NewULID() string {
	u := uuid.Must(uuid.NewV7())
	var dst [26]byte
	encode(dst[:], u[:], 2)
	return string(dst[:])
}

// NewShortID returns a 16-character sortable identifier: 30 timestamp bits
// (six leading characters, wrapping every ~34 years) and 50 random bits.
// Use it where a ULID reads too long, e.g. generated file names.
func NewShortID() string {
	var src [10]byte
	ts := uint32(time.Now().UnixMilli()) & 0x3FFFFFFF
	src[0] = byte(ts >> 22)
	src[1] = byte(ts >> 14)
	src[2] = byte(ts >> 6)
	src[3] = byte(ts << 2)

	var rnd [7]byte
	// crypto/rand.Read cannot fail as of Go 1.24.
	_, _ = rand.Read(rnd[:])
	src[3] |= rnd[0] & 0x03
	copy(src[4:], rnd[1:])

	var dst [16]byte
	encode(dst[:], src[:], 0)
	return string(dst[:])
}

// encode writes src as Crockford base32, most significant bits first,
// preceded by pad zero bits so the total divides evenly into 5-bit groups.
// dst must hold exactly (pad + 8*len(src)) / 5 bytes.
func encode(dst, src []byte, pad uint) {
	acc, bits := uint(0), pad
	di := 0
	for _, b := range src {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			dst[di] = alphabet[(acc>>bits)&0x1F]
			di++
		}
	}
}
