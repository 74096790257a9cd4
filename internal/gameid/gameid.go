// Package gameid produces round identifiers: UUIDv7 values rendered as
// 26-character lowercase Crockford base32, so they sort by creation time.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

// Generator creates round IDs from an optional entropy source
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new round ID with the default entropy source
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new round ID
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewV7FromReader(g.entropy)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("gameid: failed to generate UUIDv7: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID as 26 base32 characters. The 128 bits are treated as
// a 130-bit number with two leading zero bits, so the first character is
// always in 0-7.
func Encode(id uuid.UUID) string {
	var sb strings.Builder
	sb.Grow(Length)

	// 3 bits for the first character, then 25 groups of 5
	bit := 0
	for i := 0; i < Length; i++ {
		width := 5
		if i == 0 {
			width = 3
		}
		var v byte
		for j := 0; j < width; j++ {
			b := (id[bit/8] >> (7 - uint(bit%8))) & 1
			v = v<<1 | b
			bit++
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Decode parses an encoded ID back into a UUID
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}

	bit := 0
	for i := 0; i < Length; i++ {
		v := byte(strings.IndexByte(alphabet, s[i]))
		width := 5
		if i == 0 {
			width = 3
		}
		for j := width - 1; j >= 0; j-- {
			if (v>>uint(j))&1 == 1 {
				id[bit/8] |= 1 << (7 - uint(bit%8))
			}
			bit++
		}
	}
	return id, nil
}

// Validate checks if a round ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}

	return nil
}
