// Package address models the opaque account identifier the debt engine keys
// its ledger by. Addresses are fixed-width 20-byte values, compared
// byte-wise, with no ordering requirement and no partial construction.
package address

import (
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// Size is the fixed width, in bytes, of an account identifier.
const Size = 20

// HRP is the human-readable prefix used when rendering an ID as text.
const HRP = "dsc"

// ID is a 20-byte account identifier. It is comparable and usable as a map
// key directly; the zero value is the all-zero address.
type ID [Size]byte

// IsZero reports whether id is the all-zero address.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Bytes returns a copy of the identifier's underlying bytes.
func (id ID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, id[:])
	return out
}

// String renders the identifier using bech32, matching the textual address
// format consumers of this engine are expected to display.
func (id ID) String() string {
	conv, err := bech32.ConvertBits(id[:], 8, 5, true)
	if err != nil {
		return fmt.Sprintf("dsc-invalid-%x", id[:])
	}
	encoded, err := bech32.Encode(HRP, conv)
	if err != nil {
		return fmt.Sprintf("dsc-invalid-%x", id[:])
	}
	return encoded
}

// FromBytes builds an ID from a byte slice that must be exactly Size bytes
// long.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != Size {
		return id, fmt.Errorf("address: identifier must be %d bytes, got %d", Size, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Decode parses a bech32-encoded address string back into an ID.
func Decode(s string) (ID, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return ID{}, fmt.Errorf("address: invalid bech32 string: %w", err)
	}
	if hrp != HRP {
		return ID{}, fmt.Errorf("address: unexpected prefix %q", hrp)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return ID{}, fmt.Errorf("address: error converting bits: %w", err)
	}
	return FromBytes(conv)
}

// Random returns a cryptographically random identifier, primarily useful in
// tests and the demo CLI.
func Random() (ID, error) {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		return ID{}, fmt.Errorf("address: generate random id: %w", err)
	}
	return id, nil
}
