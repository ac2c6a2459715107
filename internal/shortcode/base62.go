package shortcode

import (
	"errors"
	"math"
	"strings"
)

// Alphabet is the 62-character code alphabet: digits, then lower case, then
// upper case letters. Position is the digit value.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(len(Alphabet))

var ErrInvalidCode = errors.New("invalid short code")

// Encode renders n in base 62, most significant digit first.
func Encode(n uint64) string {
	if n == 0 {
		return string(Alphabet[0])
	}
	var buf [11]byte // 62^11 > 2^64
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode is the inverse of Encode. It fails on empty input, characters
// outside the alphabet, or values that do not fit in a uint64.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidCode
	}
	var n uint64
	for _, c := range s {
		idx := strings.IndexRune(Alphabet, c)
		if idx < 0 {
			return 0, ErrInvalidCode
		}
		if n > (math.MaxUint64-uint64(idx))/base {
			return 0, ErrInvalidCode
		}
		n = n*base + uint64(idx)
	}
	return n, nil
}

// ValidAlias reports whether a caller-supplied alias is acceptable as a
// short code: 3 to 20 alphabet characters.
func ValidAlias(s string) bool {
	if len(s) < 3 || len(s) > 20 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(Alphabet, c) {
			return false
		}
	}
	return true
}
