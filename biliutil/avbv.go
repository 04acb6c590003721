// Package biliutil converts between bilibili AV numbers and BV codes.
package biliutil

import (
	"errors"
	"fmt"
	"math"
)

const (
	Alphabet = "fZodR9XQDSUm21yCkr6zBqiveYah8bt4xsWpHnJE7jL5VG3guMTKNPAwcF"
	Base     = uint64(58)
	CodeLen  = 10

	XOR = uint64(177451812)
	ADD = uint64(8728348608)

	// Limit is 58^6, the first value that needs a seventh digit.
	Limit = uint64(38068692544)

	template = "1  4 1 7  "
)

var (
	ErrLength        = errors.New("bv code too short")
	ErrInvalidSymbol = errors.New("invalid symbol in bv code")
	ErrUnderflow     = errors.New("bv code below offset")
	ErrOverflow      = errors.New("av number out of range")
)

var (
	s     = [6]int{9, 8, 1, 6, 2, 4}
	pow   = [6]uint64{1, 58, 3364, 195112, 11316496, 656356768}
	table = make(map[byte]uint64, len(Alphabet))
)

func init() {
	for i := range len(Alphabet) {
		table[Alphabet[i]] = uint64(i)
	}
}

// Encode returns the 10 character BV code (without the "BV" prefix) for av.
func Encode(av uint64) (string, error) {
	x := av ^ XOR
	if x > math.MaxUint64-ADD || x+ADD >= Limit {
		return "", fmt.Errorf("%w: %d", ErrOverflow, av)
	}
	tmp := x + ADD

	var r [CodeLen]byte
	copy(r[:], template)
	for i, pos := range s {
		r[pos] = Alphabet[tmp/pow[i]%Base]
	}

	return string(r[:]), nil
}

// Decode returns the AV number for a BV code without its "BV" prefix.
// Only the six digit positions are read; the fixed characters and anything
// past CodeLen are ignored.
func Decode(code string) (uint64, error) {
	if len(code) < CodeLen {
		return 0, fmt.Errorf("%w: %q has %d bytes, need %d", ErrLength, code, len(code), CodeLen)
	}

	var r uint64
	for i, pos := range s {
		v, ok := table[code[pos]]
		if !ok {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, code[pos], pos)
		}
		r += v * pow[i]
	}

	if r < ADD {
		return 0, fmt.Errorf("%w: %q", ErrUnderflow, code)
	}
	return (r - ADD) ^ XOR, nil
}
