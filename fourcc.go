package fieldmodel

import "fmt"

// FourCC packs up to 8 characters into an integer, character i occupying
// byte i (the first character is the least significant byte).
func FourCC(s string) (uint64, error) {
	if len(s) > 8 {
		return 0, fmt.Errorf("%w: %q", ErrFourCCTooLong, s)
	}
	var v uint64
	for i := len(s) - 1; i >= 0; i-- {
		v |= uint64(s[i]) << (8 * i)
	}
	return v, nil
}

func MustFourCC(s string) uint64 {
	return must(FourCC(s))
}

// FourCCString unpacks an integer built by FourCC. Zero and control bytes
// are skipped.
func FourCCString(v uint64) string {
	buf := make([]byte, 0, 8)
	for i := range 8 {
		c := byte(v >> (8 * i))
		if c < 0x20 || c == 0x7F {
			continue
		}
		buf = append(buf, c)
	}
	return string(buf)
}
