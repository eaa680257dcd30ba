// Package conv formats register values without fmt, for MCU builds
// where fmt is too large.
package conv

const hexd = "0123456789ABCDEF"

// U32Hex writes n as 8 uppercase hex digits without 0x into the tail of
// buf and returns the used slice. A buf shorter than 8 yields an empty
// slice.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// AppendU32Hex appends "0x" and the 8-digit hex form of n to dst.
func AppendU32Hex(dst []byte, n uint32) []byte {
	var b [8]byte
	dst = append(dst, '0', 'x')
	return append(dst, U32Hex(b[:], n)...)
}

// AppendUint appends the decimal form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var b [20]byte
	i := len(b)
	for {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, b[i:]...)
}
