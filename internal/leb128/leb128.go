// Package leb128 implements the LEB128 variable-length integer encoding
// used throughout the WebAssembly binary format for section sizes, counts,
// indices, and constant immediates.
package leb128

import (
	"bytes"
	"fmt"
	"io"
)

const (
	maxVarintLenU32 = 5
	maxVarintLenU64 = 10
	maxVarintLenI32 = 5
	maxVarintLenI33 = 5
	maxVarintLenI64 = 10
)

// EncodeUint32 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint64(v uint64) []byte {
	ret := make([]byte, 0, maxVarintLenU64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			ret = append(ret, b|0x80)
		} else {
			ret = append(ret, b)
			return ret
		}
	}
}

// EncodeInt32 encodes v as a signed LEB128 byte sequence.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 byte sequence.
func EncodeInt64(v int64) []byte {
	ret := make([]byte, 0, maxVarintLenI64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			ret = append(ret, b)
			return ret
		}
		ret = append(ret, b|0x80)
	}
}

// LoadUint32 decodes an unsigned LEB128 value from buf, returning the value
// and the number of bytes consumed. It rejects encodings longer than the
// canonical 5-byte maximum for a 32-bit value, even if the decoded value
// would itself fit in 32 bits.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUnsigned(buf, maxVarintLenU32, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint32(v), n, nil
}

// LoadUint64 decodes an unsigned LEB128 value from buf, returning the value
// and the number of bytes consumed.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUnsigned(buf, maxVarintLenU64, 64)
}

// LoadInt32 decodes a signed LEB128 value from buf, returning the value and
// the number of bytes consumed.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadSigned(buf, maxVarintLenI32, 32)
	if err != nil {
		return 0, 0, err
	}
	return int32(v), n, nil
}

// LoadInt64 decodes a signed LEB128 value from buf, returning the value and
// the number of bytes consumed.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadSigned(buf, maxVarintLenI64, 64)
}

// DecodeInt33AsInt64 decodes a signed 33-bit LEB128 value (the encoding
// Wasm uses for block-type immediates) from r, returning the value and the
// number of bytes consumed.
func DecodeInt33AsInt64(r *bytes.Reader) (int64, uint64, error) {
	var result int64
	var shift uint
	var b byte
	var i int
	for i = 0; i < maxVarintLenI33; i++ {
		var err error
		b, err = r.ReadByte()
		if err != nil {
			return 0, 0, io.ErrUnexpectedEOF
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if b&0x80 != 0 {
		return 0, 0, fmt.Errorf("leb128: int33 too long (more than %d bytes)", maxVarintLenI33)
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	const shiftAmt = 64 - 33
	if (result<<shiftAmt)>>shiftAmt != result {
		return 0, 0, fmt.Errorf("leb128: int33 overflow")
	}
	return result, uint64(i + 1), nil
}

// loadUnsigned decodes an unsigned LEB128 value bounded to bitWidth bits,
// consuming at most maxBytes bytes of buf. Both an encoding longer than
// maxBytes and a decoded magnitude that does not fit in bitWidth bits are
// reported as errors.
func loadUnsigned(buf []byte, maxBytes int, bitWidth uint) (uint64, uint64, error) {
	var result uint64
	for i := 0; i < maxBytes; i++ {
		if i >= len(buf) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		b := buf[i]
		low := uint64(b & 0x7f)
		shift := uint(7 * i)
		if i == maxBytes-1 {
			allowedBits := bitWidth - shift
			if allowedBits < 7 {
				mask := (uint64(1) << allowedBits) - 1
				if low & ^mask != 0 {
					return 0, 0, fmt.Errorf("leb128: uint%d overflow", bitWidth)
				}
			}
			if b&0x80 != 0 {
				return 0, 0, fmt.Errorf("leb128: uint%d too long (more than %d bytes)", bitWidth, maxBytes)
			}
			result |= low << shift
			return result, uint64(i + 1), nil
		}
		result |= low << shift
		if b&0x80 == 0 {
			return result, uint64(i + 1), nil
		}
	}
	return 0, 0, fmt.Errorf("leb128: uint%d too long (more than %d bytes)", bitWidth, maxBytes)
}

// loadSigned decodes a signed LEB128 value bounded to bitWidth bits,
// consuming at most maxBytes bytes of buf.
func loadSigned(buf []byte, maxBytes int, bitWidth uint) (int64, uint64, error) {
	var result int64
	var shift uint
	var b byte
	var i int
	for i = 0; i < maxBytes; i++ {
		if i >= len(buf) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		b = buf[i]
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if b&0x80 != 0 {
		return 0, 0, fmt.Errorf("leb128: int%d too long (more than %d bytes)", bitWidth, maxBytes)
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if bitWidth < 64 {
		shiftAmt := 64 - bitWidth
		if (result<<shiftAmt)>>shiftAmt != result {
			return 0, 0, fmt.Errorf("leb128: int%d overflow", bitWidth)
		}
	}
	return result, uint64(i + 1), nil
}
