// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"github.com/fast-infoset/go-finf/internal/buffer"
)

// Primitive integer and length codecs. Fast Infoset encodes small integers
// and octet-string lengths with variable byte widths whose discriminator
// bits depend on the bit position at which the field starts within its
// enclosing octet. Each encoder takes a lead byte carrying the bits the
// caller has already decided (everything before the field); each decoder
// takes the first octet of the field and masks those bits off itself.

// maxIndex is the largest value of the 1..2^20 integer primitives.
const maxIndex = 1 << 20

// writeUint2 encodes v in 1..2^20 starting on the second bit.
//
//	1..64      '0' + 6 bits
//	65..8256   '10' + 13 bits over one extra octet
//	8257..2^20 '110' + 20 bits over two extra octets
func writeUint2(w *buffer.Writer, lead byte, v uint32) error {
	switch {
	case v == 0:
	case v <= 64:
		return w.WriteByte(lead | byte(v-1))
	case v <= 8256:
		v -= 65
		if err := w.WriteByte(lead | 0x40 | byte(v>>8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v <= maxIndex:
		v -= 8257
		if err := w.WriteByte(lead | 0x60 | byte(v>>16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	}
	return newError(KindInvalidIntegerEncoding, -1, "value %d out of range for 20-bit integer", v)
}

// zeroOnSecondBit is the all-ones 7-bit field encoding the value zero in the
// 0..2^20 variant.
const zeroOnSecondBit = 0x7F

// readUint2 decodes an integer in 1..2^20 whose field starts on the second
// bit of b. Callers permitting zero must check for zeroOnSecondBit first.
func readUint2(r *buffer.Reader, b byte) (uint32, error) {
	b &= 0x7F
	switch {
	case b&0x40 == 0:
		return uint32(b&0x3F) + 1, nil
	case b&0x20 == 0:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint32(b&0x1F)<<8 + uint32(b2) + 65, nil
	case b&0x10 == 0:
		rest, err := r.ReadBytes(2)
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		v := uint32(b&0x0F)<<16 + uint32(rest[0])<<8 + uint32(rest[1]) + 8257
		if v > maxIndex {
			return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "decoded value %d exceeds 2^20", v)
		}
		return v, nil
	}
	return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "invalid discriminator %#02x on second bit", b)
}

// writeUint3 encodes v in 1..2^20 starting on the third bit.
//
//	1..32          '0' + 5 bits
//	33..2080       '100' + 11 bits over one extra octet
//	2081..526368   '101' + 19 bits over two extra octets
//	526369..2^20   '1100' + padding + 20 bits over three extra octets
func writeUint3(w *buffer.Writer, lead byte, v uint32) error {
	switch {
	case v == 0:
	case v <= 32:
		return w.WriteByte(lead | byte(v-1))
	case v <= 2080:
		v -= 33
		if err := w.WriteByte(lead | 0x20 | byte(v>>8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v <= 526368:
		v -= 2081
		if err := w.WriteByte(lead | 0x28 | byte(v>>16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v <= maxIndex:
		v -= 526369
		if err := w.WriteByte(lead | 0x30); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	}
	return newError(KindInvalidIntegerEncoding, -1, "value %d out of range for 20-bit integer", v)
}

// readUint3 decodes an integer in 1..2^20 whose field starts on the third
// bit of b. The literal-name pattern '1111' never reaches here; callers
// dispatch on it first.
func readUint3(r *buffer.Reader, b byte) (uint32, error) {
	b &= 0x3F
	switch {
	case b&0x20 == 0:
		return uint32(b&0x1F) + 1, nil
	case b&0x38 == 0x20:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint32(b&0x07)<<8 + uint32(b2) + 33, nil
	case b&0x38 == 0x28:
		rest, err := r.ReadBytes(2)
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint32(b&0x07)<<16 + uint32(rest[0])<<8 + uint32(rest[1]) + 2081, nil
	case b&0x3C == 0x30:
		if b&0x03 != 0 {
			break
		}
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		if rest[0]&0xF0 != 0 {
			break
		}
		v := uint32(rest[0])<<16 + uint32(rest[1])<<8 + uint32(rest[2]) + 526369
		if v > maxIndex {
			return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "decoded value %d exceeds 2^20", v)
		}
		return v, nil
	}
	return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "invalid discriminator %#02x on third bit", b)
}

// writeUint4 encodes v in 1..2^20 starting on the fourth bit.
//
//	1..16          '0' + 4 bits
//	17..1040       '100' + 10 bits over one extra octet
//	1041..263184   '101' + 18 bits over two extra octets
//	263185..2^20   '1100' + padding + 20 bits over three extra octets
func writeUint4(w *buffer.Writer, lead byte, v uint32) error {
	switch {
	case v == 0:
	case v <= 16:
		return w.WriteByte(lead | byte(v-1))
	case v <= 1040:
		v -= 17
		if err := w.WriteByte(lead | 0x10 | byte(v>>8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v <= 263184:
		v -= 1041
		if err := w.WriteByte(lead | 0x14 | byte(v>>16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v <= maxIndex:
		v -= 263185
		if err := w.WriteByte(lead | 0x18); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	}
	return newError(KindInvalidIntegerEncoding, -1, "value %d out of range for 20-bit integer", v)
}

// readUint4 decodes an integer in 1..2^20 whose field starts on the fourth
// bit of b.
func readUint4(r *buffer.Reader, b byte) (uint32, error) {
	b &= 0x1F
	switch {
	case b&0x10 == 0:
		return uint32(b&0x0F) + 1, nil
	case b&0x1C == 0x10:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint32(b&0x03)<<8 + uint32(b2) + 17, nil
	case b&0x1C == 0x14:
		rest, err := r.ReadBytes(2)
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint32(b&0x03)<<16 + uint32(rest[0])<<8 + uint32(rest[1]) + 1041, nil
	case b&0x1E == 0x18:
		if b&0x01 != 0 {
			break
		}
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		if rest[0]&0xF0 != 0 {
			break
		}
		v := uint32(rest[0])<<16 + uint32(rest[1])<<8 + uint32(rest[2]) + 263185
		if v > maxIndex {
			return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "decoded value %d exceeds 2^20", v)
		}
		return v, nil
	}
	return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "invalid discriminator %#02x on fourth bit", b)
}

// writeLen2 encodes an octet-string length starting on the second bit.
//
//	1..64     '0' + 6 bits
//	65..320   '1000000' + one octet
//	321..2^32 '1100000' + four octets
func writeLen2(w *buffer.Writer, lead byte, n uint64) error {
	switch {
	case n == 0:
	case n <= 64:
		return w.WriteByte(lead | byte(n-1))
	case n <= 320:
		if err := w.WriteByte(lead | 0x40); err != nil {
			return err
		}
		return w.WriteByte(byte(n - 65))
	case n <= 1<<32:
		if err := w.WriteByte(lead | 0x60); err != nil {
			return err
		}
		return writeUint32BE(w, uint32(n-321))
	}
	return newError(KindInvalidLengthEncoding, -1, "length %d out of range", n)
}

// readLen2 decodes an octet-string length whose field starts on the second
// bit of b.
func readLen2(r *buffer.Reader, b byte) (uint64, error) {
	b &= 0x7F
	switch {
	case b&0x40 == 0:
		return uint64(b&0x3F) + 1, nil
	case b == 0x40:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint64(b2) + 65, nil
	case b == 0x60:
		v, err := readUint32BE(r)
		if err != nil {
			return 0, err
		}
		return uint64(v) + 321, nil
	}
	return 0, newError(KindInvalidLengthEncoding, r.Offset(), "invalid discriminator %#02x on second bit", b)
}

// writeLen5 encodes an octet-string length starting on the fifth bit.
//
//	1..8      '0' + 3 bits
//	9..264    '1000' + one octet
//	265..2^32 '1100' + four octets
func writeLen5(w *buffer.Writer, lead byte, n uint64) error {
	switch {
	case n == 0:
	case n <= 8:
		return w.WriteByte(lead | byte(n-1))
	case n <= 264:
		if err := w.WriteByte(lead | 0x08); err != nil {
			return err
		}
		return w.WriteByte(byte(n - 9))
	case n <= 1<<32:
		if err := w.WriteByte(lead | 0x0C); err != nil {
			return err
		}
		return writeUint32BE(w, uint32(n-265))
	}
	return newError(KindInvalidLengthEncoding, -1, "length %d out of range", n)
}

// readLen5 decodes an octet-string length whose field starts on the fifth
// bit of b.
func readLen5(r *buffer.Reader, b byte) (uint64, error) {
	b &= 0x0F
	switch {
	case b&0x08 == 0:
		return uint64(b&0x07) + 1, nil
	case b == 0x08:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint64(b2) + 9, nil
	case b == 0x0C:
		v, err := readUint32BE(r)
		if err != nil {
			return 0, err
		}
		return uint64(v) + 265, nil
	}
	return 0, newError(KindInvalidLengthEncoding, r.Offset(), "invalid discriminator %#02x on fifth bit", b)
}

// writeLen7 encodes an octet-string length starting on the seventh bit.
//
//	1..2      '0' + 1 bit
//	3..258    '10' + one octet
//	259..2^32 '11' + four octets
func writeLen7(w *buffer.Writer, lead byte, n uint64) error {
	switch {
	case n == 0:
	case n <= 2:
		return w.WriteByte(lead | byte(n-1))
	case n <= 258:
		if err := w.WriteByte(lead | 0x02); err != nil {
			return err
		}
		return w.WriteByte(byte(n - 3))
	case n <= 1<<32:
		if err := w.WriteByte(lead | 0x03); err != nil {
			return err
		}
		return writeUint32BE(w, uint32(n-259))
	}
	return newError(KindInvalidLengthEncoding, -1, "length %d out of range", n)
}

// readLen7 decodes an octet-string length whose field starts on the seventh
// bit of b.
func readLen7(r *buffer.Reader, b byte) (uint64, error) {
	switch b & 0x03 {
	case 0x00, 0x01:
		return uint64(b&0x01) + 1, nil
	case 0x02:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, wrapStreamErr(err, r.Offset())
		}
		return uint64(b2) + 3, nil
	default:
		v, err := readUint32BE(r)
		if err != nil {
			return 0, err
		}
		return uint64(v) + 259, nil
	}
}

// writeSequenceCount encodes the number of items of an optional-component
// sequence: 1..128 in one octet, 129..2^20 in three.
func writeSequenceCount(w *buffer.Writer, n uint32) error {
	switch {
	case n == 0:
	case n <= 128:
		return w.WriteByte(byte(n - 1))
	case n <= maxIndex:
		n -= 129
		if err := w.WriteByte(0x80 | byte(n>>16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(n >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(n))
	}
	return newError(KindInvalidIntegerEncoding, -1, "sequence count %d out of range", n)
}

// readSequenceCount decodes the number of items of an optional-component
// sequence.
func readSequenceCount(r *buffer.Reader) (uint32, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wrapStreamErr(err, r.Offset())
	}
	if b < 0x80 {
		return uint32(b) + 1, nil
	}
	rest, err := r.ReadBytes(2)
	if err != nil {
		return 0, wrapStreamErr(err, r.Offset())
	}
	v := uint32(b&0x0F)<<16 + uint32(rest[0])<<8 + uint32(rest[1]) + 129
	if v > maxIndex {
		return 0, newError(KindInvalidIntegerEncoding, r.Offset(), "sequence count %d exceeds 2^20", v)
	}
	return v, nil
}

func writeUint32BE(w *buffer.Writer, v uint32) error {
	if err := w.WriteByte(byte(v >> 24)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(v >> 16)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(v >> 8)); err != nil {
		return err
	}
	return w.WriteByte(byte(v))
}

func readUint32BE(r *buffer.Reader) (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, wrapStreamErr(err, r.Offset())
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
