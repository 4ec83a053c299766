// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package algorithm implements encoding algorithms: typed binary encodings
// for element content, identified on the wire by a table index.
//
// Indices 1 through 10 are the built-in algorithms of the Fast Infoset
// recommendation. Extended algorithms are identified by URI and are assigned
// indices from 32 up, in registration order.
package algorithm

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Built-in algorithm table indices.
const (
	HexIndex     = 1
	Base64Index  = 2
	ShortIndex   = 3
	IntIndex     = 4
	LongIndex    = 5
	BooleanIndex = 6
	FloatIndex   = 7
	DoubleIndex  = 8
	UUIDIndex    = 9
	CDATAIndex   = 10

	// FirstExtended is the lowest index assigned to URI-identified
	// algorithms; MaxIndex is the highest index expressible on the wire.
	FirstExtended = 32
	MaxIndex      = 255
)

// ErrUnknown is wrapped by lookups that resolve to no algorithm.
var ErrUnknown = errors.New("unknown encoding algorithm")

// Algorithm is one typed encoding. Encode turns a typed value into wire
// octets; Decode reverses it; Text renders wire octets as the character data
// a decoder reports for the content.
type Algorithm interface {
	// Index returns the wire table index.
	Index() int
	// URI returns the identifying URI, or "" for a built-in.
	URI() string
	// Encode converts a typed value to wire octets.
	Encode(v any) ([]byte, error)
	// Decode converts wire octets back to the typed value.
	Decode(data []byte) (any, error)
	// Text renders wire octets as character data.
	Text(data []byte) (string, error)
}

type builtin struct {
	index  int
	encode func(any) ([]byte, error)
	decode func([]byte) (any, error)
	text   func([]byte) (string, error)
}

func (b *builtin) Index() int                    { return b.index }
func (b *builtin) URI() string                   { return "" }
func (b *builtin) Encode(v any) ([]byte, error)  { return b.encode(v) }
func (b *builtin) Decode(d []byte) (any, error)  { return b.decode(d) }
func (b *builtin) Text(d []byte) (string, error) { return b.text(d) }

// Hex is built-in algorithm 1: raw octets, rendered as uppercase hex.
var Hex Algorithm = &builtin{
	index:  HexIndex,
	encode: encodeOctets,
	decode: func(d []byte) (any, error) { return append([]byte(nil), d...), nil },
	text: func(d []byte) (string, error) {
		return strings.ToUpper(hex.EncodeToString(d)), nil
	},
}

// Base64 is built-in algorithm 2: raw octets, rendered as standard base64.
var Base64 Algorithm = &builtin{
	index:  Base64Index,
	encode: encodeOctets,
	decode: func(d []byte) (any, error) { return append([]byte(nil), d...), nil },
	text: func(d []byte) (string, error) {
		return base64.StdEncoding.EncodeToString(d), nil
	},
}

func encodeOctets(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	}
	return nil, fmt.Errorf("octet algorithm wants []byte or string, got %T", v)
}

// Short is built-in algorithm 3: big-endian 16-bit two's complement values.
var Short Algorithm = &builtin{
	index: ShortIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]int16)
		if !ok {
			return nil, fmt.Errorf("short algorithm wants []int16, got %T", v)
		}
		out := make([]byte, 0, len(vals)*2)
		for _, n := range vals {
			out = binary.BigEndian.AppendUint16(out, uint16(n))
		}
		return out, nil
	},
	decode: func(d []byte) (any, error) {
		if len(d)%2 != 0 {
			return nil, fmt.Errorf("short payload length %d not a multiple of 2", len(d))
		}
		vals := make([]int16, 0, len(d)/2)
		for i := 0; i < len(d); i += 2 {
			vals = append(vals, int16(binary.BigEndian.Uint16(d[i:])))
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		return joinInts(d, 2, func(b []byte) int64 { return int64(int16(binary.BigEndian.Uint16(b))) })
	},
}

// Int is built-in algorithm 4: big-endian 32-bit two's complement values.
var Int Algorithm = &builtin{
	index: IntIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]int32)
		if !ok {
			return nil, fmt.Errorf("int algorithm wants []int32, got %T", v)
		}
		out := make([]byte, 0, len(vals)*4)
		for _, n := range vals {
			out = binary.BigEndian.AppendUint32(out, uint32(n))
		}
		return out, nil
	},
	decode: func(d []byte) (any, error) {
		if len(d)%4 != 0 {
			return nil, fmt.Errorf("int payload length %d not a multiple of 4", len(d))
		}
		vals := make([]int32, 0, len(d)/4)
		for i := 0; i < len(d); i += 4 {
			vals = append(vals, int32(binary.BigEndian.Uint32(d[i:])))
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		return joinInts(d, 4, func(b []byte) int64 { return int64(int32(binary.BigEndian.Uint32(b))) })
	},
}

// Long is built-in algorithm 5: big-endian 64-bit two's complement values.
var Long Algorithm = &builtin{
	index: LongIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]int64)
		if !ok {
			return nil, fmt.Errorf("long algorithm wants []int64, got %T", v)
		}
		out := make([]byte, 0, len(vals)*8)
		for _, n := range vals {
			out = binary.BigEndian.AppendUint64(out, uint64(n))
		}
		return out, nil
	},
	decode: func(d []byte) (any, error) {
		if len(d)%8 != 0 {
			return nil, fmt.Errorf("long payload length %d not a multiple of 8", len(d))
		}
		vals := make([]int64, 0, len(d)/8)
		for i := 0; i < len(d); i += 8 {
			vals = append(vals, int64(binary.BigEndian.Uint64(d[i:])))
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		return joinInts(d, 8, func(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) })
	},
}

func joinInts(d []byte, width int, get func([]byte) int64) (string, error) {
	if len(d)%width != 0 {
		return "", fmt.Errorf("payload length %d not a multiple of %d", len(d), width)
	}
	var sb strings.Builder
	for i := 0; i < len(d); i += width {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatInt(get(d[i:]), 10))
	}
	return sb.String(), nil
}

// Boolean is built-in algorithm 6. The first four bits of the payload count
// the unused bits of the last octet; the values follow, one bit each,
// MSB-first.
var Boolean Algorithm = &builtin{
	index: BooleanIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]bool)
		if !ok {
			return nil, fmt.Errorf("boolean algorithm wants []bool, got %T", v)
		}
		total := 4 + len(vals)
		unused := (8 - total%8) % 8
		out := make([]byte, (total+unused)/8)
		out[0] = byte(unused) << 4
		for i, b := range vals {
			if !b {
				continue
			}
			bit := 4 + i
			out[bit/8] |= 0x80 >> (bit % 8)
		}
		return out, nil
	},
	decode: decodeBooleans,
	text: func(d []byte) (string, error) {
		v, err := decodeBooleans(d)
		if err != nil {
			return "", err
		}
		vals := v.([]bool)
		parts := make([]string, len(vals))
		for i, b := range vals {
			parts[i] = strconv.FormatBool(b)
		}
		return strings.Join(parts, " "), nil
	},
}

func decodeBooleans(d []byte) (any, error) {
	if len(d) == 0 {
		return nil, errors.New("boolean payload is empty")
	}
	unused := int(d[0] >> 4)
	if unused > 7 {
		return nil, fmt.Errorf("boolean unused-bit count %d out of range", unused)
	}
	n := len(d)*8 - 4 - unused
	if n < 0 {
		return nil, fmt.Errorf("boolean unused-bit count %d exceeds payload", unused)
	}
	vals := make([]bool, n)
	for i := range vals {
		bit := 4 + i
		vals[i] = d[bit/8]&(0x80>>(bit%8)) != 0
	}
	return vals, nil
}

// Float is built-in algorithm 7: IEEE-754 single precision, big-endian.
var Float Algorithm = &builtin{
	index: FloatIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]float32)
		if !ok {
			return nil, fmt.Errorf("float algorithm wants []float32, got %T", v)
		}
		out := make([]byte, 0, len(vals)*4)
		for _, f := range vals {
			out = binary.BigEndian.AppendUint32(out, math.Float32bits(f))
		}
		return out, nil
	},
	decode: func(d []byte) (any, error) {
		if len(d)%4 != 0 {
			return nil, fmt.Errorf("float payload length %d not a multiple of 4", len(d))
		}
		vals := make([]float32, 0, len(d)/4)
		for i := 0; i < len(d); i += 4 {
			vals = append(vals, math.Float32frombits(binary.BigEndian.Uint32(d[i:])))
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		if len(d)%4 != 0 {
			return "", fmt.Errorf("float payload length %d not a multiple of 4", len(d))
		}
		var sb strings.Builder
		for i := 0; i < len(d); i += 4 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			f := math.Float32frombits(binary.BigEndian.Uint32(d[i:]))
			sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
		}
		return sb.String(), nil
	},
}

// Double is built-in algorithm 8: IEEE-754 double precision, big-endian.
var Double Algorithm = &builtin{
	index: DoubleIndex,
	encode: func(v any) ([]byte, error) {
		vals, ok := v.([]float64)
		if !ok {
			return nil, fmt.Errorf("double algorithm wants []float64, got %T", v)
		}
		out := make([]byte, 0, len(vals)*8)
		for _, f := range vals {
			out = binary.BigEndian.AppendUint64(out, math.Float64bits(f))
		}
		return out, nil
	},
	decode: func(d []byte) (any, error) {
		if len(d)%8 != 0 {
			return nil, fmt.Errorf("double payload length %d not a multiple of 8", len(d))
		}
		vals := make([]float64, 0, len(d)/8)
		for i := 0; i < len(d); i += 8 {
			vals = append(vals, math.Float64frombits(binary.BigEndian.Uint64(d[i:])))
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		if len(d)%8 != 0 {
			return "", fmt.Errorf("double payload length %d not a multiple of 8", len(d))
		}
		var sb strings.Builder
		for i := 0; i < len(d); i += 8 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			f := math.Float64frombits(binary.BigEndian.Uint64(d[i:]))
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
		return sb.String(), nil
	},
}

// UUID is built-in algorithm 9: 16 octets per value, rendered in the
// canonical RFC 4122 hex form.
var UUID Algorithm = &builtin{
	index: UUIDIndex,
	encode: func(v any) ([]byte, error) {
		switch t := v.(type) {
		case uuid.UUID:
			return t[:], nil
		case []uuid.UUID:
			out := make([]byte, 0, len(t)*16)
			for _, u := range t {
				out = append(out, u[:]...)
			}
			return out, nil
		case string:
			u, err := uuid.Parse(t)
			if err != nil {
				return nil, fmt.Errorf("parsing uuid: %w", err)
			}
			return u[:], nil
		}
		return nil, fmt.Errorf("uuid algorithm wants uuid.UUID, []uuid.UUID or string, got %T", v)
	},
	decode: func(d []byte) (any, error) {
		if len(d)%16 != 0 {
			return nil, fmt.Errorf("uuid payload length %d not a multiple of 16", len(d))
		}
		vals := make([]uuid.UUID, 0, len(d)/16)
		for i := 0; i < len(d); i += 16 {
			u, err := uuid.FromBytes(d[i : i+16])
			if err != nil {
				return nil, err
			}
			vals = append(vals, u)
		}
		return vals, nil
	},
	text: func(d []byte) (string, error) {
		if len(d)%16 != 0 {
			return "", fmt.Errorf("uuid payload length %d not a multiple of 16", len(d))
		}
		var sb strings.Builder
		for i := 0; i < len(d); i += 16 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			u, err := uuid.FromBytes(d[i : i+16])
			if err != nil {
				return "", err
			}
			sb.WriteString(u.String())
		}
		return sb.String(), nil
	},
}

// CDATA is built-in algorithm 10: UTF-8 octets decoded verbatim and
// reported as a CDATA section instead of plain character data.
var CDATA Algorithm = &builtin{
	index:  CDATAIndex,
	encode: encodeOctets,
	decode: func(d []byte) (any, error) { return string(d), nil },
	text:   func(d []byte) (string, error) { return string(d), nil },
}

// Extended is a URI-identified algorithm registered at run time.
type Extended struct {
	uri    string
	index  int
	Enc    func(any) ([]byte, error)
	Dec    func([]byte) (any, error)
	Render func([]byte) (string, error)
}

// Index returns the assigned wire table index.
func (e *Extended) Index() int { return e.index }

// URI returns the identifying URI.
func (e *Extended) URI() string { return e.uri }

// Encode implements Algorithm.
func (e *Extended) Encode(v any) ([]byte, error) { return e.Enc(v) }

// Decode implements Algorithm.
func (e *Extended) Decode(d []byte) (any, error) {
	if e.Dec == nil {
		return append([]byte(nil), d...), nil
	}
	return e.Dec(d)
}

// Text implements Algorithm.
func (e *Extended) Text(d []byte) (string, error) {
	if e.Render == nil {
		return "", fmt.Errorf("algorithm %q has no text form", e.uri)
	}
	return e.Render(d)
}

var (
	byIndex = map[int]Algorithm{
		HexIndex:     Hex,
		Base64Index:  Base64,
		ShortIndex:   Short,
		IntIndex:     Int,
		LongIndex:    Long,
		BooleanIndex: Boolean,
		FloatIndex:   Float,
		DoubleIndex:  Double,
		UUIDIndex:    UUID,
		CDATAIndex:   CDATA,
	}
	byURI     = make(map[string]*Extended)
	nextIndex = FirstExtended
)

// Register assigns the next extended table index to the algorithm identified
// by uri. Registration must happen before any codec using the algorithm is
// constructed; the registry is read-only during coding.
func Register(uri string, enc func(any) ([]byte, error), dec func([]byte) (any, error), render func([]byte) (string, error)) (int, error) {
	if uri == "" {
		return 0, errors.New("extended encoding algorithm needs a URI")
	}
	if _, dup := byURI[uri]; dup {
		return 0, fmt.Errorf("encoding algorithm %q already registered", uri)
	}
	if nextIndex > MaxIndex {
		return 0, fmt.Errorf("encoding algorithm table full (max index %d)", MaxIndex)
	}
	e := &Extended{uri: uri, index: nextIndex, Enc: enc, Dec: dec, Render: render}
	byURI[uri] = e
	byIndex[e.index] = e
	nextIndex++
	return e.index, nil
}

// ByIndex resolves a wire table index.
func ByIndex(i int) (Algorithm, error) {
	a, ok := byIndex[i]
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrUnknown, i)
	}
	return a, nil
}

// ByURI resolves a registered extended algorithm.
func ByURI(uri string) (Algorithm, error) {
	a, ok := byURI[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, uri)
	}
	return a, nil
}
