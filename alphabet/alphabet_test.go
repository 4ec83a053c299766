// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package alphabet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fast-infoset/go-finf/alphabet"
)

func TestBuiltins(t *testing.T) {
	assert.Equal(t, alphabet.NumericIndex, alphabet.Numeric.Index())
	assert.Equal(t, alphabet.DateTimeIndex, alphabet.DateTime.Index())
	assert.Equal(t, uint(4), alphabet.Numeric.Bits())
	assert.Equal(t, uint(4), alphabet.DateTime.Bits())

	a, err := alphabet.ByIndex(1)
	require.NoError(t, err)
	assert.Same(t, alphabet.Numeric, a)

	_, err = alphabet.ByIndex(7)
	assert.ErrorIs(t, err, alphabet.ErrUnknownIndex)
}

func TestNumericPacking(t *testing.T) {
	// "3.14e0" has an even character count, so the final octet needs no
	// terminator nibble.
	enc, err := alphabet.Numeric.Encode("3.14e0")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3C, 0x14, 0xD0}, enc)

	dec, err := alphabet.Numeric.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "3.14e0", dec)
}

func TestNibbleTerminator(t *testing.T) {
	// Odd character count: the low nibble of the final octet is '1111'.
	enc, err := alphabet.Numeric.Encode("-12")
	require.NoError(t, err)
	require.Len(t, enc, 2)
	assert.Equal(t, byte(0x0F), enc[1]&0x0F)

	dec, err := alphabet.Numeric.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "-12", dec)
}

func TestNotInAlphabet(t *testing.T) {
	_, err := alphabet.Numeric.Encode("3,14")
	assert.ErrorIs(t, err, alphabet.ErrNotInAlphabet)
}

func TestGeneralBitWidth(t *testing.T) {
	// Five characters need three bits each; the lengths below leave
	// different padding amounts in the final octet.
	a, err := alphabet.New("abcde")
	require.NoError(t, err)
	require.Equal(t, uint(3), a.Bits())

	for _, s := range []string{"a", "e", "ab", "abc", "abcd", "abcde", "edcba", "aaaaaaaa", "deadbeead"[:9]} {
		enc, err := a.Encode(s)
		require.NoError(t, err, s)
		dec, err := a.Decode(enc)
		require.NoError(t, err, s)
		assert.Equal(t, s, dec, "wire % x", enc)
	}
}

func TestIdentityBitWidth(t *testing.T) {
	chars := make([]rune, 200)
	for i := range chars {
		chars[i] = rune(0x100 + i)
	}
	a, err := alphabet.New(string(chars))
	require.NoError(t, err)
	require.Equal(t, uint(8), a.Bits())

	in := string([]rune{chars[0], chars[199], chars[42]})
	enc, err := a.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 199, 42}, enc)

	dec, err := a.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, in, dec)
}

func TestNewRejectsDuplicatesAndSize(t *testing.T) {
	_, err := alphabet.New("aa")
	assert.Error(t, err)
	_, err = alphabet.New("x")
	assert.Error(t, err)
}

func TestRegisterAssignsExtendedIndices(t *testing.T) {
	a, err := alphabet.New("01x")
	require.NoError(t, err)
	idx, err := alphabet.Register(a)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, alphabet.FirstExtended)

	got, err := alphabet.ByIndex(idx)
	require.NoError(t, err)
	assert.Same(t, a, got)
}
