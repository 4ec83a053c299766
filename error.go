// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"errors"
	"fmt"
	"io"
)

// Kind identifies a class of codec failure. Every error returned by a Reader
// or Writer carries exactly one kind.
type Kind uint8

// Error kinds. All of them are fatal to the stream they occur on.
const (
	KindMalformedHeader Kind = iota + 1
	KindInvalidMagic
	KindInvalidDeclaration
	KindInvalidIdentifier
	KindInvalidLengthEncoding
	KindInvalidIntegerEncoding
	KindUnexpectedEOF
	KindInvalidQName
	KindInvalidRestrictedAlphabet
	KindCharacterNotInAlphabet
	KindUnknownEncodingAlgorithm
	KindUnknownRestrictedAlphabet
	KindVocabularyIndexOutOfBounds
	KindVocabularyTableFull
	KindUndefinedNamespaceForPrefix
	KindReservedNamespace
	KindInvalidState
	KindUnsupportedFeature
	KindIoError
)

var kindNames = map[Kind]string{
	KindMalformedHeader:             "malformed header",
	KindInvalidMagic:                "invalid magic",
	KindInvalidDeclaration:          "invalid declaration",
	KindInvalidIdentifier:           "invalid identifier",
	KindInvalidLengthEncoding:       "invalid length encoding",
	KindInvalidIntegerEncoding:      "invalid integer encoding",
	KindUnexpectedEOF:               "unexpected EOF",
	KindInvalidQName:                "invalid qualified name",
	KindInvalidRestrictedAlphabet:   "invalid restricted alphabet",
	KindCharacterNotInAlphabet:      "character not in alphabet",
	KindUnknownEncodingAlgorithm:    "unknown encoding algorithm",
	KindUnknownRestrictedAlphabet:   "unknown restricted alphabet",
	KindVocabularyIndexOutOfBounds:  "vocabulary index out of bounds",
	KindVocabularyTableFull:         "vocabulary table full",
	KindUndefinedNamespaceForPrefix: "undefined namespace for prefix",
	KindReservedNamespace:           "reserved namespace",
	KindInvalidState:                "invalid state",
	KindUnsupportedFeature:          "unsupported feature",
	KindIoError:                     "io error",
}

// String implements Stringer.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the error type produced by this package. Offset is the octet
// offset into the encoded stream when known, or -1.
type Error struct {
	Kind   Kind
	Offset int64
	Err    error
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("fastinfoset: %s (offset %d)", msg, e.Offset)
	}
	return "fastinfoset: " + msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a codec error of the given kind.
func IsKind(err error, k Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == k
}

func newError(k Kind, offset int64, format string, args ...any) *Error {
	var err error
	if format != "" {
		err = fmt.Errorf(format, args...)
	}
	return &Error{Kind: k, Offset: offset, Err: err}
}

// wrapStreamErr classifies an error from the underlying octet stream. EOF in
// the middle of an item is always unexpected.
func wrapStreamErr(err error, offset int64) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: KindUnexpectedEOF, Offset: offset, Err: err}
	}
	return &Error{Kind: KindIoError, Offset: offset, Err: err}
}
