// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

// Fast Infoset identification octets: two identification octets followed by
// the version number 1. A document carries these directly, or after one of
// the nine plaintext declarations below.
var magic = [4]byte{0xE0, 0x00, 0x00, 0x01}

// Terminator octets. A single terminator closes one structure; the double
// terminator closes two nested structures in one octet.
const (
	terminator       = 0xF0
	doubleTerminator = 0xFF
)

// Optional-component presence bits of the octet following the
// identification octets. The most significant bit is padding.
const (
	optAdditionalData    = 0x40
	optInitialVocabulary = 0x20
	optNotations         = 0x10
	optUnparsedEntities  = 0x08
	optCharacterEncoding = 0x04
	optStandalone        = 0x02
	optVersion           = 0x01
)

// declarations is the closed set of plaintext XML declarations a Fast
// Infoset document may begin with.
var declarations = [...]string{
	"<?xml encoding='finf'?>",
	"<?xml encoding='finf' standalone='yes'?>",
	"<?xml encoding='finf' standalone='no'?>",
	"<?xml version='1.0' encoding='finf'?>",
	"<?xml version='1.0' encoding='finf' standalone='yes'?>",
	"<?xml version='1.0' encoding='finf' standalone='no'?>",
	"<?xml version='1.1' encoding='finf'?>",
	"<?xml version='1.1' encoding='finf' standalone='yes'?>",
	"<?xml version='1.1' encoding='finf' standalone='no'?>",
}

// declInfo returns the version and standalone pseudo-attributes expressed by
// declaration i (an index into declarations).
func declInfo(i int) (version string, standalone *bool) {
	switch i / 3 {
	case 1:
		version = "1.0"
	case 2:
		version = "1.1"
	}
	switch i % 3 {
	case 1:
		standalone = boolPtr(true)
	case 2:
		standalone = boolPtr(false)
	}
	return version, standalone
}

// declFor selects the declaration matching the document options. ok is false
// when the version is not one of "", "1.0", "1.1".
func declFor(version string, standalone *bool) (string, bool) {
	var i int
	switch version {
	case "":
	case "1.0":
		i = 3
	case "1.1":
		i = 6
	default:
		return "", false
	}
	if standalone != nil {
		if *standalone {
			i++
		} else {
			i += 2
		}
	}
	return declarations[i], true
}

// matchDeclaration finds the declaration equal to s.
func matchDeclaration(s string) (int, bool) {
	for i, d := range declarations {
		if s == d {
			return i, true
		}
	}
	return 0, false
}

// maxDeclarationLen bounds how far the parser scans for "?>" before giving
// up on a declaration.
var maxDeclarationLen = func() int {
	max := 0
	for _, d := range declarations {
		if len(d) > max {
			max = len(d)
		}
	}
	return max
}()

func boolPtr(b bool) *bool { return &b }
