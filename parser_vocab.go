// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"bytes"

	"github.com/fast-infoset/go-finf/alphabet"
)

// parseHeader consumes the optional plaintext declaration, the
// identification octets and every optional document component, leaving the
// stream positioned on the first child item.
func (r *Reader) parseHeader() error {
	first, err := r.readByte()
	if err != nil {
		return err
	}
	if first == '<' {
		if err := r.buf.Rewind(1); err != nil {
			return wrapStreamErr(err, r.buf.Offset())
		}
		if err := r.parseDeclaration(); err != nil {
			return err
		}
	} else {
		if err := r.buf.Rewind(1); err != nil {
			return wrapStreamErr(err, r.buf.Offset())
		}
	}

	got, err := r.readBytes(4)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, magic[:]) {
		return newError(KindInvalidMagic, r.buf.Offset(), "identification octets % x, want % x", got, magic[:])
	}

	ob, err := r.readByte()
	if err != nil {
		return err
	}
	if ob&0x80 != 0 {
		return newError(KindMalformedHeader, r.buf.Offset(), "padding bit set in optional-component octet %#02x", ob)
	}
	if ob&optAdditionalData != 0 {
		if err := r.skipAdditionalData(); err != nil {
			return err
		}
	}
	if ob&optInitialVocabulary != 0 {
		if err := r.parseInitialVocabulary(); err != nil {
			return err
		}
	}
	if ob&optNotations != 0 {
		if err := r.parseNotations(); err != nil {
			return err
		}
	}
	if ob&optUnparsedEntities != 0 {
		if err := r.parseUnparsedEntities(); err != nil {
			return err
		}
	}
	if ob&optCharacterEncoding != 0 {
		if r.charEncoding, err = r.readPaddedOctetString(); err != nil {
			return err
		}
	}
	if ob&optStandalone != 0 {
		sb, err := r.readByte()
		if err != nil {
			return err
		}
		switch sb {
		case 0x00:
			r.standalone = boolPtr(false)
		case 0x01:
			r.standalone = boolPtr(true)
		default:
			return newError(KindMalformedHeader, r.buf.Offset(), "standalone octet %#02x", sb)
		}
	}
	if ob&optVersion != 0 {
		v, _, err := r.readNonIdentifyingString1(r.vocab.otherStrings)
		if err != nil {
			return err
		}
		r.version = v
	}
	return nil
}

// parseDeclaration matches the plaintext declaration against the nine
// permitted forms.
func (r *Reader) parseDeclaration() error {
	var decl []byte
	for len(decl) < maxDeclarationLen {
		b, err := r.readByte()
		if err != nil {
			return err
		}
		decl = append(decl, b)
		if b == '>' {
			break
		}
	}
	i, ok := matchDeclaration(string(decl))
	if !ok {
		return newError(KindInvalidDeclaration, r.buf.Offset(), "declaration %q is not one of the permitted forms", decl)
	}
	r.version, r.standalone = declInfo(i)
	return nil
}

// readPaddedOctetString decodes a non-empty octet string whose length field
// starts on the second bit of a fresh octet, the first bit being padding.
func (r *Reader) readPaddedOctetString() (string, error) {
	b, err := r.readByte()
	if err != nil {
		return "", err
	}
	if b&0x80 != 0 {
		return "", newError(KindMalformedHeader, r.buf.Offset(), "padding bit set in octet string length %#02x", b)
	}
	n, err := readLen2(r.buf, b)
	if err != nil {
		return "", err
	}
	octets, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(octets), nil
}

// skipAdditionalData structurally parses the additional-data component and
// discards it.
func (r *Reader) skipAdditionalData() error {
	count, err := readSequenceCount(r.buf)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := r.readPaddedOctetString(); err != nil {
			return err
		}
		if _, err := r.readPaddedOctetString(); err != nil {
			return err
		}
	}
	return nil
}

// Initial-vocabulary sub-component bits, most significant first across two
// octets; the lowest three bits are padding.
const (
	ivExternal uint16 = 1 << (16 - iota - 1)
	ivRestrictedAlphabets
	ivEncodingAlgorithms
	ivPrefixes
	ivNamespaceNames
	ivLocalNames
	ivOtherNCNames
	ivOtherURIs
	ivAttributeValues
	ivContentCharacterChunks
	ivOtherStrings
	ivElementNames
	ivAttributeNames
)

func (r *Reader) parseInitialVocabulary() error {
	hi, err := r.readByte()
	if err != nil {
		return err
	}
	lo, err := r.readByte()
	if err != nil {
		return err
	}
	flags := uint16(hi)<<8 | uint16(lo)
	if flags&0x0007 != 0 {
		return newError(KindMalformedHeader, r.buf.Offset(), "padding bits set in initial-vocabulary flags %#04x", flags)
	}

	if flags&ivExternal != 0 {
		uri, err := r.readPaddedOctetString()
		if err != nil {
			return err
		}
		ext, err := externalVocabulary(uri)
		if err != nil {
			return newError(KindUnsupportedFeature, r.buf.Offset(), "%v", err)
		}
		r.vocab = ext.Clone()
	}
	if flags&ivRestrictedAlphabets != 0 {
		count, err := readSequenceCount(r.buf)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			chars, err := r.readPaddedOctetString()
			if err != nil {
				return err
			}
			a, err := alphabet.New(chars)
			if err != nil {
				return newError(KindInvalidRestrictedAlphabet, r.buf.Offset(), "%v", err)
			}
			if r.docAlphabets == nil {
				r.docAlphabets = make(map[int]*alphabet.Alphabet)
			}
			r.docAlphabets[alphabet.FirstExtended+int(i)] = a
		}
	}
	if flags&ivEncodingAlgorithms != 0 {
		count, err := readSequenceCount(r.buf)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			uri, err := r.readPaddedOctetString()
			if err != nil {
				return err
			}
			if r.docAlgorithms == nil {
				r.docAlgorithms = make(map[int]string)
			}
			r.docAlgorithms[32+int(i)] = uri
		}
	}

	stringTables := []struct {
		flag uint16
		tbl  *table[string]
	}{
		{ivPrefixes, r.vocab.prefixNames},
		{ivNamespaceNames, r.vocab.namespaceNames},
		{ivLocalNames, r.vocab.localNames},
		{ivOtherNCNames, r.vocab.otherNCNames},
		{ivOtherURIs, r.vocab.otherURIs},
		{ivAttributeValues, r.vocab.attributeValues},
		{ivContentCharacterChunks, r.vocab.contentCharacterChunks},
		{ivOtherStrings, r.vocab.otherStrings},
	}
	for _, st := range stringTables {
		if flags&st.flag == 0 {
			continue
		}
		count, err := readSequenceCount(r.buf)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			s, err := r.readPaddedOctetString()
			if err != nil {
				return err
			}
			st.tbl.add(s)
		}
	}

	for _, nt := range []struct {
		flag uint16
		tbl  *table[QName]
	}{
		{ivElementNames, r.vocab.elementNames},
		{ivAttributeNames, r.vocab.attributeNames},
	} {
		if flags&nt.flag == 0 {
			continue
		}
		count, err := readSequenceCount(r.buf)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			q, err := r.readNameSurrogate()
			if err != nil {
				return err
			}
			nt.tbl.add(q)
		}
	}
	return nil
}

// readNameSurrogate decodes a name surrogate: presence flags followed by
// indices into the prefix, namespace name and local name tables.
func (r *Reader) readNameSurrogate() (QName, error) {
	b, err := r.readByte()
	if err != nil {
		return QName{}, err
	}
	hasPrefix := b&0x02 != 0
	hasNS := b&0x01 != 0
	if hasPrefix && !hasNS {
		return QName{}, newError(KindInvalidQName, r.buf.Offset(), "name surrogate has prefix without namespace")
	}
	var q QName
	if hasPrefix {
		if q.Prefix, err = r.readSurrogatePart(r.vocab.prefixNames); err != nil {
			return QName{}, err
		}
	}
	if hasNS {
		if q.Namespace, err = r.readSurrogatePart(r.vocab.namespaceNames); err != nil {
			return QName{}, err
		}
	}
	if q.Local, err = r.readSurrogatePart(r.vocab.localNames); err != nil {
		return QName{}, err
	}
	return q, nil
}

func (r *Reader) readSurrogatePart(tbl *table[string]) (string, error) {
	b, err := r.readByte()
	if err != nil {
		return "", err
	}
	if b&0x80 != 0 {
		return "", newError(KindMalformedHeader, r.buf.Offset(), "padding bit set in name surrogate index %#02x", b)
	}
	idx, err := readUint2(r.buf, b)
	if err != nil {
		return "", err
	}
	s, ok := tbl.get(idx)
	if !ok {
		return "", newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "name surrogate index %d, table has %d", idx, tbl.size())
	}
	return s, nil
}

func (r *Reader) parseNotations() error {
	for {
		b, err := r.readByte()
		if err != nil {
			return err
		}
		if b == terminator {
			return nil
		}
		if b&0xFC != 0xC0 {
			return newError(KindInvalidIdentifier, r.buf.Offset(), "expected notation, got %#02x", b)
		}
		var n Notation
		if n.Name, err = r.readIdentifyingString(r.vocab.otherNCNames); err != nil {
			return err
		}
		if b&0x02 != 0 {
			if n.SystemID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
				return err
			}
		}
		if b&0x01 != 0 {
			if n.PublicID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
				return err
			}
		}
		r.notations = append(r.notations, n)
	}
}

func (r *Reader) parseUnparsedEntities() error {
	for {
		b, err := r.readByte()
		if err != nil {
			return err
		}
		if b == terminator {
			return nil
		}
		if b&0xFE != 0xD0 {
			return newError(KindInvalidIdentifier, r.buf.Offset(), "expected unparsed entity, got %#02x", b)
		}
		var e UnparsedEntity
		if e.Name, err = r.readIdentifyingString(r.vocab.otherNCNames); err != nil {
			return err
		}
		if e.SystemID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
			return err
		}
		if b&0x01 != 0 {
			if e.PublicID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
				return err
			}
		}
		if e.Notation, err = r.readIdentifyingString(r.vocab.otherNCNames); err != nil {
			return err
		}
		r.unparsed = append(r.unparsed, e)
	}
}
