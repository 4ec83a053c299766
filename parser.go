// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"

	"github.com/fast-infoset/go-finf/algorithm"
	"github.com/fast-infoset/go-finf/alphabet"
	"github.com/fast-infoset/go-finf/internal/buffer"
)

// utf16be converts between UTF-16BE octets and UTF-8, the alternative
// character string encoding of literal strings.
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	// Vocabulary is an external vocabulary template. It is copied before
	// use; the template is never mutated.
	Vocabulary *Vocabulary
	// BlockSize overrides the input buffer block size.
	BlockSize int
}

// Reader decodes one Fast Infoset document from an octet stream as a
// sequence of node events in document order. It is strictly sequential and
// never looks ahead past the identifier it is dispatching on.
//
// A Reader must not be used from more than one goroutine.
type Reader struct {
	buf   *buffer.Reader
	src   io.Reader
	vocab *Vocabulary

	state        ReadState
	err          error
	headerParsed bool
	docEnded     bool
	pendingClose bool
	openElems    []QName

	node       NodeType
	name       QName
	value      string
	attrs      []Attr
	eventDepth int
	attrCursor int
	onAttrVal  bool

	version      string
	standalone   *bool
	charEncoding string
	notations    []Notation
	unparsed     []UnparsedEntity
	systemID     string
	publicID     string

	docAlphabets  map[int]*alphabet.Alphabet
	docAlgorithms map[int]string
}

// NewReader returns a Reader decoding the document in src.
func NewReader(src io.Reader) *Reader {
	return NewReaderWithOptions(src, ReaderOptions{})
}

// NewReaderWithOptions returns a Reader configured by opts.
func NewReaderWithOptions(src io.Reader, opts ReaderOptions) *Reader {
	vocab := NewVocabulary()
	if opts.Vocabulary != nil {
		vocab = opts.Vocabulary.Clone()
	}
	size := buffer.DefaultBlockSize
	if opts.BlockSize > 0 {
		size = opts.BlockSize
	}
	return &Reader{
		buf:        buffer.NewReaderSize(src, size),
		src:        src,
		vocab:      vocab,
		attrCursor: -1,
	}
}

// fail latches the reader into the error state. Subsequent calls other than
// Close return the same error.
func (r *Reader) fail(err error) error {
	r.err = err
	r.state = ReadStateError
	return err
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.buf.ReadByte()
	if err != nil {
		return 0, wrapStreamErr(err, r.buf.Offset())
	}
	return b, nil
}

func (r *Reader) readBytes(n int) ([]byte, error) {
	b, err := r.buf.ReadBytes(n)
	if err != nil {
		return nil, wrapStreamErr(err, r.buf.Offset())
	}
	return b, nil
}

// Read advances to the next node event. It returns io.EOF after the
// document terminator has been consumed.
func (r *Reader) Read() (NodeType, error) {
	switch r.state {
	case ReadStateClosed:
		return NodeNone, newError(KindInvalidState, -1, "reader is closed")
	case ReadStateError:
		return NodeNone, r.err
	case ReadStateEndOfFile:
		return NodeNone, io.EOF
	}
	if !r.headerParsed {
		if err := r.parseHeader(); err != nil {
			return NodeNone, r.fail(err)
		}
		r.headerParsed = true
		r.state = ReadStateInteractive
	}
	r.attrCursor, r.onAttrVal = -1, false
	r.name, r.value = QName{}, ""
	r.attrs = r.attrs[:0]
	if r.pendingClose {
		r.pendingClose = false
		return r.emitEndElement()
	}
	if r.docEnded {
		r.state = ReadStateEndOfFile
		r.node = NodeNone
		return NodeNone, io.EOF
	}
	b, err := r.readByte()
	if err != nil {
		return NodeNone, r.fail(err)
	}
	t, err := r.dispatch(b)
	if err == io.EOF {
		return NodeNone, err
	}
	if err != nil {
		return NodeNone, r.fail(err)
	}
	return t, nil
}

func (r *Reader) dispatch(b byte) (NodeType, error) {
	switch {
	case b&0x80 == 0:
		return r.readElement(b)
	case b == terminator:
		if len(r.openElems) > 0 {
			return r.emitEndElement()
		}
		r.docEnded = true
		r.state = ReadStateEndOfFile
		r.node = NodeNone
		return NodeNone, io.EOF
	case b == doubleTerminator:
		switch {
		case len(r.openElems) >= 2:
			r.pendingClose = true
			return r.emitEndElement()
		case len(r.openElems) == 1:
			r.docEnded = true
			return r.emitEndElement()
		default:
			r.docEnded = true
			r.state = ReadStateEndOfFile
			r.node = NodeNone
			return NodeNone, io.EOF
		}
	case b&0xC0 == 0x80:
		if len(r.openElems) == 0 {
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "character chunk outside any element")
		}
		return r.readChunk(b)
	case b == 0xE1:
		return r.readProcessingInstruction()
	case b == 0xE2:
		return r.readComment()
	case b>>2 == 0x31:
		if len(r.openElems) != 0 {
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "document type declaration inside an element")
		}
		return r.readDocType(b)
	case b>>2 == 0x32:
		if len(r.openElems) == 0 {
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "entity reference outside any element")
		}
		return r.readEntityRef(b)
	}
	return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "unrecognized item identifier %#02x", b)
}

func (r *Reader) emitEndElement() (NodeType, error) {
	n := len(r.openElems) - 1
	r.name = r.openElems[n]
	r.eventDepth = len(r.openElems)
	r.openElems = r.openElems[:n]
	r.attrs = r.attrs[:0]
	r.node = NodeEndElement
	return NodeEndElement, nil
}

// readElement decodes an element item. The identifier octet carries the
// attributes flag on its second bit and either the namespace-attributes
// pattern or the start of the qualified-name-or-index on bits 3..8.
func (r *Reader) readElement(b byte) (NodeType, error) {
	hasAttrs := b&0x40 != 0
	r.attrs = r.attrs[:0]

	qb := b
	if b&0x3C == 0x38 {
		for {
			nb, err := r.readByte()
			if err != nil {
				return NodeNone, err
			}
			if nb == terminator {
				break
			}
			if nb&0xFC != 0xCC {
				return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "expected namespace attribute, got %#02x", nb)
			}
			attr, err := r.readNamespaceAttr(nb)
			if err != nil {
				return NodeNone, err
			}
			r.attrs = append(r.attrs, attr)
		}
		nqb, err := r.readByte()
		if err != nil {
			return NodeNone, err
		}
		if nqb&0xC0 != 0 {
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "invalid padding before element name: %#02x", nqb)
		}
		qb = nqb
	}

	name, err := r.readQNameOrIndex3(qb)
	if err != nil {
		return NodeNone, err
	}
	r.openElems = append(r.openElems, name)

	if hasAttrs {
		for {
			ab, err := r.readByte()
			if err != nil {
				return NodeNone, err
			}
			if ab&0x80 == 0 {
				attr, err := r.readAttribute(ab)
				if err != nil {
					return NodeNone, err
				}
				r.attrs = append(r.attrs, attr)
				continue
			}
			if ab == terminator {
				break
			}
			if ab == doubleTerminator {
				r.pendingClose = true
				break
			}
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "expected attribute or terminator, got %#02x", ab)
		}
	}

	r.node, r.name = NodeElement, name
	r.eventDepth = len(r.openElems)
	return NodeElement, nil
}

func (r *Reader) readNamespaceAttr(nb byte) (Attr, error) {
	var prefix, ns string
	var err error
	if nb&0x02 != 0 {
		if prefix, err = r.readIdentifyingString(r.vocab.prefixNames); err != nil {
			return Attr{}, err
		}
	}
	if nb&0x01 != 0 {
		if ns, err = r.readIdentifyingString(r.vocab.namespaceNames); err != nil {
			return Attr{}, err
		}
	}
	name := QName{Prefix: "xmlns", Namespace: XMLNSNamespace, Local: prefix}
	if prefix == "" {
		name = QName{Namespace: XMLNSNamespace, Local: "xmlns"}
	}
	return Attr{Name: name, Value: ns}, nil
}

// readQNameOrIndex3 decodes a qualified-name-or-index whose field starts on
// the third bit, inserting literal names into the element name table.
func (r *Reader) readQNameOrIndex3(b byte) (QName, error) {
	if b&0x3C == 0x3C {
		q, err := r.readLiteralQName(b&0x02 != 0, b&0x01 != 0)
		if err != nil {
			return QName{}, err
		}
		r.vocab.elementNames.add(q)
		return q, nil
	}
	idx, err := readUint3(r.buf, b)
	if err != nil {
		return QName{}, err
	}
	q, ok := r.vocab.elementNames.get(idx)
	if !ok {
		return QName{}, newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "element name index %d, table has %d", idx, r.vocab.elementNames.size())
	}
	return q, nil
}

// readQNameOrIndex2 is the second-bit form used for attribute names.
func (r *Reader) readQNameOrIndex2(b byte) (QName, error) {
	if b&0x78 == 0x78 {
		if b&0x04 != 0 {
			return QName{}, newError(KindInvalidIdentifier, r.buf.Offset(), "invalid attribute name identifier %#02x", b)
		}
		q, err := r.readLiteralQName(b&0x02 != 0, b&0x01 != 0)
		if err != nil {
			return QName{}, err
		}
		r.vocab.attributeNames.add(q)
		return q, nil
	}
	idx, err := readUint2(r.buf, b)
	if err != nil {
		return QName{}, err
	}
	q, ok := r.vocab.attributeNames.get(idx)
	if !ok {
		return QName{}, newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "attribute name index %d, table has %d", idx, r.vocab.attributeNames.size())
	}
	return q, nil
}

func (r *Reader) readLiteralQName(hasPrefix, hasNS bool) (QName, error) {
	if hasPrefix && !hasNS {
		return QName{}, newError(KindInvalidQName, r.buf.Offset(), "prefix present without namespace")
	}
	var q QName
	var err error
	if hasPrefix {
		if q.Prefix, err = r.readIdentifyingString(r.vocab.prefixNames); err != nil {
			return QName{}, err
		}
	}
	if hasNS {
		if q.Namespace, err = r.readIdentifyingString(r.vocab.namespaceNames); err != nil {
			return QName{}, err
		}
	}
	if q.Local, err = r.readIdentifyingString(r.vocab.localNames); err != nil {
		return QName{}, err
	}
	return q, nil
}

func (r *Reader) readAttribute(ab byte) (Attr, error) {
	name, err := r.readQNameOrIndex2(ab)
	if err != nil {
		return Attr{}, err
	}
	value, _, err := r.readNonIdentifyingString1(r.vocab.attributeValues)
	if err != nil {
		return Attr{}, err
	}
	return Attr{Name: name, Value: value}, nil
}

// readIdentifyingString decodes an identifying-string-or-index over tbl.
// Literal identifying strings are always UTF-8 and always enter the table.
func (r *Reader) readIdentifyingString(tbl *table[string]) (string, error) {
	b, err := r.readByte()
	if err != nil {
		return "", err
	}
	if b&0x80 == 0 {
		n, err := readLen2(r.buf, b)
		if err != nil {
			return "", err
		}
		octets, err := r.readBytes(int(n))
		if err != nil {
			return "", err
		}
		s := string(octets)
		tbl.add(s)
		return s, nil
	}
	idx, err := readUint2(r.buf, b)
	if err != nil {
		return "", err
	}
	s, ok := tbl.get(idx)
	if !ok {
		return "", newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "string index %d, table has %d", idx, tbl.size())
	}
	return s, nil
}

// readNonIdentifyingString1 decodes a non-identifying-string-or-index whose
// field starts on the first bit. The zero index is the empty string. The
// add-to-table bit controls insertion into tbl.
func (r *Reader) readNonIdentifyingString1(tbl *table[string]) (s string, cdata bool, err error) {
	b, err := r.readByte()
	if err != nil {
		return "", false, err
	}
	if b&0x80 != 0 {
		if b&0x7F == zeroOnSecondBit {
			return "", false, nil
		}
		idx, err := readUint2(r.buf, b)
		if err != nil {
			return "", false, err
		}
		s, ok := tbl.get(idx)
		if !ok {
			return "", false, newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "string index %d, table has %d", idx, tbl.size())
		}
		return s, false, nil
	}
	s, cdata, err = r.readEncodedString3(b)
	if err != nil {
		return "", false, err
	}
	if b&0x40 != 0 {
		tbl.add(s)
	}
	return s, cdata, nil
}

// readEncodedString3 decodes an encoded-character-string whose discriminator
// occupies bits 3 and 4 of b.
func (r *Reader) readEncodedString3(b byte) (s string, cdata bool, err error) {
	switch b & 0x30 {
	case 0x00, 0x10:
		n, err := readLen5(r.buf, b)
		if err != nil {
			return "", false, err
		}
		octets, err := r.readBytes(int(n))
		if err != nil {
			return "", false, err
		}
		if b&0x30 == 0x10 {
			return r.decodeUTF16(octets)
		}
		return string(octets), false, nil
	default:
		b2, err := r.readByte()
		if err != nil {
			return "", false, err
		}
		idx := int(b&0x0F)<<4 | int(b2>>4)
		idx++
		n, err := readLen5(r.buf, b2)
		if err != nil {
			return "", false, err
		}
		octets, err := r.readBytes(int(n))
		if err != nil {
			return "", false, err
		}
		if b&0x30 == 0x20 {
			s, err := r.decodeAlphabet(idx, octets)
			return s, false, err
		}
		return r.decodeAlgorithm(idx, octets)
	}
}

// readEncodedString5 is the fifth-bit form used inside character chunks.
func (r *Reader) readEncodedString5(b byte) (s string, cdata bool, err error) {
	switch b & 0x0C {
	case 0x00, 0x04:
		n, err := readLen7(r.buf, b)
		if err != nil {
			return "", false, err
		}
		octets, err := r.readBytes(int(n))
		if err != nil {
			return "", false, err
		}
		if b&0x0C == 0x04 {
			return r.decodeUTF16(octets)
		}
		return string(octets), false, nil
	default:
		b2, err := r.readByte()
		if err != nil {
			return "", false, err
		}
		idx := int(b&0x03)<<6 | int(b2>>2)
		idx++
		n, err := readLen7(r.buf, b2)
		if err != nil {
			return "", false, err
		}
		octets, err := r.readBytes(int(n))
		if err != nil {
			return "", false, err
		}
		if b&0x0C == 0x08 {
			s, err := r.decodeAlphabet(idx, octets)
			return s, false, err
		}
		return r.decodeAlgorithm(idx, octets)
	}
}

func (r *Reader) decodeUTF16(octets []byte) (string, bool, error) {
	decoded, err := utf16be.NewDecoder().Bytes(octets)
	if err != nil {
		return "", false, newError(KindInvalidIdentifier, r.buf.Offset(), "decoding UTF-16BE string: %v", err)
	}
	return string(decoded), false, nil
}

func (r *Reader) decodeAlphabet(idx int, octets []byte) (string, error) {
	a, err := r.alphabetByIndex(idx)
	if err != nil {
		return "", err
	}
	s, err := a.Decode(octets)
	if err != nil {
		return "", newError(KindInvalidRestrictedAlphabet, r.buf.Offset(), "decoding restricted alphabet %d: %v", idx, err)
	}
	return s, nil
}

func (r *Reader) alphabetByIndex(idx int) (*alphabet.Alphabet, error) {
	if idx >= 3 && idx < alphabet.FirstExtended {
		return nil, newError(KindInvalidRestrictedAlphabet, r.buf.Offset(), "reserved restricted alphabet index %d", idx)
	}
	if a, ok := r.docAlphabets[idx]; ok {
		return a, nil
	}
	a, err := alphabet.ByIndex(idx)
	if err != nil {
		return nil, newError(KindUnknownRestrictedAlphabet, r.buf.Offset(), "%v", err)
	}
	return a, nil
}

func (r *Reader) decodeAlgorithm(idx int, octets []byte) (string, bool, error) {
	algo, err := r.algorithmByIndex(idx)
	if err != nil {
		return "", false, err
	}
	text, err := algo.Text(octets)
	if err != nil {
		return "", false, newError(KindInvalidLengthEncoding, r.buf.Offset(), "decoding algorithm %d payload: %v", idx, err)
	}
	return text, algo.Index() == algorithm.CDATAIndex, nil
}

func (r *Reader) algorithmByIndex(idx int) (algorithm.Algorithm, error) {
	if idx > algorithm.CDATAIndex && idx < algorithm.FirstExtended {
		return nil, newError(KindUnknownEncodingAlgorithm, r.buf.Offset(), "reserved encoding algorithm index %d", idx)
	}
	if uri, ok := r.docAlgorithms[idx]; ok {
		algo, err := algorithm.ByURI(uri)
		if err != nil {
			return nil, newError(KindUnknownEncodingAlgorithm, r.buf.Offset(), "%v", err)
		}
		return algo, nil
	}
	algo, err := algorithm.ByIndex(idx)
	if err != nil {
		return nil, newError(KindUnknownEncodingAlgorithm, r.buf.Offset(), "%v", err)
	}
	return algo, nil
}

func (r *Reader) readChunk(b byte) (NodeType, error) {
	if b&0x20 != 0 {
		idx, err := readUint4(r.buf, b)
		if err != nil {
			return NodeNone, err
		}
		s, ok := r.vocab.contentCharacterChunks.get(idx)
		if !ok {
			return NodeNone, newError(KindVocabularyIndexOutOfBounds, r.buf.Offset(), "character chunk index %d, table has %d", idx, r.vocab.contentCharacterChunks.size())
		}
		r.node, r.value = NodeText, s
	} else {
		s, cdata, err := r.readEncodedString5(b)
		if err != nil {
			return NodeNone, err
		}
		if b&0x10 != 0 {
			r.vocab.contentCharacterChunks.add(s)
		}
		r.node, r.value = NodeText, s
		if cdata {
			r.node = NodeCDATA
		}
	}
	r.eventDepth = len(r.openElems)
	return r.node, nil
}

func (r *Reader) readProcessingInstruction() (NodeType, error) {
	target, err := r.readIdentifyingString(r.vocab.otherNCNames)
	if err != nil {
		return NodeNone, err
	}
	content, _, err := r.readNonIdentifyingString1(r.vocab.otherStrings)
	if err != nil {
		return NodeNone, err
	}
	r.node = NodeProcessingInstruction
	r.name = QName{Local: target}
	r.value = content
	r.eventDepth = len(r.openElems)
	return r.node, nil
}

func (r *Reader) readComment() (NodeType, error) {
	content, _, err := r.readNonIdentifyingString1(r.vocab.otherStrings)
	if err != nil {
		return NodeNone, err
	}
	r.node = NodeComment
	r.value = content
	r.eventDepth = len(r.openElems)
	return r.node, nil
}

// readDocType decodes a document type declaration. Its children may only be
// processing instructions; they are consumed and dropped.
func (r *Reader) readDocType(b byte) (NodeType, error) {
	r.systemID, r.publicID = "", ""
	var err error
	if b&0x02 != 0 {
		if r.systemID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
			return NodeNone, err
		}
	}
	if b&0x01 != 0 {
		if r.publicID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
			return NodeNone, err
		}
	}
	for {
		nb, err := r.readByte()
		if err != nil {
			return NodeNone, err
		}
		if nb == terminator {
			break
		}
		if nb != 0xE1 {
			return NodeNone, newError(KindInvalidIdentifier, r.buf.Offset(), "expected processing instruction in document type declaration, got %#02x", nb)
		}
		if _, err := r.readIdentifyingString(r.vocab.otherNCNames); err != nil {
			return NodeNone, err
		}
		if _, _, err := r.readNonIdentifyingString1(r.vocab.otherStrings); err != nil {
			return NodeNone, err
		}
	}
	r.node = NodeDocumentType
	r.eventDepth = 0
	return r.node, nil
}

func (r *Reader) readEntityRef(b byte) (NodeType, error) {
	name, err := r.readIdentifyingString(r.vocab.otherNCNames)
	if err != nil {
		return NodeNone, err
	}
	r.systemID, r.publicID = "", ""
	if b&0x02 != 0 {
		if r.systemID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
			return NodeNone, err
		}
	}
	if b&0x01 != 0 {
		if r.publicID, err = r.readIdentifyingString(r.vocab.otherURIs); err != nil {
			return NodeNone, err
		}
	}
	r.node = NodeEntityReference
	r.name = QName{Local: name}
	r.eventDepth = len(r.openElems)
	return r.node, nil
}

// ReadState reports the reader lifecycle state.
func (r *Reader) ReadState() ReadState { return r.state }

// Depth reports the element nesting depth of the current node. The root
// element, and character data directly inside it, are at depth 1.
func (r *Reader) Depth() int { return r.eventDepth }

// NodeType reports the kind of the current node. After moving onto an
// attribute it reports NodeAttribute, or NodeText once ReadAttributeValue
// has been called.
func (r *Reader) NodeType() NodeType {
	if r.attrCursor >= 0 {
		if r.onAttrVal {
			return NodeText
		}
		return NodeAttribute
	}
	return r.node
}

// Prefix returns the namespace prefix of the current node.
func (r *Reader) Prefix() string { return r.currentName().Prefix }

// LocalName returns the local name of the current node.
func (r *Reader) LocalName() string { return r.currentName().Local }

// NamespaceURI returns the namespace name of the current node.
func (r *Reader) NamespaceURI() string { return r.currentName().Namespace }

func (r *Reader) currentName() QName {
	if r.attrCursor >= 0 && r.attrCursor < len(r.attrs) {
		if r.onAttrVal {
			return QName{}
		}
		return r.attrs[r.attrCursor].Name
	}
	return r.name
}

// Value returns the character data of the current node: text, CDATA or
// comment content, processing instruction content, or an attribute value.
func (r *Reader) Value() string {
	if r.attrCursor >= 0 && r.attrCursor < len(r.attrs) {
		return r.attrs[r.attrCursor].Value
	}
	return r.value
}

// AttributeCount returns the number of attributes of the current element,
// namespace declarations included.
func (r *Reader) AttributeCount() int { return len(r.attrs) }

// GetAttribute returns attribute i of the current element.
func (r *Reader) GetAttribute(i int) (Attr, error) {
	if i < 0 || i >= len(r.attrs) {
		return Attr{}, fmt.Errorf("attribute index %d out of range [0,%d)", i, len(r.attrs))
	}
	return r.attrs[i], nil
}

// GetAttributeByName returns the value of the attribute with the given
// lexical name (prefix:local).
func (r *Reader) GetAttributeByName(name string) (string, bool) {
	for _, a := range r.attrs {
		if a.Name.String() == name {
			return a.Value, true
		}
	}
	return "", false
}

// GetAttributeNS returns the value of the attribute with the given
// namespace name and local name.
func (r *Reader) GetAttributeNS(ns, local string) (string, bool) {
	for _, a := range r.attrs {
		if a.Name.Namespace == ns && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// MoveToAttribute positions the cursor on attribute i.
func (r *Reader) MoveToAttribute(i int) error {
	if i < 0 || i >= len(r.attrs) {
		return fmt.Errorf("attribute index %d out of range [0,%d)", i, len(r.attrs))
	}
	r.attrCursor, r.onAttrVal = i, false
	return nil
}

// MoveToAttributeByName positions the cursor on the named attribute.
func (r *Reader) MoveToAttributeByName(name string) bool {
	for i, a := range r.attrs {
		if a.Name.String() == name {
			r.attrCursor, r.onAttrVal = i, false
			return true
		}
	}
	return false
}

// MoveToAttributeNS positions the cursor on the attribute with the given
// namespace name and local name.
func (r *Reader) MoveToAttributeNS(ns, local string) bool {
	for i, a := range r.attrs {
		if a.Name.Namespace == ns && a.Name.Local == local {
			r.attrCursor, r.onAttrVal = i, false
			return true
		}
	}
	return false
}

// MoveToNextAttribute advances the cursor to the next attribute. From the
// element it moves to the first attribute.
func (r *Reader) MoveToNextAttribute() bool {
	if r.attrCursor+1 >= len(r.attrs) {
		return false
	}
	r.attrCursor++
	r.onAttrVal = false
	return true
}

// MoveToElement returns the cursor to the element owning the attributes.
func (r *Reader) MoveToElement() bool {
	if r.attrCursor < 0 {
		return false
	}
	r.attrCursor, r.onAttrVal = -1, false
	return true
}

// ReadAttributeValue positions the cursor on the value of the current
// attribute, after which NodeType reports NodeText and Value returns the
// attribute value. It does not consume input.
func (r *Reader) ReadAttributeValue() bool {
	if r.attrCursor < 0 || r.onAttrVal {
		return false
	}
	r.onAttrVal = true
	return true
}

// Version returns the XML version from the declaration or the version
// document component, if either was present.
func (r *Reader) Version() string { return r.version }

// Standalone returns the standalone pseudo-attribute, or nil when absent.
func (r *Reader) Standalone() *bool { return r.standalone }

// CharacterEncodingScheme returns the character encoding scheme document
// component, if present.
func (r *Reader) CharacterEncodingScheme() string { return r.charEncoding }

// Notations returns the notations declared by the document.
func (r *Reader) Notations() []Notation { return r.notations }

// UnparsedEntities returns the unparsed entities declared by the document.
func (r *Reader) UnparsedEntities() []UnparsedEntity { return r.unparsed }

// SystemID returns the system identifier of the current document type
// declaration or entity reference node.
func (r *Reader) SystemID() string { return r.systemID }

// PublicID returns the public identifier of the current document type
// declaration or entity reference node.
func (r *Reader) PublicID() string { return r.publicID }

// Close releases the reader. It does not close the underlying stream unless
// the stream is an io.Closer.
func (r *Reader) Close() error {
	if r.state == ReadStateClosed {
		return nil
	}
	r.state = ReadStateClosed
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
