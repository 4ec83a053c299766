// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fast-infoset/go-finf/algorithm"
	"github.com/fast-infoset/go-finf/alphabet"
	"github.com/fast-infoset/go-finf/internal/buffer"
)

// defaultIndexThreshold is the character count at and above which a
// non-identifying string is emitted literally without entering the value
// tables.
const defaultIndexThreshold = 60

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Vocabulary is an external vocabulary template. It is copied before
	// use; the template is never mutated.
	Vocabulary *Vocabulary
	// ExternalVocabularyURI emits an initial-vocabulary component
	// referencing the URI. The vocabulary must be registered with
	// RegisterExternalVocabulary unless Vocabulary is also set.
	ExternalVocabularyURI string
	// UTF16Literals selects UTF-16BE instead of UTF-8 for literal
	// non-identifying character strings.
	UTF16Literals bool
	// IndexThreshold overrides the 60-character indexing threshold.
	IndexThreshold int
	// BlockSize overrides the output buffer block size.
	BlockSize int
}

// DocumentOptions selects the plaintext declaration written by
// WriteStartDocument. Standalone false maps to standalone='no'; nil omits
// the pseudo-attribute.
type DocumentOptions struct {
	// Declare emits one of the nine plaintext declarations ahead of the
	// identification octets.
	Declare bool
	// Version is "", "1.0" or "1.1".
	Version string
	// Standalone selects the standalone pseudo-attribute.
	Standalone *bool
}

// pendingAttr is the attribute currently being written.
type pendingAttr struct {
	name       QName
	value      strings.Builder
	isDecl     bool
	declPrefix string
}

// pendingElement buffers an element from WriteStartElement until its
// attribute list is complete or its first child arrives.
type pendingElement struct {
	name  QName
	decls []nsBinding
	attrs []Attr
}

// Writer encodes a sequence of node events as one Fast Infoset document.
//
// A Writer must not be used from more than one goroutine.
type Writer struct {
	buf       *buffer.Writer
	vocab     *Vocabulary
	opts      WriterOptions
	threshold int

	state       writerState
	err         error
	started     bool
	docOpts     DocumentOptions
	pendingTerm bool
	elem        *pendingElement
	attr        *pendingAttr
	openCount   int
	nsm         namespaceManager
}

// NewWriter returns a Writer encoding to dst.
func NewWriter(dst io.Writer) *Writer {
	return NewWriterWithOptions(dst, WriterOptions{})
}

// NewWriterWithOptions returns a Writer configured by opts.
func NewWriterWithOptions(dst io.Writer, opts WriterOptions) *Writer {
	vocab := NewVocabulary()
	if opts.Vocabulary != nil {
		vocab = opts.Vocabulary.Clone()
	}
	threshold := opts.IndexThreshold
	if threshold <= 0 {
		threshold = defaultIndexThreshold
	}
	size := buffer.DefaultBlockSize
	if opts.BlockSize > 0 {
		size = opts.BlockSize
	}
	return &Writer{
		buf:       buffer.NewWriterSize(dst, size),
		vocab:     vocab,
		opts:      opts,
		threshold: threshold,
	}
}

// fail latches the writer into the error state. Only Close is legal
// afterwards.
func (w *Writer) fail(err error) error {
	if w.state != wsError {
		w.err = err
		w.state = wsError
	}
	return err
}

func (w *Writer) failStream(err error) error {
	var fe *Error
	if !errors.As(err, &fe) {
		err = &Error{Kind: KindIoError, Offset: -1, Err: err}
	}
	return w.fail(err)
}

// check validates item against the sequencing state.
func (w *Writer) check(item itemKind) error {
	switch w.state {
	case wsError:
		return w.err
	case wsClosed:
		return w.fail(newError(KindInvalidState, -1, "%s after document end", item))
	}
	if !w.state.allows(item) {
		return w.fail(newError(KindInvalidState, -1, "%s not permitted in state %s", item, w.state))
	}
	return nil
}

// WriteStartDocument begins the document, optionally with a plaintext
// declaration. Writing any other item first starts the document implicitly,
// without a declaration.
func (w *Writer) WriteStartDocument(opts DocumentOptions) error {
	if err := w.check(itemStartDocument); err != nil {
		return err
	}
	if w.state != wsStart {
		return w.fail(newError(KindInvalidState, -1, "document already started"))
	}
	w.docOpts = opts
	if err := w.ensureStarted(); err != nil {
		return err
	}
	w.state = wsProlog
	return nil
}

// ensureStarted emits the declaration, identification octets and optional
// components once.
func (w *Writer) ensureStarted() error {
	if w.started {
		return nil
	}
	w.started = true
	if w.docOpts.Declare {
		decl, ok := declFor(w.docOpts.Version, w.docOpts.Standalone)
		if !ok {
			return w.fail(newError(KindInvalidDeclaration, -1, "version %q is not 1.0 or 1.1", w.docOpts.Version))
		}
		if _, err := w.buf.Write([]byte(decl)); err != nil {
			return w.failStream(err)
		}
	}
	if _, err := w.buf.Write(magic[:]); err != nil {
		return w.failStream(err)
	}
	var ob byte
	if w.opts.ExternalVocabularyURI != "" {
		ob |= optInitialVocabulary
	}
	if err := w.buf.WriteByte(ob); err != nil {
		return w.failStream(err)
	}
	if w.opts.ExternalVocabularyURI != "" {
		if err := w.writeExternalVocabulary(w.opts.ExternalVocabularyURI); err != nil {
			return err
		}
	}
	if w.state == wsStart {
		w.state = wsProlog
	}
	return nil
}

func (w *Writer) writeExternalVocabulary(uri string) error {
	if w.opts.Vocabulary == nil {
		ext, err := externalVocabulary(uri)
		if err != nil {
			return w.fail(newError(KindUnsupportedFeature, -1, "%v", err))
		}
		w.vocab = ext.Clone()
	}
	flags := ivExternal
	if err := w.buf.WriteByte(byte(flags >> 8)); err != nil {
		return w.failStream(err)
	}
	if err := w.buf.WriteByte(byte(flags)); err != nil {
		return w.failStream(err)
	}
	return w.writePaddedOctetString(uri)
}

func (w *Writer) writePaddedOctetString(s string) error {
	if err := writeLen2(w.buf, 0x00, uint64(len(s))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write([]byte(s)); err != nil {
		return w.failStream(err)
	}
	return nil
}

// commitPending emits a deferred terminator ahead of a non-terminal item.
func (w *Writer) commitPending() error {
	if !w.pendingTerm {
		return nil
	}
	w.pendingTerm = false
	if err := w.buf.WriteByte(terminator); err != nil {
		return w.failStream(err)
	}
	return nil
}

// beforeChild prepares for writing a child item: the document is started,
// the buffered element is flushed, and any deferred terminator is
// committed.
func (w *Writer) beforeChild() error {
	if err := w.ensureStarted(); err != nil {
		return err
	}
	if w.elem != nil {
		if err := w.flushElement(); err != nil {
			return err
		}
	}
	return w.commitPending()
}

// flushElement serializes the buffered element: namespace attribute block,
// qualified name, then the attribute list. A written attribute list leaves
// its closing terminator deferred.
func (w *Writer) flushElement() error {
	e := w.elem
	w.elem = nil
	var lead byte
	if len(e.attrs) > 0 {
		lead |= 0x40
	}
	if len(e.decls) > 0 {
		if err := w.buf.WriteByte(lead | 0x38); err != nil {
			return w.failStream(err)
		}
		for _, d := range e.decls {
			nb := byte(0xCC)
			if d.prefix != "" {
				nb |= 0x02
			}
			if d.uri != "" {
				nb |= 0x01
			}
			if err := w.buf.WriteByte(nb); err != nil {
				return w.failStream(err)
			}
			if d.prefix != "" {
				if err := w.writeIdentifyingString(d.prefix, w.vocab.prefixNames); err != nil {
					return err
				}
			}
			if d.uri != "" {
				if err := w.writeIdentifyingString(d.uri, w.vocab.namespaceNames); err != nil {
					return err
				}
			}
		}
		if err := w.buf.WriteByte(terminator); err != nil {
			return w.failStream(err)
		}
		if err := w.writeElementQName(0x00, e.name); err != nil {
			return err
		}
	} else {
		if err := w.writeElementQName(lead, e.name); err != nil {
			return err
		}
	}
	for _, a := range e.attrs {
		if err := w.writeAttributeQName(a.Name); err != nil {
			return err
		}
		if err := w.writeNonIdentifyingString1(a.Value, w.vocab.attributeValues); err != nil {
			return err
		}
	}
	if len(e.attrs) > 0 {
		w.pendingTerm = true
	}
	return nil
}

// writeElementQName emits a qualified-name-or-index on the third bit.
func (w *Writer) writeElementQName(lead byte, q QName) error {
	if idx, ok := w.vocab.elementNames.lookup(q); ok {
		if err := writeUint3(w.buf, lead, idx); err != nil {
			return w.fail(err)
		}
		return nil
	}
	return w.writeLiteralQName(lead|0x3C, q, w.vocab.elementNames)
}

// writeAttributeQName emits a qualified-name-or-index on the second bit.
func (w *Writer) writeAttributeQName(q QName) error {
	if idx, ok := w.vocab.attributeNames.lookup(q); ok {
		if err := writeUint2(w.buf, 0x00, idx); err != nil {
			return w.fail(err)
		}
		return nil
	}
	return w.writeLiteralQName(0x78, q, w.vocab.attributeNames)
}

func (w *Writer) writeLiteralQName(lead byte, q QName, tbl *table[QName]) error {
	if q.Prefix != "" && q.Namespace == "" {
		return w.fail(newError(KindInvalidQName, -1, "prefix %q without namespace", q.Prefix))
	}
	if q.Prefix != "" {
		lead |= 0x02
	}
	if q.Namespace != "" {
		lead |= 0x01
	}
	if err := w.buf.WriteByte(lead); err != nil {
		return w.failStream(err)
	}
	if q.Prefix != "" {
		if err := w.writeIdentifyingString(q.Prefix, w.vocab.prefixNames); err != nil {
			return err
		}
	}
	if q.Namespace != "" {
		if err := w.writeIdentifyingString(q.Namespace, w.vocab.namespaceNames); err != nil {
			return err
		}
	}
	if err := w.writeIdentifyingString(q.Local, w.vocab.localNames); err != nil {
		return err
	}
	tbl.add(q)
	return nil
}

// writeIdentifyingString emits an identifying-string-or-index. Literal
// identifying strings are always UTF-8 and always enter the table.
func (w *Writer) writeIdentifyingString(s string, tbl *table[string]) error {
	if idx, ok := tbl.lookup(s); ok {
		if err := writeUint2(w.buf, 0x80, idx); err != nil {
			return w.fail(err)
		}
		return nil
	}
	if err := writeLen2(w.buf, 0x00, uint64(len(s))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write([]byte(s)); err != nil {
		return w.failStream(err)
	}
	tbl.add(s)
	return nil
}

// writeNonIdentifyingString1 emits a non-identifying-string-or-index on the
// first bit. The empty string is the zero index; strings at or above the
// indexing threshold are emitted literally without entering the table.
func (w *Writer) writeNonIdentifyingString1(s string, tbl *table[string]) error {
	if s == "" {
		if err := w.buf.WriteByte(0x80 | zeroOnSecondBit); err != nil {
			return w.failStream(err)
		}
		return nil
	}
	if utf8.RuneCountInString(s) < w.threshold {
		if idx, ok := tbl.lookup(s); ok {
			if err := writeUint2(w.buf, 0x80, idx); err != nil {
				return w.fail(err)
			}
			return nil
		}
		if err := w.writeEncodedString3(0x40, s); err != nil {
			return err
		}
		tbl.add(s)
		return nil
	}
	return w.writeEncodedString3(0x00, s)
}

// writeEncodedString3 emits an encoded-character-string whose discriminator
// occupies bits 3 and 4 of the lead octet.
func (w *Writer) writeEncodedString3(lead byte, s string) error {
	octets, disc, err := w.literalOctets(s)
	if err != nil {
		return err
	}
	if err := writeLen5(w.buf, lead|disc<<4, uint64(len(octets))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write(octets); err != nil {
		return w.failStream(err)
	}
	return nil
}

// writeEncodedString5 is the fifth-bit form used inside character chunks.
func (w *Writer) writeEncodedString5(lead byte, s string) error {
	octets, disc, err := w.literalOctets(s)
	if err != nil {
		return err
	}
	if err := writeLen7(w.buf, lead|disc<<2, uint64(len(octets))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write(octets); err != nil {
		return w.failStream(err)
	}
	return nil
}

// literalOctets encodes s per the vocabulary's character string encoding.
func (w *Writer) literalOctets(s string) ([]byte, byte, error) {
	if w.opts.UTF16Literals {
		octets, err := utf16be.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, 0, w.fail(newError(KindIoError, -1, "encoding UTF-16BE string: %v", err))
		}
		return octets, 0x01, nil
	}
	return []byte(s), 0x00, nil
}

// WriteStartElement buffers a new element. With an empty namespace the
// prefix must already resolve; with an empty prefix an in-scope prefix for
// the namespace is reused or a default-namespace declaration is pushed.
func (w *Writer) WriteStartElement(prefix, local, ns string) error {
	if err := w.check(itemStartElement); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.nsm.push()
	name, decls, err := w.resolveElementName(prefix, local, ns)
	if err != nil {
		return w.fail(err)
	}
	w.elem = &pendingElement{name: name, decls: decls}
	w.openCount++
	w.state = wsElement
	return nil
}

func (w *Writer) resolveElementName(prefix, local, ns string) (QName, []nsBinding, error) {
	var decls []nsBinding
	switch {
	case ns == "":
		if prefix != "" {
			uri, ok := w.nsm.resolve(prefix)
			if !ok || uri == "" {
				return QName{}, nil, newError(KindUndefinedNamespaceForPrefix, -1, "prefix %q is not bound", prefix)
			}
			ns = uri
		} else {
			ns, _ = w.nsm.resolve("")
		}
	case ns == XMLNSNamespace:
		return QName{}, nil, newError(KindReservedNamespace, -1, "element in the xmlns namespace")
	case ns == XMLNamespace:
		prefix = "xml"
	default:
		if prefix == "" {
			if p, ok := w.nsm.lookupPrefix(ns); ok {
				prefix = p
			} else {
				decls = append(decls, nsBinding{prefix: "", uri: ns})
				w.nsm.declare("", ns)
			}
		} else if uri, _ := w.nsm.resolve(prefix); uri != ns {
			decls = append(decls, nsBinding{prefix: prefix, uri: ns})
			w.nsm.declare(prefix, ns)
		}
	}
	return QName{Prefix: prefix, Namespace: ns, Local: local}, decls, nil
}

// WriteStartAttribute begins an attribute of the buffered element. Starting
// an attribute while another is open ends the previous one.
func (w *Writer) WriteStartAttribute(prefix, local, ns string) error {
	if err := w.check(itemStartAttribute); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if w.elem == nil {
		return w.fail(newError(KindInvalidState, -1, "attribute outside an open start tag"))
	}
	if prefix == "xmlns" || (prefix == "" && local == "xmlns") || ns == XMLNSNamespace {
		declPrefix := local
		if prefix == "" && local == "xmlns" {
			declPrefix = ""
		}
		w.attr = &pendingAttr{isDecl: true, declPrefix: declPrefix}
		w.state = wsAttribute
		return nil
	}
	name, err := w.resolveAttrName(prefix, local, ns)
	if err != nil {
		return w.fail(err)
	}
	w.attr = &pendingAttr{name: name}
	w.state = wsAttribute
	return nil
}

func (w *Writer) resolveAttrName(prefix, local, ns string) (QName, error) {
	switch {
	case ns == "":
		if prefix != "" {
			uri, ok := w.nsm.resolve(prefix)
			if !ok || uri == "" {
				return QName{}, newError(KindUndefinedNamespaceForPrefix, -1, "prefix %q is not bound", prefix)
			}
			ns = uri
		}
	case ns == XMLNamespace:
		prefix = "xml"
	default:
		if prefix == "" {
			if p, ok := w.nsm.lookupPrefix(ns); ok && p != "" {
				prefix = p
			} else {
				prefix = w.nsm.genPrefix()
				w.nsm.declare(prefix, ns)
				w.elem.decls = append(w.elem.decls, nsBinding{prefix: prefix, uri: ns})
			}
		} else if uri, _ := w.nsm.resolve(prefix); uri != ns {
			w.nsm.declare(prefix, ns)
			w.elem.decls = append(w.elem.decls, nsBinding{prefix: prefix, uri: ns})
		}
	}
	return QName{Prefix: prefix, Namespace: ns, Local: local}, nil
}

// WriteEndAttribute completes the attribute being written.
func (w *Writer) WriteEndAttribute() error {
	if err := w.check(itemEndAttribute); err != nil {
		return err
	}
	return w.endAttr()
}

func (w *Writer) endAttrIfOpen() error {
	if w.attr == nil {
		return nil
	}
	return w.endAttr()
}

func (w *Writer) endAttr() error {
	a := w.attr
	if a == nil {
		return w.fail(newError(KindInvalidState, -1, "no attribute open"))
	}
	w.attr = nil
	w.state = wsElement
	if !a.isDecl {
		w.elem.attrs = append(w.elem.attrs, Attr{Name: a.name, Value: a.value.String()})
		return nil
	}
	uri := a.value.String()
	switch {
	case a.declPrefix == "xmlns":
		return w.fail(newError(KindReservedNamespace, -1, "the xmlns prefix cannot be declared"))
	case a.declPrefix == "xml" && uri != XMLNamespace:
		return w.fail(newError(KindReservedNamespace, -1, "the xml prefix is bound to %q", XMLNamespace))
	case uri == XMLNSNamespace:
		return w.fail(newError(KindReservedNamespace, -1, "%q cannot be bound to a prefix", XMLNSNamespace))
	}
	for _, d := range w.elem.decls {
		if d.prefix == a.declPrefix && d.uri == uri {
			return nil
		}
	}
	w.nsm.declare(a.declPrefix, uri)
	w.elem.decls = append(w.elem.decls, nsBinding{prefix: a.declPrefix, uri: uri})
	return nil
}

// WriteAttribute writes a complete attribute in one call.
func (w *Writer) WriteAttribute(prefix, local, ns, value string) error {
	if err := w.WriteStartAttribute(prefix, local, ns); err != nil {
		return err
	}
	if value != "" {
		if err := w.WriteString(value); err != nil {
			return err
		}
	}
	return w.WriteEndAttribute()
}

// WriteString writes character data: into the open attribute when one is
// being written, as a character chunk otherwise. Before the root element
// (and after it) only all-whitespace strings are accepted, and they are
// dropped.
func (w *Writer) WriteString(s string) error {
	if err := w.check(itemContent); err != nil {
		return err
	}
	if w.attr != nil {
		w.attr.value.WriteString(s)
		w.state = wsAttributeContent
		return nil
	}
	switch w.state {
	case wsStart, wsProlog, wsEpilog:
		if strings.TrimSpace(s) != "" {
			return w.fail(newError(KindInvalidState, -1, "character data outside the root element"))
		}
		return w.ensureStarted()
	}
	if s == "" {
		return nil
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	return w.writeCharacterChunk(s)
}

// WriteCharacterChunk writes one content character chunk.
func (w *Writer) WriteCharacterChunk(s string) error {
	if err := w.check(itemContent); err != nil {
		return err
	}
	if w.attr != nil || w.state == wsStart || w.state == wsProlog || w.state == wsEpilog {
		return w.fail(newError(KindInvalidState, -1, "character chunk outside element content"))
	}
	if s == "" {
		return nil
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	return w.writeCharacterChunk(s)
}

func (w *Writer) writeCharacterChunk(s string) error {
	if utf8.RuneCountInString(s) < w.threshold {
		if idx, ok := w.vocab.contentCharacterChunks.lookup(s); ok {
			if err := writeUint4(w.buf, 0xA0, idx); err != nil {
				return w.fail(err)
			}
			return nil
		}
		if err := w.writeEncodedString5(0x90, s); err != nil {
			return err
		}
		w.vocab.contentCharacterChunks.add(s)
		return nil
	}
	return w.writeEncodedString5(0x80, s)
}

// WriteAlphabetText writes element content bit-packed with the restricted
// alphabet at the given table index.
func (w *Writer) WriteAlphabetText(index int, s string) error {
	if err := w.check(itemEncodedContent); err != nil {
		return err
	}
	if w.attr != nil {
		w.attr.value.WriteString(s)
		w.state = wsAttributeContent
		return nil
	}
	if s == "" {
		return nil
	}
	a, err := alphabet.ByIndex(index)
	if err != nil {
		return w.fail(newError(KindUnknownRestrictedAlphabet, -1, "%v", err))
	}
	octets, err := a.Encode(s)
	if err != nil {
		return w.fail(newError(KindCharacterNotInAlphabet, -1, "%v", err))
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	i8 := index - 1
	if err := w.buf.WriteByte(0x80 | 0x08 | byte(i8>>6)); err != nil {
		return w.failStream(err)
	}
	if err := writeLen7(w.buf, byte(i8&0x3F)<<2, uint64(len(octets))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write(octets); err != nil {
		return w.failStream(err)
	}
	return nil
}

// WriteEncodedData encodes v with the built-in or registered encoding
// algorithm at the given table index and writes it as element content. In
// an open attribute the algorithm's text form is appended to the value
// instead.
func (w *Writer) WriteEncodedData(index int, v any) error {
	if err := w.check(itemEncodedContent); err != nil {
		return err
	}
	algo, err := algorithm.ByIndex(index)
	if err != nil {
		return w.fail(newError(KindUnknownEncodingAlgorithm, -1, "%v", err))
	}
	return w.writeEncodedData(algo, v)
}

// WriteEncodedDataURI is WriteEncodedData for an extended algorithm
// identified by URI.
func (w *Writer) WriteEncodedDataURI(uri string, v any) error {
	if err := w.check(itemEncodedContent); err != nil {
		return err
	}
	algo, err := algorithm.ByURI(uri)
	if err != nil {
		return w.fail(newError(KindUnknownEncodingAlgorithm, -1, "%v", err))
	}
	return w.writeEncodedData(algo, v)
}

func (w *Writer) writeEncodedData(algo algorithm.Algorithm, v any) error {
	data, err := algo.Encode(v)
	if err != nil {
		return w.fail(newError(KindUnknownEncodingAlgorithm, -1, "encoding with algorithm %d: %v", algo.Index(), err))
	}
	if w.attr != nil {
		text, err := algo.Text(data)
		if err != nil {
			return w.fail(newError(KindUnknownEncodingAlgorithm, -1, "rendering algorithm %d: %v", algo.Index(), err))
		}
		w.attr.value.WriteString(text)
		w.state = wsAttributeContent
		return nil
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	return w.writeEncodedChunk(algo.Index(), data)
}

func (w *Writer) writeEncodedChunk(index int, data []byte) error {
	i8 := index - 1
	if err := w.buf.WriteByte(0x80 | 0x0C | byte(i8>>6)); err != nil {
		return w.failStream(err)
	}
	if err := writeLen7(w.buf, byte(i8&0x3F)<<2, uint64(len(data))); err != nil {
		return w.fail(err)
	}
	if _, err := w.buf.Write(data); err != nil {
		return w.failStream(err)
	}
	return nil
}

// WriteCData writes content that decodes as a CDATA section. In an open
// attribute the text is appended to the value.
func (w *Writer) WriteCData(s string) error {
	if err := w.check(itemEncodedContent); err != nil {
		return err
	}
	if w.attr != nil {
		w.attr.value.WriteString(s)
		w.state = wsAttributeContent
		return nil
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	return w.writeEncodedChunk(algorithm.CDATAIndex, []byte(s))
}

// WriteBase64 writes binary content with the built-in base64 algorithm. In
// an open attribute the base64 text is appended to the value.
func (w *Writer) WriteBase64(data []byte) error {
	return w.WriteEncodedData(algorithm.Base64Index, data)
}

// WriteComment writes a comment. Before WriteStartDocument it starts the
// document implicitly.
func (w *Writer) WriteComment(s string) error {
	if err := w.check(itemComment); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	if err := w.buf.WriteByte(0xE2); err != nil {
		return w.failStream(err)
	}
	if err := w.writeNonIdentifyingString1(s, w.vocab.otherStrings); err != nil {
		return err
	}
	if w.openCount > 0 {
		w.state = wsContent
	}
	return nil
}

// WriteProcessingInstruction writes a processing instruction.
func (w *Writer) WriteProcessingInstruction(target, content string) error {
	if err := w.check(itemProcessingInstruction); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	if err := w.buf.WriteByte(0xE1); err != nil {
		return w.failStream(err)
	}
	if err := w.writeIdentifyingString(target, w.vocab.otherNCNames); err != nil {
		return err
	}
	if err := w.writeNonIdentifyingString1(content, w.vocab.otherStrings); err != nil {
		return err
	}
	if w.openCount > 0 {
		w.state = wsContent
	}
	return nil
}

// WriteRaw writes pre-encoded item octets into element content.
func (w *Writer) WriteRaw(data []byte) error {
	if err := w.check(itemRaw); err != nil {
		return err
	}
	if err := w.beforeChild(); err != nil {
		return err
	}
	w.state = wsContent
	if _, err := w.buf.Write(data); err != nil {
		return w.failStream(err)
	}
	return nil
}

// WriteDocType is not supported; document type declarations cannot be
// written.
func (w *Writer) WriteDocType(name, publicID, systemID string) error {
	if err := w.check(itemDocType); err != nil {
		return err
	}
	return w.fail(newError(KindUnsupportedFeature, -1, "writing document type declarations is not supported"))
}

// WriteEntityRef is not supported; unexpanded entity references cannot be
// written.
func (w *Writer) WriteEntityRef(name string) error {
	if err := w.check(itemEntityRef); err != nil {
		return err
	}
	return w.fail(newError(KindUnsupportedFeature, -1, "writing entity references is not supported"))
}

// WriteSurrogateCharEntity is not supported.
func (w *Writer) WriteSurrogateCharEntity(low, high rune) error {
	if err := w.check(itemSurrogateCharEntity); err != nil {
		return err
	}
	return w.fail(newError(KindUnsupportedFeature, -1, "writing surrogate character entities is not supported"))
}

// WriteEndElement closes the innermost open element. The closing terminator
// is deferred so that adjacent terminators collapse into one 0xFF octet.
func (w *Writer) WriteEndElement() error {
	if err := w.check(itemEndElement); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if w.openCount == 0 {
		return w.fail(newError(KindInvalidState, -1, "no element open"))
	}
	if err := w.ensureStarted(); err != nil {
		return err
	}
	if w.elem != nil {
		if err := w.flushElement(); err != nil {
			return err
		}
	}
	if w.pendingTerm {
		w.pendingTerm = false
		if err := w.buf.WriteByte(doubleTerminator); err != nil {
			return w.failStream(err)
		}
	} else {
		w.pendingTerm = true
	}
	w.openCount--
	w.nsm.pop()
	if w.openCount > 0 {
		w.state = wsContent
	} else {
		w.state = wsEpilog
	}
	return nil
}

// WriteEndDocument closes all open elements and terminates the document.
func (w *Writer) WriteEndDocument() error {
	if err := w.check(itemEndDocument); err != nil {
		return err
	}
	if err := w.endAttrIfOpen(); err != nil {
		return err
	}
	if err := w.ensureStarted(); err != nil {
		return err
	}
	for w.openCount > 0 {
		if err := w.WriteEndElement(); err != nil {
			return err
		}
	}
	b := byte(terminator)
	if w.pendingTerm {
		b = doubleTerminator
		w.pendingTerm = false
	}
	if err := w.buf.WriteByte(b); err != nil {
		return w.failStream(err)
	}
	w.state = wsClosed
	return nil
}

// Flush writes all buffered octets to the underlying stream. It does not
// flush a buffered start tag; element framing cannot be emitted until the
// attribute list is known to be complete.
func (w *Writer) Flush() error {
	if w.state == wsError {
		return w.err
	}
	if err := w.buf.Flush(); err != nil {
		return w.failStream(err)
	}
	return nil
}

// Close completes the document if one is in progress, flushes, and closes
// the underlying stream when it is an io.Closer.
func (w *Writer) Close() error {
	switch w.state {
	case wsError:
		_ = w.buf.Close()
		return w.err
	case wsClosed:
		return w.buf.Close()
	case wsStart:
		return w.buf.Close()
	}
	if err := w.WriteEndDocument(); err != nil {
		_ = w.buf.Close()
		return err
	}
	return w.buf.Close()
}
