// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"bytes"
	"io"
	"testing"
)

var header = []byte{0xE0, 0x00, 0x00, 0x01, 0x00}

func doc(items ...byte) *bytes.Reader {
	return bytes.NewReader(append(append([]byte{}, header...), items...))
}

func mustRead(t *testing.T, r *Reader, want NodeType) {
	t.Helper()
	got, err := r.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != want {
		t.Fatalf("read %s, want %s", got, want)
	}
}

func mustEOF(t *testing.T, r *Reader) {
	t.Helper()
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if r.ReadState() != ReadStateEndOfFile {
		t.Fatalf("state %s, want EndOfFile", r.ReadState())
	}
}

func TestParseMinimalDocument(t *testing.T) {
	// <a/> with the element and document terminators spelled separately.
	r := NewReader(doc(0x3C, 0x00, 0x61, 0xF0, 0xF0))
	mustRead(t, r, NodeElement)
	if r.LocalName() != "a" || r.Prefix() != "" || r.NamespaceURI() != "" {
		t.Errorf("element %s{%s}", r.LocalName(), r.NamespaceURI())
	}
	if r.Depth() != 1 {
		t.Errorf("depth %d, want 1", r.Depth())
	}
	mustRead(t, r, NodeEndElement)
	mustEOF(t, r)
}

func TestParseCollapsedTerminators(t *testing.T) {
	// <a/> with element close and document close in one octet.
	r := NewReader(doc(0x3C, 0x00, 0x61, 0xFF))
	mustRead(t, r, NodeElement)
	mustRead(t, r, NodeEndElement)
	mustEOF(t, r)
}

func TestParseRepeatedNames(t *testing.T) {
	r := NewReader(doc(
		0x7C, 0x00, 0x78,
		0x78, 0x00, 0x61,
		0x40, 0x76,
		0xFF,
		0x40, 0x00, 0x80,
		0xFF,
		0xF0,
	))
	for i := 0; i < 2; i++ {
		mustRead(t, r, NodeElement)
		if r.LocalName() != "x" {
			t.Errorf("element %d name %q", i, r.LocalName())
		}
		if r.AttributeCount() != 1 {
			t.Fatalf("element %d: %d attributes", i, r.AttributeCount())
		}
		a, err := r.GetAttribute(0)
		if err != nil {
			t.Fatal(err)
		}
		if a.Name.Local != "a" || a.Value != "v" {
			t.Errorf("element %d attribute %s=%q", i, a.Name, a.Value)
		}
		mustRead(t, r, NodeEndElement)
	}
	mustEOF(t, r)
}

func TestParseNamespaceDeclaration(t *testing.T) {
	r := NewReader(doc(
		0x38,
		0xCF, 0x00, 0x70, 0x00, 0x75, 0xF0,
		0x3F, 0x81, 0x81, 0x00, 0x72,
		0x3F, 0x81, 0x81, 0x00, 0x63,
		0xFF,
		0xF0,
	))
	mustRead(t, r, NodeElement)
	if r.Prefix() != "p" || r.LocalName() != "r" || r.NamespaceURI() != "u" {
		t.Errorf("element %s:%s{%s}", r.Prefix(), r.LocalName(), r.NamespaceURI())
	}
	if r.AttributeCount() != 1 {
		t.Fatalf("%d attributes", r.AttributeCount())
	}
	a, _ := r.GetAttribute(0)
	if a.Name.Prefix != "xmlns" || a.Name.Local != "p" || a.Value != "u" {
		t.Errorf("namespace declaration %s=%q", a.Name, a.Value)
	}
	if !a.IsNamespaceDecl() {
		t.Error("attribute not recognized as a namespace declaration")
	}

	mustRead(t, r, NodeElement)
	if r.Prefix() != "p" || r.LocalName() != "c" || r.NamespaceURI() != "u" {
		t.Errorf("child %s:%s{%s}", r.Prefix(), r.LocalName(), r.NamespaceURI())
	}
	mustRead(t, r, NodeEndElement)
	mustRead(t, r, NodeEndElement)
	mustEOF(t, r)
}

func TestParseDoubleTerminatorPendingClose(t *testing.T) {
	r := NewReader(doc(
		0x3C, 0x00, 0x61,
		0x3C, 0x00, 0x62,
		0xFF,
		0xF0,
	))
	mustRead(t, r, NodeElement) // a
	mustRead(t, r, NodeElement) // b
	mustRead(t, r, NodeEndElement)
	if r.LocalName() != "b" {
		t.Errorf("first close %q, want b", r.LocalName())
	}
	mustRead(t, r, NodeEndElement)
	if r.LocalName() != "a" {
		t.Errorf("second close %q, want a", r.LocalName())
	}
	mustEOF(t, r)
}

func TestParseDeclarations(t *testing.T) {
	for _, test := range []struct {
		decl       string
		version    string
		standalone *bool
	}{
		{"<?xml encoding='finf'?>", "", nil},
		{"<?xml version='1.0' encoding='finf' standalone='yes'?>", "1.0", boolPtr(true)},
		{"<?xml version='1.1' encoding='finf' standalone='no'?>", "1.1", boolPtr(false)},
	} {
		stream := append([]byte(test.decl), header...)
		stream = append(stream, 0x3C, 0x00, 0x61, 0xFF)
		r := NewReader(bytes.NewReader(stream))
		mustRead(t, r, NodeElement)
		if r.Version() != test.version {
			t.Errorf("%s: version %q, want %q", test.decl, r.Version(), test.version)
		}
		switch {
		case test.standalone == nil:
			if r.Standalone() != nil {
				t.Errorf("%s: expected no standalone", test.decl)
			}
		case r.Standalone() == nil || *r.Standalone() != *test.standalone:
			t.Errorf("%s: standalone mismatch", test.decl)
		}
	}
}

func TestParseInvalidDeclaration(t *testing.T) {
	stream := append([]byte("<?xml encoding='utf-8'?>"), header...)
	r := NewReader(bytes.NewReader(stream))
	if _, err := r.Read(); !IsKind(err, KindInvalidDeclaration) {
		t.Errorf("expected invalid declaration, got %v", err)
	}
}

func TestParseInvalidMagic(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xE0, 0x00, 0x00, 0x02, 0x00}))
	if _, err := r.Read(); !IsKind(err, KindInvalidMagic) {
		t.Errorf("expected invalid magic, got %v", err)
	}
}

func TestParseTruncatedStream(t *testing.T) {
	r := NewReader(doc(0x3C, 0x00))
	if _, err := r.Read(); !IsKind(err, KindUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
}

func TestParseInvalidIdentifier(t *testing.T) {
	r := NewReader(doc(0xE3))
	if _, err := r.Read(); !IsKind(err, KindInvalidIdentifier) {
		t.Errorf("expected invalid identifier, got %v", err)
	}
}

func TestParseErrorsLatch(t *testing.T) {
	r := NewReader(doc(0xE3))
	_, first := r.Read()
	if first == nil {
		t.Fatal("expected error")
	}
	if _, err := r.Read(); err != first {
		t.Errorf("expected the latched error, got %v", err)
	}
	if r.ReadState() != ReadStateError {
		t.Errorf("state %s, want Error", r.ReadState())
	}
}

func TestParseUnknownNameIndex(t *testing.T) {
	// Element name index 1 with an empty element table.
	r := NewReader(doc(0x00))
	if _, err := r.Read(); !IsKind(err, KindVocabularyIndexOutOfBounds) {
		t.Errorf("expected vocabulary index out of bounds, got %v", err)
	}
}

func TestParsePrefixWithoutNamespace(t *testing.T) {
	// Literal element qname with the prefix flag but no namespace flag.
	r := NewReader(doc(0x3E))
	if _, err := r.Read(); !IsKind(err, KindInvalidQName) {
		t.Errorf("expected invalid qname, got %v", err)
	}
}

func TestAttributeCursor(t *testing.T) {
	var sink bytes.Buffer
	w := NewWriter(&sink)
	if err := w.WriteStartElement("", "e", ""); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAttribute("", "one", "", "1"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAttribute("", "two", "", "2"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(sink.Bytes()))
	mustRead(t, r, NodeElement)
	if !r.MoveToNextAttribute() {
		t.Fatal("move to first attribute")
	}
	if r.NodeType() != NodeAttribute || r.LocalName() != "one" || r.Value() != "1" {
		t.Errorf("first attribute %s %s=%q", r.NodeType(), r.LocalName(), r.Value())
	}
	if !r.ReadAttributeValue() {
		t.Fatal("read attribute value")
	}
	if r.NodeType() != NodeText || r.Value() != "1" {
		t.Errorf("attribute value node %s %q", r.NodeType(), r.Value())
	}
	if !r.MoveToNextAttribute() {
		t.Fatal("move to second attribute")
	}
	if r.LocalName() != "two" {
		t.Errorf("second attribute %q", r.LocalName())
	}
	if r.MoveToNextAttribute() {
		t.Error("moved past the last attribute")
	}
	if !r.MoveToElement() {
		t.Fatal("move back to element")
	}
	if r.NodeType() != NodeElement || r.LocalName() != "e" {
		t.Errorf("element %s %q", r.NodeType(), r.LocalName())
	}
	if !r.MoveToAttributeByName("two") {
		t.Fatal("move to attribute by name")
	}
	if r.Value() != "2" {
		t.Errorf("value %q", r.Value())
	}
}

func TestParseStandaloneAndVersionComponents(t *testing.T) {
	// Optional components: standalone = yes, version = "1.0" as a literal
	// string with the add-to-table bit.
	stream := []byte{0xE0, 0x00, 0x00, 0x01, optStandalone | optVersion,
		0x01,
		0x42, '1', '.', '0',
		0x3C, 0x00, 0x61, 0xFF,
	}
	r := NewReader(bytes.NewReader(stream))
	mustRead(t, r, NodeElement)
	if r.Standalone() == nil || !*r.Standalone() {
		t.Error("standalone not reported")
	}
	if r.Version() != "1.0" {
		t.Errorf("version %q", r.Version())
	}
}

func TestParseInitialVocabularyExternal(t *testing.T) {
	ext := NewVocabulary()
	ext.AddElementName(QName{Local: "seeded"})
	RegisterExternalVocabulary("urn:test:parser-ext", ext)

	uri := "urn:test:parser-ext"
	stream := []byte{0xE0, 0x00, 0x00, 0x01, optInitialVocabulary}
	ivExternalVal := uint16(ivExternal)
	stream = append(stream, byte(ivExternalVal>>8), byte(ivExternalVal))
	stream = append(stream, byte(len(uri)-1))
	stream = append(stream, uri...)
	// Element name index 1 refers to the seeded entry.
	stream = append(stream, 0x00, 0xFF)

	r := NewReader(bytes.NewReader(stream))
	mustRead(t, r, NodeElement)
	if r.LocalName() != "seeded" {
		t.Errorf("element %q, want seeded", r.LocalName())
	}
	// The per-stream copy must not leak entries back into the template.
	if ext.elementNames.size() != 1 {
		t.Errorf("template grew to %d entries", ext.elementNames.size())
	}
}

func TestParseUnresolvedExternalVocabulary(t *testing.T) {
	uri := "urn:test:never-registered"
	stream := []byte{0xE0, 0x00, 0x00, 0x01, optInitialVocabulary}
	ivExternalVal := uint16(ivExternal)
	stream = append(stream, byte(ivExternalVal>>8), byte(ivExternalVal))
	stream = append(stream, byte(len(uri)-1))
	stream = append(stream, uri...)
	r := NewReader(bytes.NewReader(stream))
	if _, err := r.Read(); !IsKind(err, KindUnsupportedFeature) {
		t.Errorf("expected unsupported feature, got %v", err)
	}
}

func TestParseCharacterChunkOutsideElement(t *testing.T) {
	r := NewReader(doc(0x80, 0x00, 'x'))
	if _, err := r.Read(); !IsKind(err, KindInvalidIdentifier) {
		t.Errorf("expected invalid identifier, got %v", err)
	}
}

func TestReadAfterClose(t *testing.T) {
	r := NewReader(doc(0xF0))
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := r.Read(); !IsKind(err, KindInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
}
