// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package fixml adapts the Fast Infoset codec to the encoding/xml token
// model, so that textual XML and Fast Infoset streams can be transcoded in
// either direction.
package fixml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	finf "github.com/fast-infoset/go-finf"
)

// TokenReader yields encoding/xml tokens decoded from a Fast Infoset
// stream. It implements xml.TokenReader.
type TokenReader struct {
	r *finf.Reader
}

// NewTokenReader returns a TokenReader decoding the document in src.
func NewTokenReader(src io.Reader) *TokenReader {
	return &TokenReader{r: finf.NewReader(src)}
}

// NewTokenReaderFrom wraps an existing Reader.
func NewTokenReaderFrom(r *finf.Reader) *TokenReader {
	return &TokenReader{r: r}
}

// Token implements xml.TokenReader. It returns io.EOF after the document
// terminator.
func (t *TokenReader) Token() (xml.Token, error) {
	nt, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	switch nt {
	case finf.NodeElement:
		start := xml.StartElement{
			Name: xml.Name{Space: t.r.NamespaceURI(), Local: t.r.LocalName()},
		}
		for i := 0; i < t.r.AttributeCount(); i++ {
			a, err := t.r.GetAttribute(i)
			if err != nil {
				return nil, err
			}
			start.Attr = append(start.Attr, xmlAttr(a))
		}
		return start, nil
	case finf.NodeEndElement:
		return xml.EndElement{
			Name: xml.Name{Space: t.r.NamespaceURI(), Local: t.r.LocalName()},
		}, nil
	case finf.NodeText, finf.NodeCDATA:
		return xml.CharData(t.r.Value()), nil
	case finf.NodeComment:
		return xml.Comment(t.r.Value()), nil
	case finf.NodeProcessingInstruction:
		return xml.ProcInst{Target: t.r.LocalName(), Inst: []byte(t.r.Value())}, nil
	case finf.NodeDocumentType:
		return xml.Directive(doctypeDirective(t.r.SystemID(), t.r.PublicID())), nil
	case finf.NodeEntityReference:
		return xml.CharData("&" + t.r.LocalName() + ";"), nil
	}
	return nil, fmt.Errorf("fixml: unexpected node type %s", nt)
}

func xmlAttr(a finf.Attr) xml.Attr {
	if a.IsNamespaceDecl() {
		if a.Name.Local == "xmlns" && a.Name.Prefix == "" {
			return xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: a.Value}
		}
		return xml.Attr{Name: xml.Name{Space: "xmlns", Local: a.Name.Local}, Value: a.Value}
	}
	return xml.Attr{
		Name:  xml.Name{Space: a.Name.Namespace, Local: a.Name.Local},
		Value: a.Value,
	}
}

func doctypeDirective(systemID, publicID string) string {
	var sb strings.Builder
	sb.WriteString("DOCTYPE")
	if publicID != "" {
		fmt.Fprintf(&sb, " PUBLIC %q %q", publicID, systemID)
	} else if systemID != "" {
		fmt.Fprintf(&sb, " SYSTEM %q", systemID)
	}
	return sb.String()
}

// Encoder consumes encoding/xml tokens and drives a Fast Infoset Writer.
type Encoder struct {
	w *finf.Writer
}

// NewEncoder returns an Encoder writing a Fast Infoset document to dst.
func NewEncoder(dst io.Writer) *Encoder {
	return &Encoder{w: finf.NewWriter(dst)}
}

// NewEncoderFrom wraps an existing Writer.
func NewEncoderFrom(w *finf.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeToken writes one token. Directives (DOCTYPE and friends) are
// dropped: the binary format cannot carry them on the write side.
func (e *Encoder) EncodeToken(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		if err := e.w.WriteStartElement("", t.Name.Local, t.Name.Space); err != nil {
			return err
		}
		for _, a := range t.Attr {
			if err := e.encodeAttr(a); err != nil {
				return err
			}
		}
		return nil
	case xml.EndElement:
		return e.w.WriteEndElement()
	case xml.CharData:
		return e.w.WriteString(string(t))
	case xml.Comment:
		return e.w.WriteComment(string(t))
	case xml.ProcInst:
		if t.Target == "xml" {
			// The textual declaration; the binary header replaces it.
			return nil
		}
		return e.w.WriteProcessingInstruction(t.Target, string(t.Inst))
	case xml.Directive:
		return nil
	}
	return fmt.Errorf("fixml: unsupported token %T", tok)
}

func (e *Encoder) encodeAttr(a xml.Attr) error {
	switch {
	case a.Name.Space == "" && a.Name.Local == "xmlns":
		return e.w.WriteAttribute("", "xmlns", "", a.Value)
	case a.Name.Space == "xmlns":
		return e.w.WriteAttribute("xmlns", a.Name.Local, finf.XMLNSNamespace, a.Value)
	default:
		return e.w.WriteAttribute("", a.Name.Local, a.Name.Space, a.Value)
	}
}

// End completes the document and flushes the writer without closing the
// underlying stream.
func (e *Encoder) End() error {
	if err := e.w.WriteEndDocument(); err != nil {
		return err
	}
	return e.w.Flush()
}

// Transcode converts a whole document between textual XML and Fast Infoset.
// With toBinary true, src is XML and dst receives Fast Infoset; otherwise
// src is Fast Infoset and dst receives XML.
func Transcode(dst io.Writer, src io.Reader, toBinary bool) error {
	if toBinary {
		dec := xml.NewDecoder(src)
		enc := NewEncoder(dst)
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				return enc.End()
			}
			if err != nil {
				return fmt.Errorf("reading XML: %w", err)
			}
			if err := enc.EncodeToken(tok); err != nil {
				return fmt.Errorf("encoding: %w", err)
			}
		}
	}

	tr := NewTokenReader(src)
	enc := xml.NewEncoder(dst)
	for {
		tok, err := tr.Token()
		if err == io.EOF {
			return enc.Flush()
		}
		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
		if err := enc.EncodeToken(tok); err != nil {
			return fmt.Errorf("writing XML: %w", err)
		}
	}
}
