// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package fixml_test

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fast-infoset/go-finf/fixml"
)

const sample = `<catalog xmlns:m="urn:meta"><!-- two items --><item id="1"><m:title>First &amp; foremost</m:title></item><item id="2"><m:title>Second</m:title></item><?page done?></catalog>`

// flatten parses XML and returns a prefix-insensitive token summary.
func flatten(t *testing.T, r io.Reader) []string {
	t.Helper()
	dec := xml.NewDecoder(r)
	var out []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		switch tk := tok.(type) {
		case xml.StartElement:
			s := "<" + tk.Name.Space + "|" + tk.Name.Local
			for _, a := range tk.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				s += " " + a.Name.Space + "|" + a.Name.Local + "=" + a.Value
			}
			out = append(out, s)
		case xml.EndElement:
			out = append(out, ">"+tk.Name.Space+"|"+tk.Name.Local)
		case xml.CharData:
			if text := string(tk); strings.TrimSpace(text) != "" {
				out = append(out, "t:"+text)
			}
		case xml.Comment:
			out = append(out, "c:"+string(tk))
		case xml.ProcInst:
			out = append(out, "pi:"+tk.Target+" "+string(tk.Inst))
		}
	}
}

func TestTranscodeRoundTrip(t *testing.T) {
	var binary bytes.Buffer
	require.NoError(t, fixml.Transcode(&binary, strings.NewReader(sample), true))

	// The binary form must start with the identification octets and be
	// decodable back to the same document.
	require.True(t, bytes.HasPrefix(binary.Bytes(), []byte{0xE0, 0x00, 0x00, 0x01}))

	var text bytes.Buffer
	require.NoError(t, fixml.Transcode(&text, bytes.NewReader(binary.Bytes()), false))

	assert.Equal(t,
		flatten(t, strings.NewReader(sample)),
		flatten(t, bytes.NewReader(text.Bytes())),
	)
}

func TestTranscodeCompresses(t *testing.T) {
	// A document with heavy name repetition must come out smaller than the
	// text form.
	var sb strings.Builder
	sb.WriteString("<records>")
	for i := 0; i < 50; i++ {
		sb.WriteString(`<record category="standard"><field>v</field></record>`)
	}
	sb.WriteString("</records>")

	var binary bytes.Buffer
	require.NoError(t, fixml.Transcode(&binary, strings.NewReader(sb.String()), true))
	assert.Less(t, binary.Len(), sb.Len()/2,
		"binary form %d octets, text form %d", binary.Len(), sb.Len())
}

func TestTokenReader(t *testing.T) {
	var binary bytes.Buffer
	require.NoError(t, fixml.Transcode(&binary, strings.NewReader(`<a><b x="1">text</b></a>`), true))

	tr := fixml.NewTokenReader(&binary)

	tok, err := tr.Token()
	require.NoError(t, err)
	start, ok := tok.(xml.StartElement)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "a", start.Name.Local)

	tok, err = tr.Token()
	require.NoError(t, err)
	b, ok := tok.(xml.StartElement)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "b", b.Name.Local)
	require.Len(t, b.Attr, 1)
	assert.Equal(t, "x", b.Attr[0].Name.Local)
	assert.Equal(t, "1", b.Attr[0].Value)

	tok, err = tr.Token()
	require.NoError(t, err)
	assert.Equal(t, xml.CharData("text"), tok)

	for i := 0; i < 2; i++ {
		tok, err = tr.Token()
		require.NoError(t, err)
		_, ok = tok.(xml.EndElement)
		require.True(t, ok, "got %T", tok)
	}

	_, err = tr.Token()
	assert.Equal(t, io.EOF, err)
}

func TestEncoderDropsTextDeclaration(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?><doc/>`
	var binary bytes.Buffer
	require.NoError(t, fixml.Transcode(&binary, strings.NewReader(in), true))

	tr := fixml.NewTokenReader(&binary)
	tok, err := tr.Token()
	require.NoError(t, err)
	start, ok := tok.(xml.StartElement)
	require.True(t, ok, "got %T", tok)
	assert.Equal(t, "doc", start.Name.Local)
}

func TestEncoderNamespaces(t *testing.T) {
	in := `<r xmlns="urn:d"><c a="x"/></r>`
	var binary bytes.Buffer
	require.NoError(t, fixml.Transcode(&binary, strings.NewReader(in), true))

	tr := fixml.NewTokenReader(&binary)
	tok, err := tr.Token()
	require.NoError(t, err)
	start := tok.(xml.StartElement)
	assert.Equal(t, "urn:d", start.Name.Space)

	tok, err = tr.Token()
	require.NoError(t, err)
	child := tok.(xml.StartElement)
	assert.Equal(t, "urn:d", child.Name.Space)
	assert.Equal(t, "c", child.Name.Local)
}
