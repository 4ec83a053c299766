// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import "fmt"

// writerState is the sequencing state of a Writer.
type writerState uint8

const (
	wsStart writerState = iota
	wsProlog
	wsElement // start tag open, attributes may still be added
	wsAttribute
	wsContent
	wsAttributeContent
	wsEpilog
	wsClosed
	wsError
)

func (s writerState) String() string {
	switch s {
	case wsStart:
		return "Start"
	case wsProlog:
		return "Prolog"
	case wsElement:
		return "Element"
	case wsAttribute:
		return "Attribute"
	case wsContent:
		return "Content"
	case wsAttributeContent:
		return "AttributeContent"
	case wsEpilog:
		return "Epilog"
	case wsClosed:
		return "Closed"
	case wsError:
		return "Error"
	}
	return fmt.Sprintf("writerState(%d)", uint8(s))
}

// itemKind is the kind of write operation being sequenced.
type itemKind uint8

const (
	itemContent itemKind = iota
	itemComment
	itemDocType
	itemEndAttribute
	itemEndDocument
	itemEndElement
	itemEntityRef
	itemProcessingInstruction
	itemRaw
	itemStartAttribute
	itemStartDocument
	itemStartElement
	itemSurrogateCharEntity
	itemWhitespace
	itemEncodedContent
)

func (k itemKind) String() string {
	switch k {
	case itemContent:
		return "Content"
	case itemComment:
		return "Comment"
	case itemDocType:
		return "DocType"
	case itemEndAttribute:
		return "EndAttribute"
	case itemEndDocument:
		return "EndDocument"
	case itemEndElement:
		return "EndElement"
	case itemEntityRef:
		return "EntityRef"
	case itemProcessingInstruction:
		return "ProcessingInstruction"
	case itemRaw:
		return "Raw"
	case itemStartAttribute:
		return "StartAttribute"
	case itemStartDocument:
		return "StartDocument"
	case itemStartElement:
		return "StartElement"
	case itemSurrogateCharEntity:
		return "SurrogateCharEntity"
	case itemWhitespace:
		return "Whitespace"
	case itemEncodedContent:
		return "EncodedContent"
	}
	return fmt.Sprintf("itemKind(%d)", uint8(k))
}

// allowed reports whether item may be written in state s. Convenience
// transitions (implicit document start, auto-ended attributes, end-document
// closing open elements) are reflected here as permitted; the operations
// themselves perform the intermediate steps.
func (s writerState) allows(item itemKind) bool {
	switch s {
	case wsStart:
		switch item {
		case itemStartDocument, itemStartElement, itemComment,
			itemProcessingInstruction, itemContent, itemWhitespace, itemDocType:
			return true
		}
	case wsProlog:
		switch item {
		case itemStartElement, itemComment, itemProcessingInstruction,
			itemContent, itemWhitespace, itemDocType, itemEndDocument:
			return true
		}
	case wsElement:
		switch item {
		case itemStartAttribute, itemStartElement, itemEndElement,
			itemContent, itemWhitespace, itemEncodedContent, itemComment,
			itemProcessingInstruction, itemEntityRef, itemSurrogateCharEntity,
			itemRaw, itemEndDocument:
			return true
		}
	case wsAttribute, wsAttributeContent:
		switch item {
		case itemContent, itemWhitespace, itemEncodedContent,
			itemEndAttribute, itemStartAttribute, itemStartElement,
			itemEndElement, itemEndDocument:
			return true
		}
	case wsContent:
		switch item {
		case itemStartElement, itemEndElement, itemContent, itemWhitespace,
			itemEncodedContent, itemComment, itemProcessingInstruction,
			itemEntityRef, itemSurrogateCharEntity, itemRaw, itemEndDocument:
			return true
		}
	case wsEpilog:
		switch item {
		case itemStartElement, itemComment, itemProcessingInstruction, itemContent,
			itemWhitespace, itemEndDocument:
			return true
		}
	}
	return false
}
