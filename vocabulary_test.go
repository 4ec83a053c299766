// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import "testing"

func TestTableIndicesAreMonotonic(t *testing.T) {
	tbl := newTable[string]()
	for i, s := range []string{"a", "b", "c"} {
		idx, added := tbl.add(s)
		if !added {
			t.Fatalf("add %q: not added", s)
		}
		if idx != uint32(i+1) {
			t.Errorf("add %q: index %d, want %d", s, idx, i+1)
		}
	}
	if idx, added := tbl.add("b"); added || idx != 2 {
		t.Errorf("re-add: index %d added %v, want 2 false", idx, added)
	}
	if idx, ok := tbl.lookup("c"); !ok || idx != 3 {
		t.Errorf("lookup: index %d ok %v", idx, ok)
	}
	if _, ok := tbl.get(0); ok {
		t.Error("index 0 must not resolve")
	}
	if _, ok := tbl.get(4); ok {
		t.Error("index past the end must not resolve")
	}
}

func TestTableDropsAtLimit(t *testing.T) {
	tbl := newTable[string]()
	tbl.limit = 2
	tbl.add("a")
	tbl.add("b")
	idx, added := tbl.add("c")
	if added || idx != 0 {
		t.Errorf("over-limit add: index %d added %v, want 0 false", idx, added)
	}
	// The dropped entry is not findable, and the table is unchanged.
	if _, ok := tbl.lookup("c"); ok {
		t.Error("dropped entry must not be findable")
	}
	if tbl.size() != 2 {
		t.Errorf("size %d, want 2", tbl.size())
	}
}

func TestVocabularySeeds(t *testing.T) {
	v := NewVocabulary()
	if idx, ok := v.prefixNames.lookup("xml"); !ok || idx != 1 {
		t.Errorf("xml prefix at index %d ok %v, want 1 true", idx, ok)
	}
	if idx, ok := v.namespaceNames.lookup(XMLNamespace); !ok || idx != 1 {
		t.Errorf("XML namespace at index %d ok %v, want 1 true", idx, ok)
	}
}

func TestQNameTableDistinguishesNamespaces(t *testing.T) {
	v := NewVocabulary()
	a := QName{Local: "name"}
	b := QName{Prefix: "p", Namespace: "u", Local: "name"}
	i1, _ := v.elementNames.add(a)
	i2, _ := v.elementNames.add(b)
	if i1 == i2 {
		t.Error("distinct qualified names must get distinct indices")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := NewVocabulary()
	v.attributeValues.add("shared")
	c := v.Clone()
	c.attributeValues.add("local")
	if _, ok := v.attributeValues.lookup("local"); ok {
		t.Error("mutating the clone leaked into the template")
	}
	if idx, ok := c.attributeValues.lookup("shared"); !ok || idx != 1 {
		t.Errorf("clone lost entry: index %d ok %v", idx, ok)
	}
}

func TestExternalVocabularyRegistry(t *testing.T) {
	v := NewVocabulary()
	v.AddElementName(QName{Local: "invoice"})
	RegisterExternalVocabulary("urn:test:vocab-registry", v)
	got, err := externalVocabulary("urn:test:vocab-registry")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != v {
		t.Error("registry returned a different vocabulary")
	}
	if _, err := externalVocabulary("urn:test:absent"); err == nil {
		t.Error("expected error for unregistered URI")
	}
}

func TestAddElementNameAddsParts(t *testing.T) {
	v := NewVocabulary()
	v.AddElementName(QName{Prefix: "p", Namespace: "u", Local: "x"})
	if _, ok := v.prefixNames.lookup("p"); !ok {
		t.Error("prefix not added")
	}
	if _, ok := v.namespaceNames.lookup("u"); !ok {
		t.Error("namespace not added")
	}
	if _, ok := v.localNames.lookup("x"); !ok {
		t.Error("local name not added")
	}
}
