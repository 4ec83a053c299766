// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import (
	"strings"
	"testing"
)

func TestResolveAndScoping(t *testing.T) {
	var m namespaceManager
	m.push()
	m.declare("a", "urn:one")

	if uri, ok := m.resolve("a"); !ok || uri != "urn:one" {
		t.Errorf("resolve a: %q %v", uri, ok)
	}
	if _, ok := m.resolve("b"); ok {
		t.Error("unbound prefix must not resolve")
	}
	if uri, ok := m.resolve(""); !ok || uri != "" {
		t.Errorf("default namespace: %q %v", uri, ok)
	}

	m.push()
	m.declare("a", "urn:two")
	if uri, _ := m.resolve("a"); uri != "urn:two" {
		t.Errorf("inner binding: %q", uri)
	}
	m.pop()
	if uri, _ := m.resolve("a"); uri != "urn:one" {
		t.Errorf("after pop: %q", uri)
	}
}

func TestResolveReservedPrefixes(t *testing.T) {
	var m namespaceManager
	m.push()
	if uri, ok := m.resolve("xml"); !ok || uri != XMLNamespace {
		t.Errorf("xml resolves to %q", uri)
	}
	if uri, ok := m.resolve("xmlns"); !ok || uri != XMLNSNamespace {
		t.Errorf("xmlns resolves to %q", uri)
	}
}

func TestLookupPrefixSkipsShadowed(t *testing.T) {
	var m namespaceManager
	m.push()
	m.declare("p", "urn:one")
	m.push()
	m.declare("p", "urn:two")

	// p now means urn:two, so urn:one has no usable prefix.
	if _, ok := m.lookupPrefix("urn:one"); ok {
		t.Error("shadowed binding must not be returned")
	}
	if p, ok := m.lookupPrefix("urn:two"); !ok || p != "p" {
		t.Errorf("lookup urn:two: %q %v", p, ok)
	}
}

func TestLookupPrefixDefault(t *testing.T) {
	var m namespaceManager
	m.push()
	m.declare("", "urn:default")
	if p, ok := m.lookupPrefix("urn:default"); !ok || p != "" {
		t.Errorf("default lookup: %q %v", p, ok)
	}
}

func TestGenPrefixShape(t *testing.T) {
	var m namespaceManager
	m.push()
	m.push()
	p1 := m.genPrefix()
	p2 := m.genPrefix()
	if p1 != "d2p1" || p2 != "d2p2" {
		t.Errorf("generated %q, %q; want d2p1, d2p2", p1, p2)
	}
	if !strings.HasPrefix(p1, "d2p") {
		t.Errorf("prefix %q not depth-scoped", p1)
	}
}
