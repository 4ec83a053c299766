// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package finf

import "fmt"

// nsBinding is one prefix-to-namespace binding on the namespace stack.
type nsBinding struct {
	prefix string
	uri    string
}

// nsFrame records, per open element, the namespace stack height at element
// open and the counter used for generated prefixes.
type nsFrame struct {
	top     int
	counter int
}

// namespaceManager tracks in-scope namespace bindings for the Writer. The
// xml and xmlns prefixes are implicit bindings that cannot be shadowed.
type namespaceManager struct {
	bindings []nsBinding
	frames   []nsFrame
}

func (m *namespaceManager) push() {
	m.frames = append(m.frames, nsFrame{top: len(m.bindings)})
}

func (m *namespaceManager) pop() {
	f := m.frames[len(m.frames)-1]
	m.bindings = m.bindings[:f.top]
	m.frames = m.frames[:len(m.frames)-1]
}

func (m *namespaceManager) declare(prefix, uri string) {
	m.bindings = append(m.bindings, nsBinding{prefix: prefix, uri: uri})
}

// resolve returns the namespace bound to prefix. The empty prefix resolves
// to the current default namespace, which is "" when none is declared.
func (m *namespaceManager) resolve(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return XMLNamespace, true
	case "xmlns":
		return XMLNSNamespace, true
	}
	for i := len(m.bindings) - 1; i >= 0; i-- {
		if m.bindings[i].prefix == prefix {
			return m.bindings[i].uri, true
		}
	}
	if prefix == "" {
		return "", true
	}
	return "", false
}

// lookupPrefix returns a prefix currently bound to uri, skipping bindings
// shadowed by a deeper declaration of the same prefix. The empty string is
// returned when uri is the current default namespace.
func (m *namespaceManager) lookupPrefix(uri string) (string, bool) {
	if uri == XMLNamespace {
		return "xml", true
	}
	for i := len(m.bindings) - 1; i >= 0; i-- {
		b := m.bindings[i]
		if b.uri != uri {
			continue
		}
		if cur, _ := m.resolve(b.prefix); cur == uri {
			return b.prefix, true
		}
	}
	return "", false
}

// genPrefix produces a fresh prefix of the form d{elementDepth}p{counter}.
func (m *namespaceManager) genPrefix() string {
	f := &m.frames[len(m.frames)-1]
	for {
		f.counter++
		p := fmt.Sprintf("d%dp%d", len(m.frames), f.counter)
		if _, taken := m.resolve(p); !taken {
			return p
		}
	}
}
