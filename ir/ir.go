// Copyright 2024 The srpc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ir defines the typed intermediate representation produced by the
// parser and consumed by the code emitter: messages, services, and the
// ordered contract table that ties declaration order to a name index.
package ir

import "fmt"

// FieldDef describes one field of a MessageDef, in declaration order.
type FieldDef struct {
	// IsPrimitive is true for bool/int8/int16/int32/int64/char/string
	// fields, false for fields whose type is a previously declared
	// message.
	IsPrimitive bool
	Name        string
	// TypeName is the target-language-level type name: a primitive
	// keyword's Go spelling (e.g. "int8", "string") or a user-defined
	// message name.
	TypeName string
}

// MessageDef is a user-declared message. Field order is the canonical wire
// order (spec.md §3): the emitter and the codec must walk Fields in this
// order and no other.
type MessageDef struct {
	Name   string
	Fields []FieldDef
}

func (m *MessageDef) isElement() {}

// ElementName implements Element.
func (m *MessageDef) ElementName() string { return m.Name }

// MethodDef is one RPC method of a ServiceDef.
type MethodDef struct {
	Name       string
	InputType  string
	OutputType string
}

// ServiceDef is a user-declared service: an ordered sequence of methods
// plus the first-seen-order set of message names its methods depend on.
type ServiceDef struct {
	Name    string
	Methods []MethodDef
	// MessageDependencies is the ordered, de-duplicated set of
	// input/output type names across Methods, in first-seen order. The
	// emitter uses it to generate the client stub's one-shot message
	// registry bootstrap.
	MessageDependencies []string
}

func (s *ServiceDef) isElement() {}

// ElementName implements Element.
func (s *ServiceDef) ElementName() string { return s.Name }

// Element is the sum type held by a Contract's ordered element table: a
// MessageDef or a ServiceDef.
type Element interface {
	isElement()
	ElementName() string
}

// NewService builds a ServiceDef from name and methods, computing
// MessageDependencies by scanning Methods in order and recording each
// input/output type the first time it is seen.
func NewService(name string, methods []MethodDef) *ServiceDef {
	svc := &ServiceDef{Name: name, Methods: methods}
	seen := make(map[string]bool, len(methods)*2)
	addDep := func(typeName string) {
		if !seen[typeName] {
			seen[typeName] = true
			svc.MessageDependencies = append(svc.MessageDependencies, typeName)
		}
	}
	for _, m := range methods {
		addDep(m.InputType)
		addDep(m.OutputType)
	}
	return svc
}

// Contract is the module-level, ordered table of declared elements,
// populated once per compile. Declaration order is preserved so the
// emitter can always emit referenced types before types that reference
// them.
type Contract struct {
	Elements []Element
	indexOf  map[string]int
}

// NewContract returns an empty contract table.
func NewContract() *Contract {
	return &Contract{indexOf: make(map[string]int)}
}

// Lookup returns the element named name and whether it was found.
func (c *Contract) Lookup(name string) (Element, bool) {
	idx, ok := c.indexOf[name]
	if !ok {
		return nil, false
	}
	return c.Elements[idx], true
}

// Has reports whether name refers to an already-declared element. The
// parser uses this to resolve identifier-typed fields and method
// input/output types.
func (c *Contract) Has(name string) bool {
	_, ok := c.indexOf[name]
	return ok
}

// IndexOf returns the position of name in Elements, and whether it exists.
// IndexOf(e.Name) == position(e) is an invariant of a successfully built
// Contract (spec.md §3).
func (c *Contract) IndexOf(name string) (int, bool) {
	idx, ok := c.indexOf[name]
	return idx, ok
}

// Add appends el to the element table under its name. It returns an error
// if the name collides with an already-declared element (spec.md §3:
// "Names are unique across all elements").
func (c *Contract) Add(el Element) error {
	name := el.ElementName()
	if _, exists := c.indexOf[name]; exists {
		return fmt.Errorf("duplicate element name %q", name)
	}
	c.indexOf[name] = len(c.Elements)
	c.Elements = append(c.Elements, el)
	return nil
}

// Messages returns every MessageDef in the contract, in declaration order.
func (c *Contract) Messages() []*MessageDef {
	var out []*MessageDef
	for _, el := range c.Elements {
		if m, ok := el.(*MessageDef); ok {
			out = append(out, m)
		}
	}
	return out
}

// Services returns every ServiceDef in the contract, in declaration order.
func (c *Contract) Services() []*ServiceDef {
	var out []*ServiceDef
	for _, el := range c.Elements {
		if s, ok := el.(*ServiceDef); ok {
			out = append(out, s)
		}
	}
	return out
}
