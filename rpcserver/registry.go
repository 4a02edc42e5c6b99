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

// Package rpcserver implements the dispatch server (spec.md §5, §7, C7): a
// function registry mapping method names to typed handlers, and a TCP
// accept loop that decodes a request frame, calls the matching handler,
// and writes back a response frame — strictly one connection at a time.
package rpcserver

import "github.com/jensonjenkins/srpc/wire"

// handlerResult is what a registered method produces on success: the
// status to report, the wire type-name of the output value, and a closure
// that packs that value's fields. It is distinct from wire.Response[T]
// because the dispatch loop handles many methods with different output
// types over the same connection and cannot fix T at compile time — the
// type erasure happens here, once, at registration.
type handlerResult struct {
	code     wire.StatusCode
	typeName string
	pack     func(p *wire.Packer)
}

// rawHandler is a registered method with its input/output types erased:
// it reads the input body (the type-name header has already been
// consumed by the caller) from p and returns the wire-ready result. An
// error return means the input failed to decode, or the business handler
// itself failed — either way the dispatch loop closes the connection
// without responding (spec.md §7).
type rawHandler func(p *wire.Packer) (handlerResult, error)

// FunctionRegistry is the mapping from RPC method name to handler that a
// Server dispatches against (spec.md §5's "function registry"); each
// registry is an ordinary value handed to NewServer. It is distinct from
// wire.Registry's message-type-name mapping — the two are never merged
// (spec.md §9).
type FunctionRegistry struct {
	methods map[string]rawHandler
	order   []string
}

// NewFunctionRegistry returns an empty FunctionRegistry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{methods: make(map[string]rawHandler)}
}

// Methods returns the registered method names in registration order.
// Generated Register<Service> functions register methods in IDL
// declaration order, so this is also declaration order.
func (r *FunctionRegistry) Methods() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *FunctionRegistry) register(name string, h rawHandler) {
	if _, exists := r.methods[name]; !exists {
		r.order = append(r.order, name)
	}
	r.methods[name] = h
}

func (r *FunctionRegistry) lookup(name string) (rawHandler, bool) {
	h, ok := r.methods[name]
	return h, ok
}

// RegisterMethod installs a typed handler under methodName. newIn
// constructs an empty In ready for Unpack; this is how the dispatch loop
// decodes a request's input body without needing a wire.Registry lookup
// keyed on the request's own type-name header — the registering code
// already knows In statically, the same way a generated server stub
// knows each method's argument type at compile time (spec.md §9,
// resolving the hazard where a process that never constructs a client
// stub would otherwise have an empty message registry to decode
// against).
func RegisterMethod[In, Out wire.Message](reg *FunctionRegistry, methodName string, newIn func() In, handler func(in In) (Out, error)) {
	reg.register(methodName, func(p *wire.Packer) (handlerResult, error) {
		in := newIn()
		if err := in.Unpack(p); err != nil {
			return handlerResult{}, err
		}
		out, err := handler(in)
		if err != nil {
			return handlerResult{}, err
		}
		return handlerResult{code: wire.Success, typeName: out.TypeName(), pack: out.Pack}, nil
	})
}
