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

package wire

// Request is a typed RPC request: the fully-qualified method name plus
// the typed input value. T is constrained to Message so PackRequest can
// read its wire type name and pack its fields generically.
type Request[T Message] struct {
	MethodName string
	Value      T
}

// Response is a typed RPC response: the status octet plus the typed
// output value.
type Response[T Message] struct {
	Code  StatusCode
	Value T
}

// PackRequest writes the request frame payload: method name, then the
// value's type name, then the packed value (spec.md §4.3).
func PackRequest[T Message](p *Packer, req Request[T]) {
	p.WriteString(req.MethodName)
	p.WriteString(req.Value.TypeName())
	req.Value.Pack(p)
}

// PackResponse writes the response frame payload: status octet, then the
// value's type name, then the packed value (spec.md §4.3).
func PackResponse[T Message](p *Packer, resp Response[T]) {
	p.WriteStatus(resp.Code)
	p.WriteString(resp.Value.TypeName())
	resp.Value.Pack(p)
}

// UnpackRequest reads a request frame payload: the method name, the
// type-name header, and — if registry has an entry for that name — the
// packed value via its registered factory. If the type name is not
// registered, Value is newEmpty()'s zero instance and the returned error
// is ErrUnknownMessageName; the codec itself never treats this as
// terminal (spec.md §7), leaving that judgment to the caller (the
// dispatch server, typically).
func UnpackRequest[T Message](p *Packer, registry *Registry, newEmpty func() T) (Request[T], error) {
	methodName, err := p.ReadString()
	if err != nil {
		return Request[T]{}, err
	}
	typeName, err := p.ReadString()
	if err != nil {
		return Request[T]{MethodName: methodName}, err
	}
	value, err := decodeTyped(p, registry, typeName, newEmpty)
	return Request[T]{MethodName: methodName, Value: value}, err
}

// UnpackResponse reads a response frame payload: the status octet, the
// type-name header, and the packed value, symmetric to UnpackRequest.
func UnpackResponse[T Message](p *Packer, registry *Registry, newEmpty func() T) (Response[T], error) {
	code, err := p.ReadStatus()
	if err != nil {
		return Response[T]{}, err
	}
	typeName, err := p.ReadString()
	if err != nil {
		return Response[T]{Code: code}, err
	}
	value, err := decodeTyped(p, registry, typeName, newEmpty)
	return Response[T]{Code: code, Value: value}, err
}

// decodeTyped materializes the concrete message named typeName via
// registry, unpacks it from p, and asserts it down to T. A lookup miss or
// a type mismatch yields newEmpty()'s zero value and ErrUnknownMessageName
// (the mismatch case cannot happen for well-formed traffic, since a
// well-behaved peer only ever registers one factory per name, but it is
// handled the same way rather than panicking). A genuine decode failure
// while unpacking the matched type (ErrTruncated et al.) propagates
// as-is.
func decodeTyped[T Message](p *Packer, registry *Registry, typeName string, newEmpty func() T) (T, error) {
	factory, ok := registry.Lookup(typeName)
	if !ok {
		return newEmpty(), ErrUnknownMessageName
	}
	msg := factory()
	if err := msg.Unpack(p); err != nil {
		return newEmpty(), err
	}
	typed, ok := msg.(T)
	if !ok {
		return newEmpty(), ErrUnknownMessageName
	}
	return typed, nil
}
