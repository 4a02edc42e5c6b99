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

// StatusCode is the single wire octet that precedes every response
// payload. Its values and names are part of the wire contract (spec.md
// §6): changing them breaks interop with anything already compiled
// against this package.
type StatusCode uint8

const (
	// Success indicates the handler ran and Response.Value is the real
	// result.
	Success StatusCode = 0
	// FunctionNotRegistered indicates the server had no method matching
	// the request's method-name header; Response.Value is a
	// default-constructed zero value, not a real result.
	FunctionNotRegistered StatusCode = 1
	// RecvTimeout indicates the caller observed a receive timeout. Only
	// ever set by a caller reporting its own local observation; no
	// component in this package sets it on a wire response itself today
	// (spec.md §5 places timeouts outside protocol scope).
	RecvTimeout StatusCode = 2
)

func (c StatusCode) String() string {
	switch c {
	case Success:
		return "Success"
	case FunctionNotRegistered:
		return "FunctionNotRegistered"
	case RecvTimeout:
		return "RecvTimeout"
	default:
		return "Unknown"
	}
}
