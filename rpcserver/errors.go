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

package rpcserver

import "errors"

// ErrMethodNotImplemented is returned by a generated Unimplemented*Servicer
// embed's default method bodies. A handler returning it causes the
// dispatch loop to close the connection without responding, the same as
// any other business-handler error (spec.md §7) — there is no
// not-implemented-specific wire status; a C++ servicer_base default threw
// an exception for the same case, which this package's caller-observes-a-
// closed-connection behavior approximates without unwinding the process.
var ErrMethodNotImplemented = errors.New("rpcserver: method not implemented")
