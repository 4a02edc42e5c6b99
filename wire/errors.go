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

import "errors"

// ErrTruncated is returned by a Read* method when the buffer has fewer
// remaining bytes than the value being decoded requires.
var ErrTruncated = errors.New("wire: truncated")

// ErrLengthOverflow is returned by ReadString when the decoded length
// prefix exceeds the number of bytes remaining in the buffer.
var ErrLengthOverflow = errors.New("wire: string length exceeds remaining bytes")

// ErrUnknownMessageName is returned by the generic request/response
// decoders when the wire type-name header does not match any entry in the
// message registry consulted. Per spec.md §7, only the dispatcher (C7)
// treats this as terminal; a client decoding its own response may still
// observe a meaningful StatusCode alongside a zero-valued payload.
var ErrUnknownMessageName = errors.New("wire: unknown message type name")
