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

// Package wire implements the srpc binary wire format: a growable,
// cursor-tracked byte buffer (Buffer), typed packing/unpacking over it
// (Packer, which both writes and reads), request/response framing, and the process-wide
// message-type registry the decoder uses to materialize concrete message
// values from a wire type-name header.
package wire

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned by Buffer.Advance when the cursor would move
// past the end of the written bytes.
var ErrOutOfBounds = errors.New("wire: advance out of bounds")

// Buffer is an ordered byte sequence plus a non-decreasing read cursor.
// Appends grow the sequence; Advance consumes bytes from the cursor
// forward. A zero Buffer is ready to use.
type Buffer struct {
	data   []byte
	offset int
}

// NewBuffer wraps an existing byte slice for reading; offset starts at 0.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Append grows the buffer with p. Appending never touches the read cursor.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Current returns the unread tail of the buffer, starting at the cursor.
func (b *Buffer) Current() []byte {
	return b.data[b.offset:]
}

// Advance consumes k bytes from the cursor and returns them. It fails with
// ErrOutOfBounds if fewer than k bytes remain.
func (b *Buffer) Advance(k int) ([]byte, error) {
	if k < 0 || b.offset+k > len(b.data) {
		return nil, fmt.Errorf("%w: offset=%d len=%d k=%d", ErrOutOfBounds, b.offset, len(b.data), k)
	}
	out := b.data[b.offset : b.offset+k]
	b.offset += k
	return out, nil
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.offset
}

// Offset returns the current read cursor.
func (b *Buffer) Offset() int {
	return b.offset
}

// Len returns the total number of bytes written to the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the full underlying byte slice, including already-read
// bytes before the cursor.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Reset clears the buffer's contents and zeroes the read cursor.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.offset = 0
}
