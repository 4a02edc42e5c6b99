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

import (
	"encoding/binary"
	"fmt"
)

// Packer is the streaming packer/unpacker over a Buffer: it carries no
// state of its own beyond the buffer, so the same value both builds a
// frame (via the Write* methods, used by a client packing a request or a
// server packing a response) and consumes one (via the Read* methods,
// used by whichever side received it). This mirrors the original source's
// single packer class rather than splitting encode/decode into separate
// types.
type Packer struct {
	buf *Buffer
}

// NewPacker returns a Packer over a fresh, empty Buffer, ready for
// writing.
func NewPacker() *Packer {
	return &Packer{buf: &Buffer{}}
}

// NewPackerFromBytes returns a Packer over data, ready for reading from
// offset 0.
func NewPackerFromBytes(data []byte) *Packer {
	return &Packer{buf: NewBuffer(data)}
}

// Buffer returns the underlying Buffer.
func (p *Packer) Buffer() *Buffer { return p.buf }

// Bytes returns the packed bytes written so far.
func (p *Packer) Bytes() []byte { return p.buf.Bytes() }

// Remaining returns the number of unread bytes.
func (p *Packer) Remaining() int { return p.buf.Remaining() }

// fixed-width primitive sizes, in bytes. Interop across architectures is
// explicitly not a goal (spec.md §1); these sizes are fixed by this
// package, not derived from the host platform.
const (
	sizeBool  = 1
	sizeInt8  = 1
	sizeInt16 = 2
	sizeInt32 = 4
	sizeInt64 = 8
	sizeChar  = 1
	// sizeStringLen is the width of the length prefix in front of every
	// string's raw bytes. spec.md §9 open question 2 resolves the
	// inconsistency in favor of 8 bytes (platform size_t-shaped).
	sizeStringLen = 8
)

// --- writers ---

// WriteBool appends v as a single byte (0 or 1).
func (p *Packer) WriteBool(v bool) {
	if v {
		p.buf.Append([]byte{1})
	} else {
		p.buf.Append([]byte{0})
	}
}

// WriteInt8 appends v as a single byte.
func (p *Packer) WriteInt8(v int8) {
	p.buf.Append([]byte{byte(v)})
}

// WriteInt16 appends v little-endian.
func (p *Packer) WriteInt16(v int16) {
	var b [sizeInt16]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	p.buf.Append(b[:])
}

// WriteInt32 appends v little-endian.
func (p *Packer) WriteInt32(v int32) {
	var b [sizeInt32]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	p.buf.Append(b[:])
}

// WriteInt64 appends v little-endian.
func (p *Packer) WriteInt64(v int64) {
	var b [sizeInt64]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	p.buf.Append(b[:])
}

// WriteChar appends v as a single byte; srpc's "char" primitive is a
// one-byte value with no idiomatic Go primitive of its own.
func (p *Packer) WriteChar(v byte) {
	p.buf.Append([]byte{v})
}

// WriteString appends the 8-byte little-endian length of s followed by
// its raw bytes.
func (p *Packer) WriteString(s string) {
	var lenBuf [sizeStringLen]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
	p.buf.Append(lenBuf[:])
	p.buf.Append([]byte(s))
}

// WriteStatus appends code as a single octet.
func (p *Packer) WriteStatus(code StatusCode) {
	p.buf.Append([]byte{byte(code)})
}

// --- readers ---

func (p *Packer) readFixed(n int) ([]byte, error) {
	b, err := p.buf.Advance(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return b, nil
}

// ReadBool reads one byte and reports it as a bool (nonzero is true).
func (p *Packer) ReadBool() (bool, error) {
	b, err := p.readFixed(sizeBool)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadInt8 reads one byte as a signed 8-bit integer.
func (p *Packer) ReadInt8() (int8, error) {
	b, err := p.readFixed(sizeInt8)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadInt16 reads two little-endian bytes as a signed 16-bit integer.
func (p *Packer) ReadInt16() (int16, error) {
	b, err := p.readFixed(sizeInt16)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// ReadInt32 reads four little-endian bytes as a signed 32-bit integer.
func (p *Packer) ReadInt32() (int32, error) {
	b, err := p.readFixed(sizeInt32)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadInt64 reads eight little-endian bytes as a signed 64-bit integer.
func (p *Packer) ReadInt64() (int64, error) {
	b, err := p.readFixed(sizeInt64)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// ReadChar reads one byte.
func (p *Packer) ReadChar() (byte, error) {
	b, err := p.readFixed(sizeChar)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadString reads an 8-byte little-endian length prefix followed by that
// many raw bytes.
func (p *Packer) ReadString() (string, error) {
	lenBytes, err := p.readFixed(sizeStringLen)
	if err != nil {
		return "", err
	}
	length := binary.LittleEndian.Uint64(lenBytes)
	if length > uint64(p.buf.Remaining()) {
		return "", fmt.Errorf("%w: declared %d, have %d", ErrLengthOverflow, length, p.buf.Remaining())
	}
	raw, err := p.readFixed(int(length))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ReadStatus reads one octet as a StatusCode.
func (p *Packer) ReadStatus() (StatusCode, error) {
	b, err := p.readFixed(1)
	if err != nil {
		return 0, err
	}
	return StatusCode(b[0]), nil
}
