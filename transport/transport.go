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

// Package transport implements the length-prefixed framed send/recv over
// a stream socket (spec.md §4.6, C8): every frame is a 4-byte network-
// order length prefix followed by that many payload bytes.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// lengthPrefixSize is the width of the frame's network-order length
// prefix, in bytes.
const lengthPrefixSize = 4

// CreateServerSocket resolves a passive TCP address on port and returns a
// listener bound and listening. It accepts either IPv4 or IPv6, whatever
// the resolver returns — no explicit preference (spec.md §4.6). Listen
// backlog and other socket option tuning are an external collaborator's
// concern (spec.md §1 Non-goals) and are left at the platform default.
func CreateServerSocket(port string) (net.Listener, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("transport: create server socket: %w", err)
	}
	return ln, nil
}

// CreateClientSocket resolves host:port actively and returns a connected
// TCP connection.
func CreateClientSocket(host, port string) (net.Conn, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("transport: create client socket: %w", err)
	}
	return conn, nil
}

// SendFrame writes a 4-byte network-order length prefix followed by data,
// with one Write call for each and no retry loop of its own. It relies on
// Write returning an error for any short write (the io.Writer contract);
// net.Conn.Write already blocks until all bytes are accepted or an error
// occurs, which gives the "wait all" semantics the original source
// implements by hand over raw sockets.
func SendFrame(w io.Writer, data []byte) error {
	var lenBuf [lengthPrefixSize]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("transport: send frame length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("transport: send frame payload: %w", err)
	}
	return nil
}

// RecvFrame reads the 4-byte length prefix (blocking until all four bytes
// arrive), then reads exactly that many payload bytes (blocking). A short
// read at either stage returns an empty frame and the underlying error,
// matching the original source's "wait all" read semantics — the only
// source of synchronous blocking in the server loop (spec.md §5).
func RecvFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("transport: recv frame length: %w", err)
	}
	size := binary.BigEndian.Uint32(lenBuf[:])

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("transport: recv frame payload: %w", err)
	}
	return data, nil
}
