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

package transport

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendFrameWritesLengthPrefixAndPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SendFrame(&buf, []byte("hello")))

	want := []byte{0, 0, 0, 5}
	want = append(want, []byte("hello")...)
	require.Equal(t, want, buf.Bytes())
}

func TestSendFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SendFrame(&buf, nil))
	require.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes())
}

func TestRecvFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SendFrame(&buf, []byte("round trip payload")))

	got, err := RecvFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte("round trip payload"), got)
}

func TestRecvFrameTruncatedLength(t *testing.T) {
	_, err := RecvFrame(bytes.NewReader([]byte{0, 0, 1}))
	require.Error(t, err)
}

func TestRecvFrameTruncatedPayload(t *testing.T) {
	// declares a 10-byte payload but only supplies 3
	data := []byte{0, 0, 0, 10, 'a', 'b', 'c'}
	_, err := RecvFrame(bytes.NewReader(data))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSendRecvFrameOverNetPipe(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := RecvFrame(server)
		require.NoError(t, err)
		require.Equal(t, []byte("over the wire"), got)
	}()

	require.NoError(t, SendFrame(client, []byte("over the wire")))
	<-done
}

func TestCreateServerAndClientSocket(t *testing.T) {
	ln, err := CreateServerSocket("0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		require.NoError(t, err)
		accepted <- conn
	}()

	conn, err := CreateClientSocket("127.0.0.1", port)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case serverConn := <-accepted:
		defer serverConn.Close()
		require.NoError(t, SendFrame(conn, []byte("ping")))
		got, err := RecvFrame(serverConn)
		require.NoError(t, err)
		require.Equal(t, []byte("ping"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
}
