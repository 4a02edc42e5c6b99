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

import (
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/jensonjenkins/srpc/transport"
	"github.com/jensonjenkins/srpc/wire"
)

// Server dispatches accepted connections against a FunctionRegistry, one
// connection at a time (spec.md §5: the steady-state loop is strictly
// sequential — accept, serve to completion, accept again — with no
// per-connection or per-request goroutine; concurrency is explicitly a
// Non-goal of the protocol this package implements).
type Server struct {
	registry *FunctionRegistry
	logger   *zap.Logger
}

// Option configures a Server at construction.
type Option func(*Server)

// WithLogger overrides the Server's logger. The default is a no-op
// logger, so a caller that does not care about diagnostics pays nothing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer returns a Server dispatching against registry.
func NewServer(registry *FunctionRegistry, opts ...Option) *Server {
	s := &Server{registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs the accept loop over ln until Accept returns an error (most
// commonly because ln was closed), at which point it returns that error.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("rpcserver: accept: %w", err)
		}
		s.handleConn(conn)
	}
}

// handleConn services exactly one request on conn and closes it. A
// request spans a single frame in, at most one frame out: this package
// does not keep a connection open across multiple requests (spec.md §5,
// §7), so a second request sent on the same connection gets no response.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	data, err := transport.RecvFrame(conn)
	if err != nil {
		s.logger.Warn("rpcserver: recv frame", zap.Error(err))
		return
	}
	p := wire.NewPackerFromBytes(data)

	methodName, err := p.ReadString()
	if err != nil {
		s.logger.Warn("rpcserver: malformed request, missing method name", zap.Error(err))
		s.respond(conn, wire.FunctionNotRegistered, "", nil)
		return
	}

	handler, ok := s.registry.lookup(methodName)
	if !ok {
		s.logger.Debug("rpcserver: method not registered", zap.String("method", methodName))
		s.respond(conn, wire.FunctionNotRegistered, "", nil)
		return
	}

	// The input type-name header is part of the wire contract (spec.md
	// §4.3) but is not consulted here: RegisterMethod's newIn already
	// fixes the concrete input type for this method, so the header is
	// read only to advance past it.
	if _, err := p.ReadString(); err != nil {
		s.logger.Warn("rpcserver: malformed request, missing input type name", zap.String("method", methodName), zap.Error(err))
		return
	}

	result, err := handler(p)
	if err != nil {
		if errors.Is(err, wire.ErrTruncated) || errors.Is(err, wire.ErrLengthOverflow) {
			s.logger.Warn("rpcserver: malformed request body, closing connection", zap.String("method", methodName), zap.Error(err))
		} else {
			s.logger.Warn("rpcserver: handler error, closing connection", zap.String("method", methodName), zap.Error(err))
		}
		return
	}
	s.respond(conn, result.code, result.typeName, result.pack)
}

func (s *Server) respond(conn net.Conn, code wire.StatusCode, typeName string, pack func(*wire.Packer)) {
	p := wire.NewPacker()
	p.WriteStatus(code)
	p.WriteString(typeName)
	if pack != nil {
		pack(p)
	}
	if err := transport.SendFrame(conn, p.Bytes()); err != nil {
		s.logger.Warn("rpcserver: send response", zap.Error(err))
	}
}
