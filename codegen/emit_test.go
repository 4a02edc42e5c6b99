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

package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jensonjenkins/srpc/ir"
	"github.com/jensonjenkins/srpc/lexer"
	"github.com/jensonjenkins/srpc/parser"
)

func mustContract(t *testing.T, src string) *ir.Contract {
	t.Helper()
	contract, err := parser.ParseContract(lexer.New(src))
	require.NoError(t, err)
	return contract
}

func TestEmitMessageProducesPackableStruct(t *testing.T) {
	contract := mustContract(t, `
		message number {
			int64 num;
		}
	`)
	src, err := Emit(contract, "calculator")
	require.NoError(t, err)

	got := string(src)
	require.Contains(t, got, "// Code generated by srpc. DO NOT EDIT.")
	require.Contains(t, got, "type Number struct")
	require.Contains(t, got, "Num int64")
	require.Contains(t, got, `func (m *Number) TypeName() string { return "number" }`)
	require.Contains(t, got, "p.WriteInt64(m.Num)")
	require.Contains(t, got, "m.Num, err = p.ReadInt64()")
}

func TestEmitNestedMessageField(t *testing.T) {
	contract := mustContract(t, `
		message inner { int8 x; }
		message outer { inner v; }
	`)
	src, err := Emit(contract, "p")
	require.NoError(t, err)

	got := string(src)
	require.Contains(t, got, "type Outer struct")
	require.Contains(t, got, "V Inner")
	require.Contains(t, got, "m.V.Pack(p)")
	require.Contains(t, got, "m.V.Unpack(p)")
}

func TestEmitServiceProducesStubServicerAndRegister(t *testing.T) {
	contract := mustContract(t, `
		message number { int64 num; }
		service calculate {
			method square(number) returns (number);
		}
	`)
	src, err := Emit(contract, "calculator")
	require.NoError(t, err)

	got := string(src)
	require.Contains(t, got, "type CalculateStub struct")
	require.Contains(t, got, "func NewCalculateStub() *CalculateStub")
	require.Contains(t, got, "func (s *CalculateStub) RegisterInsecureChannel(host, port string) error")
	require.Contains(t, got, "func (s *CalculateStub) Square(in *Number) (*Number, error)")
	require.Contains(t, got, `MethodName: "calculate_servicer::square"`)

	require.Contains(t, got, "type CalculateServicer interface")
	require.Contains(t, got, "Square(in *Number) (*Number, error)")

	require.Contains(t, got, "type UnimplementedCalculateServicer struct{}")
	require.Contains(t, got, "rpcserver.ErrMethodNotImplemented")

	require.Contains(t, got, "func RegisterCalculate(reg *rpcserver.FunctionRegistry, svc CalculateServicer)")
	require.Contains(t, got, `rpcserver.RegisterMethod(reg, "calculate_servicer::square"`)
}

func TestEmitIsValidGoSource(t *testing.T) {
	contract := mustContract(t, `
		message number { int64 num; }
		service calculate {
			method square(number) returns (number);
		}
	`)
	src, err := Emit(contract, "calculator")
	require.NoError(t, err)
	// format.Source inside Emit already rejects unparsable source; this
	// just pins the expectation that the returned bytes are non-empty and
	// begin with the generated-file header, not a formatting no-op on
	// broken input.
	require.True(t, strings.HasPrefix(string(src), "// Code generated by srpc. DO NOT EDIT."))
}

func TestEmitMessageOnlyContractOmitsServiceImports(t *testing.T) {
	contract := mustContract(t, `message number { int64 num; }`)
	src, err := Emit(contract, "p")
	require.NoError(t, err)

	got := string(src)
	require.NotContains(t, got, `"net"`)
	require.NotContains(t, got, `"sync"`)
	require.Contains(t, got, `"github.com/jensonjenkins/srpc/wire"`)
}
