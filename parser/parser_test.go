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

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/jensonjenkins/srpc/ir"
	"github.com/jensonjenkins/srpc/lexer"
)

func mustParse(t *testing.T, src string) *ir.Contract {
	t.Helper()
	contract, err := ParseContract(lexer.New(src))
	require.NoError(t, err)
	return contract
}

func TestParseMessage(t *testing.T) {
	contract := mustParse(t, `
		message single_primitive {
			int8 arg1;
		}
	`)

	require.Len(t, contract.Elements, 1)
	msg, ok := contract.Elements[0].(*ir.MessageDef)
	require.True(t, ok)
	require.Equal(t, "single_primitive", msg.Name)
	require.Equal(t, []ir.FieldDef{{IsPrimitive: true, Name: "arg1", TypeName: "int8"}}, msg.Fields)

	idx, ok := contract.IndexOf("single_primitive")
	require.True(t, ok)
	require.Equal(t, 0, idx)
}

func TestParseMessageAcceptsFieldNumberSuffix(t *testing.T) {
	// Both field forms (with and without "= N") must parse identically
	// with respect to wire order; the number itself is discarded.
	withNum := mustParse(t, `message m { int8 arg1 = 1; int8 arg2 = 7; }`)
	withoutNum := mustParse(t, `message m { int8 arg1; int8 arg2; }`)

	require.Equal(t,
		withoutNum.Elements[0].(*ir.MessageDef).Fields,
		withNum.Elements[0].(*ir.MessageDef).Fields,
	)
}

func TestParseNestedMessageField(t *testing.T) {
	contract := mustParse(t, `
		message inner { int64 a; }
		message outer { inner in; int8 b; }
	`)

	require.Len(t, contract.Elements, 2)
	outer := contract.Elements[1].(*ir.MessageDef)
	require.Equal(t, []ir.FieldDef{
		{IsPrimitive: false, Name: "in", TypeName: "inner"},
		{IsPrimitive: true, Name: "b", TypeName: "int8"},
	}, outer.Fields)
}

func TestParseUndefinedFieldTypeIsError(t *testing.T) {
	_, err := ParseContract(lexer.New(`message m { unknown_type a; }`))
	require.Error(t, err)
}

func TestParseServiceAndDependencies(t *testing.T) {
	contract := mustParse(t, `
		message number { int64 num; }
		service calculate { method square(number) returns (number); }
	`)

	require.Len(t, contract.Elements, 2)
	svc, ok := contract.Elements[1].(*ir.ServiceDef)
	require.True(t, ok)
	require.Equal(t, "calculate", svc.Name)
	require.Len(t, svc.Methods, 1)
	require.Equal(t, ir.MethodDef{Name: "square", InputType: "number", OutputType: "number"}, svc.Methods[0])
	require.Equal(t, []string{"number"}, svc.MessageDependencies)
}

func TestParseServiceDependencyOrderIsFirstSeen(t *testing.T) {
	contract := mustParse(t, `
		message a { int8 x; }
		message b { int8 x; }
		service s {
			method f(a) returns (b);
			method g(b) returns (a);
		}
	`)
	svc := contract.Elements[2].(*ir.ServiceDef)
	require.Equal(t, []string{"a", "b"}, svc.MessageDependencies)
}

func TestParseServiceUnresolvedMethodTypeIsError(t *testing.T) {
	_, err := ParseContract(lexer.New(`
		service s { method f(nope) returns (nope); }
	`))
	require.Error(t, err)
}

func TestParseDuplicateElementNameIsError(t *testing.T) {
	_, err := ParseContract(lexer.New(`
		message m { int8 a; }
		message m { int8 b; }
	`))
	require.Error(t, err)
}

func TestParseDuplicateFieldNameIsError(t *testing.T) {
	_, err := ParseContract(lexer.New(`message m { int8 a; int8 a; }`))
	require.Error(t, err)
}

func TestParseDuplicateMethodNameIsError(t *testing.T) {
	_, err := ParseContract(lexer.New(`
		message m { int8 a; }
		service s {
			method f(m) returns (m);
			method f(m) returns (m);
		}
	`))
	require.Error(t, err)
}

func TestParseAccumulatesMultipleDiagnostics(t *testing.T) {
	_, err := ParseContract(lexer.New(`
		message m { bad_type a; }
		service s { method f(also_bad) returns (also_bad); }
	`))
	require.Error(t, err)
	// multierr exposes each accumulated error via Errors(); there should
	// be more than one distinct diagnostic collected across the bad
	// field and the bad method types.
	require.Greater(t, len(multierr.Errors(err)), 1)
}

func TestParseUnexpectedTokenMessage(t *testing.T) {
	_, err := ParseContract(lexer.New(`message 123 { }`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected next token to be IDENTIFIER")
}
