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

package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestNewServiceDeduplicatesMessageDependenciesInFirstSeenOrder pins the
// scan NewService runs over its methods: each input/output type name is
// recorded once, at its first occurrence, regardless of how many later
// methods reuse it. go-cmp diffs the slice directly since MethodDef/
// ServiceDef carry only exported fields.
func TestNewServiceDeduplicatesMessageDependenciesInFirstSeenOrder(t *testing.T) {
	methods := []MethodDef{
		{Name: "square", InputType: "number", OutputType: "number"},
		{Name: "add", InputType: "pair", OutputType: "number"},
		{Name: "swap", InputType: "pair", OutputType: "pair"},
	}

	svc := NewService("calculate", methods)

	want := []string{"number", "pair"}
	if diff := cmp.Diff(want, svc.MessageDependencies); diff != "" {
		t.Fatalf("MessageDependencies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(methods, svc.Methods); diff != "" {
		t.Fatalf("Methods mismatch (-want +got):\n%s", diff)
	}
}

func TestContractAddRejectsDuplicateNames(t *testing.T) {
	c := NewContract()
	require.NoError(t, c.Add(&MessageDef{Name: "number"}))

	err := c.Add(&ServiceDef{Name: "number"})
	require.Error(t, err)
}

func TestContractLookupAndIndexOf(t *testing.T) {
	c := NewContract()
	number := &MessageDef{Name: "number", Fields: []FieldDef{{IsPrimitive: true, Name: "num", TypeName: "int64"}}}
	calc := NewService("calculate", []MethodDef{{Name: "square", InputType: "number", OutputType: "number"}})

	require.NoError(t, c.Add(number))
	require.NoError(t, c.Add(calc))

	el, ok := c.Lookup("calculate")
	require.True(t, ok)
	require.Same(t, Element(calc), el)

	idx, ok := c.IndexOf("calculate")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	require.True(t, c.Has("number"))
	require.False(t, c.Has("missing"))

	if diff := cmp.Diff([]*MessageDef{number}, c.Messages()); diff != "" {
		t.Fatalf("Messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]*ServiceDef{calc}, c.Services()); diff != "" {
		t.Fatalf("Services mismatch (-want +got):\n%s", diff)
	}
}
