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

// Package parser turns a token stream into the typed contract IR (ir.Contract).
//
// The parser never panics. Every production that cannot consume the token
// it expects records a diagnostic via go.uber.org/multierr and returns a
// nil element for that production; parsing resumes at the next element.
// The caller gates success on Errors() == nil.
package parser

import (
	"fmt"
	"strconv"

	"go.uber.org/multierr"

	"github.com/jensonjenkins/srpc/ir"
	"github.com/jensonjenkins/srpc/lexer"
	"github.com/jensonjenkins/srpc/token"
)

// Parser consumes tokens from a lexer two at a time (cur, peek) and builds
// an *ir.Contract.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errs error // accumulated via multierr.Append

	contract *ir.Contract
}

// New constructs a Parser over l, priming both lookahead tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, contract: ir.NewContract()}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// Errors returns the accumulated diagnostics, or nil if parsing succeeded.
func (p *Parser) Errors() error { return p.errs }

func (p *Parser) addError(err error) { p.errs = multierr.Append(p.errs, err) }

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expectPeek advances past peek if it has kind k, recording a diagnostic
// and refusing to advance otherwise.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(want token.Kind) {
	p.addError(fmt.Errorf("expected next token to be %s, got %s instead", want, p.peek.Kind))
}

// ParseContract parses the full token stream into an *ir.Contract. It
// always returns a non-nil contract; check Errors() to know whether the
// compile succeeded.
func ParseContract(l *lexer.Lexer) (*ir.Contract, error) {
	p := New(l)
	p.parseContract()
	return p.contract, p.Errors()
}

func (p *Parser) parseContract() {
	for !p.curIs(token.EndOfInput) {
		switch p.cur.Kind {
		case token.Message:
			if msg := p.parseMessage(); msg != nil {
				if err := p.contract.Add(msg); err != nil {
					p.addError(err)
				}
			}
		case token.Service:
			if svc := p.parseService(); svc != nil {
				if err := p.contract.Add(svc); err != nil {
					p.addError(err)
				}
			}
		default:
			p.addError(fmt.Errorf("unrecognized top-level token %s", p.cur.Kind))
			p.nextToken()
			continue
		}
		p.nextToken()
	}
}

func (p *Parser) parseMessage() *ir.MessageDef {
	if !p.expectPeek(token.Identifier) {
		return nil
	}
	msg := &ir.MessageDef{Name: p.cur.Literal}

	if !p.expectPeek(token.LBrace) {
		return nil
	}
	p.nextToken()

	seenFields := make(map[string]bool)
	for !p.curIs(token.RBrace) && !p.curIs(token.EndOfInput) {
		fd, ok := p.parseField()
		if !ok {
			// parseField already recorded a diagnostic; skip to the
			// next statement boundary so one bad field doesn't cascade.
			p.skipToSemicolonOrBrace()
			continue
		}
		if fd != nil {
			if seenFields[fd.Name] {
				p.addError(fmt.Errorf("duplicate field %q in message %q", fd.Name, msg.Name))
			} else {
				seenFields[fd.Name] = true
				msg.Fields = append(msg.Fields, *fd)
			}
		}
	}
	if p.curIs(token.EndOfInput) {
		p.addError(fmt.Errorf("unterminated message %q: expected %s", msg.Name, token.RBrace))
		return msg
	}
	return msg
}

// skipToSemicolonOrBrace advances past tokens until a ';' or '}' has been
// consumed (or EOF reached), so a malformed field statement doesn't leave
// the parser stuck re-reporting the same token.
func (p *Parser) skipToSemicolonOrBrace() {
	for !p.curIs(token.Semicolon) && !p.curIs(token.RBrace) && !p.curIs(token.EndOfInput) {
		p.nextToken()
	}
	if p.curIs(token.Semicolon) {
		p.nextToken()
	}
}

// parseField accepts a field declaration:
//
//	(prim_type | IDENT) IDENT ( "=" INT_LIT )? ";"
//
// The optional "= INT_LIT" field-number suffix is accepted for source
// compatibility but carries no wire meaning: fields are ordered by
// declaration, not by this number (spec.md §9, open question 1).
//
// The bool return reports whether the production consumed tokens cleanly;
// the *ir.FieldDef return is nil whenever ok is false and non-nil whenever
// ok is true.
func (p *Parser) parseField() (*ir.FieldDef, bool) {
	fd := &ir.FieldDef{}

	switch {
	case token.IsPrimitiveType(p.cur.Kind):
		fd.IsPrimitive = true
		fd.TypeName = primitiveGoType(p.cur.Kind)
	case p.curIs(token.Identifier):
		if !p.contract.Has(p.cur.Literal) {
			p.addError(fmt.Errorf("undefined identifier %q used as field type", p.cur.Literal))
			return nil, false
		}
		fd.IsPrimitive = false
		fd.TypeName = p.cur.Literal
	default:
		p.addError(fmt.Errorf("expected field type, got %s instead", p.cur.Kind))
		return nil, false
	}

	if !p.expectPeek(token.Identifier) {
		return nil, false
	}
	fd.Name = p.cur.Literal

	if p.peekIs(token.Assign) {
		p.nextToken() // consume '='
		if !p.expectPeek(token.IntLiteral) {
			return nil, false
		}
		if _, err := strconv.ParseInt(p.cur.Literal, 10, 64); err != nil {
			p.addError(fmt.Errorf("invalid field number %q: %w", p.cur.Literal, err))
			return nil, false
		}
	}

	if !p.expectPeek(token.Semicolon) {
		return nil, false
	}
	p.nextToken()
	return fd, true
}

// primitiveGoType maps an IDL primitive-type keyword to the Go type name
// the emitter (codegen) declares the field with. This is the
// target-language-level name spec.md §3 says FieldDef.TypeName holds;
// "char" has no Go primitive of its own, so it is emitted as byte, the
// idiomatic single-byte Go type.
func primitiveGoType(k token.Kind) string {
	switch k {
	case token.Bool:
		return "bool"
	case token.Int8:
		return "int8"
	case token.Int16:
		return "int16"
	case token.Int32:
		return "int32"
	case token.Int64:
		return "int64"
	case token.Char:
		return "byte"
	case token.String:
		return "string"
	default:
		return k.String()
	}
}

func (p *Parser) parseService() *ir.ServiceDef {
	if !p.expectPeek(token.Identifier) {
		return nil
	}
	name := p.cur.Literal

	if !p.expectPeek(token.LBrace) {
		return nil
	}
	p.nextToken()

	var methods []ir.MethodDef
	seenMethods := make(map[string]bool)
	for !p.curIs(token.RBrace) && !p.curIs(token.EndOfInput) {
		mtd, ok := p.parseMethod()
		if !ok {
			p.skipToSemicolonOrBrace()
			continue
		}
		if mtd != nil {
			if seenMethods[mtd.Name] {
				p.addError(fmt.Errorf("duplicate method %q in service %q", mtd.Name, name))
			} else {
				seenMethods[mtd.Name] = true
				methods = append(methods, *mtd)
			}
		}
	}
	if p.curIs(token.EndOfInput) {
		p.addError(fmt.Errorf("unterminated service %q: expected %s", name, token.RBrace))
	}

	for _, m := range methods {
		if !p.contract.Has(m.InputType) {
			p.addError(fmt.Errorf("method %q: undefined input type %q", m.Name, m.InputType))
		}
		if !p.contract.Has(m.OutputType) {
			p.addError(fmt.Errorf("method %q: undefined output type %q", m.Name, m.OutputType))
		}
	}

	return ir.NewService(name, methods)
}

func (p *Parser) parseMethod() (*ir.MethodDef, bool) {
	if !p.curIs(token.Method) {
		p.addError(fmt.Errorf("expected %s, got %s instead", token.Method, p.cur.Kind))
		return nil, false
	}
	if !p.expectPeek(token.Identifier) {
		return nil, false
	}
	mtd := &ir.MethodDef{Name: p.cur.Literal}

	if !p.expectPeek(token.LParen) {
		return nil, false
	}
	if !p.expectPeek(token.Identifier) {
		return nil, false
	}
	mtd.InputType = p.cur.Literal

	if !p.expectPeek(token.RParen) {
		return nil, false
	}
	if !p.expectPeek(token.Returns) {
		return nil, false
	}
	if !p.expectPeek(token.LParen) {
		return nil, false
	}
	if !p.expectPeek(token.Identifier) {
		return nil, false
	}
	mtd.OutputType = p.cur.Literal

	if !p.expectPeek(token.RParen) {
		return nil, false
	}
	if !p.expectPeek(token.Semicolon) {
		return nil, false
	}
	p.nextToken()
	return mtd, true
}
