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

// Package lexer turns IDL source text into a stream of tokens.
package lexer

import (
	"github.com/jensonjenkins/srpc/token"
)

// Lexer walks input one byte at a time with a single byte of lookahead.
// It holds no reference to the parser; NextToken() classifies whatever
// sits under the cursor and advances past it.
type Lexer struct {
	input string
	pos   int  // position of ch in input
	next  int  // reading position (always pos+1)
	ch    byte // current char under examination, 0 at/after end of input
}

// New constructs a Lexer over input and primes the first character.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.next >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.next]
	}
	l.pos = l.next
	l.next++
}

// NextToken returns the next token in the stream. Once the input is
// exhausted it returns token.EndOfInput on every subsequent call.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	var tok token.Token
	switch l.ch {
	case '=':
		tok = token.Token{Kind: token.Assign, Literal: "="}
	case '{':
		tok = token.Token{Kind: token.LBrace, Literal: "{"}
	case '}':
		tok = token.Token{Kind: token.RBrace, Literal: "}"}
	case '(':
		tok = token.Token{Kind: token.LParen, Literal: "("}
	case ')':
		tok = token.Token{Kind: token.RParen, Literal: ")"}
	case ';':
		tok = token.Token{Kind: token.Semicolon, Literal: ";"}
	case 0:
		return token.Token{Kind: token.EndOfInput, Literal: ""}
	default:
		switch {
		case isLetter(l.ch):
			ident := l.readIdentifier()
			return token.Token{Kind: token.LookupIdent(ident), Literal: ident}
		case isDigit(l.ch):
			digits := l.readDigits()
			return token.Token{Kind: token.IntLiteral, Literal: digits}
		default:
			tok = token.Token{Kind: token.Illegal, Literal: "[UNRECOGNIZED]"}
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readDigits() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
