// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jspath implements the small path language used to locate the
// role inside JWT claims, e.g. .postgrest.roles[0] or ."https://example.com/role".
package jspath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Step is a single path step, either a [Key] or an [Index].
type Step interface {
	isStep()
	String() string
}

// Key selects an object member.
type Key string

// Index selects an array element.
type Index int

func (Key) isStep()   {}
func (Index) isStep() {}

// String renders the key as a dot followed by a quoted name.
func (k Key) String() string {
	return `."` + quoteEscaper.Replace(string(k)) + `"`
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// String renders the index in brackets.
func (i Index) String() string {
	return "[" + strconv.Itoa(int(i)) + "]"
}

// Path is a sequence of steps walked from the root of a JSON value.
type Path []Step

// Default selects the top level role member.
var Default = Path{Key("role")}

// String renders p in its canonical form, which Parse accepts.
func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// SyntaxError describes where a path failed to parse.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e SyntaxError) Error() string {
	return fmt.Sprintf("%q (column %d): %s", e.Input, e.Offset+1, e.Msg)
}

// Parse parses the textual form of a path. A path is one or more steps
// where each step is either .name, ."quoted name" or [n].
func Parse(s string) (Path, error) {
	p := &parser{in: s}
	return p.path()
}

type parser struct {
	in  string
	pos int
}

func (p *parser) fail(msg string) error {
	return SyntaxError{Input: p.in, Offset: p.pos, Msg: msg}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.in)
}

func (p *parser) peek() byte {
	return p.in[p.pos]
}

func (p *parser) path() (Path, error) {
	var path Path
	for !p.eof() {
		step, err := p.step()
		if err != nil {
			return nil, err
		}
		path = append(path, step)
	}
	if len(path) == 0 {
		return nil, p.fail("expected '.' or '['")
	}
	return path, nil
}

func (p *parser) step() (Step, error) {
	switch p.peek() {
	case '.':
		p.pos++
		return p.key()
	case '[':
		p.pos++
		return p.index()
	default:
		return nil, p.fail("expected '.' or '['")
	}
}

func (p *parser) key() (Step, error) {
	if p.eof() {
		return nil, p.fail("expected a key")
	}
	if p.peek() == '"' {
		return p.quoted()
	}

	start := p.pos
	for !p.eof() && isIdent(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return nil, p.fail("expected a key")
	}
	return Key(p.in[start:p.pos]), nil
}

func (p *parser) quoted() (Step, error) {
	p.pos++ // opening quote

	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch c {
		case '"':
			return Key(sb.String()), nil
		case '\\':
			if p.eof() {
				return nil, p.fail("unterminated escape")
			}
			e := p.peek()
			if e != '"' && e != '\\' {
				return nil, p.fail(fmt.Sprintf("invalid escape \\%c", e))
			}
			sb.WriteByte(e)
			p.pos++
		default:
			sb.WriteByte(c)
		}
	}
	return nil, p.fail("unterminated quoted key")
}

func (p *parser) index() (Step, error) {
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == start {
		return nil, p.fail("expected an array index")
	}
	n, err := strconv.Atoi(p.in[start:p.pos])
	if err != nil {
		return nil, p.fail(err.Error())
	}
	if p.eof() || p.peek() != ']' {
		return nil, p.fail("expected ']'")
	}
	p.pos++
	return Index(n), nil
}

func isIdent(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '$', c == '@':
		return true
	default:
		return false
	}
}

// Expr converts p into a JSONPath expression.
func (p Path) Expr() jp.Expr {
	x := jp.R()
	for _, s := range p {
		switch s := s.(type) {
		case Key:
			x = x.C(string(s))
		case Index:
			x = x.N(int(s))
		}
	}
	return x
}

// Get returns the value p selects in data, which is typically a decoded
// set of JWT claims.
func (p Path) Get(data any) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	vs := p.Expr().Get(data)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}
