// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var errExprParse = errors.New("expression syntax error")

// An exprParser evaluates integer expressions typed at the host prompt.
// Number literals in 6502 notation are rewritten into Starlark syntax and
// the result is evaluated by the Starlark interpreter with the host's
// identifiers predeclared.
type exprParser struct {
	hexMode bool
}

func newExprParser() *exprParser {
	return &exprParser{}
}

// Parse evaluates the expression. Identifiers are resolved from vars.
func (p *exprParser) Parse(expr string, vars map[string]int64) (int64, error) {
	src, err := p.rewrite(tstring(expr))
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(src) == "" {
		return 0, errExprParse
	}

	pred := starlark.StringDict{}
	for k, v := range vars {
		pred[k] = starlark.MakeInt64(v)
	}

	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc=("+src+")\n", pred)
	if err != nil {
		return 0, err
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, errExprParse
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, errExprParse
	}
	return v, nil
}

// Rewrite 6502 style literals ($hex, %bin, 'c') into Starlark literals.
// In hex mode, bare numbers and words made only of hex digits are
// treated as hexadecimal. A lone '.' stands for the program counter, and
// '/' is integer division.
func (p *exprParser) rewrite(t tstring) (string, error) {
	var b strings.Builder
	for len(t) > 0 {
		c := t[0]
		switch {
		case c == '$':
			num, remain := t.consume(1).consumeWhile(hexadecimal)
			if num == "" {
				return "", errExprParse
			}
			if err := writeNumber(&b, num, 16); err != nil {
				return "", err
			}
			t = remain

		case c == '%' && len(t) > 1 && binary(t[1]) && !operandBefore(b.String()):
			num, remain := t.consume(1).consumeWhile(binary)
			if err := writeNumber(&b, num, 2); err != nil {
				return "", err
			}
			t = remain

		case c == '\'':
			if len(t) < 3 || t[2] != '\'' {
				return "", errExprParse
			}
			b.WriteString(strconv.Itoa(int(t[1])))
			t = t.consume(3)

		case decimal(c):
			var err error
			t, err = p.rewriteNumber(&b, t)
			if err != nil {
				return "", err
			}

		case c == '.' && (len(t) == 1 || !identifier(t[1])):
			b.WriteString("pc")
			t = t.consume(1)

		case identifier(c):
			var id tstring
			id, t = t.consumeWhile(identifier)
			if p.hexMode && id.all(hexadecimal) {
				if err := writeNumber(&b, id, 16); err != nil {
					return "", err
				}
			} else {
				b.WriteString(strings.ToLower(string(id)))
			}

		case c == '/':
			b.WriteString("//")
			t = t.consume(1)
			if len(t) > 0 && t[0] == '/' {
				t = t.consume(1)
			}

		default:
			b.WriteByte(c)
			t = t.consume(1)
		}
	}
	return b.String(), nil
}

func (p *exprParser) rewriteNumber(b *strings.Builder, t tstring) (tstring, error) {
	base, fn := 10, decimal
	if p.hexMode {
		base, fn = 16, hexadecimal
	}

	if len(t) > 2 && t[0] == '0' {
		switch t[1] {
		case 'x':
			base, fn, t = 16, hexadecimal, t.consume(2)
		case 'b':
			if binary(t[2]) {
				base, fn, t = 2, binary, t.consume(2)
			}
		case 'd':
			base, fn, t = 10, decimal, t.consume(2)
		}
	}

	num, remain := t.consumeWhile(fn)
	if len(remain) > 0 && identifier(remain[0]) {
		return t, errExprParse
	}
	return remain, writeNumber(b, num, base)
}

func writeNumber(b *strings.Builder, num tstring, base int) error {
	v, err := strconv.ParseInt(string(num), base, 64)
	if err != nil {
		return errExprParse
	}
	b.WriteString(strconv.FormatInt(v, 10))
	return nil
}

// Report whether the rewritten source so far ends with an operand, in
// which case a following '%' is the modulo operator.
func operandBefore(s string) bool {
	s = strings.TrimRight(s, " \t")
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return identifier(c) || c == ')'
}

//
// tstring
//

type tstring string

func (t tstring) consume(n int) tstring {
	return t[n:]
}

func (t tstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(t) && fn(t[i]); i++ {
	}
	return i
}

func (t tstring) consumeWhile(fn func(c byte) bool) (consumed, remain tstring) {
	i := t.scanWhile(fn)
	return t[:i], t[i:]
}

func (t tstring) all(fn func(c byte) bool) bool {
	return t.scanWhile(fn) == len(t)
}

func decimal(c byte) bool {
	return (c >= '0' && c <= '9')
}

func hexadecimal(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binary(c byte) bool {
	return c == '0' || c == '1'
}

func identifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
