// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redact performs destructive removal of text inside resolved
// rectangles by rewriting page content streams: glyphs under a
// redaction rectangle are dropped from the show-text operators (their
// bytes are gone from the stream, not merely painted over) and an
// opaque fill is appended per rectangle.
package redact

import (
	"bytes"
	"fmt"
	"strconv"
)

// Object is a content-stream operand.
type Object interface {
	writeTo(buf *bytes.Buffer)
}

// Number is an integer or real operand.
type Number float64

func (n Number) writeTo(buf *bytes.Buffer) {
	buf.WriteString(formatNumber(float64(n)))
}

// Name is a /Name operand.
type Name string

func (n Name) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('/')
	buf.WriteString(string(n))
}

// String is a literal string operand, held decoded.
type String []byte

func (s String) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('(')
	for _, b := range s {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
}

// HexString is a hex string operand, held decoded.
type HexString []byte

func (h HexString) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('<')
	fmt.Fprintf(buf, "%X", []byte(h))
	buf.WriteByte('>')
}

// Array is an array operand.
type Array []Object

func (a Array) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, o := range a {
		if i > 0 {
			buf.WriteByte(' ')
		}
		o.writeTo(buf)
	}
	buf.WriteByte(']')
}

// Dict is a dictionary operand (marked-content property lists).
type Dict map[string]Object

func (d Dict) writeTo(buf *bytes.Buffer) {
	buf.WriteString("<<")
	for k, v := range d {
		buf.WriteByte('/')
		buf.WriteString(k)
		buf.WriteByte(' ')
		v.writeTo(buf)
	}
	buf.WriteString(">>")
}

// Keyword is a bare keyword operand (true, false, null).
type Keyword string

func (k Keyword) writeTo(buf *bytes.Buffer) { buf.WriteString(string(k)) }

// Raw is a verbatim byte range passed through untouched (inline images).
type Raw []byte

func (r Raw) writeTo(buf *bytes.Buffer) { buf.Write([]byte(r)) }

// Op is a single content-stream operation: its operator keyword and the
// operands that preceded it.
type Op struct {
	Operator string
	Operands []Object
}

// opInlineImage marks a captured BI...EI block carried as a single Raw
// operand.
const opInlineImage = "\x00inline-image"

// ParseContent tokenizes a decoded content stream into operations.
// Unknown operators are preserved as-is; inline images are captured
// verbatim so re-serialization is lossless for non-text content.
func ParseContent(data []byte) ([]Op, error) {
	p := &contentParser{data: data}
	var ops []Op
	var operands []Object

	for {
		p.skipWS()
		if p.pos >= len(p.data) {
			break
		}
		obj, keyword, err := p.readToken()
		if err != nil {
			return nil, err
		}
		if !keyword {
			operands = append(operands, obj)
			continue
		}
		kw := string(obj.(Keyword))
		switch kw {
		case "true", "false", "null":
			operands = append(operands, obj)
		case "BI":
			raw, err := p.captureInlineImage()
			if err != nil {
				return nil, err
			}
			ops = append(ops, Op{Operator: opInlineImage, Operands: []Object{Raw(raw)}})
			operands = nil
		default:
			ops = append(ops, Op{Operator: kw, Operands: operands})
			operands = nil
		}
	}
	return ops, nil
}

// SerializeOps writes operations back into content-stream bytes.
func SerializeOps(ops []Op) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		if op.Operator == opInlineImage {
			for _, o := range op.Operands {
				o.writeTo(&buf)
			}
			buf.WriteByte('\n')
			continue
		}
		for _, o := range op.Operands {
			o.writeTo(&buf)
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

type contentParser struct {
	data []byte
	pos  int
}

func (p *contentParser) skipWS() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if c == '%' { // comment runs to end of line
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		return
	}
}

// readToken reads the next object. The second return value reports
// whether the token is a bare keyword (operator candidate).
func (p *contentParser) readToken() (Object, bool, error) {
	c := p.data[p.pos]
	switch {
	case c == '/':
		return p.readName(), false, nil
	case c == '(':
		s, err := p.readLiteralString()
		return s, false, err
	case c == '<':
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
			d, err := p.readDict()
			return d, false, err
		}
		h, err := p.readHexString()
		return h, false, err
	case c == '[':
		a, err := p.readArray()
		return a, false, err
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.readNumber(), false, nil
	default:
		return Keyword(p.readKeyword()), true, nil
	}
}

func (p *contentParser) readName() Name {
	p.pos++ // consume /
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return Name(p.data[start:p.pos])
}

func (p *contentParser) readKeyword() string {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start { // lone delimiter byte, consume it to make progress
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *contentParser) readNumber() Number {
	start := p.pos
	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	f, _ := strconv.ParseFloat(string(p.data[start:p.pos]), 64)
	return Number(f)
}

func (p *contentParser) readLiteralString() (String, error) {
	p.pos++ // consume (
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '\\':
			p.pos++
			if p.pos >= len(p.data) {
				return nil, fmt.Errorf("unterminated string escape")
			}
			e := p.data[p.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\n': // line continuation
			case '\r':
				if p.pos+1 < len(p.data) && p.data[p.pos+1] == '\n' {
					p.pos++
				}
			default:
				if e >= '0' && e <= '7' { // octal, up to 3 digits
					v := int(e - '0')
					for n := 0; n < 2 && p.pos+1 < len(p.data); n++ {
						d := p.data[p.pos+1]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						p.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			p.pos++
		case '(':
			depth++
			out = append(out, c)
			p.pos++
		case ')':
			depth--
			p.pos++
			if depth == 0 {
				return String(out), nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated literal string")
}

func (p *contentParser) readHexString() (HexString, error) {
	p.pos++ // consume <
	var out []byte
	var hi byte
	var haveHi bool
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			if haveHi {
				out = append(out, hi<<4) // odd digit count pads with 0
			}
			return HexString(out), nil
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if haveHi {
			out = append(out, hi<<4|v)
			haveHi = false
		} else {
			hi = v
			haveHi = true
		}
	}
	return nil, fmt.Errorf("unterminated hex string")
}

func (p *contentParser) readArray() (Array, error) {
	p.pos++ // consume [
	var arr Array
	for {
		p.skipWS()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, _, err := p.readToken()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *contentParser) readDict() (Dict, error) {
	p.pos += 2 // consume <<
	d := make(Dict)
	for {
		p.skipWS()
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return d, nil
		}
		if p.pos >= len(p.data) || p.data[p.pos] != '/' {
			return nil, fmt.Errorf("malformed dictionary")
		}
		key := p.readName()
		p.skipWS()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		val, _, err := p.readToken()
		if err != nil {
			return nil, err
		}
		d[string(key)] = val
	}
}

// captureInlineImage grabs everything from the BI keyword through the
// terminating EI, verbatim. The parser position sits just past "BI".
func (p *contentParser) captureInlineImage() ([]byte, error) {
	start := p.pos - 2 // include "BI"
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] == 'E' && p.data[i+1] == 'I' {
			before := i == 0 || isWhitespace(p.data[i-1])
			after := i+2 >= len(p.data) || isWhitespace(p.data[i+2]) || isDelimiter(p.data[i+2])
			if before && after {
				p.pos = i + 2
				return p.data[start:p.pos], nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated inline image")
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}
