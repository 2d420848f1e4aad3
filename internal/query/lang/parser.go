// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lang

import (
	"strconv"
	"strings"
)

// Parse tokenizes and parses a full query string. Tokens are whitespace
// separated; escapes (\:, \*, \,, \\) only apply within a token, never
// across whitespace.
func Parse(query string) (*Query, error) {
	q := &Query{}
	pos := 0
	for _, raw := range strings.Fields(query) {
		start := strings.Index(query[pos:], raw) + pos
		pos = start + len(raw)

		tok, err := parseToken(raw, start)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindSort {
			t := tok
			q.Sort = &t
			continue
		}
		q.Tokens = append(q.Tokens, tok)
	}
	return q, nil
}

func parseToken(raw string, pos int) (Token, error) {
	tok := Token{Position: pos}
	body := raw
	if strings.HasPrefix(body, "-") {
		tok.Negated = true
		body = body[1:]
	}

	head, value, hasColon, err := splitUnescaped(body, pos)
	if err != nil {
		return tok, err
	}

	switch {
	case !hasColon:
		tok.Kind = KindAnonymous
		tok.Head = ""
		v, err := parseValue(head, pos)
		if err != nil {
			return tok, err
		}
		tok.Value = v
		return tok, nil
	case head == "sort":
		tok.Kind = KindSort
		style, dir, _ := strings.Cut(value, ",")
		tok.Head = unescape(style)
		switch dir {
		case "":
			tok.SortDir = SortDefault
		case "asc":
			tok.SortDir = SortAsc
		case "desc":
			tok.SortDir = SortDesc
		default:
			return tok, errAt(pos, "unknown sort direction %q", dir)
		}
		return tok, nil
	case head == "special":
		tok.Kind = KindSpecial
		tok.Head = unescape(value)
		return tok, nil
	default:
		tok.Kind = KindNamed
		tok.Head = unescape(head)
		v, err := parseValue(value, pos)
		if err != nil {
			return tok, err
		}
		tok.Value = v
		return tok, nil
	}
}

// splitUnescaped splits body on the first unescaped colon, returning
// whether one was found. Escapes on both sides of the colon are checked.
func splitUnescaped(body string, pos int) (head, rest string, found bool, err error) {
	colon := -1
	escaped := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if escaped {
			if c != ':' && c != '*' && c != ',' && c != '\\' {
				return "", "", false, errAt(pos, "unknown escape sequence \\%c", c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == ':' && colon < 0 {
			colon = i
		}
	}
	if escaped {
		return "", "", false, errAt(pos, "unclosed escape sequence")
	}
	if colon >= 0 {
		return body[:colon], body[colon+1:], true, nil
	}
	return body, "", false, nil
}

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// parseValue classifies a value string as a date, range, composite, or
// plain scalar, per §4.D's value grammars.
func parseValue(raw string, pos int) (Value, error) {
	if isDate(raw) {
		return Value{Kind: ValueDate, Scalar: unescape(raw)}, nil
	}

	if idx := unescapedIndex(raw, ".."); idx >= 0 {
		low := raw[:idx]
		high := raw[idx+2:]
		v := Value{Kind: ValueRange}
		if low != "" {
			v.Low = unescape(low)
			v.HasLow = true
		}
		if high != "" {
			v.High = unescape(high)
			v.HasHigh = true
		}
		if v.HasLow && v.HasHigh {
			lowNum, lowOK := strconv.ParseFloat(v.Low, 64)
			highNum, highOK := strconv.ParseFloat(v.High, 64)
			if lowOK == nil && highOK == nil && lowNum > highNum {
				return v, errAt(pos, "malformed range: %s > %s", v.Low, v.High)
			}
			if lowOK != nil && highOK != nil && v.Low > v.High {
				return v, errAt(pos, "malformed range: %s > %s", v.Low, v.High)
			}
		}
		return v, nil
	}

	if idx := unescapedIndex(raw, ","); idx >= 0 {
		parts := splitUnescapedAll(raw, ',')
		items := make([]string, len(parts))
		for i, p := range parts {
			items[i] = unescape(p)
		}
		return Value{Kind: ValueComposite, Items: items}, nil
	}

	return Value{Kind: ValueScalar, Scalar: unescape(raw)}, nil
}

func isDate(raw string) bool {
	switch raw {
	case "today", "yesterday":
		return true
	}
	if len(raw) == 4 {
		if _, err := strconv.Atoi(raw); err == nil {
			return true
		}
	}
	if len(raw) == 7 && raw[4] == '-' {
		if _, err := strconv.Atoi(raw[:4]); err == nil {
			if _, err := strconv.Atoi(raw[5:]); err == nil {
				return true
			}
		}
	}
	if len(raw) == 10 && raw[4] == '-' && raw[7] == '-' {
		if _, err := strconv.Atoi(raw[:4]); err == nil {
			if _, err := strconv.Atoi(raw[5:7]); err == nil {
				if _, err := strconv.Atoi(raw[8:]); err == nil {
					return true
				}
			}
		}
	}
	return false
}

// unescapedIndex finds the first occurrence of sep not preceded by an odd
// number of backslashes.
func unescapedIndex(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] != sep {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

func splitUnescapedAll(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			cur.WriteByte(c)
			continue
		}
		if c == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, cur.String())
	return parts
}
