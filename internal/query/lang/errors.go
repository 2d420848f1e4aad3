// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lang

import "fmt"

// ParseError reports a malformed query token together with its byte offset
// in the original string, per §4.D's "distinct malformed query error with
// position" requirement.
type ParseError struct {
	Reason   string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed query at %d: %s", e.Position, e.Reason)
}

func errAt(pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...), Position: pos}
}
