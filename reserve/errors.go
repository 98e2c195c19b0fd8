// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import "fmt"

// ErrorCode identifies a kind of rule violation raised by the core
// (spec.md §7 "Error handling design"). It is rebuilt in the shape the
// teacher's node/chaindata package uses at its NewRuleError call sites;
// that package's own ErrorCode definition wasn't present in the
// retrieval pack.
type ErrorCode uint32

const (
	ErrInvalidParameters ErrorCode = iota
	ErrOverflow
	ErrInvalidTransfer
	ErrInvalidFee
	ErrUnknownCurrency
	ErrConservationFailure
	ErrMissingEvidence
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidParameters:   "ErrInvalidParameters",
	ErrOverflow:            "ErrOverflow",
	ErrInvalidTransfer:     "ErrInvalidTransfer",
	ErrInvalidFee:          "ErrInvalidFee",
	ErrUnknownCurrency:     "ErrUnknownCurrency",
	ErrConservationFailure: "ErrConservationFailure",
	ErrMissingEvidence:     "ErrMissingEvidence",
}

// String returns the human-readable name of c.
func (c ErrorCode) String() string {
	if s, ok := errorCodeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", uint32(c))
}

// RuleError identifies a rule violation along with a human-readable
// description of why.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// NewRuleError creates a RuleError given a set of arguments.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode reports whether err is a RuleError carrying code c.
func IsErrorCode(err error, c ErrorCode) bool {
	re, ok := err.(RuleError)
	return ok && re.ErrorCode == c
}
