// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MessageError describes a problem encountered while serializing or
// deserializing the canonical records of this package. It implements
// the error interface.
type MessageError struct {
	Op          string
	Description string
}

func (e *MessageError) Error() string {
	return e.Op + ": " + e.Description
}

// Error returns a *MessageError for the given operation and description.
// Named to match the call sites (Error("ReadVarInt", ...)) rather than the
// usual New-prefixed constructor.
func Error(op, description string) error {
	return &MessageError{Op: op, Description: description}
}
