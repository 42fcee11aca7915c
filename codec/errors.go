// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "errors"

// Error marks an error detected by the codec.
type Error struct {
	Msg string
}

// Error returns the error message with the prefix "codec: ".
func (e Error) Error() string {
	return "codec: " + e.Msg
}

// newError creates a new codec error with the given message.
func newError(msg string) error {
	return Error{msg}
}

var (
	// ErrChecksum indicates that the checksum of a chunk payload
	// doesn't match.
	ErrChecksum = errors.New("codec: chunk checksum mismatch")

	// ErrDistance indicates a copy command reaching outside of the
	// history.
	ErrDistance = errors.New("codec: copy distance out of range")

	// ErrDictionary indicates a dictionary reference outside the
	// preset dictionary.
	ErrDictionary = errors.New("codec: dictionary reference out of range")

	// ErrFinished is returned if commands are encoded after the
	// stream has been flushed.
	ErrFinished = errors.New("codec: stream already finished")
)
