// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import "errors"

// Error marks errors generated by the dvz package.
type Error struct {
	Msg string
}

// Error returns the message with the prefix "dvz: ".
func (e Error) Error() string {
	return "dvz: " + e.Msg
}

func newError(msg string) error {
	return Error{msg}
}

var (
	// ErrMagic indicates that the stream doesn't start with the dvz
	// magic bytes.
	ErrMagic = errors.New("dvz: invalid header magic")

	// ErrWindowSize indicates a window size in the header outside
	// the supported range.
	ErrWindowSize = errors.New("dvz: window size out of range")

	// ErrClosed is returned if a closed Writer or Reader is used.
	ErrClosed = errors.New("dvz: already closed")
)
