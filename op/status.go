// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package op

import "fmt"

// Status is returned by every streaming call. NeedsMoreInput and
// NeedsMoreOutput are recoverable: the caller retries after providing more
// input or more output space. ResultFailure is terminal.
type Status int

const (
	// ResultFailure marks a terminal error. The object returning it
	// must not be used anymore.
	ResultFailure Status = iota
	// ResultSuccess is returned by flushes and at the end of a stream.
	ResultSuccess
	// NeedsMoreInput requests more input data.
	NeedsMoreInput
	// NeedsMoreOutput requests more output space.
	NeedsMoreOutput
)

var statusNames = [...]string{
	ResultFailure:   "ResultFailure",
	ResultSuccess:   "ResultSuccess",
	NeedsMoreInput:  "NeedsMoreInput",
	NeedsMoreOutput: "NeedsMoreOutput",
}

// String returns the name of the status.
func (s Status) String() string {
	if 0 <= s && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
