// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"

	"github.com/ulikunitz/dvz/op"
)

// ThreadData is the type of the items flowing from the main side to the
// worker: Data or EOF.
type ThreadData interface {
	threadData()
}

// CommandResult is the type of the items flowing from the worker to the
// main side: Cmd, EOF or ProcessedData.
type CommandResult interface {
	commandResult()
}

// Data carries compressed bytes to the worker.
type Data struct {
	Range Range
}

func (Data) threadData() {}

// String returns a short description.
func (d Data) String() string { return fmt.Sprintf("data(%d)", d.Range.Len()) }

// EOF marks the end of the data or of the results.
type EOF struct{}

func (EOF) threadData()    {}
func (EOF) commandResult() {}

// String returns "eof".
func (EOF) String() string { return "eof" }

// Cmd carries a decoded command to the main side.
type Cmd struct {
	Command op.Command
}

func (Cmd) commandResult() {}

// String returns the command description.
func (c Cmd) String() string { return fmt.Sprintf("cmd(%v)", c.Command) }

// ProcessedData returns a drained range to the main side for reuse.
type ProcessedData struct {
	Range Range
}

func (ProcessedData) commandResult() {}

// String returns a short description.
func (p ProcessedData) String() string {
	return fmt.Sprintf("processed(%d)", len(p.Range.Buffer()))
}
