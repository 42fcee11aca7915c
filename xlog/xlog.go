// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package xlog provides a Logger interface and supporting functions to control
debug output of the dvz packages.

The Logger interface is satisfied by the log.Logger type. All functions do
nothing if the Logger is nil, so a component can carry a nil Logger and
switch output on by setting one. No formatting is done for a nil Logger.
*/
package xlog

import (
	"fmt"
	"log"
	"os"
)

// Logger is the interface required for log output. The log.Logger type
// supports this interface.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print outputs the arguments using the logger. If the logger is nil nothing
// will be printed.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If the logger argument
// is nil nothing will be printed.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments and adds a newline. If the logger argument is
// nil nothing will be printed.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}

// prefixLogger prepends a fixed string to every message.
type prefixLogger struct {
	l      Logger
	prefix string
}

func (p prefixLogger) Output(calldepth int, s string) error {
	return p.l.Output(calldepth+1, p.prefix+s)
}

// WithPrefix returns a logger that prepends prefix to every message. It
// returns nil for a nil logger.
func WithPrefix(l Logger, prefix string) Logger {
	if l == nil {
		return nil
	}
	return prefixLogger{l: l, prefix: prefix}
}

// Std is the logger used for warnings. It writes to standard error without
// flags.
var Std Logger = log.New(os.Stderr, "", 0)

// Warn prints a warning using the Std logger.
func Warn(v ...interface{}) {
	Print(Std, v...)
}

// Warnf prints a formatted warning using the Std logger.
func Warnf(format string, v ...interface{}) {
	Printf(Std, format, v...)
}
