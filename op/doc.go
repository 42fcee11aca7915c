// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package op provides the types shared by all stages of the dvz engine: the
// status codes returned by every streaming call, the command stream
// exchanged between the assembler and the entropy codec, and the context map
// describing the literal and distance model selection.
package op
