// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dvz compresses and decompresses files in the dvz format.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ogier/pflag"
	"github.com/ulikunitz/dvz"
)

const usageStr = `Usage: dvz [OPTION]... [FILE]...
Compress or uncompress FILEs in the .dvz format (by default, compress FILES
in place).

  -c, --stdout      write to standard output and don't delete input files
  -d, --decompress  force decompression
  -f, --force       force overwrite of output file
  -h, --help        give this help
  -k, --keep        keep (don't delete) input files
  -p, --pipeline    decompress using a separate worker goroutine
  -w, --window N    binary logarithm of the window size (10..24);
                    default is 22
      --compare     print the compression ratios of dvz, zstd, s2 and
                    lz4 for each FILE

With no file, or when FILE is -, read standard input.
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

// options contains the settings from the command line.
type options struct {
	stdout     bool
	decompress bool
	force      bool
	keep       bool
	pipeline   bool
	window     int
}

func main() {
	// setup logger
	cmdName := filepath.Base(os.Args[0])
	log.SetPrefix(fmt.Sprintf("%s: ", cmdName))
	log.SetFlags(0)

	// initialize flags
	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.SetInterspersed(true)
	pflag.Usage = func() { usage(os.Stderr); os.Exit(1) }
	var (
		help       = pflag.BoolP("help", "h", false, "")
		stdout     = pflag.BoolP("stdout", "c", false, "")
		decompress = pflag.BoolP("decompress", "d", false, "")
		force      = pflag.BoolP("force", "f", false, "")
		keep       = pflag.BoolP("keep", "k", false, "")
		pipe       = pflag.BoolP("pipeline", "p", false, "")
		window     = pflag.IntP("window", "w", dvz.DefaultWindowSize, "")
		compare    = pflag.Bool("compare", false, "")
	)
	pflag.Parse()

	if *help {
		usage(os.Stdout)
		os.Exit(0)
	}
	if !(dvz.MinWindowSize <= *window && *window <= dvz.MaxWindowSize) {
		log.Fatalf("window size %d out of range [%d,%d]", *window,
			dvz.MinWindowSize, dvz.MaxWindowSize)
	}
	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	if *compare {
		for _, path := range args {
			if err := compareFile(os.Stdout, path, *window); err != nil {
				log.Fatal(userError(err))
			}
		}
		return
	}

	opts := &options{
		stdout:     *stdout,
		decompress: *decompress,
		force:      *force,
		keep:       *keep,
		pipeline:   *pipe,
		window:     *window,
	}
	for _, path := range args {
		processFile(path, opts)
	}
}
