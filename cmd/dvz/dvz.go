// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ulikunitz/dvz"
	"github.com/ulikunitz/dvz/internal/baseline"
	"github.com/ulikunitz/dvz/pipeline"
	"github.com/ulikunitz/dvz/xlog"
)

type packer interface {
	outputPaths(path string) (outputPath, tmpPath string, err error)
	pack(w io.Writer, r io.Reader, opts *options) (n int64, err error)
}

const dvzSuffix = ".dvz"

type dvzPacker struct{}

func (p dvzPacker) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if path == "" {
		err = errors.New("path is empty")
		return
	}
	if strings.HasSuffix(path, dvzSuffix) {
		err = fmt.Errorf("path %s has suffix %s -- ignored",
			path, dvzSuffix)
		return
	}
	out = path + dvzSuffix
	tmp = out + ".pack"
	return
}

func (p dvzPacker) pack(w io.Writer, r io.Reader, opts *options) (n int64,
	err error) {

	bw := bufio.NewWriter(w)
	zw, err := dvz.NewWriter(bw, dvz.CompressorConfig{
		WindowSize: opts.window,
	})
	if err != nil {
		return 0, err
	}
	if n, err = io.Copy(zw, r); err != nil {
		return n, err
	}
	if err = zw.Close(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

type dvzUnpacker struct{}

func (u dvzUnpacker) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if !strings.HasSuffix(path, dvzSuffix) {
		err = fmt.Errorf("path %s has no suffix %s", path, dvzSuffix)
		return
	}
	if filepath.Base(path) == dvzSuffix {
		err = fmt.Errorf("path %s has only suffix %s as filename",
			path, dvzSuffix)
		return
	}
	out = path[:len(path)-len(dvzSuffix)]
	tmp = out + ".unpack"
	return
}

func (u dvzUnpacker) pack(w io.Writer, r io.Reader, opts *options) (n int64,
	err error) {

	br := bufio.NewReader(r)
	if opts.pipeline {
		bw := bufio.NewWriter(w)
		n, err = pipeline.Decompress(bw, br,
			pipeline.Config{Concurrent: true})
		if err != nil {
			return n, err
		}
		return n, bw.Flush()
	}
	zr, err := dvz.NewReader(br, dvz.DecompressorConfig{})
	if err != nil {
		return 0, err
	}
	return io.Copy(w, zr)
}

func signalHandler(tmpPath string) chan<- struct{} {
	quit := make(chan struct{})
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, termsigs...)
	go func() {
		select {
		case <-quit:
			signal.Stop(sigch)
			return
		case <-sigch:
			if tmpPath != "-" {
				os.Remove(tmpPath)
			}
			os.Exit(7)
		}
	}()
	return quit
}

// openInput opens the regular file at path or returns stdin for "-".
func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return os.Open(path)
}

func packFile(pck packer, path, tmpPath string, opts *options) (err error) {
	r, err := openInput(path)
	if err != nil {
		return err
	}
	if r != os.Stdin {
		defer r.Close()
	}

	var w *os.File
	if tmpPath == "-" {
		w = os.Stdout
	} else {
		if opts.force {
			os.Remove(tmpPath)
		}
		w, err = os.OpenFile(tmpPath,
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = cerr
			}
		}()
	}

	_, err = pck.pack(w, r, opts)
	return err
}

// userPathError represents a path error without the operation.
type userPathError struct {
	Path string
	Err  error
}

// Error provides the error string for the path error.
func (e *userPathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// userError removes the operation information from a path error.
func userError(err error) error {
	var pe *os.PathError
	if !errors.As(err, &pe) {
		return err
	}
	return &userPathError{Path: pe.Path, Err: pe.Err}
}

func processFile(path string, opts *options) {
	var pck packer
	if opts.decompress {
		pck = dvzUnpacker{}
	} else {
		pck = dvzPacker{}
	}
	outputPath, tmpPath, err := pck.outputPaths(path)
	if err != nil {
		xlog.Warn(userError(err))
		return
	}
	if opts.stdout {
		outputPath, tmpPath = "-", "-"
	}
	if outputPath != "-" {
		_, err = os.Lstat(outputPath)
		if err == nil && !opts.force {
			xlog.Warnf("file %s exists", outputPath)
			return
		}
	}
	defer func() {
		if tmpPath != "-" {
			os.Remove(tmpPath)
		}
	}()
	quit := signalHandler(tmpPath)
	defer close(quit)

	if err = packFile(pck, path, tmpPath, opts); err != nil {
		xlog.Warn(userError(err))
		return
	}
	if tmpPath != "-" && outputPath != "-" {
		if err = os.Rename(tmpPath, outputPath); err != nil {
			xlog.Warn(userError(err))
			return
		}
	}
	if !opts.keep && !opts.stdout && path != "-" {
		if err = os.Remove(path); err != nil {
			xlog.Warn(userError(err))
		}
	}
}

// compareFile prints the compressed sizes of the file for dvz and the
// baseline codecs.
func compareFile(w io.Writer, path string, window int) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(f)
	if path != "-" {
		f.Close()
	}
	if err != nil {
		return err
	}
	results, err := baseline.Compare(data, baseline.Codecs(window))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%d bytes\t\n", path, len(data))
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t\n", r.Name, r.Size,
			100*r.Ratio)
	}
	return tw.Flush()
}
