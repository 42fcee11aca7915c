// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tuning supports measuring the dvz compression on a corpus of
// files.
package tuning

import (
	"bytes"
	"io"
	"io/fs"

	"github.com/ulikunitz/dvz"
)

// File is a corpus file held in memory.
type File struct {
	Name string
	Data []byte
}

// Files loads all files of the corpus.
func Files(corpus fs.FS) (files []File, err error) {
	err = fs.WalkDir(corpus, ".",
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(corpus, path)
			if err != nil {
				return err
			}
			files = append(files, File{Name: path, Data: data})
			return nil
		})
	return files, err
}

// Size returns the total size of the files.
func Size(files []File) int64 {
	n := int64(0)
	for _, f := range files {
		n += int64(len(f.Data))
	}
	return n
}

type countWriter struct {
	n int64
}

func (w *countWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	w.n += int64(n)
	return n, nil
}

// CompressedSize compresses every file separately and returns the total
// size of the compressed streams.
func CompressedSize(files []File, cfg dvz.CompressorConfig) (compressedSize int64,
	err error) {

	for _, f := range files {
		cw := &countWriter{}
		w, err := dvz.NewWriter(cw, cfg)
		if err != nil {
			return compressedSize, err
		}
		_, err = io.Copy(w, bytes.NewReader(f.Data))
		if err == nil {
			err = w.Close()
		}
		compressedSize += cw.n
		if err != nil {
			return compressedSize, err
		}
	}
	return compressedSize, nil
}
