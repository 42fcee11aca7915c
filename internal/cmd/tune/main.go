// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tune measures compression ratio and speed of compressor setups
// on the Silesia corpus and selects the fastest setup for each ratio slot.
package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/kr/pretty"
	"github.com/ulikunitz/lz"
)

type preset struct {
	present bool
	s       setup
	result  testing.BenchmarkResult
}

// mbPerSec returns the Megabytes (1 000 000 bytes) per seconds that are
// processed.
func mbPerSec(r testing.BenchmarkResult) float64 {
	if v, ok := r.Extra["MB/s"]; ok {
		return v
	}
	if r.Bytes <= 0 || r.T <= 0 || r.N <= 0 {
		return 0
	}
	return (float64(r.Bytes) * float64(r.N) / 1e6) / r.T.Seconds()
}

func ratio(r testing.BenchmarkResult) float64 {
	if x, ok := r.Extra["c/u"]; ok {
		return x
	}
	return math.NaN()
}

// Returns the slot index the ratio qualifies for. The slots must be sorted
// in descending order. If no slot can be found ok will be false.
func slot(slots []float64, ratio float64) (i int, ok bool) {
	for i, r := range slots {
		if ratio > r {
			return i - 1, i > 0
		}
	}
	return len(slots) - 1, true
}

func findPresets(slots []float64, setups []setup) []preset {
	if len(slots) == 0 {
		log.Fatalf("no slots defined")
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i] > slots[j]
	})
	fmt.Printf("slots %.3f\n", slots)
	rand.Shuffle(len(setups), func(i, j int) {
		setups[i], setups[j] = setups[j], setups[i]
	})

	presets := make([]preset, len(slots))
	for i, s := range setups {
		result := testing.Benchmark(writerBenchmark(s))
		fmt.Printf("%d-%d %s %s\n", i+1, len(setups), s, result)
		si, ok := slot(slots, ratio(result))
		if !ok {
			continue
		}
		p := presets[si]
		if p.present && mbPerSec(result) <= mbPerSec(p.result) {
			fmt.Printf("slot %d - not faster\n", si+1)
			continue
		}
		presets[si] = preset{present: true, s: s, result: result}
		fmt.Printf("slot %d - update\n", si+1)
	}
	return presets
}

func printPresets(presets []preset) {
	fmt.Printf("\n\n### Result ###\n\n")
	for si, p := range presets {
		if si > 0 {
			fmt.Printf("\n")
		}
		if !p.present {
			fmt.Printf("slot %d - not present\n", si+1)
			continue
		}
		fmt.Printf("slot %d - %s\t%.3f c/u\t%.2f MB/s\n",
			si+1, p.s, ratio(p.result), mbPerSec(p.result))
		if p.s.LZ != nil {
			pretty.Println(p.s.LZ())
		}
	}
}

func appendSetups(x []setup) (y []setup) {
	y = x
	for windowSize := 16; windowSize <= 24; windowSize += 2 {
		for _, chunkSize := range []int{1 << 14, 1 << 16, 1 << 18} {
			y = append(y, setup{
				WindowSize: windowSize,
				ChunkSize:  chunkSize,
			})
			for _, hashBits := range []int{14, 18} {
				hb, ws := hashBits, windowSize
				y = append(y, setup{
					WindowSize: windowSize,
					ChunkSize:  chunkSize,
					LZ: func() lz.SeqConfig {
						return &lz.DHSConfig{
							WindowSize: 1 << ws,
							InputLen1:  3,
							HashBits1:  hb,
							InputLen2:  6,
							HashBits2:  hb + 2,
						}
					},
				})
			}
		}
	}
	return y
}

func main() {
	testing.Init()
	slots := []float64{0.34, 0.33, 0.32, 0.31, 0.30, 0.29, 0.28}
	printPresets(findPresets(slots, appendSetups(nil)))
}
