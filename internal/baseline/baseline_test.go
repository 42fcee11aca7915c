// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package baseline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecsRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("baseline codecs compress repeated text. "),
		2000)
	for _, c := range Codecs(18) {
		t.Run(c.Name(), func(t *testing.T) {
			z, err := c.Compress(data)
			require.NoError(t, err)
			assert.Less(t, len(z), len(data)/4)
			p, err := c.Decompress(z)
			require.NoError(t, err)
			assert.Equal(t, data, p)
		})
	}
}

func TestCompare(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 10000)
	results, err := Compare(data, Codecs(16))
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "dvz-w16", results[0].Name)
	for _, r := range results {
		assert.Greater(t, r.Ratio, 0.0)
		assert.Less(t, r.Ratio, 0.5, r.Name)
	}
}

func TestLZ4Empty(t *testing.T) {
	z, err := LZ4{}.Compress(nil)
	require.NoError(t, err)
	p, err := LZ4{}.Decompress(z)
	require.NoError(t, err)
	assert.Empty(t, p)
	_, err = LZ4{}.Decompress(nil)
	assert.Error(t, err)
}
