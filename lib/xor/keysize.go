// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package xor

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/usedbytes/log"
)

// Number of leading blocks compared for each candidate key size
const numBlocks = 4

var ErrInsufficientInput = errors.New("ciphertext too short for any candidate key size")

type Keysize struct {
	Size int
	// Mean number of differing bits per byte between the leading blocks
	Distance float64
}

func chunk(data []byte, chunkLen int, chunk int) []byte {
	return data[chunkLen*chunk : chunkLen*(chunk+1)]
}

// blockDistance compares every pair of the first numBlocks blocks of size
// keysize, and returns the normalised mean hamming distance.
func blockDistance(ct []byte, keysize int) float64 {
	var total, pairs int
	for i := 0; i < numBlocks; i++ {
		for j := i + 1; j < numBlocks; j++ {
			// Blocks are always the same length
			d, _ := Hamming(chunk(ct, keysize, i), chunk(ct, keysize, j))
			total += d
			pairs++
		}
	}

	return float64(total) / float64(pairs) / float64(keysize)
}

// EstimateKeysizes ranks the key sizes in opts by how similar the leading
// blocks of ct are to each other, most likely first, and returns the top
// opts.Candidates of them.
//
// Sizes which don't fit numBlocks times into ct are skipped. If that leaves
// nothing, ErrInsufficientInput is returned.
func EstimateKeysizes(ct []byte, opts Options) ([]Keysize, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var sizes []Keysize
	for k := opts.MinKeysize; k <= opts.MaxKeysize; k++ {
		if len(ct) < numBlocks*k {
			break
		}

		sizes = append(sizes, Keysize{
			Size:     k,
			Distance: blockDistance(ct, k),
		})
	}

	if len(sizes) == 0 {
		return nil, errors.Wrapf(ErrInsufficientInput, "need at least %d bytes, have %d",
			numBlocks*opts.MinKeysize, len(ct))
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Distance < sizes[j].Distance
	})

	if len(sizes) > opts.Candidates {
		sizes = sizes[:opts.Candidates]
	}

	for _, s := range sizes {
		log.Verbosef("keysize %2d: %.4f\n", s.Size, s.Distance)
	}

	return sizes, nil
}
