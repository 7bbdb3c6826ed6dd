// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package xor

import (
	"github.com/pkg/errors"
	"github.com/usedbytes/xor-tools/lib/freq"
)

var ErrNoInput = errors.New("no input to analyse")

type SingleResult struct {
	Key       byte
	Decrypted []byte
	Score     float64
}

// BreakSingleByte tries every possible key byte and returns the one which
// gives the most English-like plaintext. On a tie the lowest key wins.
//
// An empty ciphertext gives an empty plaintext with the worst score.
func BreakSingleByte(ct []byte) SingleResult {
	best := SingleResult{
		Decrypted: []byte{},
		Score:     freq.Worst,
	}
	if len(ct) == 0 {
		return best
	}

	buf := make([]byte, len(ct))
	for k := 0; k < 256; k++ {
		xorInto(buf, ct, []byte{byte(k)})
		score := freq.Score(buf)
		if score > best.Score {
			best.Key = byte(k)
			best.Score = score
			best.Decrypted = append(best.Decrypted[:0], buf...)
		}
	}

	return best
}

type Detection struct {
	Line int
	SingleResult
}

// DetectSingleByte finds the line which is most likely to be single-byte
// XOR encrypted English. observe, if not nil, is called after each line
// has been broken.
func DetectSingleByte(lines [][]byte, observe func(line int, res SingleResult)) (Detection, error) {
	if len(lines) == 0 {
		return Detection{}, ErrNoInput
	}

	var best Detection
	for i, l := range lines {
		res := BreakSingleByte(l)
		if observe != nil {
			observe(i, res)
		}

		if i == 0 || res.Score > best.Score {
			best = Detection{Line: i, SingleResult: res}
		}
	}

	return best, nil
}
