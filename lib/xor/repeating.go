// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package xor

import (
	"bytes"
	"runtime"

	"github.com/pkg/errors"
	"github.com/usedbytes/log"
	"github.com/usedbytes/xor-tools/lib/freq"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	MinKeysize int
	MaxKeysize int
	// How many of the best estimated key sizes to fully break
	Candidates int
	// Break the columns of each candidate concurrently
	Parallel bool
}

func DefaultOptions() Options {
	return Options{
		MinKeysize: 2,
		MaxKeysize: 40,
		Candidates: 3,
	}
}

func (o Options) Validate() error {
	if o.MinKeysize < 1 {
		return errors.Errorf("minimum key size must be at least 1, not %d", o.MinKeysize)
	}
	if o.MaxKeysize < o.MinKeysize {
		return errors.Errorf("maximum key size %d is less than minimum %d", o.MaxKeysize, o.MinKeysize)
	}
	if o.Candidates < 1 {
		return errors.Errorf("need at least 1 candidate, not %d", o.Candidates)
	}
	return nil
}

type Result struct {
	Key       []byte
	Decrypted []byte
	Score     float64
}

// Transpose splits data into keysize columns. Column j holds the bytes at
// j, j+keysize, j+2*keysize...
func Transpose(data []byte, keysize int) [][]byte {
	cols := make([][]byte, keysize)
	for j := range cols {
		cols[j] = make([]byte, 0, (len(data)+keysize-1-j)/keysize)
	}

	for i, v := range data {
		cols[i%keysize] = append(cols[i%keysize], v)
	}

	return cols
}

// Untranspose is the inverse of Transpose. length is the length of the
// original data.
func Untranspose(cols [][]byte, length int) []byte {
	res := make([]byte, length)
	for j, col := range cols {
		for i, v := range col {
			res[i*len(cols)+j] = v
		}
	}
	return res
}

func breakColumns(cols [][]byte, parallel bool) []SingleResult {
	results := make([]SingleResult, len(cols))

	if !parallel {
		for j, col := range cols {
			results[j] = BreakSingleByte(col)
		}
		return results
	}

	// Each goroutine owns one slot, so the order they finish in doesn't matter
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for j := range cols {
		j := j
		g.Go(func() error {
			results[j] = BreakSingleByte(cols[j])
			return nil
		})
	}
	g.Wait()

	return results
}

// breakKeysize recovers the key and plaintext assuming a key of keysize bytes.
func breakKeysize(ct []byte, keysize int, parallel bool) Result {
	results := breakColumns(Transpose(ct, keysize), parallel)

	key := make([]byte, keysize)
	cols := make([][]byte, keysize)
	for j, r := range results {
		key[j] = r.Key
		cols[j] = r.Decrypted
	}

	decrypted := Untranspose(cols, len(ct))

	return Result{
		Key:       key,
		Decrypted: decrypted,
		Score:     freq.Score(decrypted),
	}
}

// shortestPeriod returns the shortest prefix of key which repeats to
// make up the whole key.
func shortestPeriod(key []byte) []byte {
	for p := 1; p < len(key); p++ {
		if len(key)%p != 0 {
			continue
		}

		if bytes.Equal(key[p:], key[:len(key)-p]) {
			return key[:p]
		}
	}
	return key
}

// selectBest returns the result with the highest score. On a tie the
// earliest one wins. results must not be empty.
func selectBest(results []Result) Result {
	best := results[0]
	for _, res := range results[1:] {
		if res.Score > best.Score {
			best = res
		}
	}
	return best
}

// BreakRepeating recovers the key and plaintext of repeating-key XOR
// ciphertext.
//
// The most likely key sizes are estimated with EstimateKeysizes, each is
// broken column by column, and whichever gives the most English-like
// plaintext is returned. Ties go to the size which was estimated to be more
// likely. A key which is itself a repetition, as found when the estimate
// is a multiple of the real key size, is shortened to its period.
//
// An empty ciphertext gives an empty result with the worst score.
func BreakRepeating(ct []byte, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	if len(ct) == 0 {
		return Result{Decrypted: []byte{}, Score: freq.Worst}, nil
	}

	sizes, err := EstimateKeysizes(ct, opts)
	if err != nil {
		return Result{}, err
	}

	results := make([]Result, len(sizes))
	for i, s := range sizes {
		results[i] = breakKeysize(ct, s.Size, opts.Parallel)
		log.Verbosef("keysize %2d: key %q score %.6f\n", s.Size, results[i].Key, results[i].Score)
	}

	best := selectBest(results)
	best.Key = shortestPeriod(best.Key)

	return best, nil
}
