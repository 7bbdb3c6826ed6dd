// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package freq

import (
	"math"

	"github.com/pkg/errors"
)

// Distribution is a probability mass over the 256 byte values.
type Distribution [256]float64

var ErrEmptyBuffer = errors.New("can't compute distribution of empty buffer")

// Worst is the score given to a buffer which can't be scored at all.
var Worst = math.Inf(-1)

// Relative frequencies of a-z in English text
var letters = [26]float64{
	0.0651738, 0.0124248, 0.0217339, 0.0349835, 0.1041442, 0.0197881,
	0.0158610, 0.0492888, 0.0558094, 0.0009033, 0.0050529, 0.0331490,
	0.0202124, 0.0564513, 0.0596302, 0.0137645, 0.0008606, 0.0497563,
	0.0515760, 0.0729357, 0.0225134, 0.0082903, 0.0171272, 0.0013692,
	0.0145984, 0.0007836,
}

const space = 0.1918182

// English is the reference distribution. Case isn't known, so each
// letter's weight is shared evenly between upper and lower case.
var English Distribution = english()

func english() Distribution {
	var d Distribution
	for i, f := range letters {
		d['a'+i] = f / 2
		d['A'+i] = f / 2
	}
	d[' '] = space
	return d
}

func Observe(buf []byte) (Distribution, error) {
	var d Distribution
	if len(buf) == 0 {
		return d, ErrEmptyBuffer
	}

	counts := [256]int{}
	for _, v := range buf {
		counts[v]++
	}

	for i, c := range counts {
		d[i] = float64(c) / float64(len(buf))
	}

	return d, nil
}

// Similarity returns 1 minus the mean absolute difference between a and b.
// Identical distributions give 1.
func Similarity(a, b Distribution) float64 {
	var delta float64
	for i := range a {
		delta += math.Abs(a[i] - b[i])
	}
	return 1 - delta/float64(len(a))
}

// Score rates how much buf looks like English text. Higher is better.
func Score(buf []byte) float64 {
	d, err := Observe(buf)
	if err != nil {
		return Worst
	}
	return Similarity(d, English)
}
