// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package freq

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestEnglish(t *testing.T) {
	var total float64
	for i, v := range English {
		if v < 0 {
			t.Errorf("English[%d] = %v, want >= 0", i, v)
		}
		total += v
	}

	if math.Abs(total-1) > 1e-3 {
		t.Errorf("English sums to %v, want ~1", total)
	}

	if English['e'] != English['E'] {
		t.Errorf("case weights differ: %v vs %v", English['e'], English['E'])
	}

	if English['e']*2 != letters[4] {
		t.Errorf("English['e'] = %v, want half of %v", English['e'], letters[4])
	}

	for _, b := range []byte{0, '\n', '.', '0', 0xff} {
		if English[b] != 0 {
			t.Errorf("English[%q] = %v, want 0", b, English[b])
		}
	}
}

func TestObserve(t *testing.T) {
	d, err := Observe([]byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		b    byte
		want float64
	}{
		{'h', 1.0 / 11.0},
		{'l', 3.0 / 11.0},
		{'o', 2.0 / 11.0},
		{' ', 1.0 / 11.0},
		{'z', 0},
	}
	for _, c := range cases {
		if d[c.b] != c.want {
			t.Errorf("d[%q] == %v, want %v", c.b, d[c.b], c.want)
		}
	}

	_, err = Observe(nil)
	if errors.Cause(err) != ErrEmptyBuffer {
		t.Errorf("Observe(nil) err == %v, want %v", err, ErrEmptyBuffer)
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity(English, English); got != 1 {
		t.Errorf("Similarity(English, English) == %v, want 1", got)
	}

	var a, b Distribution
	a[0] = 1
	b[1] = 1
	if got, want := Similarity(a, b), 1-2.0/256; got != want {
		t.Errorf("Similarity(a, b) == %v, want %v", got, want)
	}

	d, _ := Observe([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	if got := Similarity(d, d); got != 1 {
		t.Errorf("Similarity(d, d) == %v, want 1", got)
	}
}

func TestScore(t *testing.T) {
	english := Score([]byte("the quick brown fox jumps over the lazy dog"))
	noise := Score([]byte{0x8f, 0x02, 0xd3, 0x77, 0x10, 0xee, 0x4b, 0x91})
	if english <= noise {
		t.Errorf("english text scored %v, noise scored %v", english, noise)
	}

	if got := Score(nil); !math.IsInf(got, -1) {
		t.Errorf("Score(nil) == %v, want -Inf", got)
	}
}
