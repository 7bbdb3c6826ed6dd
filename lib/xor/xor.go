// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package xor

import (
	"math/bits"

	"github.com/pkg/errors"
)

var (
	ErrLengthMismatch = errors.New("mismatched lengths")
	ErrEmptyKey       = errors.New("key must not be empty")
)

// Always called with a non-empty key.
func xorInto(dst, data, key []byte) {
	for i := range data {
		dst[i] = data[i] ^ key[i%len(key)]
	}
}

// Fixed XORs two buffers of equal length.
func Fixed(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(a), len(b))
	}

	res := make([]byte, len(a))
	xorInto(res, a, b)
	return res, nil
}

// Repeating XORs data with key, repeating the key as many times as needed.
// It both encrypts and decrypts.
func Repeating(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	res := make([]byte, len(data))
	xorInto(res, data, key)
	return res, nil
}

// Indexed is like Repeating, but each byte is also XORed with the low byte
// of its offset.
func Indexed(data, key []byte) ([]byte, error) {
	res, err := Repeating(data, key)
	if err != nil {
		return nil, err
	}

	for i := range res {
		res[i] ^= byte(i)
	}
	return res, nil
}

// Hamming returns the number of differing bits between a and b.
func Hamming(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%d vs %d", len(a), len(b))
	}

	var n int
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n, nil
}
