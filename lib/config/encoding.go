// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"unicode"

	"github.com/pkg/errors"
)

// Encoding is how ciphertext is represented on disk
type Encoding string

const (
	Raw    Encoding = "raw"
	Hex    Encoding = "hex"
	Base64 Encoding = "base64"
)

func (e *Encoding) String() string {
	return string(*e)
}

func ParseEncoding(str string) (Encoding, error) {
	switch e := Encoding(str); e {
	case Raw, Hex, Base64:
		return e, nil
	}
	return "", errors.Errorf("unrecognised encoding: %s", str)
}

func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e *Encoding) MarshalText() ([]byte, error) {
	return []byte(string(*e)), nil
}

func stripSpace(data []byte) []byte {
	return bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)
}

// Decode turns text in this encoding into raw bytes. Whitespace, including
// line breaks, is ignored for hex and base64.
func (e Encoding) Decode(data []byte) ([]byte, error) {
	switch e {
	case Raw, "":
		return data, nil
	case Hex:
		data = stripSpace(data)
		res := make([]byte, hex.DecodedLen(len(data)))
		_, err := hex.Decode(res, data)
		if err != nil {
			return nil, errors.Wrap(err, "Decoding hex")
		}
		return res, nil
	case Base64:
		data = stripSpace(data)
		res := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
		n, err := base64.StdEncoding.Decode(res, data)
		if err != nil {
			return nil, errors.Wrap(err, "Decoding base64")
		}
		return res[:n], nil
	}

	return nil, errors.Errorf("unrecognised encoding: %s", string(e))
}

// Encode is the inverse of Decode
func (e Encoding) Encode(data []byte) ([]byte, error) {
	switch e {
	case Raw, "":
		return data, nil
	case Hex:
		res := make([]byte, hex.EncodedLen(len(data)))
		hex.Encode(res, data)
		return res, nil
	case Base64:
		res := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
		base64.StdEncoding.Encode(res, data)
		return res, nil
	}

	return nil, errors.Errorf("unrecognised encoding: %s", string(e))
}
