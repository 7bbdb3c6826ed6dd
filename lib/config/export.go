// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sigurn/crc16"
)

var crct = crc16.MakeTable(crc16.CRC16_XMODEM)

func replaceFilenameChars(in string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' {
			return '_'
		}

		if strings.ContainsRune("\t\n\f\r%<>/'\"\\`:{}()$+*?|@!", r) {
			return -1
		}

		return r
	}, in)
}

// Filename builds a name for data recovered from the input called name, which
// is unique to the content of data.
func Filename(name, kind string, data []byte) string {
	parts := []string{kind}
	if len(name) != 0 {
		parts = append(parts, filepath.Base(name))
	}

	crc := crc16.Checksum(data, crct)
	fname := fmt.Sprintf("%s.%04x.bin", strings.Join(parts, "_"), crc)

	return replaceFilenameChars(fname)
}

// Export writes the recovered key and plaintext into dir, and returns the
// paths written.
func Export(dir, name string, key, plaintext []byte) ([]string, error) {
	var written []string
	for _, f := range []struct {
		kind string
		data []byte
	}{
		{"key", key},
		{"plaintext", plaintext},
	} {
		path := filepath.Join(dir, Filename(name, f.kind, f.data))
		err := ioutil.WriteFile(path, f.data, 0644)
		if err != nil {
			return written, errors.Wrapf(err, "Writing %s", f.kind)
		}
		written = append(written, path)
	}

	return written, nil
}
