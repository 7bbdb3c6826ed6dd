// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package main

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/usedbytes/xor-tools/lib/config"
)

// Longest line accepted by readLines
const maxLine = 1024 * 1024

func openInput(ctx *cli.Context) (io.ReadCloser, string, error) {
	if ctx.Args().Len() > 1 {
		return nil, "", errors.New("only one INPUT_FILE can be given")
	}

	fname := ctx.Args().First()
	if fname == "" || fname == "-" {
		return ioutil.NopCloser(os.Stdin), "stdin", nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, fname, errors.Wrap(err, "Opening input file")
	}

	return f, fname, nil
}

// readInput returns the decoded contents of the input file, or stdin.
func readInput(ctx *cli.Context, enc config.Encoding) ([]byte, string, error) {
	f, fname, err := openInput(ctx)
	if err != nil {
		return nil, fname, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fname, errors.Wrap(err, "Reading input")
	}

	data, err = enc.Decode(data)
	if err != nil {
		return nil, fname, err
	}

	return data, fname, nil
}

// readLines decodes each line of the input separately. Blank lines are kept
// so that line numbers match the file.
func readLines(ctx *cli.Context, enc config.Encoding) ([][]byte, error) {
	f, _, err := openInput(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 4096), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if enc != config.Raw {
			line = bytes.TrimSpace(line)
		}

		decoded, err := enc.Decode(append([]byte(nil), line...))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", len(lines)+1)
		}
		lines = append(lines, decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Reading input")
	}

	return lines, nil
}
