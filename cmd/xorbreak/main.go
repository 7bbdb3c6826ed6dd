// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package main

import (
	"encoding/hex"
	"io/ioutil"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/usedbytes/log"
	"github.com/usedbytes/xor-tools/lib/config"
	"github.com/usedbytes/xor-tools/lib/xor"
)

// Set up in app.Before, from the config file and global flags
var cfg *config.Config

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	c := config.Default()
	if ctx.IsSet("config") {
		var err error
		c, err = config.Load(ctx.String("config"))
		if err != nil {
			return nil, err
		}
	}

	if ctx.IsSet("encoding") {
		enc, err := config.ParseEncoding(ctx.String("encoding"))
		if err != nil {
			return nil, err
		}
		c.Encoding = enc
	}

	log.Verboseln(c.String())

	return c, nil
}

// breakOptions applies any per-command overrides on top of the config.
func breakOptions(ctx *cli.Context) (xor.Options, error) {
	opts := cfg.Options()
	if ctx.IsSet("min") {
		opts.MinKeysize = ctx.Int("min")
	}
	if ctx.IsSet("max") {
		opts.MaxKeysize = ctx.Int("max")
	}
	if ctx.IsSet("candidates") {
		opts.Candidates = ctx.Int("candidates")
	}
	if ctx.IsSet("parallel") {
		opts.Parallel = ctx.Bool("parallel")
	}

	return opts, opts.Validate()
}

func writePlaintext(data []byte) error {
	_, err := os.Stdout.Write(data)
	if err == nil && (len(data) == 0 || data[len(data)-1] != '\n') {
		_, err = os.Stdout.Write([]byte("\n"))
	}
	return err
}

func singleAction(ctx *cli.Context) error {
	data, _, err := readInput(ctx, cfg.Encoding)
	if err != nil {
		return err
	}

	res := xor.BreakSingleByte(data)
	log.Printf("Key: 0x%02x (score %.6f)\n", res.Key, res.Score)

	return writePlaintext(res.Decrypted)
}

func detectAction(ctx *cli.Context) error {
	lines, err := readLines(ctx, cfg.Encoding)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if ctx.Bool("progress") {
		bar = pb.StartNew(len(lines))
	}

	det, err := xor.DetectSingleByte(lines, func(line int, res xor.SingleResult) {
		log.Verbosef("line %d: key 0x%02x score %.6f\n", line+1, res.Key, res.Score)
		if bar != nil {
			bar.Increment()
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	log.Printf("Line %d, key: 0x%02x (score %.6f)\n", det.Line+1, det.Key, det.Score)

	return writePlaintext(det.Decrypted)
}

func keysizesAction(ctx *cli.Context) error {
	opts, err := breakOptions(ctx)
	if err != nil {
		return err
	}

	data, _, err := readInput(ctx, cfg.Encoding)
	if err != nil {
		return err
	}

	sizes, err := xor.EstimateKeysizes(data, opts)
	if err != nil {
		return err
	}

	for _, s := range sizes {
		log.Printf("%3d  %.4f\n", s.Size, s.Distance)
	}

	return nil
}

func repeatingAction(ctx *cli.Context) error {
	opts, err := breakOptions(ctx)
	if err != nil {
		return err
	}

	data, fname, err := readInput(ctx, cfg.Encoding)
	if err != nil {
		return err
	}

	res, err := xor.BreakRepeating(data, opts)
	if err != nil {
		return err
	}

	log.Printf("Key: %q (%d bytes, score %.6f)\n", res.Key, len(res.Key), res.Score)
	log.Verboseln(hex.Dump(res.Key))

	if ctx.IsSet("export") {
		paths, err := config.Export(ctx.String("export"), fname, res.Key, res.Decrypted)
		if err != nil {
			return err
		}
		for _, p := range paths {
			log.Println("Wrote", p)
		}
		return nil
	}

	return writePlaintext(res.Decrypted)
}

func parseKey(ctx *cli.Context) ([]byte, error) {
	if ctx.IsSet("key") == ctx.IsSet("key-hex") {
		return nil, errors.New("exactly one of --key or --key-hex is required")
	}

	if ctx.IsSet("key") {
		return []byte(ctx.String("key")), nil
	}

	key, err := hex.DecodeString(ctx.String("key-hex"))
	if err != nil {
		return nil, errors.Wrap(err, "Parsing --key-hex")
	}
	return key, nil
}

func encryptAction(ctx *cli.Context) error {
	key, err := parseKey(ctx)
	if err != nil {
		return err
	}

	// Plaintext is always raw, --encoding only applies to the output
	data, _, err := readInput(ctx, config.Raw)
	if err != nil {
		return err
	}

	var out []byte
	if ctx.Bool("indexed") {
		out, err = xor.Indexed(data, key)
	} else {
		out, err = xor.Repeating(data, key)
	}
	if err != nil {
		return err
	}

	out, err = cfg.Encoding.Encode(out)
	if err != nil {
		return err
	}

	if ctx.IsSet("output") {
		return ioutil.WriteFile(ctx.String("output"), out, 0644)
	}

	_, err = os.Stdout.Write(out)
	return err
}

func hammingAction(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return errors.New("two strings are required")
	}

	d, err := xor.Hamming([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1)))
	if err != nil {
		return err
	}

	log.Println(d)

	return nil
}

func main() {
	keysizeFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "min",
			Usage: "Smallest key size to try",
			Value: xor.DefaultOptions().MinKeysize,
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "Largest key size to try",
			Value: xor.DefaultOptions().MaxKeysize,
		},
		&cli.IntFlag{
			Name:    "candidates",
			Aliases: []string{"n"},
			Usage:   "Number of likely key sizes to keep",
			Value:   xor.DefaultOptions().Candidates,
		},
	}

	app := &cli.App{
		Name:  "xorbreak",
		Usage: "Recover keys and plaintext from XOR encrypted data",
		// Just ignore errors - we'll handle them ourselves in main()
		ExitErrHandler: func(c *cli.Context, e error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Enable more output",
				Required: false,
				Value:    false,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load settings from a TOML file",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "Ciphertext encoding: raw, hex or base64",
			},
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "single",
			Usage:     "Break single-byte XOR",
			ArgsUsage: "[INPUT_FILE]",
			Action:    singleAction,
		},
		{
			Name:      "detect",
			Usage:     "Find the line encrypted with single-byte XOR",
			ArgsUsage: "[INPUT_FILE]",
			Action:    detectAction,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "progress",
					Usage: "Show a progress bar",
				},
			},
		},
		{
			Name:      "keysizes",
			Usage:     "Rank likely repeating-key sizes",
			ArgsUsage: "[INPUT_FILE]",
			Action:    keysizesAction,
			Flags:     keysizeFlags,
		},
		{
			Name:      "repeating",
			Usage:     "Break repeating-key XOR",
			ArgsUsage: "[INPUT_FILE]",
			Action:    repeatingAction,
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "parallel",
					Usage: "Break key columns concurrently",
				},
				&cli.StringFlag{
					Name:  "export",
					Usage: "Write the key and plaintext to files in this directory",
				},
			}, keysizeFlags...),
		},
		{
			Name:      "encrypt",
			Usage:     "Encrypt (or decrypt) with repeating-key XOR",
			ArgsUsage: "[INPUT_FILE]",
			Action:    encryptAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "Key as a string",
				},
				&cli.StringFlag{
					Name:  "key-hex",
					Usage: "Key as hex",
				},
				&cli.BoolFlag{
					Name:  "indexed",
					Usage: "Also XOR each byte with its offset",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file",
				},
			},
		},
		{
			Name:      "hamming",
			Usage:     "Count the differing bits between two strings",
			ArgsUsage: "A B",
			Action:    hammingAction,
		},
	}

	app.Before = func(ctx *cli.Context) error {
		log.SetUseLog(false)

		log.SetVerbose(ctx.Bool("verbose"))
		log.Verboseln("Extra output enabled.")

		var err error
		cfg, err = loadConfig(ctx)
		return err
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Println("ERROR:", err)
		if v, ok := err.(cli.ExitCoder); ok {
			os.Exit(v.ExitCode())
		} else {
			os.Exit(1)
		}
	}
}
