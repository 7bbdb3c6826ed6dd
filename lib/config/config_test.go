// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/usedbytes/xor-tools/lib/xor"
)

func TestParse(t *testing.T) {
	var tomlData = `
parallel = true
encoding = "base64"

[keysize]
min = 3
max = 20
candidates = 5
`

	cfg := Default()
	_, err := toml.Decode(tomlData, cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := xor.Options{MinKeysize: 3, MaxKeysize: 20, Candidates: 5, Parallel: true}
	if cfg.Options() != want {
		t.Errorf("Options() == %+v, want %+v", cfg.Options(), want)
	}
	if cfg.Encoding != Base64 {
		t.Errorf("Encoding == %s, want %s", cfg.Encoding, Base64)
	}

	buf := &bytes.Buffer{}
	enc := toml.NewEncoder(buf)
	err = enc.Encode(cfg)
	if err != nil {
		t.Fatal(err)
	}

	again := &Config{}
	_, err = toml.Decode(buf.String(), again)
	if err != nil {
		t.Fatal(err)
	}
	if again.Options() != want || again.Encoding != Base64 {
		t.Errorf("round trip gave %s", again.String())
	}
}

func TestParseBadEncoding(t *testing.T) {
	cfg := Default()
	_, err := toml.Decode(`encoding = "rot13"`, cfg)
	if err == nil {
		t.Errorf("expected error for unknown encoding")
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "xor-tools")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[keysize]\nmax = 16\n"))
	if err != nil {
		t.Fatal(err)
	}

	want := xor.DefaultOptions()
	want.MaxKeysize = 16
	if cfg.Options() != want {
		t.Errorf("Options() == %+v, want %+v", cfg.Options(), want)
	}
	if cfg.Encoding != Raw {
		t.Errorf("Encoding == %s, want %s", cfg.Encoding, Raw)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []string{
		"[keysize]\nmin = 10\nmax = 5\n",
		"[keysize]\ncandidates = 0\n",
		"keysise = 3\n",
		"[keysize\n",
	}

	for _, c := range cases {
		if _, err := Load(writeConfig(t, c)); err == nil {
			t.Errorf("%q: expected error", c)
		}
	}

	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestEncoding(t *testing.T) {
	data := []byte("Cooking MC's like a pound of bacon")

	cases := []struct {
		enc  Encoding
		text string
	}{
		{Raw, string(data)},
		{Hex, "436f6f6b696e67204d43277320\n6c696b65206120706f756e64206f66206261636f6e"},
		{Base64, "Q29va2luZyBNQydzIGxp\r\na2UgYSBwb3VuZCBvZiBiYWNvbg=="},
	}

	for _, c := range cases {
		got, err := c.enc.Decode([]byte(c.text))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: Decode() == %q, want %q", c.enc, got, data)
		}

		text, err := c.enc.Encode(data)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(strings.Fields(c.text), "") != strings.Join(strings.Fields(string(text)), "") && c.enc != Raw {
			t.Errorf("%s: Encode() == %q", c.enc, text)
		}
	}

	if _, err := Hex.Decode([]byte("zz")); err == nil {
		t.Errorf("expected error for bad hex")
	}

	if _, err := ParseEncoding("rot13"); err == nil {
		t.Errorf("expected error for unknown encoding")
	}
}

func TestExport(t *testing.T) {
	dir, err := ioutil.TempDir("", "xor-tools")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	key := []byte("ICE")
	plain := []byte("some plaintext")

	paths, err := Export(dir, "some/dir/secret message.txt", key, plain)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}

	if base := filepath.Base(paths[0]); !strings.HasPrefix(base, "key_secret_message.txt.") {
		t.Errorf("unexpected key file name %s", base)
	}

	got, err := ioutil.ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("plaintext file contains %q", got)
	}

	if Filename("x", "key", key) == Filename("x", "key", plain) {
		t.Errorf("different data gave the same file name")
	}
}
