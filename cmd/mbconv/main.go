// Copyright 2024 Charlie Vieth. All rights reserved.
// Use of this source code is governed by the MIT license.

// Command mbconv converts the case and character encoding of text.
//
// Input is read from the named files, or standard input if none are given,
// and written to standard output. Defaults for the -case, -from, -to and
// -filter flags are read from the MBCONV_CASE, MBCONV_FROM, MBCONV_TO and
// MBCONV_FILTER environment variables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"

	"github.com/charlievieth/mbstring"
	"github.com/charlievieth/mbstring/filter"
	"github.com/charlievieth/mbstring/internal/transcode"
)

func init() {
	log.SetPrefix("mbconv: ")
	log.SetFlags(log.Lshortfile)
	log.SetOutput(os.Stderr)
}

// Config holds the mbconv configuration.
type Config struct {
	Case   string `env:"MBCONV_CASE"`
	From   string `env:"MBCONV_FROM"   envDefault:"UTF-8"`
	To     string `env:"MBCONV_TO"     envDefault:"UTF-8"`
	Filter bool   `env:"MBCONV_FILTER"`
	Detect bool
	Info   bool
	Files  []string
}

// ParseConfig reads the environment then parses args into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Case, "case", cfg.Case, "convert case: upper, lower, title or fold")
	fs.StringVar(&cfg.From, "from", cfg.From, "input `encoding`")
	fs.StringVar(&cfg.To, "to", cfg.To, "output `encoding`")
	fs.BoolVar(&cfg.Filter, "filter", cfg.Filter,
		"normalize input to NFC UTF-8 (invalid UTF-8 is read as Windows-1252)")
	fs.BoolVar(&cfg.Detect, "detect", cfg.Detect, "print the detected encoding of each input and exit")
	fs.BoolVar(&cfg.Info, "info", cfg.Info, "print the mbstring settings and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Files = fs.Args()
	return cfg, nil
}

// A converter converts the text of a single input.
type converter struct {
	cfg  Config
	mode mbstring.Mode
}

func newConverter(cfg Config) (*converter, error) {
	c := &converter{cfg: cfg}
	if cfg.Case != "" {
		mode, err := mbstring.ParseMode(cfg.Case)
		if err != nil {
			return nil, err
		}
		c.mode = mode
	}
	// Fail early on unknown encodings.
	for _, enc := range []string{cfg.From, cfg.To} {
		if _, err := mbstring.ConvertEncoding("", "UTF-8", enc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *converter) convert(b []byte) ([]byte, error) {
	s := string(b)
	// The filter reads invalid UTF-8 as Windows-1252 instead of dropping it.
	if !c.cfg.Filter || !transcode.IsUTF8(c.cfg.From) {
		var err error
		if s, err = mbstring.ConvertEncoding(s, "UTF-8", c.cfg.From); err != nil {
			return nil, err
		}
	}
	if c.cfg.Filter {
		s = filter.String(s)
	}
	if c.cfg.Case != "" {
		s = string(mbstring.ConvertCaseBytes([]byte(s), c.mode))
	}
	out, err := mbstring.ConvertEncoding(s, c.cfg.To, "UTF-8")
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type input struct {
	name string
	data []byte
}

func readInputs(files []string, stdin io.Reader) ([]input, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	inputs := make([]input, 0, len(files))
	for _, name := range files {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{name: name, data: data})
	}
	return inputs, nil
}

func newProgressBar(n int, w io.Writer) *progressbar.ProgressBar {
	if f, ok := w.(*os.File); ok && n > 1 && term.IsTerminal(int(f.Fd())) {
		return progressbar.NewOptions(n,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return progressbar.DefaultSilent(int64(n))
}

func printInfo(w io.Writer) error {
	info := mbstring.GetInfo().Map()
	keys := maps.Keys(info)
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, info[k]); err != nil {
			return err
		}
	}
	return nil
}

// Run converts the inputs named by cfg.Files, or stdin if there are none,
// and writes the results to stdout.
func Run(cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	if cfg.Info {
		return printInfo(stdout)
	}
	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}
	inputs, err := readInputs(cfg.Files, stdin)
	if err != nil {
		return err
	}

	bar := newProgressBar(len(inputs), stderr)
	defer bar.Finish()

	for _, in := range inputs {
		if cfg.Detect {
			enc, ok := mbstring.DetectEncoding(string(in.data))
			if !ok {
				enc = "unknown"
			}
			if _, err := fmt.Fprintf(stdout, "%s: %s\n", in.name, enc); err != nil {
				return err
			}
		} else {
			out, err := conv.convert(in.data)
			if err != nil {
				return fmt.Errorf("%s: %w", in.name, err)
			}
			if _, err := stdout.Write(out); err != nil {
				return err
			}
		}
		bar.Add(1)
	}
	return nil
}

func realMain() int {
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [OPTION]... [FILE]...\n", fs.Name())
		fs.PrintDefaults()
	}
	cfg, err := ParseConfig(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Print(err)
		return 2
	}
	if err := Run(cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func main() {
	if code := realMain(); code != 0 {
		os.Exit(code)
	}
}
