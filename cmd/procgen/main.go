// Command procgen generates processing units from annotated Go functions
// and structs.
//
// Usage:
//
//	procgen [flags] [file.go ...]
//
// Without file arguments it processes $GOFILE, so it can be driven by
// go:generate:
//
//	//go:generate go run github.com/cwbudde/algo-proc/cmd/procgen
//
// For every input file x.go the units are written to x_proc.go.
//
// Examples:
//
//	procgen counter.go
//	procgen -strategy persample -o counter_gen.go counter.go
//	procgen -n -dump counter.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cwbudde/algo-proc/proc/gen"
	"github.com/cwbudde/algo-proc/proc/unit"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("procgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "output file (single input only)")
	strategy := fs.String("strategy", unit.Accumulate.String(), "default strategy: accumulate or persample")
	verbose := fs.Bool("v", false, "log every generated unit")
	dump := fs.Bool("dump", false, "dump the parsed unit definitions to stdout")
	dryRun := fs.Bool("n", false, "print the generated source instead of writing it")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: procgen [flags] [file.go ...]\n\n")
		fmt.Fprintf(stderr, "Generates processing units from //proc:unit directives.\n")
		fmt.Fprintf(stderr, "Without arguments, processes $GOFILE.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := newLogger(stderr, *verbose)

	s, err := unit.ParseStrategy(*strategy)
	if err != nil {
		log.Error(err, "invalid flag", "flag", "strategy")
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		if f := os.Getenv("GOFILE"); f != "" {
			files = []string{f}
		}
	}
	if len(files) == 0 {
		fs.Usage()
		return 2
	}
	if *output != "" && len(files) > 1 {
		log.Error(errors.New("-o needs exactly one input file"), "invalid flags", "files", len(files))
		return 2
	}

	opts := []gen.Option{gen.WithStrategy(s), gen.WithLogger(log)}

	status := 0
	for _, file := range files {
		if err := generate(file, *output, *dump, *dryRun, stdout, opts); err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintln(stderr, e)
			}
			log.Error(err, "generation failed", "file", file, "diagnostics", len(multierr.Errors(err)))
			status = 1
		}
	}
	return status
}

func generate(file, output string, dump, dryRun bool, stdout io.Writer, opts []gen.Option) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	res, err := gen.Generate(file, src, opts...)
	if err != nil {
		return err
	}

	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
		cfg.Fdump(stdout, res.Units)
	}

	if dryRun {
		_, err := stdout.Write(res.Source)
		return err
	}

	dst := output
	if dst == "" {
		dst = gen.OutputName(file)
	}
	if err := os.WriteFile(dst, res.Source, 0o644); err != nil {
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) logr.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	zlog := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return zerologr.New(&zlog).WithName("procgen")
}
