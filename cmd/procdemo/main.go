// Command procdemo renders a note sequence through a processing graph to a
// WAV file.
//
// Usage:
//
//	procdemo [flags] [note ...]
//
// The default graph turns a MIDI feed into a gated sine voice:
//
//	midi -> notefreq -> oscillator -> gain -> scale -> peak
//
// A different graph can be loaded with -graph; it must have a midi feed
// node named "midi" and a float node named "out".
//
// Examples:
//
//	procdemo C4 E4 G4 C5
//	procdemo -o arpeggio.wav -len 0.125 -sr 44100 A3 C#4 E4 A4
//	procdemo -graph voice.json -v C4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cwbudde/algo-proc/proc/note"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("procdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "procdemo.wav", "output WAV file")
	length := fs.Float64("len", 0.25, "note length in seconds")
	velocity := fs.Uint("vel", 100, "note velocity (1-127)")
	sampleRate := fs.Int("sr", 48000, "sample rate in Hz")
	blockSize := fs.Int("bs", 256, "block size in samples")
	graphFile := fs.String("graph", "", "JSON graph description (default: built-in voice)")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: procdemo [flags] [note ...]\n\n")
		fmt.Fprintf(stderr, "Renders notes such as C4 or F#3 to a WAV file.\n")
		fmt.Fprintf(stderr, "Without notes it plays a C major arpeggio.\n\n")
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

	names := strings.Join(fs.Args(), " ")
	if names == "" {
		names = "C4 E4 G4 C5"
	}
	notes, err := note.ParseList(names)
	if err != nil {
		log.Error(err, "invalid notes")
		return 2
	}
	if *velocity < 1 || *velocity > 127 || *sampleRate <= 0 || *blockSize <= 0 {
		log.Error(errors.New("out of range"), "invalid flags", "vel", *velocity, "sr", *sampleRate, "bs", *blockSize)
		return 2
	}

	cfg := renderConfig{
		Notes:      notes,
		NoteLength: *length,
		Velocity:   uint8(*velocity),
		SampleRate: *sampleRate,
		BlockSize:  *blockSize,
		Logger:     log,
	}
	if *graphFile != "" {
		cfg.Graph, err = os.ReadFile(*graphFile)
		if err != nil {
			log.Error(err, "read graph")
			return 1
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Error(err, "create output")
		return 1
	}

	start := time.Now()
	frames, err := render(ctx, f, cfg)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error(err, "render failed", "frames", frames)
		return 1
	}

	log.Info("rendered", "file", *output, "notes", len(notes), "frames", frames,
		"seconds", float64(frames)/float64(*sampleRate), "elapsed", time.Since(start).String())
	return 0
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
	return zerologr.New(&zlog).WithName("procdemo")
}
