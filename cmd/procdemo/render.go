package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-proc/proc/graph"
	"github.com/cwbudde/algo-proc/proc/note"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/units"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/go-logr/logr"
)

//go:embed synth.json
var defaultGraph []byte

const (
	feedNode   = "midi"
	outputNode = "out"
	peakNode   = "peak"
	bitDepth   = 16
	wavPCM     = 1
)

type renderConfig struct {
	Notes      []uint8
	NoteLength float64
	Velocity   uint8
	SampleRate int
	BlockSize  int
	Graph      []byte
	Logger     logr.Logger
}

// event is a MIDI message at an absolute frame.
type event struct {
	frame int64
	msg   signal.Midi
}

// schedule plays the notes back to back. Each note is released at 90% of
// its slot.
func schedule(notes []uint8, slot int64, velocity uint8) []event {
	events := make([]event, 0, 2*len(notes))
	for i, n := range notes {
		start := int64(i) * slot
		events = append(events,
			event{start, signal.NoteOn(0, n, velocity)},
			event{start + slot*9/10, signal.NoteOff(0, n)})
	}
	return events
}

// render plays cfg.Notes through the graph and writes the result to w as a
// mono 16-bit WAV file. It returns the number of frames written.
func render(ctx context.Context, w io.WriteSeeker, cfg renderConfig) (int64, error) {
	if len(cfg.Notes) == 0 {
		return 0, errors.New("no notes to render")
	}
	if cfg.NoteLength <= 0 {
		return 0, fmt.Errorf("invalid note length %v", cfg.NoteLength)
	}

	raw := cfg.Graph
	if raw == nil {
		raw = defaultGraph
	}
	g, err := graph.Load(units.NewRegistry(), raw,
		graph.WithSampleRate(float64(cfg.SampleRate)),
		graph.WithBlockSize(cfg.BlockSize),
		graph.WithLogger(cfg.Logger.WithName("graph")))
	if err != nil {
		return 0, err
	}

	node, ok := g.Node(feedNode)
	if !ok {
		return 0, fmt.Errorf("graph has no %q node", feedNode)
	}
	feed, ok := node.(*graph.Feed)
	if !ok || feed.OutputSpec()[0].Kind != signal.KindMidi {
		return 0, fmt.Errorf("node %q must be a midi feed", feedNode)
	}
	_, hasPeak := g.Node(peakNode)

	slot := int64(math.Round(cfg.NoteLength * float64(cfg.SampleRate)))
	total := slot * int64(len(cfg.Notes))
	events := schedule(cfg.Notes, slot, cfg.Velocity)

	enc := wav.NewEncoder(w, cfg.SampleRate, bitDepth, 1, wavPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: cfg.SampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, cfg.BlockSize),
	}

	next, logged := 0, 0
	for frame := int64(0); frame < total; frame += int64(cfg.BlockSize) {
		if err := ctx.Err(); err != nil {
			return frame, err
		}

		end := frame + int64(cfg.BlockSize)
		for ; next < len(events) && events[next].frame < end; next++ {
			e := events[next]
			if err := feed.Set(int(e.frame-frame), signal.MidiValue(e.msg)); err != nil {
				return frame, err
			}
		}

		if err := g.Process(ctx); err != nil {
			return frame, err
		}

		out, err := g.Output(outputNode, 0)
		if err != nil {
			return frame, err
		}
		samples, err := signal.As[float64](out)
		if err != nil {
			return frame, fmt.Errorf("output %q: %w", outputNode, err)
		}

		n := min(int64(cfg.BlockSize), total-frame)
		buf.Data = buf.Data[:n]
		for i := range buf.Data {
			buf.Data[i] = int(math.Round(max(-1, min(1, samples.Samples()[i])) * 0x7FFF))
		}
		if err := enc.Write(buf); err != nil {
			return frame, fmt.Errorf("write wav: %w", err)
		}

		for ; hasPeak && logged < len(cfg.Notes) && int64(logged+1)*slot <= end; logged++ {
			logNote(cfg, g, logged)
		}
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("close wav: %w", err)
	}
	return total, nil
}

// logNote reports the tracked frequency at the end of note k.
func logNote(cfg renderConfig, g *graph.Graph, k int) {
	buf, err := g.Output(peakNode, 0)
	if err != nil {
		return
	}
	v, ok := buf.Value(buf.Len() - 1)
	if !ok {
		return
	}
	n := cfg.Notes[k]
	cfg.Logger.V(1).Info("note rendered", "note", n, "want", note.Frequency(n), "tracked", v.Float())
}
