package units

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/zip"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultPeakSize is the analysis frame length used by Register.
	DefaultPeakSize = 1024
	minPeakSize     = 8
)

// ErrPeakSize is returned for frame lengths that are not a power of two
// of at least 8.
var ErrPeakSize = errors.New("units: peak frame size must be a power of two >= 8")

// Peak tracks the dominant frequency of its input. Samples are collected
// into non-overlapping frames of Size samples; after each full frame the
// Hann-windowed magnitude spectrum is searched for its largest bin and the
// estimate refined by quadratic interpolation of the log magnitudes. The
// output holds the latest estimate, 0 until the first frame completes.
type Peak struct {
	size int
	plan *algofft.Plan[complex128]

	window []float64
	frame  []float64
	pos    int
	held   float64
	freq   float64

	windowed []float64
	spectrum []complex128
	re, im   []float64
	mag      []float64
}

var (
	_ processor.Processor = (*Peak)(nil)
	_ processor.Resizer   = (*Peak)(nil)
)

// NewPeak returns a Peak analysing frames of size samples.
func NewPeak(size int) (*Peak, error) {
	if size < minPeakSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrPeakSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("peak: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	p := &Peak{
		size:     size,
		plan:     plan,
		window:   make([]float64, size),
		frame:    make([]float64, size),
		windowed: make([]float64, size),
		spectrum: make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		mag:      make([]float64, bins),
	}

	// Periodic Hann.
	for i := range p.window {
		p.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}

	return p, nil
}

// Size returns the analysis frame length.
func (p *Peak) Size() int { return p.size }

// Frequency returns the latest estimate in Hz.
func (p *Peak) Frequency() float64 { return p.freq }

func (p *Peak) Name() string { return "Peak" }

func (p *Peak) InputSpec() []processor.SignalSpec {
	return []processor.SignalSpec{processor.NewSignalSpec("in", signal.KindFloat)}
}

func (p *Peak) OutputSpec() []processor.SignalSpec {
	return []processor.SignalSpec{processor.NewSignalSpec("freq", signal.KindFloat)}
}

func (p *Peak) CreateOutputBuffers(size int) []signal.Buffer {
	return []signal.Buffer{signal.NewBlock[float64](size)}
}

// ResizeBuffers drops the partial frame and the estimate, which no longer
// match a changed sample rate.
func (p *Peak) ResizeBuffers(float64, int) {
	clear(p.frame)
	p.pos = 0
	p.freq = 0
}

func (p *Peak) Process(in processor.Inputs, out processor.Outputs) error {
	if err := processor.Validate(p, in, out); err != nil {
		return err
	}

	b := zip.New(in, out)
	x := zip.In[float64](b, 0)
	y := zip.Out[float64](b, 0)
	it, err := b.Build()
	if err != nil {
		return fmt.Errorf("peak: %w", err)
	}

	for it.Next() {
		if v, ok := x.Value(); ok {
			p.held = v
		}

		p.frame[p.pos] = p.held
		p.pos++
		if p.pos == p.size {
			p.pos = 0
			if err := p.analyze(in.Env.SampleRate); err != nil {
				return processor.Fail(p.Name(), it.Index(), err)
			}
		}

		y.Set(p.freq)
	}

	return it.Err()
}

func (p *Peak) analyze(sampleRate float64) error {
	vecmath.MulBlock(p.windowed, p.frame, p.window)
	for i, v := range p.windowed {
		p.spectrum[i] = complex(v, 0)
	}

	if err := p.plan.Forward(p.spectrum, p.spectrum); err != nil {
		return fmt.Errorf("peak: forward FFT failed: %w", err)
	}

	for k := range p.re {
		p.re[k] = real(p.spectrum[k])
		p.im[k] = imag(p.spectrum[k])
	}
	vecmath.Magnitude(p.mag, p.re, p.im)

	// DC is skipped.
	best := 1
	for k := 2; k < len(p.mag); k++ {
		if p.mag[k] > p.mag[best] {
			best = k
		}
	}
	if p.mag[best] == 0 {
		p.freq = 0
		return nil
	}

	pos := float64(best)
	if best < len(p.mag)-1 {
		pos += interpolate(p.mag[best-1], p.mag[best], p.mag[best+1])
	}

	p.freq = pos * sampleRate / float64(p.size)
	return nil
}

// interpolate returns the offset in bins of the vertex of the parabola
// through the log magnitudes of three neighbouring bins.
func interpolate(a, b, c float64) float64 {
	const floor = 1e-300
	la := math.Log(max(a, floor))
	lb := math.Log(max(b, floor))
	lc := math.Log(max(c, floor))

	den := la - 2*lb + lc
	if den == 0 {
		return 0
	}
	d := 0.5 * (la - lc) / den
	return max(-0.5, min(0.5, d))
}
