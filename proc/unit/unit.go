package unit

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/zip"
	"github.com/go-logr/logr"
)

// Updater is the transform of a struct unit. Update reads the latched
// input fields and the state, and sets the output fields.
type Updater interface {
	Update(env processor.Env) error
}

// channel is one input or output with its held field.
type channel struct {
	define.Field
	ptr  reflect.Value
	bind binder
}

// Unit is a runtime-built processing unit.
type Unit struct {
	def     *define.Unit
	name    string
	cfg     Config
	log     logr.Logger
	inputs  []channel
	outputs []channel
	fields  map[string]reflect.Value
	call    func(env processor.Env) error
	hooks   any
}

var _ processor.Processor = (*Unit)(nil)

// newUnit wires the held fields of a validated definition. field returns
// the pointer to the storage of f.
func newUnit(def *define.Unit, cfg Config, field func(f define.Field) reflect.Value) *Unit {
	u := &Unit{
		def:    def,
		name:   def.Name,
		cfg:    cfg,
		log:    cfg.Logger,
		fields: map[string]reflect.Value{},
	}
	if cfg.Name != "" {
		u.name = cfg.Name
	}

	for _, f := range def.State {
		u.hold(f.Name, field(f))
	}
	for _, f := range def.Inputs {
		ptr := field(f)
		u.hold(f.Name, ptr)
		u.inputs = append(u.inputs, channel{Field: f, ptr: ptr, bind: inputBinders[f.Kind](ptr)})
	}
	for _, f := range def.Outputs {
		ptr := field(f)
		u.hold(f.Name, ptr)
		u.outputs = append(u.outputs, channel{Field: f, ptr: ptr, bind: outputBinders[f.Kind](ptr)})
	}

	u.log.V(1).Info("unit built", "unit", u.name, "strategy", cfg.Strategy.String(),
		"inputs", len(u.inputs), "outputs", len(u.outputs))
	return u
}

func (u *Unit) hold(name string, ptr reflect.Value) {
	if _, ok := u.fields[name]; !ok {
		u.fields[name] = ptr
	}
}

// Name returns the unit name.
func (u *Unit) Name() string {
	return u.name
}

// InputSpec returns the ordered input channels.
func (u *Unit) InputSpec() []processor.SignalSpec {
	return u.def.InputSpec()
}

// OutputSpec returns the ordered output channels.
func (u *Unit) OutputSpec() []processor.SignalSpec {
	return u.def.OutputSpec()
}

// CreateOutputBuffers returns one zeroed buffer of size samples per output.
func (u *Unit) CreateOutputBuffers(size int) []signal.Buffer {
	bufs := make([]signal.Buffer, len(u.outputs))
	for i, ch := range u.outputs {
		bufs[i] = signal.NewBuffer(ch.Kind, size)
	}
	return bufs
}

// Allocate runs the WithAllocate hook, then the struct's own Allocate
// method if it has one.
func (u *Unit) Allocate(sampleRate float64, blockSize int) {
	if u.cfg.Allocate != nil {
		u.cfg.Allocate(sampleRate, blockSize)
	}
	if a, ok := u.hooks.(processor.Allocator); ok {
		a.Allocate(sampleRate, blockSize)
	}
}

// ResizeBuffers runs the WithResize hook, then the struct's own
// ResizeBuffers method if it has one.
func (u *Unit) ResizeBuffers(sampleRate float64, blockSize int) {
	if u.cfg.Resize != nil {
		u.cfg.Resize(sampleRate, blockSize)
	}
	if r, ok := u.hooks.(processor.Resizer); ok {
		r.ResizeBuffers(sampleRate, blockSize)
	}
}

// Process runs one block. Processing stops at the first index whose
// transform fails; the error is returned as a *processor.Error.
func (u *Unit) Process(in processor.Inputs, out processor.Outputs) error {
	if err := processor.Validate(u, in, out); err != nil {
		return err
	}

	b := zip.New(in, out)
	latch := make([]func(int), len(u.inputs))
	for i, ch := range u.inputs {
		latch[i] = ch.bind(b, i, u.cfg.Strategy)
	}
	write := make([]func(int), len(u.outputs))
	for i, ch := range u.outputs {
		write[i] = ch.bind(b, i, u.cfg.Strategy)
	}

	it, err := b.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", u.name, err)
	}

	for it.Next() {
		i := it.Index()
		for _, l := range latch {
			l(i)
		}
		if err := u.call(in.Env); err != nil {
			u.log.V(1).Info("transform failed", "unit", u.name, "index", i, "frame", in.Env.Frame, "err", err.Error())
			return processor.Fail(u.name, i, err)
		}
		for _, w := range write {
			w(i)
		}
	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("%s: %w", u.name, err)
	}
	return nil
}

// AddTo inserts the unit into g and connects sources[i] to input i. A nil
// source leaves its input unconnected.
func (u *Unit) AddTo(g processor.Graph, sources ...processor.Source) (processor.NodeID, error) {
	return processor.Wire(g, u, sources...)
}

// Value returns the held value of the state, input or output named name.
func (u *Unit) Value(name string) (any, bool) {
	ptr, ok := u.fields[name]
	if !ok {
		return nil, false
	}
	return ptr.Elem().Interface(), true
}

// Definition returns the validated definition.
func (u *Unit) Definition() *define.Unit {
	return u.def
}

// Strategy returns the processing strategy.
func (u *Unit) Strategy() Strategy {
	return u.cfg.Strategy
}
