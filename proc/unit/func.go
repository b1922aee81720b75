package unit

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/cwbudde/algo-proc/proc/processor"
)

var errorType = reflect.TypeFor[error]()

// FromFunc builds a unit from fn. Each parameter of fn other than a
// processor.Env takes the next State, Input or Output binding from opts.
// State and output parameters must be pointers; inputs are values. fn
// returns nothing or an error.
func FromFunc(name string, fn any, opts ...Option) (*Unit, error) {
	cfg := ApplyOptions(opts...)

	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s is variadic", ErrNotFunc, name)
	}

	def := define.Definition{Name: name, Variant: define.VariantFunc}
	for i := range ft.NumOut() {
		def.Results = append(def.Results, resultName(ft.Out(i)))
	}

	next := 0
	for i := range ft.NumIn() {
		p := param(ft.In(i))
		p.Name = fmt.Sprintf("arg%d", i)
		if p.RType == envType {
			p.Name = "env"
		} else if next < len(cfg.bindings) {
			b := cfg.bindings[next]
			next++
			p.Name, p.Role = b.name, b.role
		}
		def.Params = append(def.Params, p)
	}
	if next < len(cfg.bindings) {
		return nil, fmt.Errorf("%w: %s has %d role parameters, got %d bindings",
			ErrBindings, name, next, len(cfg.bindings))
	}

	du, err := define.Parse(def)
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, ft.NumIn())
	u := newUnit(du, cfg, func(f define.Field) reflect.Value {
		ptr := reflect.New(f.RType)
		if f.Shape == define.ShapePointer {
			args[f.Index] = ptr
		} else {
			args[f.Index] = ptr.Elem()
		}
		return ptr
	})

	env := new(processor.Env)
	if du.EnvIndex >= 0 {
		args[du.EnvIndex] = reflect.ValueOf(env).Elem()
	}
	u.call = func(e processor.Env) error {
		*env = e
		out := fv.Call(args)
		if du.ReturnsError && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}

	return u, nil
}

var envType = reflect.TypeFor[processor.Env]()

// param describes a parameter of type t, with one pointer level removed.
func param(t reflect.Type) define.Param {
	p := define.Param{RType: t, Type: t.String()}
	if t.Kind() == reflect.Pointer {
		p.Shape = define.ShapePointer
		p.RType = t.Elem()
		p.Type = t.Elem().String()
	}
	return p
}

func resultName(t reflect.Type) string {
	if t == errorType {
		return "error"
	}
	return t.String()
}
