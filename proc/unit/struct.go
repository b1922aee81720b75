package unit

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cwbudde/algo-proc/proc/define"
	"go.uber.org/multierr"
)

// FromStruct builds a unit around ptr, a pointer to a struct implementing
// Updater. Every field carries a tag proc:"<role>[,<name>]" with role
// state, input or output; proc:"-" excludes a field. The channel name
// defaults to the field name. The unit reads and writes the struct fields
// in place.
//
// If *T also implements processor.Allocator or processor.Resizer, the
// unit forwards those hooks.
func FromStruct(ptr any, opts ...Option) (*Unit, error) {
	cfg := ApplyOptions(opts...)
	if len(cfg.bindings) > 0 {
		return nil, fmt.Errorf("%w: struct units take roles from field tags", ErrBindings)
	}

	v := reflect.ValueOf(ptr)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, ptr)
	}
	upd, ok := ptr.(Updater)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNoUpdate, ptr)
	}

	st := v.Elem().Type()
	def := define.Definition{Name: st.Name(), Variant: define.VariantStruct}
	if def.Name == "" {
		def.Name = cfg.Name
	}

	var errs error
	index := map[int]int{}
	for i := range st.NumField() {
		sf := st.Field(i)
		tag, tagged := sf.Tag.Lookup("proc")
		if tag == "-" {
			continue
		}

		role, name, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		p := param(sf.Type)
		p.Name, p.Field, p.Tag = name, sf.Name, role

		if tagged && !sf.IsExported() {
			errs = multierr.Append(errs, define.Diagf(p.Pos, name, define.ErrFieldShape,
				"%s field %s must be exported", role, sf.Name))
			continue
		}

		index[len(def.Params)] = i
		def.Params = append(def.Params, p)
	}

	du, err := define.Parse(def)
	if errs = multierr.Append(errs, err); errs != nil {
		return nil, errs
	}

	u := newUnit(du, cfg, func(f define.Field) reflect.Value {
		return v.Elem().Field(index[f.Index]).Addr()
	})
	u.call = upd.Update
	u.hooks = ptr
	return u, nil
}

// Struct returns the struct a FromStruct unit operates on, or nil.
func (u *Unit) Struct() any {
	if u.def.Variant != define.VariantStruct {
		return nil
	}
	return u.hooks
}
